// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SheetSource: Retrieves the catalogue CSV
//   - SnapshotStore: Single-slot persistence of the last good catalogue
//   - OverlayStore: Locally edited records
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PhotoLibrary: Local photos per bird. Without it only sheet photos are shown.
//   - SchedulerStore: Scheduler state. Without it periodic refresh is disabled.
//   - Metrics: Refresh instrumentation.
//   - Watcher: Change notifications from a source.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
