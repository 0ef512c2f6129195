// Package domain defines the core business entities for palomar.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Bird: One catalogue record, keyed by its identifier
//   - Agenda: Birds grouped by a calendar date column
//   - RefreshResult: The outcome of reconciling with the sheet
//   - AppSettings: Source and storage configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
