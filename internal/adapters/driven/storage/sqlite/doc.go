// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements several store interfaces through a single database connection:
//
//   - SnapshotStore: the last successfully fetched sheet
//   - OverlayStore: locally edited bird records
//   - SchedulerStore: background task state and run history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.palomar/data/palomar.db
//
// # Thread Safety
//
// All operations are thread-safe. Overlay upserts run in a transaction so the
// read-merge-write of one record is atomic.
package sqlite
