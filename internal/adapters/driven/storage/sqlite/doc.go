// Package sqlite provides a unified SQLite-based implementation of the
// document stores used by the collector.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - RawDecisionStore: raw mirror of source decisions
//   - DecisionStore: normalized decisions
//   - SyncStateStore: sync progress persistence
//
// Decisions are stored as JSON documents next to the columns they are
// queried by.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.juricasync/data/decisions.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
