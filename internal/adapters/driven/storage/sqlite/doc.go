// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple interfaces
// through a single database connection:
//
//   - HostDocument: the building model designs are imported into
//   - ImportHistoryStore: outcomes of past imports
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The first migration seeds the default catalogue (wall type, door and window
// symbols, sketch plane and view).
//
// # Data Location
//
// By default, the database is stored at ~/.blueprint/data/model.db
//
// # Transactions
//
// A host transaction is one SQLite transaction. Unlike some hosts, prototype
// activation is written inside it and is undone by a rollback.
package sqlite
