// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple interfaces
// through a single database connection:
//
//   - DocumentStore: Document and chunk persistence, including chunk embeddings
//   - VectorIndex: A local vectors table used when VECTOR_DB_BACKEND=sqlite
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Chunks carry no foreign key to documents; the ingestion service orders
// deletes explicitly.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-ingest/documents.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
