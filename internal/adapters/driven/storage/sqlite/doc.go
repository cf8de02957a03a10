// Package sqlite provides the persistent message index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Any domain.Schema can be indexed:
//
//   - every field value is a row in field_values, keyed by document and field
//   - tokenized text fields are also written to an FTS5 table for full-text search
//   - fast fields get a partial index so filtering on them avoids the table
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// The document schema's fingerprint is recorded when the index is created.
// Opening the index with a different schema fails with domain.ErrSchemaMismatch.
//
// # Data Location
//
// By default, the index is stored at ~/.sercha-discord/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. Writes are serialised and reads use
// SQLite in WAL mode.
package sqlite
