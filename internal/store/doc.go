// Package store persists documents, their table candidates, assembled
// criterion tables, and classified rows in SQLite.
//
// Each document moves from pending to completed, empty, review, or failed.
// Reprocessing a document replaces its candidates, result, and rows. The
// schema is versioned; a mismatch is reported rather than migrated, and the
// fix is `critable db clear` or deleting the database file.
//
// Writes that hit SQLITE_BUSY are retried with backoff so the CLI and a
// running watcher can share one database.
package store
