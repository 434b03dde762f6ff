// Package history persists batch runs and their per-pair results in a small
// SQLite database under the avmux state directory.
//
// The schema is created on first open and carries a version row; opening a
// database written by a different schema version fails with ErrSchemaMismatch
// rather than attempting an in-place migration.
package history
