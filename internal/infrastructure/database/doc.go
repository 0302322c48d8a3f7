// Package database owns the SQLite handle behind the run-history store.
//
// It opens the database with WAL mode and a busy timeout, applies the
// embedded schema migrations, and exposes a health check for the
// startup checks. Repositories (internal/runlog) operate directly on
// the embedded *sql.DB.
//
// Migrations are forward-only: each is a single
// YYYYMMDD_HHMMSS_description.up.sql file, embedded into the binary by
// the migrations package and applied in version order inside its own
// transaction. There is no rollback path; a schema mistake is fixed by
// shipping the next migration.
package database
