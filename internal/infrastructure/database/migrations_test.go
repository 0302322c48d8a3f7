package database

import (
	"context"
	"embed"
	"testing"
)

//go:embed testdata/*.sql
var fixtureFS embed.FS

// useFixtureMigrations points the package at the testdata schema for
// the duration of one test.
func useFixtureMigrations(t *testing.T) {
	t.Helper()

	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})

	MigrationsFS = fixtureFS
	MigrationsDir = "testdata"
}

func TestMigrate(t *testing.T) {
	useFixtureMigrations(t)

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// The fixture table exists.
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='test_samples'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("table test_samples not created: %v", err)
	}

	// Its version is recorded exactly once, and a second run is a no-op.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	var recorded int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", "20260601_090000",
	).Scan(&recorded)
	if err != nil {
		t.Fatalf("counting schema_migrations: %v", err)
	}
	if recorded != 1 {
		t.Errorf("schema_migrations rows for fixture version = %d, want 1", recorded)
	}
}

func TestMigrateEmptyFS(t *testing.T) {
	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})

	MigrationsFS = embed.FS{}
	MigrationsDir = "."

	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() with no embedded migrations error = %v", err)
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	useFixtureMigrations(t)

	db := openTestDB(t)
	ctx := context.Background()

	// Occupy the fixture table name so its CREATE TABLE fails.
	if _, err := db.ExecContext(ctx, "CREATE TABLE test_samples (clash INTEGER)"); err != nil {
		t.Fatalf("creating clashing table: %v", err)
	}

	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() succeeded against a clashing schema, want error")
	}

	// The failed migration must not be recorded as applied.
	var recorded int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&recorded)
	if err != nil {
		t.Fatalf("counting schema_migrations: %v", err)
	}
	if recorded != 0 {
		t.Errorf("schema_migrations rows after failed migration = %d, want 0", recorded)
	}
}

func TestSplitMigrationName(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantOk      bool
	}{
		{"20260601_090000_test_samples.up.sql", "20260601_090000", "test_samples", true},
		{"20260815_120000_initial_schema.up.sql", "20260815_120000", "initial_schema", true},
		{"20260815_120000_add_notes_to_runs.up.sql", "20260815_120000", "add_notes_to_runs", true},
		{"notes.txt", "", "", false},
		{"20260815_120000_initial_schema.sql", "", "", false},
		{"orphan.up.sql", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, ok := splitMigrationName(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if version != tt.wantVersion || name != tt.wantName {
				t.Errorf("got (%q, %q), want (%q, %q)", version, name, tt.wantVersion, tt.wantName)
			}
		})
	}
}
