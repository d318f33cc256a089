package migration

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/skintrack/migrations"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_more.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"README.md":    {Data: []byte("ignored")},
		"nested/x.sql": {Data: []byte("ignored")},
	})

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	applied, err := runner.ApplyMigrations(ctx)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}

	version, err = runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	// Second run is a no-op
	applied, err = runner.ApplyMigrations(ctx)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected 0 migrations on second run, got %d", applied)
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name:  "no underscore",
			files: fstest.MapFS{"001.sql": {Data: []byte("")}},
			want:  "invalid migration filename",
		},
		{
			name:  "not a number",
			files: fstest.MapFS{"abc_init.sql": {Data: []byte("")}},
			want:  "invalid version number",
		},
		{
			name:  "version zero",
			files: fstest.MapFS{"000_init.sql": {Data: []byte("")}},
			want:  "must be at least 1",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"001_a.sql": {Data: []byte("")},
				"01_b.sql":  {Data: []byte("")},
			},
			want: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, tt.files)
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ReadMigrationFiles() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestValidateVersionRejectsNewerSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	runner := NewRunner(db, fstest.MapFS{"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")}})
	if err := runner.EnsureSchemaVersionTable(ctx); err != nil {
		t.Fatalf("EnsureSchemaVersionTable failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (7)"); err != nil {
		t.Fatalf("failed to seed version: %v", err)
	}

	err := runner.ValidateVersion(ctx)
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() error = %v, want newer-schema error", err)
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_version").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_version").WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	runner := NewRunner(db, fstest.MapFS{"001_broken.sql": {Data: []byte("CREATE TABLE broken (")}})
	applied, err := runner.ApplyMigrations(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to apply migration 1") {
		t.Errorf("ApplyMigrations() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("expected 0 applied, got %d", applied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEmbeddedMigrationsApply(t *testing.T) {
	db := setupTestDB(t)

	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}

	if _, err := NewRunner(db, sub).ApplyMigrations(context.Background()); err != nil {
		t.Fatalf("embedded sqlite migrations failed: %v", err)
	}

	for _, table := range []string{"products", "generation_counters", "generations", "entries", "photos"} {
		var count int
		if err := db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table); err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s missing after migration", table)
		}
	}
}
