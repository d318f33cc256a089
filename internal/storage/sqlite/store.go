package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/julianstephens/skintrack/internal/constants"
	"github.com/julianstephens/skintrack/internal/migration"
	"github.com/julianstephens/skintrack/internal/storage/sqldb"
	"github.com/julianstephens/skintrack/migrations"
)

// ErrNotInitialized is returned by Load when the database file or schema is missing.
var ErrNotInitialized = errors.New("storage not initialized, run '" + constants.AppName + " init' first")

type Store struct {
	*sqldb.Store

	path string
	opts sqldb.Options
	db   *sqlx.DB
}

func NewStore(path string, opts sqldb.Options) *Store {
	opts.Classify = Classify
	return &Store{
		path: path,
		opts: opts,
	}
}

// dsn enables WAL, a busy timeout and immediate write transactions so that
// concurrent writers queue on the database lock instead of failing on upgrade.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate", path)
}

func (s *Store) open() error {
	db, err := sqlx.Open("sqlite", dsn(s.path))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	s.Store = sqldb.New(db, s.opts)
	return nil
}

func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}

	if err := s.open(); err != nil {
		return err
	}

	exists, err := s.tableExists(ctx, "schema_version")
	if err != nil {
		return fmt.Errorf("failed to inspect database: %w", err)
	}
	if !exists {
		return ErrNotInitialized
	}

	return s.validateSchemaVersion(ctx)
}

// Migrate applies pending migrations to an already loaded store.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		s.Store = nil
		return err
	}
	return nil
}

// tableExists reports whether tableName exists, compared case-insensitively
// like SQLite itself does.
func (s *Store) tableExists(ctx context.Context, tableName string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *Store) validateSchemaVersion(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// Classify maps SQLite result codes onto the shared store's error classes.
func Classify(err error) sqldb.ErrorClass {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return sqldb.ClassOther
	}

	code := se.Code()
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return sqldb.ClassUniqueViolation
	case sqlite3.SQLITE_CONSTRAINT:
		// Connections without extended result codes only report the primary code.
		if strings.Contains(se.Error(), "UNIQUE constraint failed") {
			return sqldb.ClassUniqueViolation
		}
	}
	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return sqldb.ClassRetryable
	}
	return sqldb.ClassOther
}
