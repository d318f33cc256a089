package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/skintrack/internal/storage/postgres"
	"github.com/julianstephens/skintrack/internal/storage/sqldb"
	"github.com/julianstephens/skintrack/internal/storage/sqlite"
)

// IsPostgres reports whether target looks like a PostgreSQL URL or key=value DSN
// rather than a SQLite file path.
func IsPostgres(target string) bool {
	t := strings.TrimSpace(target)
	if strings.HasPrefix(t, "postgres://") || strings.HasPrefix(t, "postgresql://") {
		return true
	}
	return strings.Contains(t, "=") && (strings.Contains(t, "host=") || strings.Contains(t, "dbname="))
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// New returns an unopened Provider for target. Callers run Init or Load before use.
func New(target string, opts sqldb.Options) (Provider, error) {
	if IsPostgres(target) {
		return postgres.New(target, opts), nil
	}
	path, err := ExpandPath(target)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path, opts), nil
}
