package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// pragmas are applied to every new connection pool, in order.
var pragmas = []struct {
	stmt string
	desc string
}{
	{"PRAGMA journal_mode=WAL", "enable WAL mode"},
	{"PRAGMA busy_timeout=5000", "set busy timeout"},
	{"PRAGMA synchronous=NORMAL", "set synchronous mode"},
}

// Store wraps the SQLite connection and implements phrase.Gateway.
type Store struct {
	*sql.DB
	*Queries
	path string
}

// NewStore opens the phrases database at dbPath, creating its directory and
// file on first use. Migrate must be called before the store is used.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}

	// One connection keeps the pragmas and serializes the daily writer with readers.
	sqlDB.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, p.stmt); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", p.desc, err)
		}
	}

	return &Store{DB: sqlDB, Queries: New(sqlDB), path: dbPath}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}
