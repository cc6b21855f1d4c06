// Package store persists projects, users and settings in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by updates that match no row.
var ErrNotFound = errors.New("store: not found")

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time, or SQLite answers SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) stamp() int64 {
	return s.now().UnixNano()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uid TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT '',
			last_login INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE TABLE IF NOT EXISTS credentials (
			uid TEXT PRIMARY KEY REFERENCES users(uid),
			email TEXT NOT NULL UNIQUE,
			salt BLOB NOT NULL,
			hash BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			data BLOB,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id, updated_at)`,
		`CREATE TABLE IF NOT EXISTS settings (
			uid TEXT PRIMARY KEY,
			data_json TEXT NOT NULL DEFAULT '{}',
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			uid TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %.40s: %w", m, err)
		}
	}
	return nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n)
}
