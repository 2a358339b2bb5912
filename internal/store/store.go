// Package store is the persistence collaborator: it loads the card
// collection and writes every scheduling mutation through to SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding the card collection.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas
// and creates the schema when missing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the collection tables. The nested subject → set → card
// structure is kept relational; history is an append-only log.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS subjects (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sets (
			id         TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			position   INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id               TEXT PRIMARY KEY,
			set_id           TEXT NOT NULL REFERENCES sets(id) ON DELETE CASCADE,
			position         INTEGER NOT NULL,
			name             TEXT NOT NULL DEFAULT '',
			question         TEXT NOT NULL,
			answer           TEXT NOT NULL DEFAULT '',
			tags             TEXT NOT NULL DEFAULT '[]',
			status           TEXT,
			next_review_at   INTEGER,
			consecutive_good INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id   TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
			timestamp INTEGER NOT NULL,
			quality   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sets_subject ON sets(subject_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_set ON cards(set_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_history_card ON history(card_id, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LERNBOX_DB environment variable
// 2. $XDG_DATA_HOME/lernbox/lernbox.db
// 3. ~/.local/share/lernbox/lernbox.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LERNBOX_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lernbox", "lernbox.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
