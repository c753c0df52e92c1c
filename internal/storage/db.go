// ABOUTME: SQLite database connection and lifecycle management for the focus store.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/harperreed/focus/internal/achievements"
	"github.com/harperreed/focus/internal/models"
)

// Store wraps the SQLite database holding session history and everything
// derived from it. One Store is one database file; independent files give
// fully isolated instances.
type Store struct {
	db     *sql.DB
	dbPath string
	defs   []models.AchievementDefinition
}

// Open opens or creates the focus database at the given path and brings its
// schema fully up to date. Safe to call on every process start.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection keeps WAL mode simple; there is one local writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: dbPath}

	if err := s.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	defs, err := achievements.Catalog()
	if err != nil {
		_ = db.Close()
		return nil, &SchemaError{Op: "load catalog", Err: err}
	}
	s.defs = defs

	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// OpenDefault opens the database at the default XDG data path.
func OpenDefault() (*Store, error) {
	return Open(DefaultDBPath())
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "focus")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "focus.db")
}

// Definitions returns the seeded achievement catalog in sort order.
func (s *Store) Definitions() []models.AchievementDefinition {
	return s.defs
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for durable single-writer operation.
func (s *Store) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}
