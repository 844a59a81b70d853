package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path of the shared database
func DBPath() string {
	return filepath.Join("data", "port-congestion.db")
}

// Open opens the sqlite database at dbPath, creating its directory if needed,
// and makes sure the user tables exist.
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	if err := EnsureUserSchema(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")
	return db, nil
}

// EnsureUserSchema ensures that the user-specific tables (saved watchlists) exist.
func EnsureUserSchema(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database to ensure schema: %w", err)
	}
	defer db.Close()

	return ensureUserSchema(db)
}

func ensureUserSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS watchlists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			vessel_class_id INTEGER NOT NULL,
			ports TEXT NOT NULL DEFAULT '',
			areas TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_watchlists_name ON watchlists(name);
	`)
	if err != nil {
		return fmt.Errorf("creating watchlists table: %w", err)
	}

	return nil
}
