package store

import (
	"database/sql"
	"fmt"
)

// MigrationVersion is the current schema version.
const MigrationVersion = 1

// InitializeDatabase creates the snapshot schema, applying any migration the
// database has not seen yet.
func InitializeDatabase(db *sql.DB) error {
	migrationsTable := `
	CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version INTEGER NOT NULL UNIQUE,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(migrationsTable); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&current); err != nil {
		return fmt.Errorf("checking migration version: %w", err)
	}

	if current < 1 {
		if err := applyMigration1(db); err != nil {
			return fmt.Errorf("applying migration 1: %w", err)
		}
	}
	return nil
}

func applyMigration1(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	snapshots := `
	CREATE TABLE snapshots (
		name TEXT PRIMARY KEY,
		grid_columns INTEGER NOT NULL,
		grid_rows INTEGER NOT NULL,
		item_count INTEGER NOT NULL,
		document TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`
	if _, err := tx.Exec(snapshots); err != nil {
		return fmt.Errorf("creating snapshots table: %w", err)
	}
	if _, err := tx.Exec("CREATE INDEX idx_snapshots_updated_at ON snapshots(updated_at DESC);"); err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (?)", 1); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}
