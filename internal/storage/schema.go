package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		// Local key-value storage: one row per key, value is opaque text.
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			types TEXT NOT NULL,
			region TEXT NOT NULL,
			image TEXT NOT NULL,
			hp INTEGER DEFAULT 0,
			attack INTEGER DEFAULT 0,
			defense INTEGER DEFAULT 0,
			speed INTEGER DEFAULT 0,
			total INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_position ON entries(position);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
