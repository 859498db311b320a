package db

import (
	"context"
	"database/sql"
	"fmt"
)

// All contains the ordered list of cache schema migrations.
var All = []string{
	`CREATE TABLE images (
		id         INTEGER PRIMARY KEY,
		source     TEXT UNIQUE NOT NULL,
		mime       TEXT NOT NULL,
		data       BLOB NOT NULL,
		size       INTEGER NOT NULL,
		fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`ALTER TABLE images ADD COLUMN hits INTEGER NOT NULL DEFAULT 0`,
	`CREATE INDEX images_fetched_at ON images (fetched_at)`,
}

// Migrate brings the schema of db up to date, one transaction per pending
// migration.
func Migrate(ctx context.Context, db *sql.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for i := current; i < len(All); i++ {
		if err := apply(ctx, db, i); err != nil {
			return err
		}
	}
	return nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("creating schema_version table: %w", err)
	}

	var version int
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return 0, fmt.Errorf("initializing schema version: %w", err)
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func apply(ctx context.Context, db *sql.DB, i int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", i+1, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, All[i]); err != nil {
		return fmt.Errorf("migration %d failed: %w", i+1, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE schema_version SET version = ?`, i+1); err != nil {
		return fmt.Errorf("updating schema version to %d: %w", i+1, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", i+1, err)
	}
	return nil
}
