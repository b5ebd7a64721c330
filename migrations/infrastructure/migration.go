package infrastructure

import (
	"database/sql"
	"fmt"
	"log"
)

const (
	BreezSchemaMigration   = "breez.schema"
	BreezSyncRunsMigration = "breez.sync_runs"
)

type MigrationsSchema struct{}

func (m *MigrationsSchema) UpMigration(db *sql.DB) error {
	query :=
		`
		CREATE SCHEMA IF NOT EXISTS migrations;
		`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations schema: %w", err)
	}
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS migrations.migrations (
            id SERIAL PRIMARY KEY,
            time TIMESTAMP NOT NULL,
            name VARCHAR(255) UNIQUE NOT NULL
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

type BreezSchema struct{}

func (m *BreezSchema) UpMigration(db *sql.DB) error {
	return applyOnce(db, BreezSchemaMigration, `CREATE SCHEMA IF NOT EXISTS breez;`)
}

// SyncRunsTable - журнал запусков синхронизации.
type SyncRunsTable struct{}

func (m *SyncRunsTable) UpMigration(db *sql.DB) error {
	query :=
		`
		CREATE TABLE IF NOT EXISTS breez.sync_runs (
			id UUID PRIMARY KEY,
			operation VARCHAR(32) NOT NULL,
			page INT NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			created INT[] NOT NULL DEFAULT '{}',
			updated INT NOT NULL DEFAULT 0,
			skipped INT NOT NULL DEFAULT 0,
			failed INT NOT NULL DEFAULT 0,
			error TEXT
		);

		CREATE INDEX IF NOT EXISTS sync_runs_started_at_idx
			ON breez.sync_runs(started_at DESC);
		`
	return applyOnce(db, BreezSyncRunsMigration, query)
}

func applyOnce(db *sql.DB, name, query string) error {
	var migrationExists bool

	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", name).Scan(&migrationExists)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}

	if migrationExists {
		log.Printf("Migration '%s' already completed. Skipping.", name)
		return nil
	}

	if _, err = db.Exec(query); err != nil {
		return fmt.Errorf("failed to apply %s: %w", name, err)
	}

	_, err = db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", name)
	if err != nil {
		return fmt.Errorf("failed to mark '%s' migration as complete: %w", name, err)
	}

	log.Printf("Migration '%s' completed successfully.", name)
	return nil
}
