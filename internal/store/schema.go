package store

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

// initializeSchema creates missing tables and records the schema version.
// Safe to call on every open.
func (s *Store) initializeSchema() error {
	return s.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}

		version, err := schemaVersion(tx)
		if err != nil {
			return err
		}
		if version == currentSchemaVersion {
			return nil
		}

		if err := createRunsTable(tx); err != nil {
			return err
		}
		if err := createMetricRecordsTable(tx); err != nil {
			return err
		}

		// Migrations go here as the schema grows past version 1.

		return setSchemaVersion(tx, currentSchemaVersion)
	})
}

func schemaVersion(tx *sql.Tx) (int, error) {
	var version int
	err := tx.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

func createRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			file_count INTEGER NOT NULL,
			skipped_count INTEGER NOT NULL,
			declaration_count INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = tx.Exec("CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at)")
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

func createMetricRecordsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS metric_records (
			run_id TEXT NOT NULL,
			file TEXT NOT NULL,
			package TEXT NOT NULL,
			dialect TEXT NOT NULL,
			name TEXT NOT NULL,
			qualified_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			start_line INTEGER NOT NULL,
			start_col INTEGER NOT NULL,
			end_line INTEGER NOT NULL,
			local INTEGER NOT NULL,
			abstract INTEGER NOT NULL,
			path_count INTEGER NOT NULL,
			nesting_depth INTEGER NOT NULL,
			match_count INTEGER NOT NULL,
			case_count INTEGER NOT NULL,
			guard_count INTEGER NOT NULL,
			wildcard_count INTEGER NOT NULL,
			branch_total INTEGER NOT NULL,
			line_count INTEGER NOT NULL,
			documented INTEGER NOT NULL,

			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create metric_records table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_metric_records_run_id ON metric_records(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_metric_records_file ON metric_records(file)",
		"CREATE INDEX IF NOT EXISTS idx_metric_records_qualified_name ON metric_records(qualified_name)",
	}
	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
