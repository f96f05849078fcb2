// Package store persists analysis runs and their per-declaration metric
// rows in a SQLite database, by default .scalyze/metrics.db in the analyzed
// repo. Each run is identified by a UUID; rows are wide records combining
// every metric of one declaration.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"scalyze/internal/slogutil"
)

// Store is a database handle with transaction helpers.
type Store struct {
	conn *sql.DB
	log  *slog.Logger
	path string
}

// Open opens or creates the metrics database at path. The parent directory
// is created if missing, and the schema is initialized on first open.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slogutil.NewDiscardLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dbExists := fileExists(path)

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",    // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL",  // Balance between safety and performance
		"PRAGMA foreign_keys=ON",     // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",   // Wait up to 5 seconds on lock
		"PRAGMA temp_store=MEMORY",   // Use memory for temp tables
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{
		conn: conn,
		log:  log,
		path: path,
	}

	if !dbExists {
		log.Info("creating metrics database", "path", path)
	}
	if err := s.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// WithTx executes fn within a transaction, rolling back when fn returns an
// error or panics and committing otherwise.
func (s *Store) WithTx(fn func(*sql.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("failed to rollback transaction", "error", err, "rollback_error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
