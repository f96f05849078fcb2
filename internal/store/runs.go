package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scalyze/internal/aggregate"
	"scalyze/internal/dialect"
)

// Run is one persisted analysis run.
type Run struct {
	ID           string    `json:"id"`
	Root         string    `json:"root"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	Files        int       `json:"files"`
	Skipped      int       `json:"skipped"`
	Declarations int       `json:"declarations"`
}

// FileTrend is one run's roll-up for a single file, used by the report
// command's history view.
type FileTrend struct {
	RunID        string    `json:"runId"`
	FinishedAt   time.Time `json:"finishedAt"`
	Declarations int       `json:"declarations"`
	MaxPaths     int       `json:"maxPaths"`
	MeanPaths    float64   `json:"meanPaths"`
	Branches     int       `json:"branches"`
}

// SaveRun inserts a run and its declaration rows in one transaction and
// returns the stored run with its generated id.
func (s *Store) SaveRun(root string, started, finished time.Time, files, skipped int, rows []aggregate.DeclRow) (*Run, error) {
	run := &Run{
		ID:           uuid.New().String(),
		Root:         root,
		StartedAt:    started.UTC(),
		FinishedAt:   finished.UTC(),
		Files:        files,
		Skipped:      skipped,
		Declarations: len(rows),
	}

	err := s.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, root, started_at, finished_at, file_count, skipped_count, declaration_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, run.Root, run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339),
			run.Files, run.Skipped, run.Declarations)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO metric_records (
				run_id, file, package, dialect, name, qualified_name, kind,
				start_line, start_col, end_line, local, abstract,
				path_count, nesting_depth, match_count, case_count,
				guard_count, wildcard_count, branch_total, line_count, documented
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare record insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.Exec(
				run.ID, r.File, r.Package, string(r.Dialect), r.Name, r.QualifiedName, r.Kind,
				r.StartLine, r.StartCol, r.EndLine, boolInt(r.Local), boolInt(r.Abstract),
				r.Paths, r.Nesting, r.Matches, r.Cases,
				r.Guards, r.Wildcards, r.Branches, r.Lines, boolInt(r.Documented),
			)
			if err != nil {
				return fmt.Errorf("failed to insert record for %s: %w", r.QualifiedName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("run saved", "run", run.ID, "files", files, "declarations", len(rows))
	return run, nil
}

// LatestRun returns the most recently finished run, or nil when the store
// is empty.
func (s *Store) LatestRun() (*Run, error) {
	row := s.conn.QueryRow(`
		SELECT id, root, started_at, finished_at, file_count, skipped_count, declaration_count
		FROM runs
		ORDER BY finished_at DESC, id DESC
		LIMIT 1
	`)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun returns the run with the given id, or nil when unknown.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.conn.QueryRow(`
		SELECT id, root, started_at, finished_at, file_count, skipped_count, declaration_count
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.conn.Query(`
		SELECT id, root, started_at, finished_at, file_count, skipped_count, declaration_count
		FROM runs
		ORDER BY finished_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

// RunRows loads every declaration row of a run, in source order.
func (s *Store) RunRows(runID string) ([]aggregate.DeclRow, error) {
	rows, err := s.conn.Query(`
		SELECT file, package, dialect, name, qualified_name, kind,
		       start_line, start_col, end_line, local, abstract,
		       path_count, nesting_depth, match_count, case_count,
		       guard_count, wildcard_count, branch_total, line_count, documented
		FROM metric_records
		WHERE run_id = ?
		ORDER BY file, start_line, start_col, qualified_name
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []aggregate.DeclRow
	for rows.Next() {
		var r aggregate.DeclRow
		var d string
		var local, abstract, documented int
		if err := rows.Scan(
			&r.File, &r.Package, &d, &r.Name, &r.QualifiedName, &r.Kind,
			&r.StartLine, &r.StartCol, &r.EndLine, &local, &abstract,
			&r.Paths, &r.Nesting, &r.Matches, &r.Cases,
			&r.Guards, &r.Wildcards, &r.Branches, &r.Lines, &documented,
		); err != nil {
			return nil, err
		}
		r.Dialect = dialect.Dialect(d)
		r.Local = local != 0
		r.Abstract = abstract != 0
		r.Documented = documented != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// FileHistory returns per-run roll-ups for one file, newest first, up to
// limit runs. A non-positive limit returns the full history.
func (s *Store) FileHistory(file string, limit int) ([]FileTrend, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.conn.Query(`
		SELECT m.run_id, r.finished_at, COUNT(*),
		       MAX(m.path_count), AVG(m.path_count), SUM(m.branch_total)
		FROM metric_records m
		JOIN runs r ON r.id = m.run_id
		WHERE m.file = ?
		GROUP BY m.run_id, r.finished_at
		ORDER BY r.finished_at DESC
		LIMIT ?
	`, file, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileTrend
	for rows.Next() {
		var t FileTrend
		var finished string
		if err := rows.Scan(&t.RunID, &finished, &t.Declarations, &t.MaxPaths, &t.MeanPaths, &t.Branches); err != nil {
			return nil, err
		}
		t.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, t)
	}
	return out, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var started, finished string
	if err := sc.Scan(&run.ID, &run.Root, &started, &finished, &run.Files, &run.Skipped, &run.Declarations); err != nil {
		return nil, err
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, started)
	run.FinishedAt, _ = time.Parse(time.RFC3339, finished)
	return &run, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
