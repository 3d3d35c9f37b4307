package audit

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// RunSummary is a persisted record of one build pass.
type RunSummary struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Source     string // path of the KML input
	Features   int
	Warnings   int
}

// Store persists run history in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating if necessary) the run-history database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			source TEXT NOT NULL,
			features INTEGER NOT NULL,
			warnings INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS run_warnings (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			kind TEXT NOT NULL,
			subject TEXT NOT NULL,
			detail TEXT,
			item_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS run_warnings_run ON run_warnings (run_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// RecordRun inserts a run summary and its warnings in one transaction,
// returning the new run id.
func (s *Store) RecordRun(run RunSummary, warnings []Warning) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	res, err := tx.Exec(
		"INSERT INTO runs (started_at, finished_at, source, features, warnings) VALUES (?, ?, ?, ?, ?)",
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Source,
		run.Features,
		len(warnings),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO run_warnings (run_id, kind, subject, detail, item_count) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare warning insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range warnings {
		if _, err := stmt.Exec(runID, string(w.Kind), w.Subject, w.Detail, w.Count); err != nil {
			return 0, fmt.Errorf("failed to insert warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return runID, nil
}

// RecentRuns returns the most recent run summaries, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		"SELECT id, started_at, finished_at, source, features, warnings FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.Source, &run.Features, &run.Warnings); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// RunWarnings returns the warnings recorded for a run, in insertion order.
func (s *Store) RunWarnings(runID int64) ([]Warning, error) {
	rows, err := s.db.Query(
		"SELECT kind, subject, detail, item_count FROM run_warnings WHERE run_id = ? ORDER BY rowid",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query warnings: %w", err)
	}
	defer rows.Close()

	var warnings []Warning
	for rows.Next() {
		var w Warning
		var kind string
		if err := rows.Scan(&kind, &w.Subject, &w.Detail, &w.Count); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		w.Kind = Kind(kind)
		warnings = append(warnings, w)
	}

	return warnings, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
