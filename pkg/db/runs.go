package db

import (
	"fmt"
	"time"
)

// Run summarizes one discovery invocation.
type Run struct {
	RunID      int64
	CreatedAt  time.Time
	BaseURL    string
	Outcome    string
	Source     string
	PagesFound int
	PagesAdded int
	Attempts   []RunAttempt
}

// RunAttempt is one fetch made during a run. Error is empty on success.
type RunAttempt struct {
	Source string
	URL    string
	Index  bool
	Found  int
	Error  string
}

// InsertRun stores a run with its attempts and returns the run_id.
func (db *DB) InsertRun(run Run) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO discovery_runs (base_url, outcome, source, pages_found, pages_added)
		VALUES (?, ?, ?, ?, ?)
	`, run.BaseURL, run.Outcome, run.Source, run.PagesFound, run.PagesAdded)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, a := range run.Attempts {
		_, err := tx.Exec(`
			INSERT INTO discovery_attempts (run_id, source, url, is_index, found, error)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, a.Source, a.URL, a.Index, a.Found, nullString(a.Error))
		if err != nil {
			return 0, fmt.Errorf("failed to insert attempt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs first, without attempts.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, created_at, base_url, outcome, COALESCE(source, ''), pages_found, pages_added
		FROM discovery_runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.BaseURL, &r.Outcome, &r.Source, &r.PagesFound, &r.PagesAdded); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunAttempts returns the attempts of a run in the order they were made.
func (db *DB) GetRunAttempts(runID int64) ([]RunAttempt, error) {
	rows, err := db.Query(`
		SELECT source, url, is_index, found, COALESCE(error, '')
		FROM discovery_attempts
		WHERE run_id = ?
		ORDER BY attempt_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []RunAttempt
	for rows.Next() {
		var a RunAttempt
		if err := rows.Scan(&a.Source, &a.URL, &a.Index, &a.Found, &a.Error); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
