// Package store keeps the history of runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid"
	"github.com/samber/lo"
	_ "modernc.org/sqlite"

	"github.com/networkteam/hrmcheck/collector"
)

// Run is one execution of a set of scenarios.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	BaseURL   string
	Browser   string
	Results   []collector.ScenarioResult
}

func (r Run) Passed() int {
	return lo.CountBy(r.Results, collector.ScenarioResult.Passed)
}

func (r Run) Failed() int {
	return len(r.Results) - r.Passed()
}

// ScenarioRecord is the result of one scenario in a past run.
type ScenarioRecord struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Result    collector.ScenarioResult
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	duration INTEGER NOT NULL,
	base_url TEXT NOT NULL,
	browser TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	error TEXT NOT NULL,
	url TEXT NOT NULL,
	duration INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_results_name ON results(name);
`

// Open opens or creates the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing database: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a run with its results. A run without ID gets a new one.
func (s *Store) SaveRun(ctx context.Context, run Run) (uuid.UUID, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.Must(uuid.NewV7())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, duration, base_url, browser) VALUES (?, ?, ?, ?, ?)",
		run.ID.String(), run.StartedAt.UnixNano(), int64(run.Duration), run.BaseURL, run.Browser,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting run: %w", err)
	}

	for i, result := range run.Results {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO results (run_id, position, name, status, error, url, duration) VALUES (?, ?, ?, ?, ?, ?, ?)",
			run.ID.String(), i, result.Name, string(result.Status), result.Error, result.URL, int64(result.Duration),
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inserting result %s: %w", result.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// RecentRuns returns the latest runs with their results, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, duration, base_url, browser FROM runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			id        string
			startedAt int64
			duration  int64
		)
		if err := rows.Scan(&id, &startedAt, &duration, &run.BaseURL, &run.Browser); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.ID = uuid.FromStringOrNil(id)
		run.StartedAt = time.Unix(0, startedAt)
		run.Duration = time.Duration(duration)
		runs = append(runs, run)
	}
	err = errors.Join(rows.Err(), rows.Close())
	if err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}

	// Results are loaded after the runs cursor is closed, the store uses a single connection
	for i := range runs {
		runs[i].Results, err = s.results(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) results(ctx context.Context, runID uuid.UUID) ([]collector.ScenarioResult, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, status, error, url, duration FROM results WHERE run_id = ? ORDER BY position", runID.String())
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []collector.ScenarioResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// ScenarioHistory returns the latest results of one scenario, newest first.
func (s *Store) ScenarioHistory(ctx context.Context, name string, limit int) ([]ScenarioRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at, res.name, res.status, res.error, res.url, res.duration
		FROM results res JOIN runs r ON r.id = res.run_id
		WHERE res.name = ?
		ORDER BY r.started_at DESC
		LIMIT ?`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scenario history: %w", err)
	}
	defer rows.Close()

	var records []ScenarioRecord
	for rows.Next() {
		var (
			id        string
			startedAt int64
		)
		result, err := scanResult(rows, &id, &startedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, ScenarioRecord{
			RunID:     uuid.FromStringOrNil(id),
			StartedAt: time.Unix(0, startedAt),
			Result:    result,
		})
	}
	return records, rows.Err()
}

// scanResult scans the result columns after the given leading columns.
func scanResult(rows *sql.Rows, leading ...any) (collector.ScenarioResult, error) {
	var (
		result   collector.ScenarioResult
		status   string
		duration int64
	)
	dest := append(leading, &result.Name, &status, &result.Error, &result.URL, &duration)
	if err := rows.Scan(dest...); err != nil {
		return result, fmt.Errorf("scanning result: %w", err)
	}
	result.Status = collector.Status(status)
	result.Duration = time.Duration(duration)
	return result, nil
}
