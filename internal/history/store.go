// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps an optional SQLite ledger of conversion runs and of
// every converter invocation. It is informational: skip decisions are made
// by the JSON conversion cache alone.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

const defaultLimit = 50

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run summarizes one convert-presentations invocation.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	InputDir   string    `json:"input_directory" yaml:"input_directory"`
	OutputDir  string    `json:"output_directory" yaml:"output_directory"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Converted  int       `json:"converted" yaml:"converted"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Excluded   int       `json:"excluded" yaml:"excluded"`
	Failed     int       `json:"failed" yaml:"failed"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Filter narrows Conversions. Zero values match everything.
type Filter struct {
	RunID  string
	Path   string
	Status types.ConversionStatus
	Limit  int
}

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			converted INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			excluded INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS conversions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			path TEXT NOT NULL,
			digest TEXT NOT NULL,
			status TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			error TEXT,
			at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_path ON conversions(path)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run ON conversions(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a run row with its start time.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_dir, output_dir, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.InputDir, run.OutputDir, formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun stores the final counts of a run started with BeginRun.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, converted = ?, skipped = ?, excluded = ?, failed = ?, error = ?
		 WHERE id = ?`,
		formatTime(run.FinishedAt), run.Converted, run.Skipped, run.Excluded, run.Failed,
		nullString(run.Error), run.ID,
	)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", run.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating run %s: no such run", run.ID)
	}
	return nil
}

// Record appends one converter outcome.
func (s *Store) Record(ctx context.Context, rec types.ConversionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (run_id, path, digest, status, duration_ms, error, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Path, rec.Digest, string(rec.Status),
		rec.Duration.Milliseconds(), nullString(rec.Error), formatTime(rec.At),
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", rec.Path, err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_dir, output_dir, started_at, finished_at,
		        converted, skipped, excluded, failed, error
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started           string
			finished, errText sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.InputDir, &r.OutputDir, &started, &finished,
			&r.Converted, &r.Skipped, &r.Excluded, &r.Failed, &errText); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished.String)
		r.Error = errText.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Conversions returns converter outcomes matching f, newest first.
func (s *Store) Conversions(ctx context.Context, f Filter) ([]types.ConversionRecord, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT run_id, path, digest, status, duration_ms, error, at FROM conversions WHERE 1=1`
	var args []any
	if f.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, f.RunID)
	}
	if f.Path != "" {
		query += ` AND path = ?`
		args = append(args, f.Path)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var out []types.ConversionRecord
	for rows.Next() {
		var (
			rec     types.ConversionRecord
			status  string
			ms      int64
			errText sql.NullString
			at      string
		)
		if err := rows.Scan(&rec.RunID, &rec.Path, &rec.Digest, &status, &ms, &errText, &at); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		rec.Status = types.ConversionStatus(status)
		rec.Duration = time.Duration(ms) * time.Millisecond
		rec.Error = errText.String
		rec.At = parseTime(at)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
