// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records treaty conversions in a SQLite database so batch
// runs can skip inputs that have not changed since they were last
// converted, and so the history can be listed or exported.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/treaty-xml/pkg/types"
)

// Entry is the ledger row for one source file.
type Entry struct {
	SourcePath    string                 `json:"source_path" yaml:"source_path"`
	OutputPath    string                 `json:"output_path" yaml:"output_path"`
	TreatyID      int                    `json:"treaty_id" yaml:"treaty_id"`
	Title         string                 `json:"title" yaml:"title"`
	Provisions    int                    `json:"provisions" yaml:"provisions"`
	SourceModTime time.Time              `json:"source_mod_time" yaml:"source_mod_time"`
	Status        types.ConversionStatus `json:"status" yaml:"status"`
	Error         string                 `json:"error,omitempty" yaml:"error,omitempty"`
	ConvertedAt   time.Time              `json:"converted_at" yaml:"converted_at"`
	RunID         string                 `json:"run_id" yaml:"run_id"`
}

// Run summarizes one batch invocation.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Converted  int       `json:"converted" yaml:"converted"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Failed     int       `json:"failed" yaml:"failed"`
}

// Ledger manages the conversion database.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger database at cfg.Path, creating its
// directory and schema if needed.
func Open(cfg types.LedgerConfig) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, errors.New("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Batch workers record concurrently; one connection serializes writes.
	db.SetMaxOpenConns(1)

	l := &Ledger{db: db, path: cfg.Path}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			source_path TEXT PRIMARY KEY,
			output_path TEXT NOT NULL,
			treaty_id INTEGER NOT NULL DEFAULT 0,
			title TEXT,
			provisions INTEGER NOT NULL DEFAULT 0,
			source_mod_time TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			converted_at TEXT NOT NULL,
			run_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			converted INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun starts a new run and returns its ID.
func (l *Ledger) BeginRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		id, formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counts of a run.
func (l *Ledger) FinishRun(ctx context.Context, id string, converted, skipped, failed int) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, converted = ?, skipped = ?, failed = ? WHERE id = ?`,
		formatTime(time.Now()), converted, skipped, failed, id,
	)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// Lookup returns the entry for sourcePath, or false when it has never been
// recorded.
func (l *Ledger) Lookup(ctx context.Context, sourcePath string) (Entry, bool, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT source_path, output_path, treaty_id, title, provisions, source_mod_time, status, error, converted_at, run_id
		 FROM conversions WHERE source_path = ?`, sourcePath)

	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("looking up %s: %w", sourcePath, err)
	}
	return e, true, nil
}

// Unchanged reports whether sourcePath was last converted successfully from
// a file with the given modification time.
func (l *Ledger) Unchanged(ctx context.Context, sourcePath string, modTime time.Time) (bool, error) {
	e, ok, err := l.Lookup(ctx, sourcePath)
	if err != nil || !ok {
		return false, err
	}
	return e.Status == types.ConversionDone && e.SourceModTime.Equal(modTime.UTC()), nil
}

// Record upserts e. A skipped conversion only refreshes the run ID so the
// last successful result stays on record.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.ConvertedAt.IsZero() {
		e.ConvertedAt = time.Now()
	}

	if e.Status == types.ConversionSkipped {
		_, err := l.db.ExecContext(ctx,
			`UPDATE conversions SET run_id = ? WHERE source_path = ?`, e.RunID, e.SourcePath)
		if err != nil {
			return fmt.Errorf("recording skip of %s: %w", e.SourcePath, err)
		}
		return nil
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO conversions (source_path, output_path, treaty_id, title, provisions, source_mod_time, status, error, converted_at, run_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET
			output_path=excluded.output_path, treaty_id=excluded.treaty_id, title=excluded.title, provisions=excluded.provisions,
			source_mod_time=excluded.source_mod_time, status=excluded.status, error=excluded.error,
			converted_at=excluded.converted_at, run_id=excluded.run_id`,
		e.SourcePath, e.OutputPath, e.TreatyID, e.Title, e.Provisions, formatTime(e.SourceModTime),
		string(e.Status), e.Error, formatTime(e.ConvertedAt), e.RunID,
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.SourcePath, err)
	}
	return nil
}

// List returns all entries ordered by source path. A non-empty status
// filters the result.
func (l *Ledger) List(ctx context.Context, status types.ConversionStatus) ([]Entry, error) {
	query := `SELECT source_path, output_path, treaty_id, title, provisions, source_mod_time, status, error, converted_at, run_id
		FROM conversions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY source_path`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Runs returns the recorded runs, most recent first.
func (l *Ledger) Runs(ctx context.Context) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, converted, skipped, failed FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		if finished.Valid {
			r.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var (
		e                         Entry
		title, errText            sql.NullString
		status, modTime, convTime string
	)
	if err := scan(&e.SourcePath, &e.OutputPath, &e.TreatyID, &title, &e.Provisions, &modTime, &status, &errText, &convTime, &e.RunID); err != nil {
		return Entry{}, err
	}
	e.Title = title.String
	e.Error = errText.String
	e.Status = types.ConversionStatus(status)
	e.SourceModTime = parseTime(modTime)
	e.ConvertedAt = parseTime(convTime)
	return e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
