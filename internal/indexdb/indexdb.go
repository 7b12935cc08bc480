// Package indexdb stores a queryable copy of the summary index in sqlite.
package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"alma.local/iogen/recorder"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		seed INTEGER NOT NULL,
		samples INTEGER NOT NULL,
		extended BOOLEAN NOT NULL DEFAULT FALSE,
		exported INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS operations (
		run_id TEXT NOT NULL REFERENCES runs(id),
		file TEXT NOT NULL,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		signature TEXT NOT NULL,
		return_type TEXT NOT NULL,
		param_types TEXT NOT NULL,       -- comma separated
		samples INTEGER NOT NULL,
		seconds REAL NOT NULL,
		entropy REAL NOT NULL DEFAULT 0,
		kl REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, file)
	);
	CREATE INDEX IF NOT EXISTS idx_operations_owner ON operations(owner);
`

// Run is one generator invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Seed       int64
	Samples    int
	Extended   bool
	Exported   int
}

// Operation is an exported batch with its timing and diversity score.
type Operation struct {
	recorder.IndexEntry
	Seconds float64
	Entropy float64
	KL      float64
}

// DB wraps the sqlite handle.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// SaveRun inserts or updates a run row.
func (d *DB) SaveRun(ctx context.Context, r Run) error {
	var finished any
	if !r.FinishedAt.IsZero() {
		finished = r.FinishedAt.UTC()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, seed, samples, extended, exported)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			exported = excluded.exported
	`, r.ID, r.StartedAt.UTC(), finished, r.Seed, r.Samples, r.Extended, r.Exported)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	return nil
}

// InsertOperations stores exported operations of one run in a transaction.
func (d *DB) InsertOperations(ctx context.Context, ops []Operation) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO operations
			(run_id, file, owner, name, signature, return_type, param_types, samples, seconds, entropy, kl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare operation statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		_, err := stmt.ExecContext(ctx, op.RunID, op.File, op.Owner, op.Name, op.Signature,
			op.ReturnType, strings.Join(op.ParamTypes, ","), op.Samples, op.Seconds, op.Entropy, op.KL)
		if err != nil {
			return fmt.Errorf("insert %s: %w", op.Signature, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run.
func (d *DB) LatestRun(ctx context.Context) (Run, error) {
	var (
		r        Run
		finished sql.NullTime
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, seed, samples, extended, exported
		FROM runs ORDER BY started_at DESC LIMIT 1
	`).Scan(&r.ID, &r.StartedAt, &finished, &r.Seed, &r.Samples, &r.Extended, &r.Exported)
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	return r, nil
}

// OwnerCount is the number of exported operations of one owner type.
type OwnerCount struct {
	Owner string
	Count int
}

// Owners counts exported operations per owner for a run.
func (d *DB) Owners(ctx context.Context, runID string) ([]OwnerCount, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT owner, COUNT(*) AS cnt FROM operations
		WHERE run_id = ? GROUP BY owner ORDER BY cnt DESC, owner
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query owners: %w", err)
	}
	defer rows.Close()
	var out []OwnerCount
	for rows.Next() {
		var oc OwnerCount
		if err := rows.Scan(&oc.Owner, &oc.Count); err != nil {
			return nil, err
		}
		out = append(out, oc)
	}
	return out, rows.Err()
}

// Slowest returns up to limit operations of a run ordered by wall-clock time.
func (d *DB) Slowest(ctx context.Context, runID string, limit int) ([]Operation, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT run_id, file, owner, name, signature, return_type, param_types, samples, seconds, entropy, kl
		FROM operations WHERE run_id = ? ORDER BY seconds DESC, file LIMIT ?
	`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()
	var out []Operation
	for rows.Next() {
		var (
			op     Operation
			params string
		)
		err := rows.Scan(&op.RunID, &op.File, &op.Owner, &op.Name, &op.Signature, &op.ReturnType,
			&params, &op.Samples, &op.Seconds, &op.Entropy, &op.KL)
		if err != nil {
			return nil, err
		}
		if params != "" {
			op.ParamTypes = strings.Split(params, ",")
		}
		out = append(out, op)
	}
	return out, rows.Err()
}
