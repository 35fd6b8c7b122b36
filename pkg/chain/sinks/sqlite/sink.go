// Package sqlite provides a chain.Sink that persists metric events to a
// pure-Go SQLite database (no cgo), one row per event, for a snapshot
// query surface that outlives the process. It is additive to the
// NDJSON event stream, not a replacement for it.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tevinokafor/chainsim/pkg/chain"
)

// Sink persists every emitted event as a row tagged with a run ID.
type Sink struct {
	db    *sql.DB
	runID string
	stmt  *sql.Stmt
}

// Open creates (or reuses) a SQLite database at path and prepares it to
// record events for runID.
func Open(path, runID string) (*Sink, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping snapshot db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

		CREATE TABLE IF NOT EXISTS run_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT    NOT NULL,
			period    INTEGER NOT NULL,
			node      TEXT    NOT NULL,
			event     TEXT    NOT NULL,
			quantity  INTEGER NOT NULL,
			sku       TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id, period);

		INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO run_events (run_id, period, node, event, quantity, sku) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare run_events insert: %w", err)
	}

	return &Sink{db: db, runID: runID, stmt: stmt}, nil
}

// Emit implements chain.Sink.
func (s *Sink) Emit(e chain.Event) error {
	_, err := s.stmt.Exec(s.runID, e.Period, string(e.Node), string(e.Event), e.Quantity, string(e.SKU))
	if err != nil {
		return fmt.Errorf("insert run_events row: %w", err)
	}
	return nil
}

// Close implements chain.Sink, releasing the prepared statement and
// database handle.
func (s *Sink) Close() error {
	if err := s.stmt.Close(); err != nil {
		return fmt.Errorf("close run_events statement: %w", err)
	}
	return s.db.Close()
}

var _ chain.Sink = (*Sink)(nil)
