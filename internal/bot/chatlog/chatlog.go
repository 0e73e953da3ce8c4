// Package chatlog provides the SQLite-backed audit log of command
// dispatches. Every dispatched chat line is recorded with its trace ID,
// invoking user, command, and result so an operator can reconstruct what the
// bot did and why.
package chatlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS dispatch_log (
	id            TEXT PRIMARY KEY,
	ts            TIMESTAMP NOT NULL,
	trace_id      TEXT NOT NULL,
	user_name     TEXT NOT NULL,
	command       TEXT NOT NULL,
	message       TEXT NOT NULL,
	result        TEXT NOT NULL,
	error_message TEXT
);
CREATE INDEX IF NOT EXISTS idx_dispatch_log_ts ON dispatch_log(ts);
`

// Dispatch results recorded in the log.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultDenied  = "denied"
	ResultUnknown = "unknown"
)

// Entry is one recorded dispatch.
type Entry struct {
	ID      string
	Ts      time.Time
	TraceID string
	User    string
	Command string
	Message string
	Result  string
	Err     string
}

// Store wraps the database connection.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the dispatch log database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite is single-writer by design. Keep a single shared connection so
	// concurrent callers are serialized by database/sql instead of fighting
	// for write locks across multiple underlying connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record writes one dispatch entry. Ts defaults to now when zero.
func (s *Store) Record(ctx context.Context, e Entry) error {
	ts := e.Ts
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	var errNull sql.NullString
	if e.Err != "" {
		errNull = sql.NullString{String: e.Err, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dispatch_log (id, ts, trace_id, user_name, command, message, result, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, ts, e.TraceID, e.User, e.Command, e.Message, e.Result, errNull)
	if err != nil {
		return fmt.Errorf("failed to write dispatch log: %w", err)
	}
	return nil
}

// Tail returns the most recent entries, newest first.
func (s *Store) Tail(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, trace_id, user_name, command, message, result, error_message
		FROM dispatch_log
		ORDER BY ts DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var errNull sql.NullString
		if err := rows.Scan(&e.ID, &e.Ts, &e.TraceID, &e.User, &e.Command, &e.Message, &e.Result, &errNull); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch log row: %w", err)
		}
		e.Err = errNull.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
