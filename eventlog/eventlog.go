// Package eventlog records editor activity (report lifecycle, issue edits,
// ticket filings) in SQLite for later review.
package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/a11yreport/idgen"
)

// Schema contains the DDL for the event log table.
const Schema = `
CREATE TABLE IF NOT EXISTS edit_events (
    event_id   TEXT PRIMARY KEY,
    event_type TEXT NOT NULL,
    entity_id  TEXT,
    details    TEXT,
    success    INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_edit_events_type ON edit_events(event_type, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_edit_events_time ON edit_events(created_at DESC);
`

// Init applies the event log schema to the given database.
func Init(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Event is one recorded editor action.
type Event struct {
	ID       string
	Type     string // e.g. "issue.add", "report.merge", "ticket.file"
	EntityID string
	Details  string // optional JSON
	Success  bool
	At       time.Time
}

// Logger writes edit events.
type Logger struct {
	db    *sql.DB
	newID idgen.Generator
}

// Option configures a Logger.
type Option func(*Logger)

// WithIDGenerator sets a custom ID generator for event IDs.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(l *Logger) { l.newID = gen }
}

// New creates a Logger backed by the given database.
func New(db *sql.DB, opts ...Option) *Logger {
	l := &Logger{
		db:    db,
		newID: idgen.Prefixed("evt_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Log records an event. Non-blocking: errors are logged via slog but do not
// propagate, so a failing event store never blocks an edit.
func (l *Logger) Log(ctx context.Context, ev Event) {
	if l == nil || l.db == nil {
		return
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO edit_events (event_id, event_type, entity_id, details, success, created_at)
		VALUES (?,?,?,?,?,?)`,
		l.newID(), ev.Type, ev.EntityID, ev.Details, ev.Success, at.Unix())
	if err != nil {
		slog.Error("event log failed", "error", err, "event_type", ev.Type)
	}
}

// Recent returns the newest events, most recent first.
func (l *Logger) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT event_id, event_type, entity_id, details, success, created_at
		FROM edit_events ORDER BY created_at DESC, event_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("eventlog: query recent: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var at int64
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.EntityID, &ev.Details, &ev.Success, &at); err != nil {
			return nil, fmt.Errorf("eventlog: scan: %w", err)
		}
		ev.At = time.Unix(at, 0).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Cleanup deletes events older than the retention window. Zero or negative
// days means no cleanup.
func Cleanup(ctx context.Context, db *sql.DB, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(days*86400)
	if _, err := db.ExecContext(ctx, `DELETE FROM edit_events WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("eventlog cleanup: %w", err)
	}
	return nil
}
