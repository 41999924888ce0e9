// Package store persists the editor's state in SQLite: a single
// current-report slot and a sort-order preference, addressed by fixed keys.
//
// The store is a plain repository. Deciding when and how to save (the editor
// saves fire-and-forget after every accepted mutation) is the caller's
// concern; every method here reports its error and nothing is retried.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hazyhaar/a11yreport/report"
)

const (
	slotCurrentReport  = "current_report"
	slotSortPreference = "sort_preference"
)

// DefaultSortOrder is returned when no preference has been persisted.
const DefaultSortOrder = report.SortByPage

const schema = `
CREATE TABLE IF NOT EXISTS slots (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// Store wraps the editor database.
type Store struct {
	DB *sql.DB
}

// New creates a Store from an already-opened database connection.
func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// ApplySchema creates the slots table. Idempotent.
func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("store schema: %w", err)
	}
	return nil
}

// GetReport returns the current report, or (nil, nil) when the slot is empty.
func (s *Store) GetReport(ctx context.Context) (*report.Report, error) {
	raw, err := s.get(ctx, slotCurrentReport)
	if err != nil || raw == "" {
		return nil, err
	}
	var r report.Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("store: decode report slot: %w", err)
	}
	return &r, nil
}

// PutReport replaces the current report slot.
func (s *Store) PutReport(ctx context.Context, r report.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("store: encode report: %w", err)
	}
	return s.put(ctx, slotCurrentReport, string(data))
}

// DeleteReport clears the current report slot.
func (s *Store) DeleteReport(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, slotCurrentReport)
	if err != nil {
		return fmt.Errorf("store: delete report slot: %w", err)
	}
	return nil
}

// GetSortPreference returns the persisted sort order, or DefaultSortOrder
// when absent or unrecognized.
func (s *Store) GetSortPreference(ctx context.Context) (report.SortOrder, error) {
	raw, err := s.get(ctx, slotSortPreference)
	if err != nil {
		return DefaultSortOrder, err
	}
	order := report.SortOrder(raw)
	if !order.Valid() {
		return DefaultSortOrder, nil
	}
	return order, nil
}

// PutSortPreference persists the sort order.
func (s *Store) PutSortPreference(ctx context.Context, order report.SortOrder) error {
	if !order.Valid() {
		return fmt.Errorf("store: unknown sort order %q", order)
	}
	return s.put(ctx, slotSortPreference, string(order))
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: read slot %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) put(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: write slot %s: %w", key, err)
	}
	return nil
}
