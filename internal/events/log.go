package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventLog records queue history in SQLite.
type EventLog struct {
	db *sql.DB
}

// NewEventLog returns a log writing to db. The schema must already be applied.
func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// RunScoped is implemented by events that belong to one queue run.
type RunScoped interface {
	Run() string
}

// Append stores e and returns its row ID.
func (l *EventLog) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal %s: %w", e.EventType(), err)
	}

	var runID sql.NullString
	if rs, ok := e.(RunScoped); ok && rs.Run() != "" {
		runID = sql.NullString{String: rs.Run(), Valid: true}
	}

	res, err := l.db.Exec(
		`INSERT INTO events (event_type, entity_type, entity_id, run_id, payload, occurred_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), runID, string(payload), e.OccurredAt(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", e.EventType(), err)
	}
	return res.LastInsertId()
}

// RawEvent is a stored event with its JSON payload undecoded.
// Decode it with a Registry.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   int64
	RunID      string // empty for events outside a run's bookkeeping
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Filter selects events. Zero fields match everything.
type Filter struct {
	Types  []string
	RunID  string
	JobID  int64
	Since  time.Time
	Limit  int
	Newest bool // newest first instead of oldest first
}

func (f Filter) query() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if len(f.Types) > 0 {
		conds = append(conds, "event_type IN (?"+strings.Repeat(", ?", len(f.Types)-1)+")")
		for _, t := range f.Types {
			args = append(args, t)
		}
	}
	if f.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.JobID != 0 {
		conds = append(conds, "entity_type = ? AND entity_id = ?")
		args = append(args, EntityJob, f.JobID)
	}
	if !f.Since.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.Since)
	}

	var b strings.Builder
	b.WriteString(`SELECT id, event_type, entity_type, entity_id, COALESCE(run_id, ''), payload, occurred_at, created_at FROM events`)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	if f.Newest {
		b.WriteString(" ORDER BY id DESC")
	} else {
		b.WriteString(" ORDER BY id ASC")
	}
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}
	return b.String(), args
}

// Find returns the events matching f.
func (l *EventLog) Find(f Filter) ([]RawEvent, error) {
	q, args := f.query()
	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.RunID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LastRun returns the ID of the most recent queue run, or "" if none is recorded.
func (l *EventLog) LastRun() (string, error) {
	var runID string
	err := l.db.QueryRow(
		`SELECT run_id FROM events WHERE run_id IS NOT NULL ORDER BY id DESC LIMIT 1`,
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last run: %w", err)
	}
	return runID, nil
}

// Prune deletes events that occurred before now minus age.
func (l *EventLog) Prune(age time.Duration) (int64, error) {
	res, err := l.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, time.Now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}
