package interview

import (
	"context"
	"database/sql"
	"time"
)

// Session lifecycle event types appended to the event log.
const (
	EventSessionStarted    = "SessionStarted"
	EventStageAdvanced     = "StageAdvanced"
	EventCodeSubmitted     = "CodeSubmitted"
	EventTestsExecuted     = "TestsExecuted"
	EventFeedbackGenerated = "FeedbackGenerated"
)

type Event struct {
	Type     string
	Key      string // sessionID
	DataJSON string
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}
