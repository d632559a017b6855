package models

import (
	"database/sql"
	"time"
)

// BehavioralEvent is one row in the append-only event log.
type BehavioralEvent struct {
	ID         string         `db:"ID"`          // ULID
	AttemptID  string         `db:"ATTEMPT_ID"`  // Foreign key to attempts table
	TaskID     sql.NullString `db:"TASK_ID"`     // Task the event belongs to; NULL for attempt-level ambient events
	EventType  string         `db:"EVENT_TYPE"`  // One of the accepted event type strings
	Seq        int64          `db:"SEQ"`         // Server-assigned ordinal within the attempt
	Payload    string         `db:"PAYLOAD"`     // JSON payload, CLOB
	ClientTime time.Time      `db:"CLIENT_TIME"` // Timestamp reported by the client
	ServerTime time.Time      `db:"SERVER_TIME"` // Timestamp assigned at ingest
	OutOfOrder bool           `db:"OUT_OF_ORDER"`
	CreatedAt  time.Time      `db:"CREATED_AT"`
}
