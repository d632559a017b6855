package dto

import (
	"time"

	"hiremate/internal/domain"
)

// EventRequest is one behavioral event submitted by the assessment client.
type EventRequest struct {
	Type           string    `json:"type" validate:"required"`
	TaskID         string    `json:"task_id,omitempty"`
	OptionID       string    `json:"option_id,omitempty"`
	FromOptionID   string    `json:"from_option_id,omitempty"`
	ToOptionID     string    `json:"to_option_id,omitempty"`
	ReasoningText  string    `json:"reasoning_text,omitempty"`
	WordCount      int       `json:"word_count,omitempty"`
	IdleSeconds    float64   `json:"idle_seconds,omitempty"`
	DurationMs     int64     `json:"duration_ms,omitempty"`
	PastedChars    int       `json:"pasted_chars,omitempty"`
	CopiedChars    int       `json:"copied_chars,omitempty"`
	SelectionIndex int       `json:"selection_index,omitempty"`
	ClientTime     time.Time `json:"client_time" validate:"required"`
}

// BatchEventRequest submits several events in order.
type BatchEventRequest struct {
	Events []EventRequest `json:"events" validate:"required,min=1,dive"`
}

// IngestResponse reports what happened to submitted events. Validation
// issues are advisory; every structurally valid event is stored.
type IngestResponse struct {
	Accepted int                      `json:"accepted"`
	FirstSeq int64                    `json:"first_seq"`
	LastSeq  int64                    `json:"last_seq"`
	Issues   []domain.ValidationIssue `json:"issues,omitempty"`
}

// ToPayload converts the request fields into a domain payload.
func (r *EventRequest) ToPayload() domain.EventPayload {
	return domain.EventPayload{
		TaskID:         r.TaskID,
		OptionID:       r.OptionID,
		FromOptionID:   r.FromOptionID,
		ToOptionID:     r.ToOptionID,
		ReasoningText:  r.ReasoningText,
		WordCount:      r.WordCount,
		IdleSeconds:    r.IdleSeconds,
		DurationMs:     r.DurationMs,
		PastedChars:    r.PastedChars,
		CopiedChars:    r.CopiedChars,
		SelectionIndex: r.SelectionIndex,
	}
}
