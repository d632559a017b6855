package domain

import (
	"time"
)

// EventType identifies a behavioral event emitted by the assessment client.
type EventType string

const (
	EventTaskStarted        EventType = "task_started"
	EventOptionViewed       EventType = "option_viewed"
	EventOptionSelected     EventType = "option_selected"
	EventOptionChanged      EventType = "option_changed"
	EventReasoningStarted   EventType = "reasoning_started"
	EventReasoningUpdated   EventType = "reasoning_updated"
	EventReasoningSubmitted EventType = "reasoning_submitted"
	EventTaskCompleted      EventType = "task_completed"
	EventTaskSkipped        EventType = "task_skipped"
	EventIdleDetected       EventType = "idle_detected"
	EventFocusLost          EventType = "focus_lost"
	EventFocusGained        EventType = "focus_gained"
	EventPasteDetected      EventType = "paste_detected"
	EventCopyDetected       EventType = "copy_detected"
)

// AllEventTypes lists every accepted event type.
var AllEventTypes = []EventType{
	EventTaskStarted, EventOptionViewed, EventOptionSelected, EventOptionChanged,
	EventReasoningStarted, EventReasoningUpdated, EventReasoningSubmitted,
	EventTaskCompleted, EventTaskSkipped, EventIdleDetected,
	EventFocusLost, EventFocusGained, EventPasteDetected, EventCopyDetected,
}

// IsValidEventType reports whether t is a known event type.
func IsValidEventType(t EventType) bool {
	for _, known := range AllEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// validTransitions maps each event type to the set of event types that may
// directly follow it within the same task. Ambient events (idle, focus,
// clipboard) are allowed after anything and do not advance the chain.
var validTransitions = map[EventType][]EventType{
	EventTaskStarted:        {EventOptionViewed, EventOptionSelected, EventReasoningStarted, EventTaskSkipped},
	EventOptionViewed:       {EventOptionViewed, EventOptionSelected, EventReasoningStarted, EventTaskSkipped},
	EventOptionSelected:     {EventOptionChanged, EventReasoningStarted, EventReasoningUpdated, EventReasoningSubmitted, EventTaskCompleted, EventTaskSkipped, EventOptionViewed},
	EventOptionChanged:      {EventOptionChanged, EventReasoningStarted, EventReasoningUpdated, EventReasoningSubmitted, EventTaskCompleted, EventTaskSkipped, EventOptionViewed},
	EventReasoningStarted:   {EventReasoningUpdated, EventReasoningSubmitted, EventOptionSelected, EventOptionChanged, EventTaskSkipped},
	EventReasoningUpdated:   {EventReasoningUpdated, EventReasoningSubmitted, EventOptionChanged, EventTaskSkipped},
	EventReasoningSubmitted: {EventTaskCompleted, EventOptionChanged, EventReasoningUpdated, EventTaskSkipped},
	EventTaskCompleted:      {EventTaskStarted},
	EventTaskSkipped:        {EventTaskStarted},
}

// ambientEvents may occur at any point and never participate in the
// transition chain.
var ambientEvents = map[EventType]bool{
	EventIdleDetected:  true,
	EventFocusLost:     true,
	EventFocusGained:   true,
	EventPasteDetected: true,
	EventCopyDetected:  true,
}

// IsAmbientEvent reports whether t is an ambient (non-chain) event.
func IsAmbientEvent(t EventType) bool {
	return ambientEvents[t]
}

// IsValidTransition reports whether next may follow prev within a task.
// Ambient events are always valid. A zero prev means the task chain has
// not started yet, in which case only task_started (or an ambient event)
// is expected.
func IsValidTransition(prev, next EventType) bool {
	if IsAmbientEvent(next) {
		return true
	}
	if prev == "" {
		return next == EventTaskStarted
	}
	allowed, ok := validTransitions[prev]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == next {
			return true
		}
	}
	return false
}

// EventPayload carries the type-specific fields of an event. Only the
// fields relevant to the event type are populated; the rest stay zero.
type EventPayload struct {
	TaskID         string  `json:"task_id,omitempty"`
	OptionID       string  `json:"option_id,omitempty"`
	FromOptionID   string  `json:"from_option_id,omitempty"`
	ToOptionID     string  `json:"to_option_id,omitempty"`
	ReasoningText  string  `json:"reasoning_text,omitempty"`
	WordCount      int     `json:"word_count,omitempty"`
	IdleSeconds    float64 `json:"idle_seconds,omitempty"`
	DurationMs     int64   `json:"duration_ms,omitempty"`
	PastedChars    int     `json:"pasted_chars,omitempty"`
	CopiedChars    int     `json:"copied_chars,omitempty"`
	SelectionIndex int     `json:"selection_index,omitempty"`
}

// MissingFields returns the required payload fields absent for an event
// of type t. Types without required fields always return nil.
func (p *EventPayload) MissingFields(t EventType) []string {
	var missing []string
	switch t {
	case EventOptionViewed, EventOptionSelected:
		if p.OptionID == "" {
			missing = append(missing, "option_id")
		}
	case EventOptionChanged:
		if p.FromOptionID == "" {
			missing = append(missing, "from_option_id")
		}
		if p.ToOptionID == "" {
			missing = append(missing, "to_option_id")
		}
	case EventReasoningUpdated, EventReasoningSubmitted:
		if p.ReasoningText == "" {
			missing = append(missing, "reasoning_text")
		}
	case EventIdleDetected:
		if p.IdleSeconds <= 0 {
			missing = append(missing, "idle_seconds")
		}
	}
	return missing
}

// BehavioralEvent is a single append-only log entry for an attempt.
type BehavioralEvent struct {
	ID         string
	AttemptID  string
	TaskID     string
	Type       EventType
	Seq        int64
	Payload    EventPayload
	ClientTime time.Time
	ServerTime time.Time
	// OutOfOrder marks events whose transition was not expected given the
	// preceding chain. They are stored and scored anyway.
	OutOfOrder bool
}

// ValidationIssue describes an advisory problem found while ingesting an
// event. Issues never cause the event to be dropped.
type ValidationIssue struct {
	EventSeq int64  `json:"event_seq"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

const (
	IssueUnexpectedTransition = "unexpected_transition"
	IssueUnknownTask          = "unknown_task"
	IssueClockSkew            = "clock_skew"
	IssueMissingPayloadField  = "missing_payload_field"
)
