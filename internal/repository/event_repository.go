package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hiremate/internal/domain"
	"hiremate/internal/repository/models"
	"hiremate/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxEventRepository implements domain.EventRepository using sqlx.
type sqlxEventRepository struct {
	db *sqlx.DB
}

// NewSQLXEventRepository creates a new instance of sqlxEventRepository.
func NewSQLXEventRepository(db *sqlx.DB) domain.EventRepository {
	return &sqlxEventRepository{db: db}
}

func toDomainEvent(m *models.BehavioralEvent) (*domain.BehavioralEvent, error) {
	if m == nil {
		return nil, nil
	}
	var payload domain.EventPayload
	if m.Payload != "" {
		if err := json.Unmarshal([]byte(m.Payload), &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event payload for event %s: %w", m.ID, err)
		}
	}
	return &domain.BehavioralEvent{
		ID:         m.ID,
		AttemptID:  m.AttemptID,
		TaskID:     m.TaskID.String,
		Type:       domain.EventType(m.EventType),
		Seq:        m.Seq,
		Payload:    payload,
		ClientTime: m.ClientTime,
		ServerTime: m.ServerTime,
		OutOfOrder: m.OutOfOrder,
	}, nil
}

func fromDomainEvent(e *domain.BehavioralEvent) (*models.BehavioralEvent, error) {
	if e == nil {
		return nil, nil
	}
	payloadJSON, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &models.BehavioralEvent{
		ID:         e.ID,
		AttemptID:  e.AttemptID,
		TaskID:     util.StringToNullString(e.TaskID),
		EventType:  string(e.Type),
		Seq:        e.Seq,
		Payload:    string(payloadJSON),
		ClientTime: e.ClientTime,
		ServerTime: e.ServerTime,
		OutOfOrder: e.OutOfOrder,
		CreatedAt:  time.Now(),
	}, nil
}

const insertEventQuery = `INSERT INTO behavioral_events (ID, ATTEMPT_ID, TASK_ID, EVENT_TYPE, SEQ, PAYLOAD, CLIENT_TIME, SERVER_TIME, OUT_OF_ORDER, CREATED_AT)
          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10)`

// Append inserts a single event row.
func (r *sqlxEventRepository) Append(ctx context.Context, event *domain.BehavioralEvent) error {
	m, err := fromDomainEvent(event)
	if err != nil {
		return err
	}
	executor := GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, insertEventQuery,
		m.ID, m.AttemptID, m.TaskID, m.EventType, m.Seq, m.Payload,
		m.ClientTime, m.ServerTime, boolToInt(m.OutOfOrder), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append behavioral event: %w", err)
	}
	return nil
}

// AppendBatch inserts events one by one; call inside a transaction so a
// failed batch leaves no partial log.
func (r *sqlxEventRepository) AppendBatch(ctx context.Context, events []*domain.BehavioralEvent) error {
	executor := GetExecutor(ctx, r.db)
	for _, event := range events {
		m, err := fromDomainEvent(event)
		if err != nil {
			return err
		}
		_, err = executor.ExecContext(ctx, insertEventQuery,
			m.ID, m.AttemptID, m.TaskID, m.EventType, m.Seq, m.Payload,
			m.ClientTime, m.ServerTime, boolToInt(m.OutOfOrder), m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append behavioral event seq %d: %w", event.Seq, err)
		}
	}
	return nil
}

func (r *sqlxEventRepository) scanEvents(rows *sql.Rows) ([]*domain.BehavioralEvent, error) {
	defer rows.Close()
	var result []*domain.BehavioralEvent
	for rows.Next() {
		var m models.BehavioralEvent
		var outOfOrder int
		if err := rows.Scan(
			&m.ID, &m.AttemptID, &m.TaskID, &m.EventType, &m.Seq,
			&m.Payload, &m.ClientTime, &m.ServerTime, &outOfOrder, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan behavioral event: %w", err)
		}
		m.OutOfOrder = outOfOrder != 0
		e, err := toDomainEvent(&m)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate behavioral events: %w", err)
	}
	return result, nil
}

const selectEventFields = "ID, ATTEMPT_ID, TASK_ID, EVENT_TYPE, SEQ, PAYLOAD, CLIENT_TIME, SERVER_TIME, OUT_OF_ORDER, CREATED_AT"

// ListByAttempt returns every event of an attempt ordered by SEQ.
func (r *sqlxEventRepository) ListByAttempt(ctx context.Context, attemptID string) ([]*domain.BehavioralEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM behavioral_events WHERE attempt_id = :1 ORDER BY seq ASC`, selectEventFields)
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for attempt %s: %w", attemptID, err)
	}
	return r.scanEvents(rows)
}

// ListByAttemptAndTask returns the events of a single task ordered by SEQ.
func (r *sqlxEventRepository) ListByAttemptAndTask(ctx context.Context, attemptID, taskID string) ([]*domain.BehavioralEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM behavioral_events WHERE attempt_id = :1 AND task_id = :2 ORDER BY seq ASC`, selectEventFields)
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, attemptID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for attempt %s task %s: %w", attemptID, taskID, err)
	}
	return r.scanEvents(rows)
}

// MaxSeq returns the highest assigned sequence number, 0 for an empty log.
func (r *sqlxEventRepository) MaxSeq(ctx context.Context, attemptID string) (int64, error) {
	query := `SELECT COALESCE(MAX(seq), 0) FROM behavioral_events WHERE attempt_id = :1`
	executor := GetExecutor(ctx, r.db)
	var maxSeq int64
	if err := executor.GetContext(ctx, &maxSeq, query, attemptID); err != nil {
		return 0, fmt.Errorf("failed to get max seq for attempt %s: %w", attemptID, err)
	}
	return maxSeq, nil
}

// LastChainEvent returns the most recent non-ambient event of a task, or
// nil when the task chain has not started.
func (r *sqlxEventRepository) LastChainEvent(ctx context.Context, attemptID, taskID string) (*domain.BehavioralEvent, error) {
	query := fmt.Sprintf(`SELECT * FROM (
        SELECT %s FROM behavioral_events
        WHERE attempt_id = :1 AND task_id = :2
          AND event_type NOT IN ('idle_detected', 'focus_lost', 'focus_gained', 'paste_detected', 'copy_detected')
        ORDER BY seq DESC
    ) WHERE ROWNUM = 1`, selectEventFields)
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, attemptID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query last chain event for attempt %s task %s: %w", attemptID, taskID, err)
	}
	events, err := r.scanEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return events[0], nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
