package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hiremate/internal/domain"
	"hiremate/internal/repository/models"
	"hiremate/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

// setupEventTestDB creates a new sqlx.DB instance and sqlmock for event repository testing.
func setupEventTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

// --- Tests for Converter Functions ---

func TestToDomainEvent(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	model := &models.BehavioralEvent{
		ID:         "evt-1",
		AttemptID:  "att-1",
		TaskID:     util.StringToNullString("task-1"),
		EventType:  "option_selected",
		Seq:        3,
		Payload:    `{"option_id":"opt-a"}`,
		ClientTime: now,
		ServerTime: now,
		OutOfOrder: true,
	}

	event, err := toDomainEvent(model)
	assert.NoError(t, err)
	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, "task-1", event.TaskID)
	assert.Equal(t, domain.EventOptionSelected, event.Type)
	assert.Equal(t, int64(3), event.Seq)
	assert.Equal(t, "opt-a", event.Payload.OptionID)
	assert.True(t, event.OutOfOrder)

	// Broken payload JSON surfaces an error.
	model.Payload = "{not json"
	_, err = toDomainEvent(model)
	assert.Error(t, err)

	// Nil input
	event, err = toDomainEvent(nil)
	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestFromDomainEvent(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	event := &domain.BehavioralEvent{
		ID:         "evt-2",
		AttemptID:  "att-1",
		TaskID:     "",
		Type:       domain.EventFocusLost,
		Seq:        7,
		ClientTime: now,
		ServerTime: now,
	}

	model, err := fromDomainEvent(event)
	assert.NoError(t, err)
	assert.Equal(t, "evt-2", model.ID)
	assert.False(t, model.TaskID.Valid)
	assert.Equal(t, "focus_lost", model.EventType)
	assert.NotEmpty(t, model.Payload)

	model, err = fromDomainEvent(nil)
	assert.NoError(t, err)
	assert.Nil(t, model)
}

// --- Tests for Repository Methods ---

func TestEventRepositoryAppend(t *testing.T) {
	db, mock := setupEventTestDB(t)
	defer db.Close()
	repo := NewSQLXEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO behavioral_events")).
		WithArgs(
			"evt-1", "att-1", "task-1", "task_started", int64(1),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 0, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(context.Background(), &domain.BehavioralEvent{
		ID:         "evt-1",
		AttemptID:  "att-1",
		TaskID:     "task-1",
		Type:       domain.EventTaskStarted,
		Seq:        1,
		ClientTime: time.Now(),
		ServerTime: time.Now(),
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryAppendBatch(t *testing.T) {
	db, mock := setupEventTestDB(t)
	defer db.Close()
	repo := NewSQLXEventRepository(db)

	events := []*domain.BehavioralEvent{
		{ID: "evt-1", AttemptID: "att-1", TaskID: "task-1", Type: domain.EventTaskStarted, Seq: 1},
		{ID: "evt-2", AttemptID: "att-1", TaskID: "task-1", Type: domain.EventOptionSelected, Seq: 2, OutOfOrder: true},
	}
	for range events {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO behavioral_events")).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	err := repo.AppendBatch(context.Background(), events)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryMaxSeq(t *testing.T) {
	db, mock := setupEventTestDB(t)
	defer db.Close()
	repo := NewSQLXEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(seq), 0) FROM behavioral_events")).
		WithArgs("att-1").
		WillReturnRows(sqlmock.NewRows([]string{"COALESCE(MAX(SEQ), 0)"}).AddRow(int64(42)))

	maxSeq, err := repo.MaxSeq(context.Background(), "att-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(42), maxSeq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListByAttempt(t *testing.T) {
	db, mock := setupEventTestDB(t)
	defer db.Close()
	repo := NewSQLXEventRepository(db)

	now := time.Now().Truncate(time.Second)
	rows := sqlmock.NewRows([]string{
		"ID", "ATTEMPT_ID", "TASK_ID", "EVENT_TYPE", "SEQ",
		"PAYLOAD", "CLIENT_TIME", "SERVER_TIME", "OUT_OF_ORDER", "CREATED_AT",
	}).
		AddRow("evt-1", "att-1", "task-1", "task_started", int64(1), "{}", now, now, 0, now).
		AddRow("evt-2", "att-1", "task-1", "option_selected", int64(2), `{"option_id":"opt-a"}`, now, now, 1, now)

	mock.ExpectQuery("SELECT .+ FROM behavioral_events WHERE attempt_id = .+ ORDER BY seq ASC").
		WithArgs("att-1").
		WillReturnRows(rows)

	events, err := repo.ListByAttempt(context.Background(), "att-1")

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, domain.EventTaskStarted, events[0].Type)
	assert.False(t, events[0].OutOfOrder)
	assert.Equal(t, "opt-a", events[1].Payload.OptionID)
	assert.True(t, events[1].OutOfOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryLastChainEvent_Empty(t *testing.T) {
	db, mock := setupEventTestDB(t)
	defer db.Close()
	repo := NewSQLXEventRepository(db)

	rows := sqlmock.NewRows([]string{
		"ID", "ATTEMPT_ID", "TASK_ID", "EVENT_TYPE", "SEQ",
		"PAYLOAD", "CLIENT_TIME", "SERVER_TIME", "OUT_OF_ORDER", "CREATED_AT",
	})
	mock.ExpectQuery("SELECT \\* FROM").
		WithArgs("att-1", "task-1").
		WillReturnRows(rows)

	event, err := repo.LastChainEvent(context.Background(), "att-1", "task-1")

	assert.NoError(t, err)
	assert.Nil(t, event)
	assert.NoError(t, mock.ExpectationsWereMet())
}
