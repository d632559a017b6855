package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hiremate/internal/domain"
	"hiremate/internal/repository/models"
	"hiremate/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.Attempt) *domain.Attempt {
	if m == nil {
		return nil
	}
	return &domain.Attempt{
		ID:             m.ID,
		RecruiterID:    m.RecruiterID,
		CandidateID:    m.CandidateID,
		AssessmentID:   m.AssessmentID,
		Status:         domain.AttemptStatus(m.Status),
		TaskIDs:        m.TaskIDs,
		StartedAt:      util.NullTimeToTimePtr(m.StartedAt),
		CompletedAt:    util.NullTimeToTimePtr(m.CompletedAt),
		ExpiresAt:      util.NullTimeToTimePtr(m.ExpiresAt),
		LastActivityAt: util.NullTimeToTimePtr(m.LastActivityAt),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func fromDomainAttempt(a *domain.Attempt) *models.Attempt {
	if a == nil {
		return nil
	}
	return &models.Attempt{
		ID:             a.ID,
		RecruiterID:    a.RecruiterID,
		CandidateID:    a.CandidateID,
		AssessmentID:   a.AssessmentID,
		Status:         string(a.Status),
		TaskIDs:        models.StringSlice(a.TaskIDs),
		StartedAt:      util.TimePtrToNullTime(a.StartedAt),
		CompletedAt:    util.TimePtrToNullTime(a.CompletedAt),
		ExpiresAt:      util.TimePtrToNullTime(a.ExpiresAt),
		LastActivityAt: util.TimePtrToNullTime(a.LastActivityAt),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// Create inserts a new attempt row.
func (r *sqlxAttemptRepository) Create(ctx context.Context, attempt *domain.Attempt) error {
	m := fromDomainAttempt(attempt)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = time.Now()

	taskIDsVal, err := m.TaskIDs.Value()
	if err != nil {
		return fmt.Errorf("failed to convert task ids: %w", err)
	}

	query := `INSERT INTO attempts (ID, RECRUITER_ID, CANDIDATE_ID, ASSESSMENT_ID, STATUS, TASK_IDS, STARTED_AT, COMPLETED_AT, EXPIRES_AT, LAST_ACTIVITY_AT, CREATED_AT, UPDATED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12)`

	executor := GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, query,
		m.ID, m.RecruiterID, m.CandidateID, m.AssessmentID, m.Status, taskIDsVal,
		m.StartedAt, m.CompletedAt, m.ExpiresAt, m.LastActivityAt,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

const selectAttemptFields = "ID, RECRUITER_ID, CANDIDATE_ID, ASSESSMENT_ID, STATUS, TASK_IDS, STARTED_AT, COMPLETED_AT, EXPIRES_AT, LAST_ACTIVITY_AT, CREATED_AT, UPDATED_AT"

func scanAttempt(row *sql.Row) (*models.Attempt, error) {
	var m models.Attempt
	err := row.Scan(
		&m.ID, &m.RecruiterID, &m.CandidateID, &m.AssessmentID, &m.Status, &m.TaskIDs,
		&m.StartedAt, &m.CompletedAt, &m.ExpiresAt, &m.LastActivityAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID fetches one attempt, nil when absent.
func (r *sqlxAttemptRepository) GetByID(ctx context.Context, id string) (*domain.Attempt, error) {
	query := fmt.Sprintf(`SELECT %s FROM attempts WHERE id = :1 AND deleted_at IS NULL`, selectAttemptFields)
	executor := GetExecutor(ctx, r.db)
	m, err := scanAttempt(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt %s: %w", id, err)
	}
	return toDomainAttempt(m), nil
}

// ListByCandidate returns every attempt of a candidate, newest first.
func (r *sqlxAttemptRepository) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Attempt, error) {
	query := fmt.Sprintf(`SELECT %s FROM attempts WHERE candidate_id = :1 AND deleted_at IS NULL ORDER BY created_at DESC`, selectAttemptFields)
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts for candidate %s: %w", candidateID, err)
	}
	defer rows.Close()

	var result []*domain.Attempt
	for rows.Next() {
		var m models.Attempt
		if err := rows.Scan(
			&m.ID, &m.RecruiterID, &m.CandidateID, &m.AssessmentID, &m.Status, &m.TaskIDs,
			&m.StartedAt, &m.CompletedAt, &m.ExpiresAt, &m.LastActivityAt,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		result = append(result, toDomainAttempt(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}
	return result, nil
}

// UpdateStatus transitions an attempt and optionally stamps completion.
func (r *sqlxAttemptRepository) UpdateStatus(ctx context.Context, id string, status domain.AttemptStatus, completedAt *time.Time) error {
	query := `UPDATE attempts SET status = :1, completed_at = :2, updated_at = :3 WHERE id = :4 AND deleted_at IS NULL`
	executor := GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, query, string(status), util.TimePtrToNullTime(completedAt), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update attempt %s status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return domain.NewAttemptNotFoundError(id)
	}
	return nil
}

// TouchActivity advances the sliding idle window.
func (r *sqlxAttemptRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE attempts SET last_activity_at = :1, updated_at = :2 WHERE id = :3 AND deleted_at IS NULL`
	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, at, time.Now(), id); err != nil {
		return fmt.Errorf("failed to touch attempt %s activity: %w", id, err)
	}
	return nil
}

// ExpireStale marks in-progress attempts past either the idle window or
// the hard session cap as expired. Returns the number of rows changed.
func (r *sqlxAttemptRepository) ExpireStale(ctx context.Context, now time.Time, idleTimeout, maxAge time.Duration) (int64, error) {
	idleCutoff := now.Add(-idleTimeout)
	ageCutoff := now.Add(-maxAge)
	query := `UPDATE attempts SET status = :1, updated_at = :2
	          WHERE status = :3 AND deleted_at IS NULL
	            AND (last_activity_at < :4 OR started_at < :5)`
	executor := GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, query,
		string(domain.AttemptExpired), now, string(domain.AttemptInProgress), idleCutoff, ageCutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale attempts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read expired row count: %w", err)
	}
	return affected, nil
}
