package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hiremate/internal/domain"
	"hiremate/internal/repository/models"
	"hiremate/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxOutcomeRepository implements domain.OutcomeRepository using sqlx.
type sqlxOutcomeRepository struct {
	db *sqlx.DB
}

// NewSQLXOutcomeRepository creates a new instance of sqlxOutcomeRepository.
func NewSQLXOutcomeRepository(db *sqlx.DB) domain.OutcomeRepository {
	return &sqlxOutcomeRepository{db: db}
}

// SaveFitScore upserts the final score of an attempt.
func (r *sqlxOutcomeRepository) SaveFitScore(ctx context.Context, score *domain.FitScore) error {
	breakdownJSON, err := json.Marshal(score.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal score breakdown: %w", err)
	}

	now := time.Now()
	query := `MERGE INTO fit_scores fs
	          USING (SELECT :1 AS attempt_id FROM dual) src
	          ON (fs.attempt_id = src.attempt_id)
	          WHEN MATCHED THEN UPDATE SET overall = :2, grade = :3, breakdown = :4, updated_at = :5
	          WHEN NOT MATCHED THEN INSERT (ID, ATTEMPT_ID, OVERALL, GRADE, BREAKDOWN, CREATED_AT, UPDATED_AT)
	          VALUES (:6, :7, :8, :9, :10, :11, :12)`

	executor := GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, query,
		score.AttemptID,
		score.Overall, string(score.Grade), string(breakdownJSON), now,
		util.NewULID(), score.AttemptID, score.Overall, string(score.Grade), string(breakdownJSON), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save fit score for attempt %s: %w", score.AttemptID, err)
	}
	return nil
}

// GetFitScore fetches the stored score for an attempt, nil when absent.
func (r *sqlxOutcomeRepository) GetFitScore(ctx context.Context, attemptID string) (*domain.FitScore, error) {
	query := `SELECT ATTEMPT_ID, OVERALL, GRADE, BREAKDOWN FROM fit_scores WHERE attempt_id = :1`
	executor := GetExecutor(ctx, r.db)

	var m models.FitScore
	row := executor.QueryRowContext(ctx, query, attemptID)
	if err := row.Scan(&m.AttemptID, &m.Overall, &m.Grade, &m.Breakdown); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fit score for attempt %s: %w", attemptID, err)
	}

	var breakdown domain.FitScoreBreakdown
	if m.Breakdown != "" {
		if err := json.Unmarshal([]byte(m.Breakdown), &breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score breakdown for attempt %s: %w", attemptID, err)
		}
	}
	return &domain.FitScore{
		AttemptID: m.AttemptID,
		Overall:   m.Overall,
		Grade:     domain.Grade(m.Grade),
		Breakdown: breakdown,
	}, nil
}

// SaveOverride appends a recruiter grade override.
func (r *sqlxOutcomeRepository) SaveOverride(ctx context.Context, override *domain.GradeOverride) error {
	if override.ID == "" {
		override.ID = util.NewULID()
	}
	if override.CreatedAt.IsZero() {
		override.CreatedAt = time.Now()
	}

	query := `INSERT INTO grade_overrides (ID, ATTEMPT_ID, RECRUITER_ID, ORIGINAL_GRADE, NEW_GRADE, REASON, CREATED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7)`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		override.ID, override.AttemptID, override.RecruiterID,
		string(override.OriginalGrade), string(override.NewGrade),
		override.Reason, override.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save grade override: %w", err)
	}
	return nil
}

// ListOverrides returns the override history of an attempt, oldest first.
func (r *sqlxOutcomeRepository) ListOverrides(ctx context.Context, attemptID string) ([]*domain.GradeOverride, error) {
	query := `SELECT ID, ATTEMPT_ID, RECRUITER_ID, ORIGINAL_GRADE, NEW_GRADE, REASON, CREATED_AT
	          FROM grade_overrides WHERE attempt_id = :1 ORDER BY created_at ASC`
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grade overrides for attempt %s: %w", attemptID, err)
	}
	defer rows.Close()

	var result []*domain.GradeOverride
	for rows.Next() {
		var m models.GradeOverride
		if err := rows.Scan(&m.ID, &m.AttemptID, &m.RecruiterID, &m.OriginalGrade, &m.NewGrade, &m.Reason, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grade override: %w", err)
		}
		result = append(result, &domain.GradeOverride{
			ID:            m.ID,
			AttemptID:     m.AttemptID,
			RecruiterID:   m.RecruiterID,
			OriginalGrade: domain.Grade(m.OriginalGrade),
			NewGrade:      domain.Grade(m.NewGrade),
			Reason:        m.Reason,
			CreatedAt:     m.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grade overrides: %w", err)
	}
	return result, nil
}
