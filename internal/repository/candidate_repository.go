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

// sqlxCandidateRepository implements domain.CandidateRepository using sqlx.
type sqlxCandidateRepository struct {
	db *sqlx.DB
}

// NewSQLXCandidateRepository creates a new instance of sqlxCandidateRepository.
func NewSQLXCandidateRepository(db *sqlx.DB) domain.CandidateRepository {
	return &sqlxCandidateRepository{db: db}
}

func toDomainCandidate(m *models.Candidate) *domain.Candidate {
	if m == nil {
		return nil
	}
	var resumeScore *float64
	if m.ResumeScore.Valid {
		v := m.ResumeScore.Float64
		resumeScore = &v
	}
	return &domain.Candidate{
		ID:          m.ID,
		Email:       m.Email,
		Name:        m.Name.String,
		ResumeScore: resumeScore,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create inserts a new candidate row.
func (r *sqlxCandidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	var resumeScore sql.NullFloat64
	if candidate.ResumeScore != nil {
		resumeScore = sql.NullFloat64{Float64: *candidate.ResumeScore, Valid: true}
	}
	now := time.Now()

	query := `INSERT INTO candidates (ID, EMAIL, NAME, RESUME_SCORE, CREATED_AT, UPDATED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6)`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		candidate.ID, candidate.Email, util.StringToNullString(candidate.Name), resumeScore, now, now)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

const selectCandidateFields = "ID, EMAIL, NAME, RESUME_SCORE, CREATED_AT, UPDATED_AT"

func (r *sqlxCandidateRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Candidate, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Candidate
	row := executor.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&m.ID, &m.Email, &m.Name, &m.ResumeScore, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return toDomainCandidate(&m), nil
}

// GetByID fetches one candidate, nil when absent.
func (r *sqlxCandidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE id = :1 AND deleted_at IS NULL`, selectCandidateFields)
	return r.getOne(ctx, query, id)
}

// GetByEmail fetches a candidate by email, nil when absent.
func (r *sqlxCandidateRepository) GetByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE email = :1 AND deleted_at IS NULL`, selectCandidateFields)
	return r.getOne(ctx, query, email)
}
