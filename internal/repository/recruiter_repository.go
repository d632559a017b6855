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

// sqlxRecruiterRepository implements domain.RecruiterRepository using sqlx.
type sqlxRecruiterRepository struct {
	db *sqlx.DB
}

// NewSQLXRecruiterRepository creates a new instance of sqlxRecruiterRepository.
func NewSQLXRecruiterRepository(db *sqlx.DB) domain.RecruiterRepository {
	return &sqlxRecruiterRepository{db: db}
}

func toDomainRecruiter(m *models.Recruiter) *domain.Recruiter {
	if m == nil {
		return nil
	}
	return &domain.Recruiter{
		ID:           m.ID,
		GoogleID:     m.GoogleID,
		Email:        m.Email,
		Name:         m.Name.String,
		ProfileImage: m.ProfilePictureURL.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

const selectRecruiterFields = "ID, GOOGLE_ID, EMAIL, NAME, PROFILE_PICTURE_URL, CREATED_AT, UPDATED_AT"

func (r *sqlxRecruiterRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Recruiter, error) {
	executor := GetExecutor(ctx, r.db)
	var m models.Recruiter
	row := executor.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&m.ID, &m.GoogleID, &m.Email, &m.Name, &m.ProfilePictureURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recruiter: %w", err)
	}
	return toDomainRecruiter(&m), nil
}

// GetByGoogleID fetches a recruiter by Google account ID, nil when absent.
func (r *sqlxRecruiterRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.Recruiter, error) {
	query := fmt.Sprintf(`SELECT %s FROM recruiters WHERE google_id = :1 AND deleted_at IS NULL`, selectRecruiterFields)
	return r.getOne(ctx, query, googleID)
}

// GetByID fetches one recruiter, nil when absent.
func (r *sqlxRecruiterRepository) GetByID(ctx context.Context, id string) (*domain.Recruiter, error) {
	query := fmt.Sprintf(`SELECT %s FROM recruiters WHERE id = :1 AND deleted_at IS NULL`, selectRecruiterFields)
	return r.getOne(ctx, query, id)
}

// Create inserts a new recruiter row.
func (r *sqlxRecruiterRepository) Create(ctx context.Context, recruiter *domain.Recruiter) error {
	now := time.Now()
	query := `INSERT INTO recruiters (ID, GOOGLE_ID, EMAIL, NAME, PROFILE_PICTURE_URL, CREATED_AT, UPDATED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7)`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		recruiter.ID, recruiter.GoogleID, recruiter.Email,
		util.StringToNullString(recruiter.Name), util.StringToNullString(recruiter.ProfileImage),
		now, now)
	if err != nil {
		return fmt.Errorf("failed to create recruiter: %w", err)
	}
	return nil
}

// Update refreshes the mutable profile fields.
func (r *sqlxRecruiterRepository) Update(ctx context.Context, recruiter *domain.Recruiter) error {
	query := `UPDATE recruiters SET email = :1, name = :2, profile_picture_url = :3, updated_at = :4
	          WHERE id = :5 AND deleted_at IS NULL`
	executor := GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, query,
		recruiter.Email, util.StringToNullString(recruiter.Name),
		util.StringToNullString(recruiter.ProfileImage), time.Now(), recruiter.ID)
	if err != nil {
		return fmt.Errorf("failed to update recruiter %s: %w", recruiter.ID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("Recruiter not found with ID: %s", recruiter.ID))
	}
	return nil
}
