package models

import (
	"database/sql"
	"time"
)

// Attempt is one candidate's pass through an assessment.
type Attempt struct {
	ID             string       `db:"ID"` // ULID
	RecruiterID    string       `db:"RECRUITER_ID"`
	CandidateID    string       `db:"CANDIDATE_ID"`
	AssessmentID   string       `db:"ASSESSMENT_ID"`
	Status         string       `db:"STATUS"`
	TaskIDs        StringSlice  `db:"TASK_IDS"` // JSON array, CLOB
	StartedAt      sql.NullTime `db:"STARTED_AT"`
	CompletedAt    sql.NullTime `db:"COMPLETED_AT"`
	ExpiresAt      sql.NullTime `db:"EXPIRES_AT"`
	LastActivityAt sql.NullTime `db:"LAST_ACTIVITY_AT"`
	CreatedAt      time.Time    `db:"CREATED_AT"`
	UpdatedAt      time.Time    `db:"UPDATED_AT"`
	DeletedAt      sql.NullTime `db:"DELETED_AT"`
}

// Candidate represents an assessment taker.
type Candidate struct {
	ID          string          `db:"ID"` // ULID
	Email       string          `db:"EMAIL"`
	Name        sql.NullString  `db:"NAME"`
	ResumeScore sql.NullFloat64 `db:"RESUME_SCORE"` // 0..100 when a resume was screened
	CreatedAt   time.Time       `db:"CREATED_AT"`
	UpdatedAt   time.Time       `db:"UPDATED_AT"`
	DeletedAt   sql.NullTime    `db:"DELETED_AT"`
}

// Recruiter represents a reviewer account created through Google OAuth.
type Recruiter struct {
	ID                string         `db:"ID"` // ULID
	GoogleID          string         `db:"GOOGLE_ID"`
	Email             string         `db:"EMAIL"`
	Name              sql.NullString `db:"NAME"`
	ProfilePictureURL sql.NullString `db:"PROFILE_PICTURE_URL"`
	CreatedAt         time.Time      `db:"CREATED_AT"`
	UpdatedAt         time.Time      `db:"UPDATED_AT"`
	DeletedAt         sql.NullTime   `db:"DELETED_AT"`
}
