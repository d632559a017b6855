package models

import (
	"time"
)

// FitScore persists a fused candidate score with its component breakdown.
type FitScore struct {
	ID        string    `db:"ID"` // ULID
	AttemptID string    `db:"ATTEMPT_ID"`
	Overall   float64   `db:"OVERALL"`
	Grade     string    `db:"GRADE"`
	Breakdown string    `db:"BREAKDOWN"` // JSON, CLOB
	CreatedAt time.Time `db:"CREATED_AT"`
	UpdatedAt time.Time `db:"UPDATED_AT"`
}

// GradeOverride records a recruiter's manual grade decision.
type GradeOverride struct {
	ID            string    `db:"ID"` // ULID
	AttemptID     string    `db:"ATTEMPT_ID"`
	RecruiterID   string    `db:"RECRUITER_ID"`
	OriginalGrade string    `db:"ORIGINAL_GRADE"`
	NewGrade      string    `db:"NEW_GRADE"`
	Reason        string    `db:"REASON"` // CLOB
	CreatedAt     time.Time `db:"CREATED_AT"`
}

// PopulationStats is the running distribution row for one metric within
// one recruiter's pool.
type PopulationStats struct {
	RecruiterID string       `db:"RECRUITER_ID"`
	Metric      string       `db:"METRIC"`
	CountN      int64        `db:"COUNT_N"`
	Mean        float64      `db:"MEAN"`
	M2          float64      `db:"M2"`
	Samples     Float64Slice `db:"SAMPLES"` // bounded recent-sample ring, JSON CLOB
	UpdatedAt   time.Time    `db:"UPDATED_AT"`
}
