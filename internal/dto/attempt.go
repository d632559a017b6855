package dto

import "time"

// CreateAttemptRequest provisions a new assessment attempt.
type CreateAttemptRequest struct {
	CandidateID  string   `json:"candidate_id" validate:"required"`
	AssessmentID string   `json:"assessment_id" validate:"required"`
	TaskIDs      []string `json:"task_ids" validate:"required,min=1"`
}

// AttemptResponse is the public view of an attempt.
type AttemptResponse struct {
	ID             string     `json:"id"`
	CandidateID    string     `json:"candidate_id"`
	AssessmentID   string     `json:"assessment_id"`
	Status         string     `json:"status"`
	TaskIDs        []string   `json:"task_ids"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// OverrideRequest records a recruiter's manual grade decision.
type OverrideRequest struct {
	NewGrade string `json:"new_grade" validate:"required"`
	Reason   string `json:"reason" validate:"required,min=20"`
}

// OverrideResponse echoes the stored override.
type OverrideResponse struct {
	ID            string    `json:"id"`
	AttemptID     string    `json:"attempt_id"`
	RecruiterID   string    `json:"recruiter_id"`
	OriginalGrade string    `json:"original_grade"`
	NewGrade      string    `json:"new_grade"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}
