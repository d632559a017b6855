package domain

import "time"

// AttemptStatus is the lifecycle state of an assessment attempt.
type AttemptStatus string

const (
	AttemptPending    AttemptStatus = "pending"
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptExpired    AttemptStatus = "expired"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// Attempt is one candidate's pass through an assessment. RecruiterID is
// the recruiter who issued it; population comparisons are scoped to it.
type Attempt struct {
	ID             string
	RecruiterID    string
	CandidateID    string
	AssessmentID   string
	Status         AttemptStatus
	TaskIDs        []string
	StartedAt      *time.Time
	CompletedAt    *time.Time
	ExpiresAt      *time.Time
	LastActivityAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive reports whether events may still be appended.
func (a *Attempt) IsActive() bool {
	return a.Status == AttemptInProgress
}

// IdleExpired reports whether the attempt exceeded the sliding idle window.
func (a *Attempt) IdleExpired(now time.Time, idleTimeout time.Duration) bool {
	if a.LastActivityAt == nil {
		return false
	}
	return now.Sub(*a.LastActivityAt) > idleTimeout
}

// SessionExpired reports whether the attempt exceeded the hard session cap.
func (a *Attempt) SessionExpired(now time.Time, maxAge time.Duration) bool {
	if a.StartedAt == nil {
		return false
	}
	return now.Sub(*a.StartedAt) > maxAge
}

// Candidate is the person taking assessments.
type Candidate struct {
	ID          string
	Email       string
	Name        string
	ResumeScore *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recruiter is an authenticated reviewer of assessment results.
type Recruiter struct {
	ID           string
	GoogleID     string
	Email        string
	Name         string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
