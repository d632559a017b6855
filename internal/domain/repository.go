package domain

import (
	"context"
	"time"
)

// EventRepository persists the append-only behavioral event log.
type EventRepository interface {
	Append(ctx context.Context, event *BehavioralEvent) error
	AppendBatch(ctx context.Context, events []*BehavioralEvent) error
	ListByAttempt(ctx context.Context, attemptID string) ([]*BehavioralEvent, error)
	ListByAttemptAndTask(ctx context.Context, attemptID, taskID string) ([]*BehavioralEvent, error)
	MaxSeq(ctx context.Context, attemptID string) (int64, error)
	LastChainEvent(ctx context.Context, attemptID, taskID string) (*BehavioralEvent, error)
}

// AttemptRepository manages attempt lifecycle rows.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *Attempt) error
	GetByID(ctx context.Context, id string) (*Attempt, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]*Attempt, error)
	UpdateStatus(ctx context.Context, id string, status AttemptStatus, completedAt *time.Time) error
	TouchActivity(ctx context.Context, id string, at time.Time) error
	ExpireStale(ctx context.Context, now time.Time, idleTimeout, maxAge time.Duration) (int64, error)
}

// TaskRepository provides scenario tasks and their options.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*Task, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Task, error)
	List(ctx context.Context, category string, limit int) ([]*Task, error)
}

// PopulationRepository stores the running population distributions,
// keyed by recruiter and metric.
type PopulationRepository interface {
	Get(ctx context.Context, recruiterID string, metric PopulationMetric) (*PopulationStats, error)
	// GetForUpdate locks the row for the rest of the transaction so a
	// read-modify-write cycle cannot lose a concurrent update.
	GetForUpdate(ctx context.Context, recruiterID string, metric PopulationMetric) (*PopulationStats, error)
	GetAll(ctx context.Context, recruiterID string) (map[PopulationMetric]*PopulationStats, error)
	Save(ctx context.Context, stats *PopulationStats) error
}

// OutcomeRepository persists final reports and grade overrides.
type OutcomeRepository interface {
	SaveFitScore(ctx context.Context, score *FitScore) error
	GetFitScore(ctx context.Context, attemptID string) (*FitScore, error)
	SaveOverride(ctx context.Context, override *GradeOverride) error
	ListOverrides(ctx context.Context, attemptID string) ([]*GradeOverride, error)
}

// CandidateRepository manages candidate records.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id string) (*Candidate, error)
	GetByEmail(ctx context.Context, email string) (*Candidate, error)
}

// RecruiterRepository manages recruiter accounts created via OAuth.
type RecruiterRepository interface {
	GetByGoogleID(ctx context.Context, googleID string) (*Recruiter, error)
	GetByID(ctx context.Context, id string) (*Recruiter, error)
	Create(ctx context.Context, recruiter *Recruiter) error
	Update(ctx context.Context, recruiter *Recruiter) error
}

// TransactionManager runs a function inside a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
