package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hiremate/internal/config"
	"hiremate/internal/domain"
	"hiremate/internal/logger"
	"hiremate/internal/util"
)

// AttemptService manages the assessment attempt lifecycle from creation
// through completion or expiry.
type AttemptService interface {
	Create(ctx context.Context, recruiterID, candidateID, assessmentID string, taskIDs []string) (*domain.Attempt, error)
	Get(ctx context.Context, id string) (*domain.Attempt, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Attempt, error)
	Start(ctx context.Context, id string) (*domain.Attempt, error)
	Complete(ctx context.Context, id string) (*domain.Attempt, error)
	Abandon(ctx context.Context, id string) (*domain.Attempt, error)
	ExpireStale(ctx context.Context) (int64, error)
}

// attemptService implements AttemptService
type attemptService struct {
	attemptRepo   domain.AttemptRepository
	candidateRepo domain.CandidateRepository
	taskRepo      domain.TaskRepository
	cfg           *config.Config
}

// NewAttemptService creates a new instance of attemptService
func NewAttemptService(
	attemptRepo domain.AttemptRepository,
	candidateRepo domain.CandidateRepository,
	taskRepo domain.TaskRepository,
	cfg *config.Config,
) AttemptService {
	return &attemptService{
		attemptRepo:   attemptRepo,
		candidateRepo: candidateRepo,
		taskRepo:      taskRepo,
		cfg:           cfg,
	}
}

// Create provisions a pending attempt. Every referenced task must exist;
// the expiry window scales with the number of assigned tasks but never
// falls below the configured default.
func (s *attemptService) Create(ctx context.Context, recruiterID, candidateID, assessmentID string, taskIDs []string) (*domain.Attempt, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	if candidate == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("candidate %s not found", candidateID))
	}

	tasks, err := s.taskRepo.GetByIDs(ctx, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	for _, id := range taskIDs {
		if _, ok := tasks[id]; !ok {
			return nil, domain.NewTaskNotFoundError(id)
		}
	}

	now := time.Now()
	window := time.Duration(len(taskIDs)*s.cfg.Scoring.MinutesPerTask) * time.Minute
	if window < s.cfg.Scoring.DefaultExpiry {
		window = s.cfg.Scoring.DefaultExpiry
	}
	expiresAt := now.Add(window)

	attempt := &domain.Attempt{
		ID:           util.NewULID(),
		RecruiterID:  recruiterID,
		CandidateID:  candidateID,
		AssessmentID: assessmentID,
		Status:       domain.AttemptPending,
		TaskIDs:      taskIDs,
		ExpiresAt:    &expiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}
	logger.Get().Info("attempt created",
		zap.String("attemptID", attempt.ID),
		zap.Int("taskCount", len(taskIDs)))
	return attempt, nil
}

// Get returns an attempt by ID.
func (s *attemptService) Get(ctx context.Context, id string) (*domain.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(id)
	}
	return attempt, nil
}

// ListByCandidate returns every attempt belonging to a candidate.
func (s *attemptService) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Attempt, error) {
	attempts, err := s.attemptRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

// Start moves a pending attempt to in_progress and stamps the clock that
// every event timing is measured against.
func (s *attemptService) Start(ctx context.Context, id string) (*domain.Attempt, error) {
	attempt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if attempt.Status != domain.AttemptPending {
		return nil, domain.NewAttemptNotActiveError(id, attempt.Status)
	}

	now := time.Now()
	if attempt.ExpiresAt != nil && now.After(*attempt.ExpiresAt) {
		if err := s.attemptRepo.UpdateStatus(ctx, id, domain.AttemptExpired, nil); err != nil {
			return nil, fmt.Errorf("failed to expire attempt: %w", err)
		}
		return nil, domain.NewAttemptExpiredError(id)
	}

	if err := s.attemptRepo.UpdateStatus(ctx, id, domain.AttemptInProgress, nil); err != nil {
		return nil, fmt.Errorf("failed to start attempt: %w", err)
	}
	if err := s.attemptRepo.TouchActivity(ctx, id, now); err != nil {
		return nil, fmt.Errorf("failed to touch attempt activity: %w", err)
	}

	attempt.Status = domain.AttemptInProgress
	attempt.StartedAt = &now
	attempt.LastActivityAt = &now
	return attempt, nil
}

// Complete finalizes an in-progress attempt. Completion is terminal;
// further events are rejected afterward.
func (s *attemptService) Complete(ctx context.Context, id string) (*domain.Attempt, error) {
	return s.transition(ctx, id, domain.AttemptCompleted)
}

// Abandon marks an in-progress attempt as given up.
func (s *attemptService) Abandon(ctx context.Context, id string) (*domain.Attempt, error) {
	return s.transition(ctx, id, domain.AttemptAbandoned)
}

func (s *attemptService) transition(ctx context.Context, id string, to domain.AttemptStatus) (*domain.Attempt, error) {
	attempt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !attempt.IsActive() {
		return nil, domain.NewAttemptNotActiveError(id, attempt.Status)
	}

	now := time.Now()
	var completedAt *time.Time
	if to == domain.AttemptCompleted {
		completedAt = &now
	}
	if err := s.attemptRepo.UpdateStatus(ctx, id, to, completedAt); err != nil {
		return nil, fmt.Errorf("failed to update attempt status: %w", err)
	}

	attempt.Status = to
	attempt.CompletedAt = completedAt
	logger.Get().Info("attempt transitioned",
		zap.String("attemptID", id),
		zap.String("status", string(to)))
	return attempt, nil
}

// ExpireStale sweeps in-progress attempts past the idle window or the
// hard session cap. Run periodically from the process scheduler.
func (s *attemptService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.attemptRepo.ExpireStale(ctx, time.Now(), s.cfg.Scoring.IdleTimeout, s.cfg.Scoring.MaxSessionAge)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale attempts: %w", err)
	}
	if n > 0 {
		logger.Get().Info("stale attempts expired", zap.Int64("count", n))
	}
	return n, nil
}
