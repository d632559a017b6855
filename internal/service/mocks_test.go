package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"hiremate/internal/domain"
	"hiremate/internal/logger"

	"github.com/stretchr/testify/mock"
)

// TestMain initializes the logger for all tests in this package.
func TestMain(m *testing.M) {
	if err := logger.Initialize("dev"); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Mocks ---

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Append(ctx context.Context, event *domain.BehavioralEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) AppendBatch(ctx context.Context, events []*domain.BehavioralEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventRepository) ListByAttempt(ctx context.Context, attemptID string) ([]*domain.BehavioralEvent, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BehavioralEvent), args.Error(1)
}

func (m *MockEventRepository) ListByAttemptAndTask(ctx context.Context, attemptID, taskID string) ([]*domain.BehavioralEvent, error) {
	args := m.Called(ctx, attemptID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BehavioralEvent), args.Error(1)
}

func (m *MockEventRepository) MaxSeq(ctx context.Context, attemptID string) (int64, error) {
	args := m.Called(ctx, attemptID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) LastChainEvent(ctx context.Context, attemptID, taskID string) (*domain.BehavioralEvent, error) {
	args := m.Called(ctx, attemptID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BehavioralEvent), args.Error(1)
}

type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *domain.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id string) (*domain.Attempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Attempt, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) UpdateStatus(ctx context.Context, id string, status domain.AttemptStatus, completedAt *time.Time) error {
	args := m.Called(ctx, id, status, completedAt)
	return args.Error(0)
}

func (m *MockAttemptRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAttemptRepository) ExpireStale(ctx context.Context, now time.Time, idleTimeout, maxAge time.Duration) (int64, error) {
	args := m.Called(ctx, now, idleTimeout, maxAge)
	return args.Get(0).(int64), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Task, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, category string, limit int) ([]*domain.Task, error) {
	args := m.Called(ctx, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

type MockOutcomeRepository struct {
	mock.Mock
}

func (m *MockOutcomeRepository) SaveFitScore(ctx context.Context, score *domain.FitScore) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *MockOutcomeRepository) GetFitScore(ctx context.Context, attemptID string) (*domain.FitScore, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FitScore), args.Error(1)
}

func (m *MockOutcomeRepository) SaveOverride(ctx context.Context, override *domain.GradeOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOutcomeRepository) ListOverrides(ctx context.Context, attemptID string) ([]*domain.GradeOverride, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GradeOverride), args.Error(1)
}

type MockCandidateRepository struct {
	mock.Mock
}

func (m *MockCandidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}

func (m *MockCandidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) GetByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) PublishReportUpdate(ctx context.Context, attemptID string, payload interface{}) {
	m.Called(ctx, attemptID, payload)
}

// MockTransactionManager runs the callback directly; tests exercise the
// service logic, not transaction semantics.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// stubTxManager runs the callback without a transaction.
type stubTxManager struct{}

func (stubTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// stubPopulationRepo is a stateful in-memory PopulationRepository for
// tests that exercise sequences of distribution updates. RecordAttempt
// updates metrics concurrently, so access is guarded.
type stubPopulationRepo struct {
	mu             sync.Mutex
	stats          map[string]map[domain.PopulationMetric]*domain.PopulationStats
	fail           error
	forUpdateCalls int
}

func newStubPopulationRepo() *stubPopulationRepo {
	return &stubPopulationRepo{stats: make(map[string]map[domain.PopulationMetric]*domain.PopulationStats)}
}

func (r *stubPopulationRepo) pool(recruiterID string) map[domain.PopulationMetric]*domain.PopulationStats {
	if r.stats[recruiterID] == nil {
		r.stats[recruiterID] = make(map[domain.PopulationMetric]*domain.PopulationStats)
	}
	return r.stats[recruiterID]
}

func (r *stubPopulationRepo) Get(ctx context.Context, recruiterID string, metric domain.PopulationMetric) (*domain.PopulationStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	return r.pool(recruiterID)[metric], nil
}

func (r *stubPopulationRepo) GetForUpdate(ctx context.Context, recruiterID string, metric domain.PopulationMetric) (*domain.PopulationStats, error) {
	r.mu.Lock()
	r.forUpdateCalls++
	r.mu.Unlock()
	return r.Get(ctx, recruiterID, metric)
}

func (r *stubPopulationRepo) GetAll(ctx context.Context, recruiterID string) (map[domain.PopulationMetric]*domain.PopulationStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	pool := r.pool(recruiterID)
	out := make(map[domain.PopulationMetric]*domain.PopulationStats, len(pool))
	for k, v := range pool {
		out[k] = v
	}
	return out, nil
}

func (r *stubPopulationRepo) Save(ctx context.Context, stats *domain.PopulationStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.pool(stats.RecruiterID)[stats.Metric] = stats
	return nil
}
