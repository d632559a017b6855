package service

import (
	"hiremate/internal/config"
	"hiremate/internal/domain"
)

// Minimum terminal tasks needed before pattern labels drop their
// provisional marker.
const minTasksForPattern = 2

// workingModeByPattern maps the dominant per-task pattern to the
// reported working mode.
var workingModeByPattern = map[domain.DecisionPattern]string{
	domain.PatternDirect:       "Efficiency-focused",
	domain.PatternIterative:    "Exploration-focused",
	domain.PatternDeliberative: "Detail-oriented",
	domain.PatternBalanced:     "Adaptive",
}

// BehaviorService builds the qualitative summary of how a candidate
// worked, with a confidence figure that grows with sample size.
type BehaviorService interface {
	Summarize(aggregate *domain.AggregateMetrics, perTask []domain.TaskMetrics) *domain.BehavioralSummary
}

// behaviorService implements BehaviorService
type behaviorService struct {
	cfg *config.Config
}

// NewBehaviorService creates a new instance of behaviorService
func NewBehaviorService(cfg *config.Config) BehaviorService {
	return &behaviorService{cfg: cfg}
}

// Summarize implements BehaviorService. Pacing observations are always
// informational; they describe timing, never stress or weakness.
func (s *behaviorService) Summarize(aggregate *domain.AggregateMetrics, perTask []domain.TaskMetrics) *domain.BehavioralSummary {
	summary := &domain.BehavioralSummary{
		PacingIsInformational: true,
		PatternDistribution:   make(map[domain.DecisionPattern]int),
	}

	var completed []domain.TaskMetrics
	for _, tm := range perTask {
		if tm.Completed {
			completed = append(completed, tm)
		}
	}
	summary.CompletedTaskCount = len(completed)
	if len(completed) == 0 {
		return summary
	}

	counts := map[domain.DecisionPattern]int{}
	for _, tm := range completed {
		counts[tm.Pattern]++
	}
	for pattern, n := range counts {
		summary.PatternDistribution[pattern] = int(float64(n) / float64(len(completed)) * 100)
	}

	dominant := domain.PatternBalanced
	dominantCount := -1
	for _, p := range []domain.DecisionPattern{domain.PatternDirect, domain.PatternIterative, domain.PatternDeliberative, domain.PatternBalanced} {
		if counts[p] > dominantCount {
			dominant = p
			dominantCount = counts[p]
		}
	}
	dominantPct := float64(dominantCount) / float64(len(completed)) * 100

	// Confidence never reaches 100. One answered task tells very little.
	var confidence float64
	switch len(completed) {
	case 1:
		confidence = 25
	case 2:
		confidence = 50
	case 3:
		confidence = 75
	default:
		confidence = min(95, 75+float64(len(completed)-3)*5)
	}
	if dominantPct >= 70 {
		confidence = min(95, confidence+10)
	}
	summary.Confidence = confidence

	if len(completed) < minTasksForPattern {
		summary.Provisional = true
		summary.DominantPattern = string(dominant) + "*"
		summary.WorkingMode = workingModeByPattern[dominant]
	} else {
		summary.DominantPattern = string(dominant)
		summary.WorkingMode = workingModeByPattern[dominant]
	}

	avgChanges := float64(aggregate.TotalOptionChanges) / float64(len(completed))
	switch {
	case aggregate.AvgIdleSeconds > 15 && aggregate.TotalOptionChanges > 3:
		summary.PacingLabel = "Variable pacing"
	case avgChanges > 3:
		summary.PacingLabel = "Frequent revisions"
	case dominant == domain.PatternDirect:
		summary.PacingLabel = "Steady progression"
	default:
		summary.PacingLabel = "Consistent approach"
	}

	return summary
}
