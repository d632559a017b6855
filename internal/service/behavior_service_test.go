package service

import (
	"testing"

	"hiremate/internal/domain"

	"github.com/stretchr/testify/assert"
)

func completedTask(pattern domain.DecisionPattern) domain.TaskMetrics {
	return domain.TaskMetrics{Completed: true, Pattern: pattern}
}

func TestBehaviorSummarize_NoCompletedTasks(t *testing.T) {
	svc := NewBehaviorService(testConfig())

	perTask := []domain.TaskMetrics{{Completed: false}, {Completed: false}}
	summary := svc.Summarize(&domain.AggregateMetrics{}, perTask)

	assert.Equal(t, 0, summary.CompletedTaskCount)
	assert.Equal(t, 0.0, summary.Confidence)
	assert.Empty(t, summary.DominantPattern)
	assert.True(t, summary.PacingIsInformational)
}

func TestBehaviorSummarize_SingleTaskIsProvisional(t *testing.T) {
	svc := NewBehaviorService(testConfig())

	perTask := []domain.TaskMetrics{completedTask(domain.PatternDirect)}
	summary := svc.Summarize(&domain.AggregateMetrics{}, perTask)

	assert.Equal(t, 1, summary.CompletedTaskCount)
	assert.True(t, summary.Provisional)
	assert.Equal(t, "Direct*", summary.DominantPattern)
	assert.Equal(t, "Efficiency-focused", summary.WorkingMode)
	// Base 25 for one task, +10 because the single pattern dominates.
	assert.Equal(t, 35.0, summary.Confidence)
}

func TestBehaviorSummarize_ConfidenceGrowsWithSampleSize(t *testing.T) {
	svc := NewBehaviorService(testConfig())

	// Two tasks split between patterns: base 50, no dominance boost.
	summary := svc.Summarize(&domain.AggregateMetrics{}, []domain.TaskMetrics{
		completedTask(domain.PatternDirect),
		completedTask(domain.PatternBalanced),
	})
	assert.Equal(t, 50.0, summary.Confidence)
	assert.False(t, summary.Provisional)

	// Three tasks, one pattern at 2/3: base 75, no boost.
	summary = svc.Summarize(&domain.AggregateMetrics{}, []domain.TaskMetrics{
		completedTask(domain.PatternDirect),
		completedTask(domain.PatternDirect),
		completedTask(domain.PatternBalanced),
	})
	assert.Equal(t, 75.0, summary.Confidence)

	// Six tasks, all one pattern: base 90, boosted but capped at 95.
	var six []domain.TaskMetrics
	for i := 0; i < 6; i++ {
		six = append(six, completedTask(domain.PatternDeliberative))
	}
	summary = svc.Summarize(&domain.AggregateMetrics{}, six)
	assert.Equal(t, 95.0, summary.Confidence)
	assert.Equal(t, "Deliberative", summary.DominantPattern)
	assert.Equal(t, "Detail-oriented", summary.WorkingMode)
}

func TestBehaviorSummarize_PatternDistribution(t *testing.T) {
	svc := NewBehaviorService(testConfig())

	summary := svc.Summarize(&domain.AggregateMetrics{}, []domain.TaskMetrics{
		completedTask(domain.PatternDirect),
		completedTask(domain.PatternDirect),
		completedTask(domain.PatternDirect),
		completedTask(domain.PatternIterative),
	})

	assert.Equal(t, 75, summary.PatternDistribution[domain.PatternDirect])
	assert.Equal(t, 25, summary.PatternDistribution[domain.PatternIterative])
	assert.Equal(t, "Direct", summary.DominantPattern)
	// Base 80 for four tasks, +10 for 75% dominance.
	assert.Equal(t, 90.0, summary.Confidence)
}

func TestBehaviorSummarize_PacingLabels(t *testing.T) {
	svc := NewBehaviorService(testConfig())

	two := []domain.TaskMetrics{
		completedTask(domain.PatternBalanced),
		completedTask(domain.PatternBalanced),
	}

	summary := svc.Summarize(&domain.AggregateMetrics{AvgIdleSeconds: 20, TotalOptionChanges: 5}, two)
	assert.Equal(t, "Variable pacing", summary.PacingLabel)

	summary = svc.Summarize(&domain.AggregateMetrics{TotalOptionChanges: 8}, two)
	assert.Equal(t, "Frequent revisions", summary.PacingLabel)

	summary = svc.Summarize(&domain.AggregateMetrics{}, []domain.TaskMetrics{
		completedTask(domain.PatternDirect),
		completedTask(domain.PatternDirect),
	})
	assert.Equal(t, "Steady progression", summary.PacingLabel)

	summary = svc.Summarize(&domain.AggregateMetrics{}, two)
	assert.Equal(t, "Consistent approach", summary.PacingLabel)
	assert.True(t, summary.PacingIsInformational)
}
