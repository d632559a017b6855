package service

import (
	"context"
	"testing"

	"hiremate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func fullSkillProfile(score float64) *domain.SkillProfile {
	profile := &domain.SkillProfile{Scores: make(map[domain.SkillAxis]float64)}
	for _, axis := range domain.AllSkillAxes {
		profile.Scores[axis] = score
	}
	return profile
}

func TestFitScoreCompute_FusesLayers(t *testing.T) {
	svc := NewFitScoreService(new(MockOutcomeRepository), testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:      "att-1",
		TasksTotal:     5,
		TasksCompleted: 5,
		TasksCorrect:   5,
		CompletionRate: 1.0,
		AccuracyRate:   1.0,
		AvgIdleSeconds: 10,
	}

	score := svc.Compute(agg, fullSkillProfile(80), nil)

	assert.Equal(t, "att-1", score.AttemptID)
	assert.InDelta(t, 100.0, score.Breakdown.Task.Raw, 0.001)
	// 0.4*100 firmness + 0.3*100 continuity + 0.3*90 response quality.
	assert.InDelta(t, 97.0, score.Breakdown.Behavior.Raw, 0.001)
	assert.InDelta(t, 80.0, score.Breakdown.Skill.Raw, 0.001)
	assert.InDelta(t, 0.0, score.Breakdown.Resume.Raw, 0.001)
	assert.InDelta(t, 0.0, score.Breakdown.ConsistencyAdjustment, 0.001)
	// round(0.30*100 + 0.35*97 + 0.25*80).
	assert.Equal(t, 84.0, score.Overall)
	assert.Equal(t, domain.GradeA, score.Grade)
}

func TestFitScoreCompute_ConsistencyAdjustment(t *testing.T) {
	svc := NewFitScoreService(new(MockOutcomeRepository), testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:      "att-2",
		TasksTotal:     5,
		TasksCompleted: 5,
		TasksCorrect:   5,
		CompletionRate: 1.0,
		AccuracyRate:   1.0,
		AvgIdleSeconds: 10,
		FocusLossCount: 10,
		PasteCount:     1,
		CopyCount:      1,
		LongIdleCount:  1,
	}

	score := svc.Compute(agg, fullSkillProfile(80), nil)

	// Focus capped at 3, paste 1.5, copy 2, idle 0.5.
	assert.InDelta(t, 7.0, score.Breakdown.ConsistencyAdjustment, 0.001)
	assert.Equal(t, 77.0, score.Overall)
	assert.Equal(t, domain.GradeB, score.Grade)
}

func TestFitScoreCompute_ResumeScoreClampedAndWeighted(t *testing.T) {
	svc := NewFitScoreService(new(MockOutcomeRepository), testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:      "att-3",
		TasksTotal:     5,
		TasksCompleted: 5,
		TasksCorrect:   5,
		CompletionRate: 1.0,
		AccuracyRate:   1.0,
		AvgIdleSeconds: 10,
	}

	resume := 150.0
	score := svc.Compute(agg, fullSkillProfile(80), &resume)

	assert.InDelta(t, 100.0, score.Breakdown.Resume.Raw, 0.001)
	assert.Equal(t, 94.0, score.Overall)
	assert.Equal(t, domain.GradeS, score.Grade)
}

func TestFitScoreCompute_SkipsAndRevisionsLowerBehavior(t *testing.T) {
	svc := NewFitScoreService(new(MockOutcomeRepository), testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:          "att-4",
		TasksTotal:         5,
		TasksCompleted:     4,
		TasksSkipped:       2,
		TasksCorrect:       2,
		CompletionRate:     0.8,
		AccuracyRate:       0.5,
		TotalOptionChanges: 4,
		AvgOptionChanges:   1.0,
		AvgIdleSeconds:     20,
	}

	score := svc.Compute(agg, fullSkillProfile(50), nil)

	// firmness 75, continuity 40, response quality 80, minus 2 skips.
	assert.InDelta(t, 56.0, score.Breakdown.Behavior.Raw, 0.001)
	assert.InDelta(t, 62.0, score.Breakdown.Task.Raw, 0.001)
	assert.Equal(t, domain.GradeD, score.Grade)
}

func TestFitScoreCompute_ContributionsExplainOverall(t *testing.T) {
	svc := NewFitScoreService(new(MockOutcomeRepository), testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:          "att-5",
		TasksTotal:         5,
		TasksCompleted:     4,
		TasksSkipped:       1,
		TasksCorrect:       3,
		CompletionRate:     0.8,
		AccuracyRate:       0.75,
		TotalOptionChanges: 3,
		AvgOptionChanges:   0.75,
		AvgIdleSeconds:     12,
		FocusLossCount:     4,
		PasteCount:         1,
	}

	resume := 70.0
	score := svc.Compute(agg, fullSkillProfile(65), &resume)

	b := score.Breakdown
	for _, c := range []domain.ScoreComponent{b.Task, b.Behavior, b.Skill, b.Resume} {
		assert.Greater(t, c.Weight, 0.0)
		assert.InDelta(t, c.Raw*c.Weight, c.Contribution, 0.05)
	}
	sum := b.Task.Contribution + b.Behavior.Contribution + b.Skill.Contribution + b.Resume.Contribution
	assert.InDelta(t, score.Overall, sum-b.ConsistencyAdjustment, 1.0)
	assert.NotEmpty(t, b.AdjustmentReasons)
}

func TestFitScoreOverride_RejectsUnknownGrade(t *testing.T) {
	mockRepo := new(MockOutcomeRepository)
	svc := NewFitScoreService(mockRepo, testConfig())

	_, err := svc.Override(context.Background(), "att-1", "rec-1", "Z", "the candidate showed strong system design judgment")

	assert.Error(t, err)
	domainErr, ok := err.(*domain.DomainError)
	assert.True(t, ok)
	assert.Equal(t, domain.ErrInvalidOverride, domainErr.Code)
	mockRepo.AssertNotCalled(t, "SaveOverride", mock.Anything, mock.Anything)
}

func TestFitScoreOverride_RejectsShortReason(t *testing.T) {
	mockRepo := new(MockOutcomeRepository)
	svc := NewFitScoreService(mockRepo, testConfig())

	_, err := svc.Override(context.Background(), "att-1", "rec-1", domain.GradeA, "  looks fine  ")

	assert.Error(t, err)
	domainErr, ok := err.(*domain.DomainError)
	assert.True(t, ok)
	assert.Equal(t, domain.ErrInvalidOverride, domainErr.Code)
	mockRepo.AssertNotCalled(t, "GetFitScore", mock.Anything, mock.Anything)
}

func TestFitScoreOverride_RequiresExistingScore(t *testing.T) {
	mockRepo := new(MockOutcomeRepository)
	svc := NewFitScoreService(mockRepo, testConfig())

	mockRepo.On("GetFitScore", mock.Anything, "att-1").Return(nil, nil)

	_, err := svc.Override(context.Background(), "att-1", "rec-1", domain.GradeA, "the candidate showed strong system design judgment")

	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}

func TestFitScoreOverride_RecordsAuditTrail(t *testing.T) {
	mockRepo := new(MockOutcomeRepository)
	svc := NewFitScoreService(mockRepo, testConfig())

	stored := &domain.FitScore{AttemptID: "att-1", Overall: 72, Grade: domain.GradeB}
	mockRepo.On("GetFitScore", mock.Anything, "att-1").Return(stored, nil)
	mockRepo.On("SaveOverride", mock.Anything, mock.AnythingOfType("*domain.GradeOverride")).Return(nil)

	override, err := svc.Override(context.Background(), "att-1", "rec-1", domain.GradeA, "  interview performance outweighs the timing flags  ")

	assert.NoError(t, err)
	assert.Equal(t, domain.GradeB, override.OriginalGrade)
	assert.Equal(t, domain.GradeA, override.NewGrade)
	assert.Equal(t, "interview performance outweighs the timing flags", override.Reason)
	assert.Equal(t, "rec-1", override.RecruiterID)
	mockRepo.AssertExpectations(t)
}
