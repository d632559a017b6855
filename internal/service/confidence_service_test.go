package service

import (
	"testing"

	"hiremate/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceAssess_FullSampleCleanAttempt(t *testing.T) {
	svc := NewConfidenceService()

	perTask := []domain.TaskMetrics{
		{Completed: true, TotalTaskTime: 20},
		{Completed: true, TotalTaskTime: 30},
		{Completed: true, TotalTaskTime: 40},
		{Completed: true, TotalTaskTime: 50},
		{Completed: true, TotalTaskTime: 60},
	}
	consistency := &domain.ConsistencyReport{Score: 100, Confidence: domain.ConsistencyConfidenceHigh}

	result := svc.Assess(perTask, consistency, true)

	assert.Equal(t, 1.0, result.Factors["sample_size"])
	assert.Equal(t, 1.0, result.Factors["event_coverage"])
	assert.Equal(t, 1.0, result.Factors["cross_layer_agreement"])
	assert.Equal(t, 1.0, result.Factors["pattern_stability"])
	assert.Equal(t, 1.0, result.Factors["population_context"])
	assert.Equal(t, 1.0, result.Factors["consistency_confidence"])
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, domain.ConfidenceHigh, result.Level)
	assert.Equal(t, domain.ActionProceed, result.Action)
	assert.NotEmpty(t, result.Notes)
}

func TestConfidenceAssess_TinySampleRoutesToCaution(t *testing.T) {
	svc := NewConfidenceService()

	perTask := []domain.TaskMetrics{
		{Completed: true, TotalTaskTime: 30},
		{Completed: false},
		{Completed: false},
	}
	consistency := &domain.ConsistencyReport{
		Score:      55,
		Confidence: domain.ConsistencyConfidenceLow,
		Flags: []domain.ConsistencyFlag{
			{Code: domain.FlagPasteActivity, Deduction: 15},
			{Code: domain.FlagFrequentFocusLoss, Deduction: 10},
			{Code: domain.FlagCopyActivity, Deduction: 8},
		},
	}

	result := svc.Assess(perTask, consistency, false)

	assert.Equal(t, 0.3, result.Factors["sample_size"])
	assert.InDelta(t, 1.0/3.0, result.Factors["event_coverage"], 0.001)
	assert.Equal(t, 0.4, result.Factors["cross_layer_agreement"])
	assert.Equal(t, 0.7, result.Factors["pattern_stability"])
	assert.Equal(t, 0.5, result.Factors["population_context"])
	assert.Equal(t, 0.4, result.Factors["consistency_confidence"])
	assert.Equal(t, domain.ConfidenceLow, result.Level)
	assert.Equal(t, domain.ActionCaution, result.Action)
	assert.Less(t, result.Score, 0.50)
}

func TestConfidenceAssess_ModerateSample(t *testing.T) {
	svc := NewConfidenceService()

	perTask := []domain.TaskMetrics{
		{Completed: true, TotalTaskTime: 20},
		{Completed: true, TotalTaskTime: 35},
		{Completed: true, TotalTaskTime: 55},
	}
	consistency := &domain.ConsistencyReport{
		Score:      82,
		Confidence: domain.ConsistencyConfidenceModerate,
		Flags: []domain.ConsistencyFlag{
			{Code: domain.FlagPasteActivity, Deduction: 10},
			{Code: domain.FlagFrequentFocusLoss, Deduction: 8},
		},
	}

	result := svc.Assess(perTask, consistency, false)

	// 0.6*0.25 + 1.0*0.20 + 0.7*0.20 + 1.0*0.15 + 0.5*0.10 + 0.7*0.10.
	assert.InDelta(t, 0.76, result.Score, 0.001)
	assert.Equal(t, domain.ConfidenceHigh, result.Level)

	// Without the population baseline context the same attempt drops a
	// notch once a third significant flag appears.
	consistency.Flags = append(consistency.Flags, domain.ConsistencyFlag{Code: domain.FlagUniformTiming, Deduction: 8})
	result = svc.Assess(perTask, consistency, false)
	assert.Equal(t, 0.4, result.Factors["cross_layer_agreement"])
	assert.InDelta(t, 0.70, result.Score, 0.001)
	assert.Equal(t, domain.ConfidenceModerate, result.Level)
	assert.Equal(t, domain.ActionReview, result.Action)
}

func TestConfidenceAssess_NearIdenticalTimingLowersStability(t *testing.T) {
	svc := NewConfidenceService()

	perTask := []domain.TaskMetrics{
		{Completed: true, TotalTaskTime: 30.0},
		{Completed: true, TotalTaskTime: 30.2},
		{Completed: true, TotalTaskTime: 29.9},
		{Completed: true, TotalTaskTime: 30.1},
		{Completed: true, TotalTaskTime: 30.0},
	}
	consistency := &domain.ConsistencyReport{Score: 92, Confidence: domain.ConsistencyConfidenceHigh}

	result := svc.Assess(perTask, consistency, true)

	assert.Equal(t, 0.6, result.Factors["pattern_stability"])
	// Only stability drags the score: 1.0 - 0.4*0.15.
	assert.InDelta(t, 0.94, result.Score, 0.001)
}
