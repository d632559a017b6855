package service

import (
	"testing"

	"hiremate/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSkillComputeProfile_NoCompletedTasksYieldsZeros(t *testing.T) {
	svc := NewSkillService(testConfig())

	agg := &domain.AggregateMetrics{AttemptID: "att-1", TasksTotal: 5}
	profile := svc.ComputeProfile(agg, nil)

	assert.Equal(t, "att-1", profile.AttemptID)
	for _, axis := range domain.AllSkillAxes {
		assert.Equal(t, 0.0, profile.Scores[axis])
	}
	assert.Empty(t, profile.Evidence)
	assert.Equal(t, 0.0, AverageSkillScore(profile))
}

func TestSkillComputeProfile_AxisFormulas(t *testing.T) {
	svc := NewSkillService(testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:          "att-2",
		TasksTotal:         5,
		TasksCompleted:     4,
		CompletionRate:     0.8,
		ReasoningDepth:     50,
		AvgTimeToSelect:    10,
		TotalOptionChanges: 3,
		AvgOptionChanges:   0.75,
		AvgIdleSeconds:     10,
		SpeedLabel:         domain.SpeedQuick,
	}

	profile := svc.ComputeProfile(agg, nil)

	// min(100, 0.8*60 + 50/2) = 73.
	assert.Equal(t, 73.0, profile.Scores[domain.AxisTaskCompletion])
	// 10s is under the fast threshold: 90 + 10*(1 - 10/15), truncated.
	assert.Equal(t, 93.0, profile.Scores[domain.AxisSelectionSpeed])
	// min(100, 50 + 0.8*30) = 74.
	assert.Equal(t, 74.0, profile.Scores[domain.AxisDeliberation])
	// min(100, min(3, 8)*12) = 36.
	assert.Equal(t, 36.0, profile.Scores[domain.AxisOptionExploration])
	// idle > 5: min(100, 50 + 10*5) = 100.
	assert.Equal(t, 100.0, profile.Scores[domain.AxisRiskPreference])

	assert.InDelta(t, 75.2, AverageSkillScore(profile), 0.001)
}

func TestSkillComputeProfile_EveryScoreCarriesEvidence(t *testing.T) {
	svc := NewSkillService(testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:       "att-3",
		TasksTotal:      3,
		TasksCompleted:  3,
		CompletionRate:  1.0,
		ReasoningDepth:  40,
		AvgTimeToSelect: 20,
		AvgIdleSeconds:  3,
	}

	profile := svc.ComputeProfile(agg, nil)

	for _, axis := range domain.AllSkillAxes {
		ev, ok := profile.Evidence[axis]
		assert.True(t, ok, "missing evidence for axis %s", axis)
		assert.Equal(t, profile.Scores[axis], ev.Score)
		assert.NotEmpty(t, ev.Formula)
		assert.NotEmpty(t, ev.RawData)
		assert.NotEmpty(t, ev.ContributingEvents)
	}

	assert.Equal(t, 3.0, profile.Evidence[domain.AxisTaskCompletion].RawData["tasks_completed"])
	assert.Equal(t, 100.0, profile.Evidence[domain.AxisTaskCompletion].RawData["completion_rate"])
}

func TestSkillComputeProfile_NoChangesMeansNoExplorationObserved(t *testing.T) {
	svc := NewSkillService(testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:      "att-4",
		TasksTotal:     2,
		TasksCompleted: 2,
		CompletionRate: 1.0,
	}

	profile := svc.ComputeProfile(agg, nil)
	assert.Equal(t, 0.0, profile.Scores[domain.AxisOptionExploration])
}

func TestSkillComputeProfile_SlowSelectionFloorsAtTwenty(t *testing.T) {
	svc := NewSkillService(testConfig())

	agg := &domain.AggregateMetrics{
		AttemptID:       "att-5",
		TasksTotal:      2,
		TasksCompleted:  2,
		CompletionRate:  1.0,
		AvgTimeToSelect: 120,
	}

	profile := svc.ComputeProfile(agg, nil)
	// max(20, 50 - (120 - 45)).
	assert.Equal(t, 20.0, profile.Scores[domain.AxisSelectionSpeed])
}
