package service

import (
	"context"
	"testing"

	"hiremate/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPopulationRecordAttempt_UpdatesAllDistributions(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	agg := &domain.AggregateMetrics{
		CompletionRate:     0.8,
		AccuracyRate:       0.75,
		AvgTimeToSelect:    12.5,
		ReasoningDepth:     55,
		AvgOptionChanges:   1.2,
		CheatingResilience: 90,
	}

	err := svc.RecordAttempt(context.Background(), "rec-1", agg, 78)

	assert.NoError(t, err)
	assert.Len(t, repo.stats["rec-1"], 7)
	assert.InDelta(t, 78.0, repo.stats["rec-1"][domain.MetricFitScore].Mean, 0.001)
	assert.InDelta(t, 80.0, repo.stats["rec-1"][domain.MetricCompletionRate].Mean, 0.001)
	assert.InDelta(t, 75.0, repo.stats["rec-1"][domain.MetricAccuracyRate].Mean, 0.001)
	assert.Equal(t, int64(1), repo.stats["rec-1"][domain.MetricFitScore].Count)
}

func TestPopulationRecordAttempt_WelfordRunningMoments(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	for _, fit := range []float64{10, 20, 30} {
		err := svc.RecordAttempt(context.Background(), "rec-1", &domain.AggregateMetrics{}, fit)
		assert.NoError(t, err)
	}

	stats := repo.stats["rec-1"][domain.MetricFitScore]
	assert.Equal(t, int64(3), stats.Count)
	assert.InDelta(t, 20.0, stats.Mean, 0.001)
	assert.InDelta(t, 200.0, stats.M2, 0.001)
	assert.Len(t, stats.Samples, 3)
}

func TestPopulationCompare_WithholdsPercentileBelowFloor(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	for i := 0; i < 9; i++ {
		err := svc.RecordAttempt(context.Background(), "rec-1", &domain.AggregateMetrics{}, float64(i+1)*10)
		assert.NoError(t, err)
	}

	cmp, err := svc.Compare(context.Background(), "rec-1", domain.MetricFitScore, 55)

	assert.NoError(t, err)
	assert.Equal(t, int64(9), cmp.SampleCount)
	assert.Nil(t, cmp.Percentile)
	assert.Nil(t, cmp.Bands)
}

func TestPopulationCompare_PercentileAtFloor(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	for i := 0; i < 10; i++ {
		err := svc.RecordAttempt(context.Background(), "rec-1", &domain.AggregateMetrics{}, float64(i+1)*10)
		assert.NoError(t, err)
	}

	cmp, err := svc.Compare(context.Background(), "rec-1", domain.MetricFitScore, 55)

	assert.NoError(t, err)
	assert.NotNil(t, cmp.Percentile)
	// 5 of 10 samples fall strictly below 55.
	assert.InDelta(t, 50.0, *cmp.Percentile, 0.001)
	assert.NotNil(t, cmp.Bands)
	assert.InDelta(t, 55.0, cmp.Mean, 0.001)
}

func TestPopulationRecord_FoldsUnderRowLock(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	err := svc.RecordAttempt(context.Background(), "rec-1", &domain.AggregateMetrics{}, 80)

	assert.NoError(t, err)
	// Each of the seven metric folds reads through the locking path.
	assert.Equal(t, 7, repo.forUpdateCalls)
}

func TestPopulationPoolsAreRecruiterScoped(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	err := svc.RecordAttempt(context.Background(), "rec-1", &domain.AggregateMetrics{}, 80)
	assert.NoError(t, err)

	cmp, err := svc.Compare(context.Background(), "rec-2", domain.MetricFitScore, 80)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), cmp.SampleCount)
	assert.Equal(t, int64(1), repo.stats["rec-1"][domain.MetricFitScore].Count)
}

func TestPopulationCompare_UnknownMetricStillAnswers(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	cmp, err := svc.Compare(context.Background(), "rec-1", domain.MetricFitScore, 70)

	assert.NoError(t, err)
	assert.Equal(t, 70.0, cmp.Value)
	assert.Equal(t, int64(0), cmp.SampleCount)
	assert.Nil(t, cmp.Percentile)
}

func TestPopulationCompareAll_MixedAvailability(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	for i := 0; i < 12; i++ {
		err := svc.RecordAttempt(context.Background(), "rec-1", &domain.AggregateMetrics{CompletionRate: 0.5}, 60)
		assert.NoError(t, err)
	}

	values := map[domain.PopulationMetric]float64{
		domain.MetricFitScore:       65,
		domain.MetricCompletionRate: 40,
	}
	result, err := svc.CompareAll(context.Background(), "rec-1", values)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.NotNil(t, result[domain.MetricFitScore].Percentile)
	assert.NotNil(t, result[domain.MetricCompletionRate].Percentile)
	// Every stored sample is 60, all strictly below 65.
	assert.InDelta(t, 100.0, *result[domain.MetricFitScore].Percentile, 0.001)
	assert.InDelta(t, 0.0, *result[domain.MetricCompletionRate].Percentile, 0.001)
}

func TestPopulationConfidenceInterval_WideWithoutData(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	ci, err := svc.ConfidenceInterval(context.Background(), "rec-1", domain.MetricFitScore, 80)

	assert.NoError(t, err)
	assert.InDelta(t, 40.0, ci.Lower, 0.001)
	assert.InDelta(t, 120.0, ci.Upper, 0.001)
}

func TestPopulationConfidenceInterval_NarrowsWithSamples(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	for _, fit := range []float64{60, 70, 80, 90} {
		err := svc.RecordAttempt(context.Background(), "rec-1", &domain.AggregateMetrics{}, fit)
		assert.NoError(t, err)
	}

	ci, err := svc.ConfidenceInterval(context.Background(), "rec-1", domain.MetricFitScore, 75)

	assert.NoError(t, err)
	assert.Greater(t, ci.Lower, 60.0)
	assert.Less(t, ci.Upper, 90.0)
	assert.InDelta(t, 75.0, (ci.Lower+ci.Upper)/2, 0.001)
}

func TestPopulationConfidenceInterval_ZeroSpreadFallback(t *testing.T) {
	repo := newStubPopulationRepo()
	svc := NewPopulationService(repo, stubTxManager{})

	for i := 0; i < 3; i++ {
		err := svc.RecordAttempt(context.Background(), "rec-1", &domain.AggregateMetrics{}, 50)
		assert.NoError(t, err)
	}

	ci, err := svc.ConfidenceInterval(context.Background(), "rec-1", domain.MetricFitScore, 50)

	assert.NoError(t, err)
	// Sigma falls back to 0.3 of the value: 1.96*15/sqrt(3).
	assert.InDelta(t, 50-1.96*15/1.7320508, ci.Lower, 0.001)
	assert.InDelta(t, 50+1.96*15/1.7320508, ci.Upper, 0.001)
}
