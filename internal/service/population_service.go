package service

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"hiremate/internal/domain"
	"hiremate/internal/logger"
	"hiremate/internal/util"
)

const (
	// maxSamples bounds the per-metric ring kept for percentile queries.
	maxSamples = 1000
	// minSamplesForPercentile is the floor below which percentile
	// comparisons are withheld.
	minSamplesForPercentile = 10
)

// PopulationService maintains anonymous running distributions of
// assessment outcomes per recruiter pool and answers comparison queries
// against them.
type PopulationService interface {
	RecordAttempt(ctx context.Context, recruiterID string, aggregate *domain.AggregateMetrics, fitScore float64) error
	Compare(ctx context.Context, recruiterID string, metric domain.PopulationMetric, value float64) (*domain.PopulationComparison, error)
	CompareAll(ctx context.Context, recruiterID string, values map[domain.PopulationMetric]float64) (map[domain.PopulationMetric]*domain.PopulationComparison, error)
	Summary(ctx context.Context, recruiterID string) (map[domain.PopulationMetric]*domain.PopulationStats, error)
	ConfidenceInterval(ctx context.Context, recruiterID string, metric domain.PopulationMetric, value float64) (*domain.ConfidenceInterval, error)
}

// populationService implements PopulationService
type populationService struct {
	popRepo   domain.PopulationRepository
	txManager domain.TransactionManager
}

// NewPopulationService creates a new instance of populationService
func NewPopulationService(popRepo domain.PopulationRepository, txManager domain.TransactionManager) PopulationService {
	return &populationService{popRepo: popRepo, txManager: txManager}
}

// RecordAttempt folds one completed attempt into every tracked
// distribution of the recruiter's pool. Updates fan out per metric; a failure on one metric does
// not block the others.
func (s *populationService) RecordAttempt(ctx context.Context, recruiterID string, aggregate *domain.AggregateMetrics, fitScore float64) error {
	values := map[domain.PopulationMetric]float64{
		domain.MetricFitScore:           fitScore,
		domain.MetricCompletionRate:     aggregate.CompletionRate * 100,
		domain.MetricAccuracyRate:       aggregate.AccuracyRate * 100,
		domain.MetricAvgTimeToSelect:    aggregate.AvgTimeToSelect,
		domain.MetricReasoningDepth:     aggregate.ReasoningDepth,
		domain.MetricAvgOptionChanges:   aggregate.AvgOptionChanges,
		domain.MetricCheatingResilience: aggregate.CheatingResilience,
	}

	g, gc := errgroup.WithContext(ctx)
	for metric, value := range values {
		g.Go(func() error {
			if err := s.record(gc, recruiterID, metric, value); err != nil {
				return fmt.Errorf("failed to record %s sample: %w", metric, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Get().Debug("population distributions updated")
	return nil
}

// record folds one value into a distribution. The read and the write
// back run in one transaction with the row locked, so two attempts
// completing at the same moment cannot lose each other's sample.
func (s *populationService) record(ctx context.Context, recruiterID string, metric domain.PopulationMetric, value float64) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		stats, err := s.popRepo.GetForUpdate(txCtx, recruiterID, metric)
		if err != nil {
			return err
		}
		if stats == nil {
			stats = &domain.PopulationStats{RecruiterID: recruiterID, Metric: metric}
		}

		// Welford's online update.
		stats.Count++
		delta := value - stats.Mean
		stats.Mean += delta / float64(stats.Count)
		stats.M2 += delta * (value - stats.Mean)

		stats.Samples = append(stats.Samples, value)
		if len(stats.Samples) > maxSamples {
			stats.Samples = stats.Samples[len(stats.Samples)-maxSamples:]
		}

		return s.popRepo.Save(txCtx, stats)
	})
}

// Compare places a value within one distribution. Percentile is nil when
// fewer than ten samples exist so tiny populations never produce
// misleading rankings.
func (s *populationService) Compare(ctx context.Context, recruiterID string, metric domain.PopulationMetric, value float64) (*domain.PopulationComparison, error) {
	stats, err := s.popRepo.Get(ctx, recruiterID, metric)
	if err != nil {
		return nil, fmt.Errorf("failed to get population stats for %s: %w", metric, err)
	}

	cmp := &domain.PopulationComparison{
		Metric: metric,
		Value:  value,
	}
	if stats == nil {
		return cmp, nil
	}

	cmp.Mean = stats.Mean
	cmp.StdDev = welfordStdDev(stats)
	cmp.SampleCount = stats.Count

	if stats.Count >= minSamplesForPercentile && len(stats.Samples) > 0 {
		p := percentileOf(stats.Samples, value)
		cmp.Percentile = &p
		cmp.Bands = bandsOf(stats.Samples)
	}
	return cmp, nil
}

// CompareAll runs Compare for each value; metrics without stored
// distributions still yield a comparison with a nil percentile.
func (s *populationService) CompareAll(ctx context.Context, recruiterID string, values map[domain.PopulationMetric]float64) (map[domain.PopulationMetric]*domain.PopulationComparison, error) {
	all, err := s.popRepo.GetAll(ctx, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load population stats: %w", err)
	}

	result := make(map[domain.PopulationMetric]*domain.PopulationComparison, len(values))
	for metric, value := range values {
		cmp := &domain.PopulationComparison{Metric: metric, Value: value}
		if stats, ok := all[metric]; ok && stats != nil {
			cmp.Mean = stats.Mean
			cmp.StdDev = welfordStdDev(stats)
			cmp.SampleCount = stats.Count
			if stats.Count >= minSamplesForPercentile && len(stats.Samples) > 0 {
				p := percentileOf(stats.Samples, value)
				cmp.Percentile = &p
				cmp.Bands = bandsOf(stats.Samples)
			}
		}
		result[metric] = cmp
	}
	return result, nil
}

// Summary returns the raw stored distributions for every tracked metric.
func (s *populationService) Summary(ctx context.Context, recruiterID string) (map[domain.PopulationMetric]*domain.PopulationStats, error) {
	all, err := s.popRepo.GetAll(ctx, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load population stats: %w", err)
	}
	return all, nil
}

// ConfidenceInterval returns a 95% interval for a value given the stored
// spread of the metric. With fewer than two samples the spread is
// unknown, so a wide interval of half to one-and-a-half times the value
// is returned instead.
func (s *populationService) ConfidenceInterval(ctx context.Context, recruiterID string, metric domain.PopulationMetric, value float64) (*domain.ConfidenceInterval, error) {
	stats, err := s.popRepo.Get(ctx, recruiterID, metric)
	if err != nil {
		return nil, fmt.Errorf("failed to get population stats for %s: %w", metric, err)
	}

	if stats == nil || stats.Count < 2 {
		return &domain.ConfidenceInterval{Lower: 0.5 * value, Upper: 1.5 * value}, nil
	}

	sigma := welfordStdDev(stats)
	if sigma == 0 {
		sigma = 0.3 * value
	}
	margin := 1.96 * sigma / math.Sqrt(float64(stats.Count))
	return &domain.ConfidenceInterval{Lower: value - margin, Upper: value + margin}, nil
}

func welfordStdDev(stats *domain.PopulationStats) float64 {
	if stats.Count < 2 {
		return 0
	}
	return math.Sqrt(stats.M2 / float64(stats.Count))
}

// percentileOf returns the share of stored samples strictly below value.
func percentileOf(samples []float64, value float64) float64 {
	below := 0
	for _, s := range samples {
		if s < value {
			below++
		}
	}
	return util.Round1(float64(below) / float64(len(samples)) * 100)
}

func bandsOf(samples []float64) *domain.PercentileBands {
	return &domain.PercentileBands{
		P10: util.Percentile(samples, 10),
		P25: util.Percentile(samples, 25),
		P50: util.Percentile(samples, 50),
		P75: util.Percentile(samples, 75),
		P90: util.Percentile(samples, 90),
	}
}
