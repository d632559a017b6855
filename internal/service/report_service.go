package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hiremate/internal/cache"
	"hiremate/internal/domain"
	"hiremate/internal/dto"
	"hiremate/internal/logger"
)

// reportCacheTTL bounds how stale a live report snapshot may be.
const reportCacheTTL = 5 * time.Second

// ReportService assembles the full candidate report from the analysis
// layers and manages its cached snapshot.
type ReportService interface {
	LiveReport(ctx context.Context, attemptID string) (*dto.LiveReportResponse, error)
	Finalize(ctx context.Context, attemptID string) (*dto.LiveReportResponse, error)
	PopulationSummary(ctx context.Context, recruiterID string) (*dto.PopulationSummaryResponse, error)
}

// reportService implements ReportService
type reportService struct {
	attempts      AttemptService
	metrics       MetricsService
	skills        SkillService
	behavior      BehaviorService
	consistency   ConsistencyService
	fitScores     FitScoreService
	population    PopulationService
	confidence    ConfidenceService
	candidateRepo domain.CandidateRepository
	narrative     domain.NarrativeGenerator
	fallback      domain.NarrativeGenerator
	cacheClient   domain.Cache
	broadcaster   domain.Broadcaster
}

// NewReportService creates a new instance of reportService
func NewReportService(
	attempts AttemptService,
	metrics MetricsService,
	skills SkillService,
	behavior BehaviorService,
	consistency ConsistencyService,
	fitScores FitScoreService,
	population PopulationService,
	confidence ConfidenceService,
	candidateRepo domain.CandidateRepository,
	narrative domain.NarrativeGenerator,
	fallback domain.NarrativeGenerator,
	cacheClient domain.Cache,
	broadcaster domain.Broadcaster,
) ReportService {
	return &reportService{
		attempts:      attempts,
		metrics:       metrics,
		skills:        skills,
		behavior:      behavior,
		consistency:   consistency,
		fitScores:     fitScores,
		population:    population,
		confidence:    confidence,
		candidateRepo: candidateRepo,
		narrative:     narrative,
		fallback:      fallback,
		cacheClient:   cacheClient,
		broadcaster:   broadcaster,
	}
}

// LiveReport returns the current report for an attempt. Snapshots are
// cached briefly so polling dashboards do not recompute the pipeline on
// every request.
func (s *reportService) LiveReport(ctx context.Context, attemptID string) (*dto.LiveReportResponse, error) {
	cacheKey := cache.GenerateCacheKey("report", "live", attemptID)
	if cached, err := s.cacheClient.Get(ctx, cacheKey); err == nil {
		var report dto.LiveReportResponse
		if jsonErr := json.Unmarshal([]byte(cached), &report); jsonErr == nil {
			return &report, nil
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("report cache read failed", zap.Error(err))
	}

	report, err := s.assemble(ctx, attemptID, false)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(report); err == nil {
		if err := s.cacheClient.Set(ctx, cacheKey, string(data), reportCacheTTL); err != nil {
			logger.Get().Warn("report cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

/// Finalize computes and persists the report for a completed attempt:
// the fit score is stored, the attempt joins the population
// distributions, the snapshot cache is dropped, and subscribers are
// notified.
func (s *reportService) Finalize(ctx context.Context, attemptID string) (*dto.LiveReportResponse, error) {
	report, err := s.assemble(ctx, attemptID, true)
	if err != nil {
		return nil, err
	}

	if err := s.cacheClient.Delete(ctx, cache.GenerateCacheKey("report", "live", attemptID)); err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("report cache invalidation failed", zap.Error(err))
	}
	s.broadcaster.PublishReportUpdate(ctx, attemptID, map[string]interface{}{
		"attempt_id": attemptID,
		"finalized":  true,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	return report, nil
}

func (s *reportService) assemble(ctx context.Context, attemptID string, finalize bool) (*dto.LiveReportResponse, error) {
	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	perTask, aggregate, err := s.metrics.Compute(ctx, attempt)
	if err != nil {
		return nil, fmt.Errorf("failed to compute metrics: %w", err)
	}

	skillProfile := s.skills.ComputeProfile(aggregate, perTask)
	behavior := s.behavior.Summarize(aggregate, perTask)
	consistencyReport := s.consistency.Analyze(attemptID, perTask, aggregate)

	var resumeScore *float64
	if candidate, err := s.candidateRepo.GetByID(ctx, attempt.CandidateID); err != nil {
		logger.Get().Warn("failed to load candidate for resume score", zap.Error(err))
	} else if candidate != nil {
		resumeScore = candidate.ResumeScore
	}

	fitScore := s.fitScores.Compute(aggregate, skillProfile, resumeScore)

	comparisons, err := s.population.CompareAll(ctx, attempt.RecruiterID, map[domain.PopulationMetric]float64{
		domain.MetricFitScore:           fitScore.Overall,
		domain.MetricCompletionRate:     aggregate.CompletionRate * 100,
		domain.MetricAccuracyRate:       aggregate.AccuracyRate * 100,
		domain.MetricAvgTimeToSelect:    aggregate.AvgTimeToSelect,
		domain.MetricReasoningDepth:     aggregate.ReasoningDepth,
		domain.MetricAvgOptionChanges:   aggregate.AvgOptionChanges,
		domain.MetricCheatingResilience: aggregate.CheatingResilience,
	})
	if err != nil {
		logger.Get().Warn("population comparison unavailable", zap.Error(err))
		comparisons = nil
	}

	populationAvailable := false
	for _, cmp := range comparisons {
		if cmp.Percentile != nil {
			populationAvailable = true
			break
		}
	}
	reportConfidence := s.confidence.Assess(perTask, consistencyReport, populationAvailable)

	if finalize {
		if err := s.fitScores.Save(ctx, fitScore); err != nil {
			return nil, err
		}
		if err := s.population.RecordAttempt(ctx, attempt.RecruiterID, aggregate, fitScore.Overall); err != nil {
			logger.Get().Warn("failed to record population sample", zap.Error(err))
		}
	}

	narrative := s.generateNarrative(ctx, domain.NarrativeInput{
		Aggregate:  aggregate,
		Skills:     skillProfile,
		Behavior:   behavior,
		Fit:        fitScore,
		Confidence: reportConfidence,
	})

	return &dto.LiveReportResponse{
		AttemptID:   attemptID,
		Status:      string(attempt.Status),
		Aggregate:   aggregate,
		TaskMetrics: perTask,
		Skills:      skillProfile,
		Behavior:    behavior,
		Consistency: consistencyReport,
		Fit:         fitScore,
		Population:  comparisons,
		Confidence:  reportConfidence,
		Narrative:   narrative,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// generateNarrative prefers the configured generator and falls back to
// the deterministic one on any failure. A report never fails because
// the language model is down.
func (s *reportService) generateNarrative(ctx context.Context, input domain.NarrativeInput) string {
	if s.narrative != nil {
		text, err := s.narrative.Generate(ctx, input)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			logger.Get().Warn("narrative generation failed, using fallback", zap.Error(err))
		}
	}
	text, err := s.fallback.Generate(ctx, input)
	if err != nil {
		return ""
	}
	return text
}

// PopulationSummary exposes a recruiter's tracked distributions for
// dashboards.
func (s *reportService) PopulationSummary(ctx context.Context, recruiterID string) (*dto.PopulationSummaryResponse, error) {
	all, err := s.population.Summary(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PopulationSummaryResponse{
		Metrics: make(map[domain.PopulationMetric]*dto.PopulationMetricSummary, len(all)),
	}
	for metric, stats := range all {
		summary := &dto.PopulationMetricSummary{
			Count:  stats.Count,
			Mean:   stats.Mean,
			StdDev: welfordStdDev(stats),
		}
		if stats.Count >= minSamplesForPercentile && len(stats.Samples) > 0 {
			summary.Bands = bandsOf(stats.Samples)
		}
		resp.Metrics[metric] = summary
	}
	return resp, nil
}
