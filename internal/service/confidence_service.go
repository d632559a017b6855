package service

import (
	"fmt"

	"hiremate/internal/domain"
	"hiremate/internal/util"
)

const (
	minTasksForConfidence     = 3
	minTasksForHighConfidence = 5

	// significantFlagDeduction is the deduction at which a consistency
	// flag counts as a cross-layer disagreement.
	significantFlagDeduction = 8
)

// ConfidenceService scores how much the platform trusts its own report.
// Low confidence never auto-flags a candidate; it only routes the report
// toward human review.
type ConfidenceService interface {
	Assess(perTask []domain.TaskMetrics, consistency *domain.ConsistencyReport, populationAvailable bool) *domain.ReportConfidence
}

// confidenceService implements ConfidenceService
type confidenceService struct{}

// NewConfidenceService creates a new instance of confidenceService
func NewConfidenceService() ConfidenceService {
	return &confidenceService{}
}

// Assess combines six weighted factors into a 0..1 confidence score.
func (s *confidenceService) Assess(perTask []domain.TaskMetrics, consistency *domain.ConsistencyReport, populationAvailable bool) *domain.ReportConfidence {
	factors := make(map[string]float64, 6)
	var notes []string

	// Sample size, weight 0.25.
	completed := 0
	for _, tm := range perTask {
		if tm.Completed {
			completed++
		}
	}
	var sampleScore float64
	switch {
	case completed >= minTasksForHighConfidence:
		sampleScore = 1.0
		notes = append(notes, fmt.Sprintf("Sufficient data: %d tasks analyzed", completed))
	case completed >= minTasksForConfidence:
		sampleScore = 0.6
		notes = append(notes, fmt.Sprintf("Moderate data: %d tasks (recommend 5+ for higher confidence)", completed))
	default:
		sampleScore = 0.3
		notes = append(notes, fmt.Sprintf("Limited data: only %d task(s) analyzed, results are preliminary", completed))
	}
	factors["sample_size"] = sampleScore

	// Event coverage, weight 0.20: share of assigned tasks whose event
	// chain reached a terminal state.
	coverage := 0.0
	if len(perTask) > 0 {
		coverage = min(1.0, float64(completed)/float64(len(perTask)))
	}
	factors["event_coverage"] = coverage
	notes = append(notes, fmt.Sprintf("Event coverage: %.0f%% of expected event chains captured", coverage*100))

	// Cross-layer agreement, weight 0.20: significant consistency flags
	// count as disagreement between analysis layers.
	significant := 0
	if consistency != nil {
		for _, f := range consistency.Flags {
			if f.Deduction >= significantFlagDeduction {
				significant++
			}
		}
	}
	switch {
	case significant == 0:
		factors["cross_layer_agreement"] = 1.0
		notes = append(notes, "All analysis layers show consistent patterns")
	case significant <= 2:
		factors["cross_layer_agreement"] = 0.7
		notes = append(notes, fmt.Sprintf("%d minor inconsistencies between layers", significant))
	default:
		factors["cross_layer_agreement"] = 0.4
		notes = append(notes, fmt.Sprintf("%d significant inconsistencies detected", significant))
	}

	// Pattern stability, weight 0.15: moderate timing variation is
	// healthy, near-zero or extreme variation lowers trust.
	stability, stabilityNote := patternStability(perTask)
	factors["pattern_stability"] = stability
	notes = append(notes, stabilityNote)

	// Population context, weight 0.10.
	if populationAvailable {
		factors["population_context"] = 1.0
		notes = append(notes, "Population baseline available for comparison")
	} else {
		factors["population_context"] = 0.5
		notes = append(notes, "Limited population data for comparison")
	}

	// Consistency confidence, weight 0.10.
	consistencyScore := 0.4
	if consistency != nil {
		switch consistency.Confidence {
		case domain.ConsistencyConfidenceHigh:
			consistencyScore = 1.0
		case domain.ConsistencyConfidenceModerate:
			consistencyScore = 0.7
		}
	}
	factors["consistency_confidence"] = consistencyScore

	score := factors["sample_size"]*0.25 +
		factors["event_coverage"]*0.20 +
		factors["cross_layer_agreement"]*0.20 +
		factors["pattern_stability"]*0.15 +
		factors["population_context"]*0.10 +
		factors["consistency_confidence"]*0.10
	score = util.Round2(score)

	result := &domain.ReportConfidence{
		Score:   score,
		Factors: factors,
		Notes:   notes,
	}
	switch {
	case score >= 0.75:
		result.Level = domain.ConfidenceHigh
		result.Action = domain.ActionProceed
	case score >= 0.50:
		result.Level = domain.ConfidenceModerate
		result.Action = domain.ActionReview
	default:
		result.Level = domain.ConfidenceLow
		result.Action = domain.ActionCaution
	}
	return result
}

func patternStability(perTask []domain.TaskMetrics) (float64, string) {
	if len(perTask) < 2 {
		return 0.5, "Insufficient data for stability analysis"
	}

	var times []float64
	for _, tm := range perTask {
		if tm.TotalTaskTime > 0 {
			times = append(times, tm.TotalTaskTime)
		}
	}
	if len(times) < 2 {
		return 0.7, "Moderate pattern stability"
	}

	cv := util.CoefficientOfVariation(times)
	switch {
	case cv >= 0.15 && cv <= 0.60:
		return 1.0, fmt.Sprintf("Stable patterns with healthy variation (%.0f%% coefficient of variation)", cv*100)
	case cv < 0.15:
		return 0.6, fmt.Sprintf("Low variation (%.0f%%), patterns may be overly consistent", cv*100)
	default:
		return 0.7, fmt.Sprintf("High variation (%.0f%%), patterns are somewhat erratic", cv*100)
	}
}
