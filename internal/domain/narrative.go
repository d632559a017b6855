package domain

import "context"

// NarrativeInput is the evidence bundle handed to a narrative generator.
type NarrativeInput struct {
	Aggregate  *AggregateMetrics
	Skills     *SkillProfile
	Behavior   *BehavioralSummary
	Fit        *FitScore
	Confidence *ReportConfidence
}

// NarrativeGenerator produces the human-readable summary paragraph of a
// report. Implementations must be side-effect free; a failure falls back
// to the deterministic template generator.
type NarrativeGenerator interface {
	Generate(ctx context.Context, input NarrativeInput) (string, error)
}
