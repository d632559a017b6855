package narrative

import (
	"context"
	"fmt"
	"strings"

	"hiremate/internal/domain"
)

// templateNarrative is the deterministic fallback generator. It is always
// available and never errors.
type templateNarrative struct{}

// NewTemplateNarrative creates a generator that renders the report
// summary from fixed templates.
func NewTemplateNarrative() domain.NarrativeGenerator {
	return templateNarrative{}
}

// Generate implements domain.NarrativeGenerator.
func (templateNarrative) Generate(ctx context.Context, input domain.NarrativeInput) (string, error) {
	var parts []string

	if agg := input.Aggregate; agg != nil {
		parts = append(parts, fmt.Sprintf(
			"The candidate completed %d of %d tasks (%.0f%% accuracy on completed tasks).",
			agg.TasksCompleted, agg.TasksTotal, agg.AccuracyRate*100))
		if agg.TasksSkipped > 0 {
			parts = append(parts, fmt.Sprintf("%d task(s) were skipped.", agg.TasksSkipped))
		}
	}
	if b := input.Behavior; b != nil && b.WorkingMode != "" {
		mode := b.WorkingMode
		if b.Provisional {
			mode += " (provisional, limited data)"
		}
		parts = append(parts, fmt.Sprintf("Observed working mode: %s. %s.", mode, b.PacingLabel))
	}
	if f := input.Fit; f != nil {
		parts = append(parts, fmt.Sprintf("Overall fit score %.1f, grade %s.", f.Overall, f.Grade))
	}
	if c := input.Confidence; c != nil && c.Level != domain.ConfidenceHigh {
		parts = append(parts, fmt.Sprintf(
			"Report confidence is %s; treat these figures as one input among several.", c.Level))
	}

	if len(parts) == 0 {
		return "Not enough assessment data was recorded to summarize this attempt.", nil
	}
	return strings.Join(parts, " "), nil
}
