package service

import (
	"fmt"

	"hiremate/internal/config"
	"hiremate/internal/domain"
	"hiremate/internal/util"
)

// SkillService derives the five radar-chart axes from aggregate metrics.
// Every score carries evidence so reviewers can trace the number back to
// raw measurements.
type SkillService interface {
	ComputeProfile(aggregate *domain.AggregateMetrics, perTask []domain.TaskMetrics) *domain.SkillProfile
}

// skillService implements SkillService
type skillService struct {
	cfg *config.Config
}

// NewSkillService creates a new instance of skillService
func NewSkillService(cfg *config.Config) SkillService {
	return &skillService{cfg: cfg}
}

// ComputeProfile implements SkillService. When no task has reached a
// terminal state the profile is all zeros with empty evidence; zeros here
// mean "no data", never "bad performance".
func (s *skillService) ComputeProfile(aggregate *domain.AggregateMetrics, perTask []domain.TaskMetrics) *domain.SkillProfile {
	profile := &domain.SkillProfile{
		AttemptID: aggregate.AttemptID,
		Scores:    make(map[domain.SkillAxis]float64),
		Evidence:  make(map[domain.SkillAxis]domain.SkillEvidence),
	}
	if aggregate.TasksCompleted == 0 {
		for _, axis := range domain.AllSkillAxes {
			profile.Scores[axis] = 0
		}
		return profile
	}

	sc := s.cfg.Scoring
	completionRate := aggregate.CompletionRate
	reasoningDepth := aggregate.ReasoningDepth
	avgSelect := aggregate.AvgTimeToSelect
	totalChanges := aggregate.TotalOptionChanges
	avgIdle := aggregate.AvgIdleSeconds

	// Task completion: completion carries most of the weight, reasoning
	// depth tops it up.
	taskCompletion := min(100, completionRate*60+reasoningDepth/2)
	profile.Scores[domain.AxisTaskCompletion] = clampScore(taskCompletion)
	profile.Evidence[domain.AxisTaskCompletion] = domain.SkillEvidence{
		Score: clampScore(taskCompletion),
		RawData: map[string]float64{
			"tasks_completed": float64(aggregate.TasksCompleted),
			"total_tasks":     float64(aggregate.TasksTotal),
			"completion_rate": util.Round1(completionRate * 100),
			"reasoning_depth": util.Round1(reasoningDepth),
		},
		Formula: fmt.Sprintf("min(100, (completion_rate × 60) + (reasoning_depth / 2)) = min(100, (%.2f × 60) + (%.1f / 2)) = %.0f",
			completionRate, reasoningDepth, taskCompletion),
		ContributingEvents: []string{
			fmt.Sprintf("Completed %d/%d tasks", aggregate.TasksCompleted, aggregate.TasksTotal),
			fmt.Sprintf("Average reasoning depth: %.1f%%", reasoningDepth),
		},
	}

	// Selection speed: piecewise on first-click time.
	var speedScore float64
	switch {
	case avgSelect < sc.FastDecisionSeconds:
		speedScore = 90 + 10*(1-avgSelect/sc.FastDecisionSeconds)
	case avgSelect < sc.SlowDecisionSeconds:
		ratio := (avgSelect - sc.FastDecisionSeconds) / (sc.SlowDecisionSeconds - sc.FastDecisionSeconds)
		speedScore = 90 - ratio*40
	default:
		speedScore = max(20, 50-(avgSelect-sc.SlowDecisionSeconds))
	}
	profile.Scores[domain.AxisSelectionSpeed] = clampScore(speedScore)
	profile.Evidence[domain.AxisSelectionSpeed] = domain.SkillEvidence{
		Score: clampScore(speedScore),
		RawData: map[string]float64{
			"avg_first_click_seconds": util.Round1(avgSelect),
			"threshold_fast":          sc.FastDecisionSeconds,
			"threshold_slow":          sc.SlowDecisionSeconds,
		},
		Formula: fmt.Sprintf("Piecewise on avg first-click time of %.1fs against %.0fs/%.0fs thresholds",
			avgSelect, sc.FastDecisionSeconds, sc.SlowDecisionSeconds),
		ContributingEvents: []string{
			fmt.Sprintf("Average first click: %.1fs", avgSelect),
			fmt.Sprintf("Classification: %s", aggregate.SpeedLabel),
		},
	}

	// Deliberation: explanation depth plus a completion bonus.
	deliberation := min(100, reasoningDepth+completionRate*30)
	profile.Scores[domain.AxisDeliberation] = clampScore(deliberation)
	profile.Evidence[domain.AxisDeliberation] = domain.SkillEvidence{
		Score: clampScore(deliberation),
		RawData: map[string]float64{
			"reasoning_depth": util.Round1(reasoningDepth),
			"completion_rate": util.Round1(completionRate * 100),
		},
		Formula: fmt.Sprintf("min(100, reasoning_depth + (completion_rate × 30)) = min(100, %.1f + (%.2f × 30)) = %.0f",
			reasoningDepth, completionRate, deliberation),
		ContributingEvents: []string{
			fmt.Sprintf("Reasoning depth: %.1f%%", reasoningDepth),
			fmt.Sprintf("Completion contribution: %.1f", completionRate*30),
		},
	}

	// Option exploration: gated on observed revisions. Zero means no
	// exploration was observed, not poor exploration.
	var exploration float64
	if totalChanges > 0 {
		capped := totalChanges
		if capped > 8 {
			capped = 8
		}
		exploration = min(100, float64(capped)*12)
	}
	profile.Scores[domain.AxisOptionExploration] = clampScore(exploration)
	profile.Evidence[domain.AxisOptionExploration] = domain.SkillEvidence{
		Score: clampScore(exploration),
		RawData: map[string]float64{
			"total_option_changes": float64(totalChanges),
			"avg_changes_per_task": util.Round1(aggregate.AvgOptionChanges),
		},
		Formula: fmt.Sprintf("min(100, min(total_changes, 8) × 12) = min(100, min(%d, 8) × 12) = %.0f",
			totalChanges, exploration),
		ContributingEvents: []string{
			fmt.Sprintf("Total option changes: %d", totalChanges),
			fmt.Sprintf("Average per task: %.1f", aggregate.AvgOptionChanges),
		},
	}

	// Risk preference: derived from pre-selection idle time.
	var riskPreference float64
	if avgIdle > 5 {
		riskPreference = min(100, 50+avgIdle*5)
	} else {
		riskPreference = max(30, avgIdle*10)
	}
	profile.Scores[domain.AxisRiskPreference] = clampScore(riskPreference)
	profile.Evidence[domain.AxisRiskPreference] = domain.SkillEvidence{
		Score: clampScore(riskPreference),
		RawData: map[string]float64{
			"avg_idle_seconds": util.Round1(avgIdle),
		},
		Formula: fmt.Sprintf("Based on avg pre-selection idle of %.1fs", avgIdle),
		ContributingEvents: []string{
			fmt.Sprintf("Average idle time: %.1fs", avgIdle),
			fmt.Sprintf("Deliberation level: %s", deliberationLevel(avgIdle)),
		},
	}

	return profile
}

// Average returns the mean of the five axis scores.
func AverageSkillScore(profile *domain.SkillProfile) float64 {
	if profile == nil || len(profile.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, axis := range domain.AllSkillAxes {
		sum += profile.Scores[axis]
	}
	return sum / float64(len(domain.AllSkillAxes))
}

func clampScore(v float64) float64 {
	return util.Clamp(float64(int(v)), 0, 100)
}

func deliberationLevel(avgIdle float64) string {
	if avgIdle > 5 {
		return "Some"
	}
	return "Minimal"
}
