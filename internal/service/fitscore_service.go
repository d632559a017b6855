package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"hiremate/internal/config"
	"hiremate/internal/domain"
	"hiremate/internal/logger"
	"hiremate/internal/util"
)

// FitScoreService fuses the analysis layers into a single graded score
// and manages recruiter grade overrides.
type FitScoreService interface {
	Compute(aggregate *domain.AggregateMetrics, skills *domain.SkillProfile, resumeScore *float64) *domain.FitScore
	Save(ctx context.Context, score *domain.FitScore) error
	Get(ctx context.Context, attemptID string) (*domain.FitScore, error)
	Override(ctx context.Context, attemptID, recruiterID string, newGrade domain.Grade, reason string) (*domain.GradeOverride, error)
	ListOverrides(ctx context.Context, attemptID string) ([]*domain.GradeOverride, error)
}

// fitScoreService implements FitScoreService
type fitScoreService struct {
	outcomeRepo domain.OutcomeRepository
	cfg         *config.Config
}

// NewFitScoreService creates a new instance of fitScoreService
func NewFitScoreService(outcomeRepo domain.OutcomeRepository, cfg *config.Config) FitScoreService {
	return &fitScoreService{outcomeRepo: outcomeRepo, cfg: cfg}
}

// Compute fuses task outcomes, behavioral signals, skill axes, and an
// optional resume score into the overall 0..100 fit score. A missing
// resume score contributes zero rather than being imputed.
func (s *fitScoreService) Compute(aggregate *domain.AggregateMetrics, skills *domain.SkillProfile, resumeScore *float64) *domain.FitScore {
	sc := s.cfg.Scoring

	taskScore := 0.4*aggregate.CompletionRate*100 + 0.6*aggregate.AccuracyRate*100

	avgChanges := aggregate.AvgOptionChanges
	firmness := max(0, 100-min(100, avgChanges*(100/max(1, sc.HighChangesPerTask))))
	continuity := max(0, 100-min(100, float64(aggregate.TotalOptionChanges)*15))
	responseQuality := 100 - min(100, aggregate.AvgIdleSeconds)

	skipPenalty := float64(aggregate.TasksSkipped) * sc.SkipPenaltyPoints
	behaviorScore := util.Clamp(0.4*firmness+0.3*continuity+0.3*responseQuality-skipPenalty, 0, 100)

	skillScore := AverageSkillScore(skills)

	resume := 0.0
	if resumeScore != nil {
		resume = util.Clamp(*resumeScore, 0, 100)
	}

	focusAdj := min(sc.AdjustFocusCap, float64(aggregate.FocusLossCount)*sc.AdjustFocusRate)
	pasteAdj := min(sc.AdjustPasteCap, float64(aggregate.PasteCount)*sc.AdjustPasteRate)
	copyAdj := min(sc.AdjustCopyCap, float64(aggregate.CopyCount)*sc.AdjustCopyRate)
	idleAdj := min(sc.AdjustIdleCap, float64(aggregate.LongIdleCount)*sc.AdjustIdleRate)
	adjustment := min(sc.AdjustTotalCap, focusAdj+pasteAdj+copyAdj+idleAdj)

	var reasons []string
	if focusAdj > 0 {
		reasons = append(reasons, fmt.Sprintf("%d focus losses (-%.1f)", aggregate.FocusLossCount, focusAdj))
	}
	if pasteAdj > 0 {
		reasons = append(reasons, fmt.Sprintf("%d paste events (-%.1f)", aggregate.PasteCount, pasteAdj))
	}
	if copyAdj > 0 {
		reasons = append(reasons, fmt.Sprintf("%d copy events (-%.1f)", aggregate.CopyCount, copyAdj))
	}
	if idleAdj > 0 {
		reasons = append(reasons, fmt.Sprintf("%d long idle periods (-%.1f)", aggregate.LongIdleCount, idleAdj))
	}

	overall := sc.TaskWeight*taskScore +
		sc.BehaviorWeight*behaviorScore +
		sc.SkillWeight*skillScore +
		sc.ResumeWeight*resume -
		adjustment
	overall = max(0, math.Round(overall))

	component := func(raw, weight float64) domain.ScoreComponent {
		return domain.ScoreComponent{
			Raw:          util.Round1(raw),
			Weight:       weight,
			Contribution: util.Round1(weight * raw),
		}
	}

	return &domain.FitScore{
		AttemptID: aggregate.AttemptID,
		Overall:   overall,
		Grade:     domain.GradeForScore(overall),
		Breakdown: domain.FitScoreBreakdown{
			Task:                  component(taskScore, sc.TaskWeight),
			Behavior:              component(behaviorScore, sc.BehaviorWeight),
			Skill:                 component(skillScore, sc.SkillWeight),
			Resume:                component(resume, sc.ResumeWeight),
			Firmness:              util.Round1(firmness),
			Continuity:            util.Round1(continuity),
			ResponseQuality:       util.Round1(responseQuality),
			SkipPenalty:           skipPenalty,
			ConsistencyAdjustment: util.Round1(adjustment),
			AdjustmentReasons:     reasons,
		},
	}
}

// Save persists the fused score, replacing any earlier one.
func (s *fitScoreService) Save(ctx context.Context, score *domain.FitScore) error {
	if err := s.outcomeRepo.SaveFitScore(ctx, score); err != nil {
		return fmt.Errorf("failed to save fit score: %w", err)
	}
	return nil
}

// Get returns the stored score or nil when none has been computed yet.
func (s *fitScoreService) Get(ctx context.Context, attemptID string) (*domain.FitScore, error) {
	score, err := s.outcomeRepo.GetFitScore(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fit score: %w", err)
	}
	return score, nil
}

// Override records a recruiter grade decision. The stored score keeps
// the system grade; overrides form an append-only audit trail on top.
func (s *fitScoreService) Override(ctx context.Context, attemptID, recruiterID string, newGrade domain.Grade, reason string) (*domain.GradeOverride, error) {
	if !domain.ValidGrade(newGrade) {
		return nil, domain.NewInvalidOverrideError(fmt.Sprintf("unknown grade %q", newGrade))
	}
	if len(strings.TrimSpace(reason)) < domain.MinOverrideReasonLength {
		return nil, domain.NewInvalidOverrideError(
			fmt.Sprintf("override reason must be at least %d characters", domain.MinOverrideReasonLength))
	}

	score, err := s.outcomeRepo.GetFitScore(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fit score: %w", err)
	}
	if score == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}

	override := &domain.GradeOverride{
		AttemptID:     attemptID,
		RecruiterID:   recruiterID,
		OriginalGrade: score.Grade,
		NewGrade:      newGrade,
		Reason:        strings.TrimSpace(reason),
		CreatedAt:     time.Now(),
	}
	if err := s.outcomeRepo.SaveOverride(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to save grade override: %w", err)
	}
	logger.Get().Info("grade override recorded")
	return override, nil
}

// ListOverrides returns the override history oldest first.
func (s *fitScoreService) ListOverrides(ctx context.Context, attemptID string) ([]*domain.GradeOverride, error) {
	overrides, err := s.outcomeRepo.ListOverrides(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grade overrides: %w", err)
	}
	return overrides, nil
}
