package service

import (
	"fmt"
	"math"

	"hiremate/internal/config"
	"hiremate/internal/domain"
	"hiremate/internal/util"
)

// ConsistencyService reviews behavioral patterns for anomalies. It is not
// a cheating detector: every observation carries several innocent
// explanations and a reviewer recommendation, and the output never makes
// an accusation on its own.
type ConsistencyService interface {
	Analyze(attemptID string, perTask []domain.TaskMetrics, aggregate *domain.AggregateMetrics) *domain.ConsistencyReport
}

// consistencyService implements ConsistencyService
type consistencyService struct {
	cfg *config.Config
}

// NewConsistencyService creates a new instance of consistencyService
func NewConsistencyService(cfg *config.Config) ConsistencyService {
	return &consistencyService{cfg: cfg}
}

// Analyze implements ConsistencyService. Fewer than two completed tasks
// yields a perfect score with an insufficient-data confidence marker; low
// sample sizes must never look suspicious.
func (s *consistencyService) Analyze(attemptID string, perTask []domain.TaskMetrics, aggregate *domain.AggregateMetrics) *domain.ConsistencyReport {
	report := &domain.ConsistencyReport{
		AttemptID: attemptID,
		Score:     100,
		Status:    domain.ConsistencyClear,
	}
	completed := 0
	for _, tm := range perTask {
		if tm.Completed {
			completed++
		}
	}
	if completed < 2 {
		report.Confidence = domain.ConsistencyInsufficientData
		return report
	}

	var deductions float64

	// Paste events.
	if aggregate.PasteCount > 0 {
		d := min(15, float64(aggregate.PasteCount)*5)
		report.Flags = append(report.Flags, domain.ConsistencyFlag{
			Code:        domain.FlagPasteActivity,
			Description: fmt.Sprintf("Text appeared rapidly %d time(s) during the assessment.", aggregate.PasteCount),
			Deduction:   d,
			InnocentExplanations: []string{
				"Candidate pasted from personal notes they prepared",
				"Candidate used auto-fill or a text expansion tool",
			},
			WhatIsNormal:   "Most candidates type reasoning directly, but pasting prepared notes is not uncommon.",
			Recommendation: "Review explanation quality. Well-reasoned pasted content may indicate preparation.",
		})
		deductions += d
	}

	// Focus losses beyond the free allowance.
	if aggregate.FocusLossCount > s.cfg.Scoring.FreeFocusLosses {
		d := min(10, float64(aggregate.FocusLossCount-s.cfg.Scoring.FreeFocusLosses)*2)
		report.Flags = append(report.Flags, domain.ConsistencyFlag{
			Code:        domain.FlagFrequentFocusLoss,
			Description: fmt.Sprintf("Candidate navigated away from the assessment window %d times.", aggregate.FocusLossCount),
			Deduction:   d,
			InnocentExplanations: []string{
				"Candidate checked email, calendar, or a messaging app",
				"Notifications pulled focus without the candidate leaving",
			},
			WhatIsNormal:   "1-3 brief switches are common. Extended absences matter more than frequency.",
			Recommendation: "Consider total time away, not just count. Brief switches are typically benign.",
		})
		deductions += d
	}

	// Copy events.
	if aggregate.CopyCount > 0 {
		d := min(8, float64(aggregate.CopyCount)*4)
		report.Flags = append(report.Flags, domain.ConsistencyFlag{
			Code:        domain.FlagCopyActivity,
			Description: fmt.Sprintf("Candidate copied assessment content %d time(s).", aggregate.CopyCount),
			Deduction:   d,
			InnocentExplanations: []string{
				"Candidate copied the question to reference while writing notes",
				"Candidate saved the question for personal records",
			},
			WhatIsNormal:   "Copying is uncommon but not inherently suspicious. Context matters more than count.",
			Recommendation: "Check whether copying was followed by paste events or extended pauses.",
		})
		deductions += d
	}

	// Timing uniformity: under 10% variation across 3+ tasks is unusual.
	var times []float64
	for _, tm := range perTask {
		if tm.TotalTaskTime > 0 {
			times = append(times, tm.TotalTaskTime)
		}
	}
	if len(times) >= 3 {
		cv := util.CoefficientOfVariation(times)
		if cv < 0.10 {
			report.Flags = append(report.Flags, domain.ConsistencyFlag{
				Code:        domain.FlagUniformTiming,
				Description: fmt.Sprintf("Response times vary by only %.1f%% (typical range: 15-60%%).", cv*100),
				Deduction:   8,
				InnocentExplanations: []string{
					"Candidate is very practiced with this question type",
					"Questions were similar in difficulty and format",
					"Candidate used a consistent timing strategy",
				},
				WhatIsNormal:   "Most candidates vary by 10-30 seconds between questions due to varying complexity.",
				Recommendation: "Compare with explanation quality before drawing conclusions.",
			})
			deductions += 8
		}
	}

	// Zero revisions with uniformly instant first selections. Tasks with
	// no recorded selection carry a zero time and are left out.
	var firstSelects []float64
	totalChanges := 0
	for _, tm := range perTask {
		totalChanges += tm.OptionChanges
		if tm.TimeToFirstSelect > 0 {
			firstSelects = append(firstSelects, tm.TimeToFirstSelect)
		}
	}
	allInstant := totalChanges == 0 && len(firstSelects) >= 3
	for _, t := range firstSelects {
		if t >= 5 {
			allInstant = false
			break
		}
	}
	if allInstant {
		report.Flags = append(report.Flags, domain.ConsistencyFlag{
			Code:        domain.FlagInstantDecisions,
			Description: fmt.Sprintf("Zero answer changes across %d questions with every first selection under 5s.", len(firstSelects)),
			Deduction:   10,
			InnocentExplanations: []string{
				"Candidate has strong domain expertise and high confidence",
				"Candidate is familiar with this question format",
			},
			WhatIsNormal:   "Most candidates change 1-2 answers and take 5-15s for initial selections, but expertise can explain faster commitment.",
			Recommendation: "Check whether the accompanying explanations show genuine reasoning.",
		})
		deductions += 10
	}

	// Identical explanation word counts.
	var wordCounts []int
	for _, tm := range perTask {
		if tm.ReasoningWords > 0 {
			wordCounts = append(wordCounts, tm.ReasoningWords)
		}
	}
	if len(wordCounts) >= 3 && allEqual(wordCounts) {
		report.Flags = append(report.Flags, domain.ConsistencyFlag{
			Code:        domain.FlagIdenticalWordCounts,
			Description: fmt.Sprintf("All %d explanations contain exactly %d words.", len(wordCounts), wordCounts[0]),
			Deduction:   5,
			InnocentExplanations: []string{
				"Candidate used a template or structured format for responses",
				"Candidate has a consistent communication style",
			},
			WhatIsNormal:   "Typical responses show 30-50% variation in length based on question complexity.",
			Recommendation: "Read the explanations; identical structure matters less than identical content.",
		})
		deductions += 5
	}

	// Pauses aligned to round intervals.
	var idles []float64
	for _, tm := range perTask {
		if tm.TimeToFirstSelect > 0 {
			idles = append(idles, tm.TimeToFirstSelect)
		}
	}
	if len(idles) >= 3 {
		for _, base := range []float64{5, 10, 15} {
			aligned := 0
			for _, t := range idles {
				if t > base && math.Abs(math.Mod(t, base)) < 0.5 {
					aligned++
				}
			}
			if float64(aligned) >= float64(len(idles))*0.7 {
				report.Flags = append(report.Flags, domain.ConsistencyFlag{
					Code:        domain.FlagAlignedPauses,
					Description: fmt.Sprintf("%d of %d pauses align to %.0f-second intervals.", aligned, len(idles), base),
					Deduction:   5,
					InnocentExplanations: []string{
						"Candidate used a deliberate timing strategy",
						"Candidate took breaks at regular intervals",
					},
					WhatIsNormal:   "Natural thinking pauses are typically irregular, varying with question complexity.",
					Recommendation: "Treat as a style observation unless other flags co-occur.",
				})
				deductions += 5
				break
			}
		}
	}

	// Same pattern on every task (only meaningful with 4+ tasks).
	var patterns []domain.DecisionPattern
	for _, tm := range perTask {
		if tm.Pattern != "" {
			patterns = append(patterns, tm.Pattern)
		}
	}
	if len(patterns) >= 4 && allEqualPatterns(patterns) {
		report.Flags = append(report.Flags, domain.ConsistencyFlag{
			Code:        domain.FlagSinglePattern,
			Description: fmt.Sprintf("Pattern %q on all %d questions.", patterns[0], len(patterns)),
			Deduction:   3,
			InnocentExplanations: []string{
				"Candidate has a well-established problem-solving methodology",
				"Questions were similar in type, warranting a consistent approach",
			},
			WhatIsNormal:   "Most candidates adapt their approach slightly based on question type, but consistency can indicate expertise.",
			Recommendation: "Consider whether a consistent approach aligns with role requirements.",
		})
		deductions += 3
	}

	report.Score = max(0, 100-deductions)
	switch {
	case report.Score >= 85:
		report.Status = domain.ConsistencyClear
		report.Confidence = domain.ConsistencyConfidenceHigh
	case report.Score >= 60:
		report.Status = domain.ConsistencyReview
		report.Confidence = domain.ConsistencyConfidenceModerate
	default:
		report.Status = domain.ConsistencyFlagged
		report.Confidence = domain.ConsistencyConfidenceLow
	}
	return report
}

func allEqual(values []int) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func allEqualPatterns(values []domain.DecisionPattern) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
