package domain

import "time"

// Grade is the letter band assigned to an overall fit score.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// GradeForScore maps a 0..100 score to its letter band.
func GradeForScore(score float64) Grade {
	switch {
	case score >= 90:
		return GradeS
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeB
	case score >= 60:
		return GradeC
	default:
		return GradeD
	}
}

// ValidGrade reports whether g is one of the assignable bands.
func ValidGrade(g Grade) bool {
	switch g {
	case GradeS, GradeA, GradeB, GradeC, GradeD:
		return true
	}
	return false
}

// ScoreComponent is one weighted input to the overall fit score.
type ScoreComponent struct {
	Raw          float64 `json:"raw"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// FitScoreBreakdown exposes every component that fed the overall score.
// Summing the contributions and subtracting the consistency adjustment
// reproduces the overall score to within rounding.
type FitScoreBreakdown struct {
	Task                  ScoreComponent `json:"task"`
	Behavior              ScoreComponent `json:"behavior"`
	Skill                 ScoreComponent `json:"skill"`
	Resume                ScoreComponent `json:"resume"`
	Firmness              float64        `json:"firmness"`
	Continuity            float64        `json:"continuity"`
	ResponseQuality       float64        `json:"response_quality"`
	SkipPenalty           float64        `json:"skip_penalty"`
	ConsistencyAdjustment float64        `json:"consistency_adjustment"`
	AdjustmentReasons     []string       `json:"adjustment_reasons,omitempty"`
}

// FitScore is the fused candidate score with its audit trail.
type FitScore struct {
	AttemptID string            `json:"attempt_id"`
	Overall   float64           `json:"overall"`
	Grade     Grade             `json:"grade"`
	Breakdown FitScoreBreakdown `json:"breakdown"`
}

// GradeOverride records a recruiter's manual grade decision.
type GradeOverride struct {
	ID            string    `json:"id"`
	AttemptID     string    `json:"attempt_id"`
	RecruiterID   string    `json:"recruiter_id"`
	OriginalGrade Grade     `json:"original_grade"`
	NewGrade      Grade     `json:"new_grade"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// MinOverrideReasonLength is the shortest acceptable override reason.
const MinOverrideReasonLength = 20

// ConfidenceLevel grades the reliability of a generated report.
type ConfidenceLevel string

const (
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceModerate ConfidenceLevel = "moderate"
	ConfidenceLow      ConfidenceLevel = "low"
)

// ReportAction tells the consumer how to treat the report.
type ReportAction string

const (
	ActionProceed ReportAction = "proceed"
	ActionReview  ReportAction = "human_review"
	ActionCaution ReportAction = "interpret_with_caution"
)

// ReportConfidence is the gate decision with its factor breakdown.
type ReportConfidence struct {
	Score   float64            `json:"score"`
	Level   ConfidenceLevel    `json:"level"`
	Action  ReportAction       `json:"action"`
	Factors map[string]float64 `json:"factors"`
	Notes   []string           `json:"notes,omitempty"`
}
