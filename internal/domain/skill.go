package domain

// SkillAxis names one of the five derived skill dimensions.
type SkillAxis string

const (
	AxisTaskCompletion    SkillAxis = "task_completion"
	AxisSelectionSpeed    SkillAxis = "selection_speed"
	AxisDeliberation      SkillAxis = "deliberation"
	AxisOptionExploration SkillAxis = "option_exploration"
	AxisRiskPreference    SkillAxis = "risk_preference"
)

// AllSkillAxes lists the axes in presentation order.
var AllSkillAxes = []SkillAxis{
	AxisTaskCompletion,
	AxisSelectionSpeed,
	AxisDeliberation,
	AxisOptionExploration,
	AxisRiskPreference,
}

// SkillEvidence ties a score to the raw values and formula behind it so
// reviewers can audit every number.
type SkillEvidence struct {
	Score              float64            `json:"score"`
	RawData            map[string]float64 `json:"raw_data"`
	Formula            string             `json:"formula"`
	ContributingEvents []string           `json:"contributing_events"`
}

// SkillProfile holds all five axis scores with their evidence.
type SkillProfile struct {
	AttemptID string                      `json:"attempt_id"`
	Scores    map[SkillAxis]float64       `json:"scores"`
	Evidence  map[SkillAxis]SkillEvidence `json:"evidence"`
}

// BehavioralSummary is the qualitative read of the candidate's approach.
type BehavioralSummary struct {
	DominantPattern       string                  `json:"dominant_pattern"`
	WorkingMode           string                  `json:"working_mode"`
	Confidence            float64                 `json:"confidence"`
	Provisional           bool                    `json:"provisional"`
	PacingLabel           string                  `json:"pacing_label"`
	PacingIsInformational bool                    `json:"pacing_is_informational"`
	PatternDistribution   map[DecisionPattern]int `json:"pattern_distribution"`
	CompletedTaskCount    int                     `json:"completed_task_count"`
}
