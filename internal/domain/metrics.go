package domain

// DecisionPattern labels how a candidate worked through a single task.
type DecisionPattern string

const (
	PatternDirect       DecisionPattern = "Direct"
	PatternIterative    DecisionPattern = "Iterative"
	PatternDeliberative DecisionPattern = "Deliberative"
	PatternBalanced     DecisionPattern = "Balanced"
)

// DecisionSpeed buckets the time from task start to first selection.
type DecisionSpeed string

const (
	SpeedQuick    DecisionSpeed = "Quick"
	SpeedModerate DecisionSpeed = "Moderate"
	SpeedExtended DecisionSpeed = "Extended"
)

// IdleLevel buckets the average pre-selection idle time of an attempt.
type IdleLevel string

const (
	IdleLow      IdleLevel = "Low"
	IdleModerate IdleLevel = "Moderate"
	IdleHigh     IdleLevel = "High"
)

// TaskMetrics holds the per-task measurements derived from the event log.
// A skipped task still counts as terminal for timing purposes; its
// IsCorrect is always false.
type TaskMetrics struct {
	TaskID            string          `json:"task_id"`
	Completed         bool            `json:"completed"`
	Skipped           bool            `json:"skipped"`
	IsCorrect         bool            `json:"is_correct"`
	SelectedOptionID  string          `json:"selected_option_id,omitempty"`
	TimeToFirstSelect float64         `json:"time_to_first_select"`
	TotalTaskTime     float64         `json:"total_task_time"`
	OptionChanges     int             `json:"option_changes"`
	DecisionSpeed     DecisionSpeed   `json:"decision_speed"`
	Pattern           DecisionPattern `json:"pattern"`
	ReasoningWords    int             `json:"reasoning_words"`
	ConnectorCount    int             `json:"connector_count"`
	ExplanationDetail float64         `json:"explanation_detail"`
	Continuity        float64         `json:"continuity"`
	FocusLossCount    int             `json:"focus_loss_count"`
	PasteCount        int             `json:"paste_count"`
	CopyCount         int             `json:"copy_count"`
	IdleEventCount    int             `json:"idle_event_count"`
}

// AggregateMetrics combines per-task metrics into attempt-level figures.
type AggregateMetrics struct {
	AttemptID           string        `json:"attempt_id"`
	TasksTotal          int           `json:"tasks_total"`
	TasksCompleted      int           `json:"tasks_completed"`
	TasksSkipped        int           `json:"tasks_skipped"`
	TasksCorrect        int           `json:"tasks_correct"`
	CompletionRate      float64       `json:"completion_rate"`
	AccuracyRate        float64       `json:"accuracy_rate"`
	AvgTimeToSelect     float64       `json:"avg_time_to_select"`
	SpeedLabel          DecisionSpeed `json:"speed_label"`
	AvgTaskTime         float64       `json:"avg_task_time"`
	TotalOptionChanges  int           `json:"total_option_changes"`
	AvgOptionChanges    float64       `json:"avg_option_changes"`
	AvgIdleSeconds      float64       `json:"avg_idle_seconds"`
	IdleLevel           IdleLevel     `json:"idle_level"`
	LongIdleCount       int           `json:"long_idle_count"`
	FocusLossCount      int           `json:"focus_loss_count"`
	PasteCount          int           `json:"paste_count"`
	CopyCount           int           `json:"copy_count"`
	TotalReasoningWords int           `json:"total_reasoning_words"`
	ReasoningDepth      float64       `json:"reasoning_depth"`
	CheatingResilience  float64       `json:"cheating_resilience"`
	AvgContinuity       float64       `json:"avg_continuity"`
}
