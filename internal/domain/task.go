package domain

import "time"

// RiskLevel classifies a task option by the risk its choice implies.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TaskOption is one selectable answer of a scenario task.
type TaskOption struct {
	ID        string
	TaskID    string
	Label     string
	Body      string
	RiskLevel RiskLevel
	Position  int
}

// Task is a scenario question presented to the candidate.
type Task struct {
	ID          string
	Title       string
	Scenario    string
	Category    string
	Options     []TaskOption
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OptionRisk returns the risk level of the option with the given ID,
// or empty when the option is unknown.
func (t *Task) OptionRisk(optionID string) RiskLevel {
	for _, o := range t.Options {
		if o.ID == optionID {
			return o.RiskLevel
		}
	}
	return ""
}
