package domain

// PopulationMetric names one of the tracked population distributions.
type PopulationMetric string

const (
	MetricFitScore           PopulationMetric = "fit_score"
	MetricCompletionRate     PopulationMetric = "completion_rate"
	MetricAccuracyRate       PopulationMetric = "accuracy_rate"
	MetricAvgTimeToSelect    PopulationMetric = "avg_time_to_select"
	MetricReasoningDepth     PopulationMetric = "reasoning_depth"
	MetricAvgOptionChanges   PopulationMetric = "avg_option_changes"
	MetricCheatingResilience PopulationMetric = "cheating_resilience"
)

// TrackedMetrics lists every distribution the population store maintains.
var TrackedMetrics = []PopulationMetric{
	MetricFitScore,
	MetricCompletionRate,
	MetricAccuracyRate,
	MetricAvgTimeToSelect,
	MetricReasoningDepth,
	MetricAvgOptionChanges,
	MetricCheatingResilience,
}

// PopulationStats holds running statistics for one metric within one
// recruiter's candidate pool. Mean and M2 follow Welford's online
// algorithm; Samples is a bounded ring of recent values kept for
// percentile queries.
type PopulationStats struct {
	RecruiterID string           `json:"recruiter_id"`
	Metric      PopulationMetric `json:"metric"`
	Count       int64            `json:"count"`
	Mean        float64          `json:"mean"`
	M2          float64          `json:"m2"`
	Samples     []float64        `json:"samples"`
}

// Percentiles reported for each tracked metric.
type PercentileBands struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// PopulationComparison places one candidate value within the population.
type PopulationComparison struct {
	Metric      PopulationMetric `json:"metric"`
	Value       float64          `json:"value"`
	Percentile  *float64         `json:"percentile"`
	Mean        float64          `json:"mean"`
	StdDev      float64          `json:"std_dev"`
	SampleCount int64            `json:"sample_count"`
	Bands       *PercentileBands `json:"bands,omitempty"`
}

// ConfidenceInterval is a symmetric interval around a value.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}
