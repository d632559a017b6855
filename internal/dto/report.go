package dto

import "hiremate/internal/domain"

// LiveReportResponse is the full assembled report for one attempt.
type LiveReportResponse struct {
	AttemptID   string                                                   `json:"attempt_id"`
	Status      string                                                   `json:"status"`
	Aggregate   *domain.AggregateMetrics                                 `json:"aggregate,omitempty"`
	TaskMetrics []domain.TaskMetrics                                     `json:"task_metrics,omitempty"`
	Skills      *domain.SkillProfile                                     `json:"skills,omitempty"`
	Behavior    *domain.BehavioralSummary                                `json:"behavior,omitempty"`
	Consistency *domain.ConsistencyReport                                `json:"consistency,omitempty"`
	Fit         *domain.FitScore                                         `json:"fit,omitempty"`
	Population  map[domain.PopulationMetric]*domain.PopulationComparison `json:"population,omitempty"`
	Confidence  *domain.ReportConfidence                                 `json:"confidence,omitempty"`
	Narrative   string                                                   `json:"narrative,omitempty"`
	GeneratedAt string                                                   `json:"generated_at"`
}

// PopulationSummaryResponse exposes the tracked distributions.
type PopulationSummaryResponse struct {
	Metrics map[domain.PopulationMetric]*PopulationMetricSummary `json:"metrics"`
}

// PopulationMetricSummary is one distribution's public view.
type PopulationMetricSummary struct {
	Count  int64                   `json:"count"`
	Mean   float64                 `json:"mean"`
	StdDev float64                 `json:"std_dev"`
	Bands  *domain.PercentileBands `json:"bands,omitempty"`
}
