package domain

// ConsistencyStatus summarizes the integrity review outcome.
type ConsistencyStatus string

const (
	ConsistencyClear   ConsistencyStatus = "clear"
	ConsistencyReview  ConsistencyStatus = "needs_review"
	ConsistencyFlagged ConsistencyStatus = "flagged"
)

// ConsistencyConfidence grades how much data backed the review.
type ConsistencyConfidence string

const (
	ConsistencyConfidenceHigh     ConsistencyConfidence = "high"
	ConsistencyConfidenceModerate ConsistencyConfidence = "moderate"
	ConsistencyConfidenceLow      ConsistencyConfidence = "low"
	ConsistencyInsufficientData   ConsistencyConfidence = "insufficient_data"
)

// ConsistencyFlag is one observation raised by the integrity analyzer.
// Every flag carries innocent explanations so reviewers never treat a
// flag as proof of misconduct.
type ConsistencyFlag struct {
	Code                 string   `json:"code"`
	Description          string   `json:"description"`
	Deduction            float64  `json:"deduction"`
	InnocentExplanations []string `json:"innocent_explanations"`
	WhatIsNormal         string   `json:"what_is_normal"`
	Recommendation       string   `json:"recommendation"`
}

// ConsistencyReport is the full integrity review of an attempt.
type ConsistencyReport struct {
	AttemptID  string                `json:"attempt_id"`
	Score      float64               `json:"score"`
	Status     ConsistencyStatus     `json:"status"`
	Confidence ConsistencyConfidence `json:"confidence"`
	Flags      []ConsistencyFlag     `json:"flags"`
}

const (
	FlagPasteActivity       = "paste_activity"
	FlagFrequentFocusLoss   = "frequent_focus_loss"
	FlagCopyActivity        = "copy_activity"
	FlagUniformTiming       = "uniform_timing"
	FlagInstantDecisions    = "instant_decisions"
	FlagIdenticalWordCounts = "identical_word_counts"
	FlagAlignedPauses       = "aligned_pauses"
	FlagSinglePattern       = "single_pattern"
)
