package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hiremate/internal/domain"
	"hiremate/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// ollamaNarrative implements domain.NarrativeGenerator on a local LLM.
type ollamaNarrative struct {
	llmClient *ollama.LLM
	timeout   time.Duration
}

// NewOllamaNarrative creates a new instance of ollamaNarrative.
func NewOllamaNarrative(llm *ollama.LLM, timeout time.Duration) domain.NarrativeGenerator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ollamaNarrative{llmClient: llm, timeout: timeout}
}

// Generate implements domain.NarrativeGenerator.
func (g *ollamaNarrative) Generate(ctx context.Context, input domain.NarrativeInput) (string, error) {
	l := logger.Get()

	prompt := buildPrompt(input)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.llmClient.Call(callCtx, prompt, llms.WithTemperature(0.2))
	if err != nil {
		l.Error("Failed to get narrative from LLM", zap.Error(err))
		return "", domain.NewNarrativeServiceError(err)
	}

	narrative := strings.TrimSpace(response)
	if thinkStart := strings.Index(narrative, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(narrative, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			narrative = strings.TrimSpace(narrative[:thinkStart] + narrative[thinkEnd+len("</think>"):])
		}
	}
	if narrative == "" {
		return "", domain.NewNarrativeServiceError(fmt.Errorf("empty narrative response"))
	}
	return narrative, nil
}

func buildPrompt(input domain.NarrativeInput) string {
	var sb strings.Builder
	sb.WriteString(`You are writing a short hiring report summary for a recruiter. Write ONE neutral paragraph (under 120 words) describing how the candidate approached the assessment. Never speculate about misconduct, intelligence, or personality. Stick to the numbers given.

`)
	if input.Aggregate != nil {
		sb.WriteString(fmt.Sprintf("Tasks completed: %d of %d (%.0f%% completion, %.0f%% accuracy).\n",
			input.Aggregate.TasksCompleted, input.Aggregate.TasksTotal,
			input.Aggregate.CompletionRate*100, input.Aggregate.AccuracyRate*100))
		sb.WriteString(fmt.Sprintf("Average time to first selection: %.1fs. Reasoning depth: %.0f/100.\n",
			input.Aggregate.AvgTimeToSelect, input.Aggregate.ReasoningDepth))
	}
	if input.Behavior != nil {
		sb.WriteString(fmt.Sprintf("Working mode: %s. Pacing: %s.\n",
			input.Behavior.WorkingMode, input.Behavior.PacingLabel))
	}
	if input.Fit != nil {
		sb.WriteString(fmt.Sprintf("Overall fit score: %.1f (grade %s).\n", input.Fit.Overall, input.Fit.Grade))
	}
	if input.Confidence != nil {
		sb.WriteString(fmt.Sprintf("Report confidence: %s.\n", input.Confidence.Level))
	}
	return sb.String()
}
