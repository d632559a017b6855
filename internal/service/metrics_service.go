package service

import (
	"context"
	"strings"
	"time"

	"hiremate/internal/config"
	"hiremate/internal/domain"
	"hiremate/internal/util"
)

// connectorLexicon lists the logical connectors counted when scoring
// explanation depth. Matching is case-insensitive substring matching so
// multi-word connectors are caught too.
var connectorLexicon = []string{
	"because", "therefore", "however", "although", "considering",
	"firstly", "secondly", "finally", "in contrast", "as a result",
	"given that", "on the other hand", "weighing", "analyzing",
	"since", "thus", "hence", "moreover", "furthermore",
}

// MetricsService derives per-task and aggregate metrics from the event log.
type MetricsService interface {
	Compute(ctx context.Context, attempt *domain.Attempt) ([]domain.TaskMetrics, *domain.AggregateMetrics, error)
}

// metricsService implements MetricsService
type metricsService struct {
	events domain.EventRepository
	tasks  domain.TaskRepository
	cfg    *config.Config
}

// NewMetricsService creates a new instance of metricsService
func NewMetricsService(events domain.EventRepository, tasks domain.TaskRepository, cfg *config.Config) MetricsService {
	return &metricsService{events: events, tasks: tasks, cfg: cfg}
}

// Compute replays the full event log of an attempt and produces one
// TaskMetrics entry per assigned task plus the aggregate roll-up.
func (s *metricsService) Compute(ctx context.Context, attempt *domain.Attempt) ([]domain.TaskMetrics, *domain.AggregateMetrics, error) {
	events, err := s.events.ListByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, nil, domain.NewInternalError("Failed to list events", err)
	}
	tasks, err := s.tasks.GetByIDs(ctx, attempt.TaskIDs)
	if err != nil {
		return nil, nil, domain.NewInternalError("Failed to load tasks", err)
	}

	byTask := make(map[string][]*domain.BehavioralEvent)
	for _, e := range events {
		if e.TaskID == "" {
			continue
		}
		byTask[e.TaskID] = append(byTask[e.TaskID], e)
	}

	now := time.Now()
	perTask := make([]domain.TaskMetrics, 0, len(attempt.TaskIDs))
	for i, taskID := range attempt.TaskIDs {
		tm := s.computeTask(taskID, byTask[taskID], tasks[taskID], i == 0, attempt.StartedAt, now)
		perTask = append(perTask, tm)
	}

	aggregate := s.computeAggregate(attempt, perTask)
	return perTask, aggregate, nil
}

// computeTask walks one task's event stream in sequence order.
// seenChain tracks whether the first task may fall back to the attempt
// start time when the task_started event is missing.
func (s *metricsService) computeTask(taskID string, events []*domain.BehavioralEvent, task *domain.Task, firstTask bool, attemptStarted *time.Time, now time.Time) domain.TaskMetrics {
	tm := domain.TaskMetrics{TaskID: taskID}

	var startTime *time.Time
	var terminalTime *time.Time
	var firstSelectTime *time.Time
	reasoningText := ""

	for _, e := range events {
		// The server-side ingest stamp is authoritative; the client clock
		// is advisory and can be fabricated.
		ts := e.ServerTime
		if ts.IsZero() {
			ts = e.ClientTime
		}
		switch e.Type {
		case domain.EventTaskStarted:
			if startTime == nil {
				t := ts
				startTime = &t
			}
		case domain.EventTaskCompleted:
			t := ts
			terminalTime = &t
			tm.Completed = true
			if e.Payload.OptionID != "" {
				tm.SelectedOptionID = e.Payload.OptionID
			}
			if e.Payload.ReasoningText != "" {
				reasoningText = e.Payload.ReasoningText
			}
		case domain.EventTaskSkipped:
			// A skip is terminal for timing; the task is never correct.
			t := ts
			terminalTime = &t
			tm.Completed = true
			tm.Skipped = true
		case domain.EventOptionSelected:
			if firstSelectTime == nil {
				t := ts
				firstSelectTime = &t
			}
			if tm.SelectedOptionID == "" {
				tm.SelectedOptionID = e.Payload.OptionID
			}
		case domain.EventOptionChanged:
			tm.OptionChanges++
			if e.Payload.ToOptionID != "" {
				tm.SelectedOptionID = e.Payload.ToOptionID
			}
		case domain.EventReasoningSubmitted, domain.EventReasoningUpdated:
			if e.Payload.ReasoningText != "" {
				reasoningText = e.Payload.ReasoningText
			}
		case domain.EventFocusLost:
			tm.FocusLossCount++
		case domain.EventPasteDetected:
			tm.PasteCount++
		case domain.EventCopyDetected:
			tm.CopyCount++
		case domain.EventIdleDetected:
			tm.IdleEventCount++
		}
	}

	// The first task may miss task_started when the client connected late;
	// fall back to the attempt start.
	if startTime == nil && firstTask && attemptStarted != nil {
		startTime = attemptStarted
	}

	if startTime != nil {
		if terminalTime != nil {
			tm.TotalTaskTime = terminalTime.Sub(*startTime).Seconds()
		} else if len(events) > 0 {
			// Still open: the candidate is on this task right now.
			tm.TotalTaskTime = now.Sub(*startTime).Seconds()
		}
		if firstSelectTime != nil {
			tm.TimeToFirstSelect = firstSelectTime.Sub(*startTime).Seconds()
		} else {
			tm.TimeToFirstSelect = tm.TotalTaskTime
		}
	}
	if tm.TotalTaskTime < 0 {
		tm.TotalTaskTime = 0
	}
	if tm.TimeToFirstSelect < 0 {
		tm.TimeToFirstSelect = 0
	}

	tm.ReasoningWords, tm.ConnectorCount, tm.ExplanationDetail = s.scoreExplanation(reasoningText)
	tm.DecisionSpeed = s.speedLabel(tm.TimeToFirstSelect)
	tm.Pattern = classifyPattern(tm.OptionChanges, tm.DecisionSpeed)

	idleRatio := 0.0
	if tm.TotalTaskTime > 0 {
		idleRatio = tm.TimeToFirstSelect / max(tm.TotalTaskTime, 1)
	}
	tm.Continuity = max(0, 100-float64(tm.OptionChanges*10)-idleRatio*40)

	if tm.Completed && !tm.Skipped && task != nil && tm.SelectedOptionID != "" {
		tm.IsCorrect = task.OptionRisk(tm.SelectedOptionID) == domain.RiskLow
	}
	return tm
}

// scoreExplanation measures how developed a free-text explanation is.
// Word volume carries 60% of the score, connector density the other 40%.
func (s *metricsService) scoreExplanation(text string) (words, connectors int, detail float64) {
	if strings.TrimSpace(text) == "" {
		return 0, 0, 0
	}
	words = len(strings.Fields(text))
	lower := strings.ToLower(text)
	for _, kw := range connectorLexicon {
		if strings.Contains(lower, kw) {
			connectors++
		}
	}
	connectorRatio := 0.0
	if words > 0 {
		connectorRatio = float64(connectors) / max(float64(words)/float64(s.cfg.Scoring.BriefExplanationWords), 1)
	}
	detail = min(1, float64(words)/float64(s.cfg.Scoring.DetailedExplanationWords))*0.6 +
		min(1, connectorRatio)*0.4
	return words, connectors, detail
}

func (s *metricsService) speedLabel(seconds float64) domain.DecisionSpeed {
	switch {
	case seconds < s.cfg.Scoring.FastDecisionSeconds:
		return domain.SpeedQuick
	case seconds > s.cfg.Scoring.SlowDecisionSeconds:
		return domain.SpeedExtended
	default:
		return domain.SpeedModerate
	}
}

func classifyPattern(changes int, speed domain.DecisionSpeed) domain.DecisionPattern {
	switch {
	case changes == 0 && speed == domain.SpeedQuick:
		return domain.PatternDirect
	case changes > 2:
		return domain.PatternIterative
	case speed == domain.SpeedExtended:
		return domain.PatternDeliberative
	default:
		return domain.PatternBalanced
	}
}

func (s *metricsService) computeAggregate(attempt *domain.Attempt, perTask []domain.TaskMetrics) *domain.AggregateMetrics {
	agg := &domain.AggregateMetrics{
		AttemptID:          attempt.ID,
		TasksTotal:         len(attempt.TaskIDs),
		SpeedLabel:         domain.SpeedModerate,
		IdleLevel:          domain.IdleLow,
		CheatingResilience: 100,
	}
	if len(perTask) == 0 {
		return agg
	}

	var selectTimes, taskTimes, details, continuities []float64
	var totalIdle float64
	for _, tm := range perTask {
		if tm.Completed {
			agg.TasksCompleted++
		}
		if tm.Skipped {
			agg.TasksSkipped++
		}
		if tm.IsCorrect {
			agg.TasksCorrect++
		}
		agg.TotalOptionChanges += tm.OptionChanges
		agg.FocusLossCount += tm.FocusLossCount
		agg.PasteCount += tm.PasteCount
		agg.CopyCount += tm.CopyCount
		agg.LongIdleCount += tm.IdleEventCount
		agg.TotalReasoningWords += tm.ReasoningWords

		selectTimes = append(selectTimes, tm.TimeToFirstSelect)
		taskTimes = append(taskTimes, tm.TotalTaskTime)
		details = append(details, tm.ExplanationDetail)
		continuities = append(continuities, tm.Continuity)
		totalIdle += tm.TimeToFirstSelect
	}

	if agg.TasksTotal > 0 {
		agg.CompletionRate = float64(agg.TasksCompleted) / float64(agg.TasksTotal)
	}
	if agg.TasksCompleted > 0 {
		agg.AccuracyRate = float64(agg.TasksCorrect) / float64(agg.TasksCompleted)
		agg.AvgOptionChanges = float64(agg.TotalOptionChanges) / float64(agg.TasksCompleted)
	}

	agg.AvgTimeToSelect = util.Round2(util.Mean(selectTimes))
	agg.AvgTaskTime = util.Round2(util.Mean(taskTimes))
	agg.AvgIdleSeconds = util.Round2(totalIdle / float64(len(perTask)))
	agg.AvgContinuity = util.Round1(util.Mean(continuities))
	agg.ReasoningDepth = util.Round2(util.Mean(details) * 100)

	agg.SpeedLabel = s.speedLabel(agg.AvgTimeToSelect)
	switch {
	case agg.AvgIdleSeconds < 5:
		agg.IdleLevel = domain.IdleLow
	case agg.AvgIdleSeconds < 15:
		agg.IdleLevel = domain.IdleModerate
	default:
		agg.IdleLevel = domain.IdleHigh
	}

	sc := s.cfg.Scoring
	agg.CheatingResilience = max(0,
		100-float64(agg.FocusLossCount)*sc.FocusLossWeight-
			float64(agg.PasteCount)*sc.PasteWeight-
			float64(agg.CopyCount)*sc.CopyWeight)
	return agg
}
