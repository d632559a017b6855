package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hiremate/internal/config"
	"hiremate/internal/domain"
	"hiremate/internal/dto"
	"hiremate/internal/logger"
	"hiremate/internal/util"

	"go.uber.org/zap"
)

// seqConflictRetries bounds re-runs of a batch whose sequence allocation
// lost to a concurrent batch for the same attempt.
const seqConflictRetries = 3

func isSeqConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}

// EventService ingests behavioral events into the append-only log.
type EventService interface {
	Ingest(ctx context.Context, attemptID string, req *dto.EventRequest) (*dto.IngestResponse, error)
	IngestBatch(ctx context.Context, attemptID string, req *dto.BatchEventRequest) (*dto.IngestResponse, error)
	ListEvents(ctx context.Context, attemptID string) ([]*domain.BehavioralEvent, error)
}

// eventService implements EventService
type eventService struct {
	events      domain.EventRepository
	attempts    domain.AttemptRepository
	txManager   domain.TransactionManager
	broadcaster domain.Broadcaster
	cfg         *config.Config
}

// NewEventService creates a new instance of eventService
func NewEventService(
	events domain.EventRepository,
	attempts domain.AttemptRepository,
	txManager domain.TransactionManager,
	broadcaster domain.Broadcaster,
	cfg *config.Config,
) EventService {
	return &eventService{
		events:      events,
		attempts:    attempts,
		txManager:   txManager,
		broadcaster: broadcaster,
		cfg:         cfg,
	}
}

// Ingest appends a single event.
func (s *eventService) Ingest(ctx context.Context, attemptID string, req *dto.EventRequest) (*dto.IngestResponse, error) {
	return s.IngestBatch(ctx, attemptID, &dto.BatchEventRequest{Events: []dto.EventRequest{*req}})
}

// IngestBatch appends a batch of events in submission order. The whole
// batch is written in one transaction so a mid-batch failure leaves no
// partial log. Structural problems reject the request; behavioral
// oddities (unexpected transitions, clock skew) are recorded as advisory
// issues and the events are stored anyway.
func (s *eventService) IngestBatch(ctx context.Context, attemptID string, req *dto.BatchEventRequest) (*dto.IngestResponse, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}

	now := time.Now()
	if attempt.IdleExpired(now, s.cfg.Scoring.IdleTimeout) || attempt.SessionExpired(now, s.cfg.Scoring.MaxSessionAge) {
		if err := s.attempts.UpdateStatus(ctx, attemptID, domain.AttemptExpired, nil); err != nil {
			logger.Get().Error("failed to mark attempt expired", zap.String("attempt_id", attemptID), zap.Error(err))
		}
		return nil, domain.NewAttemptExpiredError(attemptID)
	}
	if !attempt.IsActive() {
		return nil, domain.NewAttemptNotActiveError(attemptID, attempt.Status)
	}

	for i := range req.Events {
		if !domain.IsValidEventType(domain.EventType(req.Events[i].Type)) {
			return nil, domain.NewError(domain.ErrInvalidEventType,
				fmt.Sprintf("Unknown event type: %s", req.Events[i].Type), nil)
		}
	}

	knownTasks := make(map[string]bool, len(attempt.TaskIDs))
	for _, id := range attempt.TaskIDs {
		knownTasks[id] = true
	}

	// Concurrent batches for one attempt race on MaxSeq; the per-attempt
	// sequence uniqueness constraint catches the loser, which retries
	// with fresh state instead of surfacing a storage error.
	var resp *dto.IngestResponse
	for try := 0; ; try++ {
		resp, err = s.appendBatch(ctx, attemptID, req, knownTasks, now)
		if err == nil || !isSeqConflict(err) || try == seqConflictRetries-1 {
			break
		}
		logger.Get().Warn("event sequence conflict, retrying",
			zap.String("attempt_id", attemptID))
	}
	if err != nil {
		if _, ok := err.(*domain.DomainError); ok {
			return nil, err
		}
		return nil, domain.NewInternalError("Failed to ingest events", err)
	}

	s.broadcaster.PublishReportUpdate(ctx, attemptID, map[string]interface{}{
		"attempt_id": attemptID,
		"last_seq":   resp.LastSeq,
		"updated_at": now,
	})

	logger.Get().Info("ingested behavioral events",
		zap.String("attempt_id", attemptID),
		zap.Int("accepted", resp.Accepted),
		zap.Int("issues", len(resp.Issues)))
	return resp, nil
}

// appendBatch runs one transactional attempt at writing the batch.
func (s *eventService) appendBatch(ctx context.Context, attemptID string, req *dto.BatchEventRequest, knownTasks map[string]bool, now time.Time) (*dto.IngestResponse, error) {
	resp := &dto.IngestResponse{}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		maxSeq, err := s.events.MaxSeq(txCtx, attemptID)
		if err != nil {
			return err
		}

		// Track the last chain event per task so transition checks keep
		// working inside one batch.
		lastChain := make(map[string]domain.EventType)

		events := make([]*domain.BehavioralEvent, 0, len(req.Events))
		for i := range req.Events {
			r := &req.Events[i]
			seq := maxSeq + int64(i) + 1
			eventType := domain.EventType(r.Type)

			// Every event in the batch shares one server stamp, so timing
			// metrics see batched events as simultaneous. Clients are
			// expected to stream events as they happen.
			event := &domain.BehavioralEvent{
				ID:         util.NewULID(),
				AttemptID:  attemptID,
				TaskID:     r.TaskID,
				Type:       eventType,
				Seq:        seq,
				Payload:    r.ToPayload(),
				ClientTime: r.ClientTime,
				ServerTime: now,
			}

			if r.TaskID != "" && !knownTasks[r.TaskID] {
				resp.Issues = append(resp.Issues, domain.ValidationIssue{
					EventSeq: seq,
					Code:     domain.IssueUnknownTask,
					Detail:   fmt.Sprintf("task %s is not part of this attempt", r.TaskID),
				})
			}
			for _, field := range event.Payload.MissingFields(eventType) {
				resp.Issues = append(resp.Issues, domain.ValidationIssue{
					EventSeq: seq,
					Code:     domain.IssueMissingPayloadField,
					Detail:   fmt.Sprintf("%s requires %s", eventType, field),
				})
			}
			if !r.ClientTime.IsZero() && r.ClientTime.After(now.Add(5*time.Minute)) {
				resp.Issues = append(resp.Issues, domain.ValidationIssue{
					EventSeq: seq,
					Code:     domain.IssueClockSkew,
					Detail:   "client timestamp is ahead of server time",
				})
			}

			if !domain.IsAmbientEvent(eventType) && r.TaskID != "" {
				prev, seen := lastChain[r.TaskID]
				if !seen {
					if last, err := s.events.LastChainEvent(txCtx, attemptID, r.TaskID); err != nil {
						return err
					} else if last != nil {
						prev = last.Type
					}
				}
				if !domain.IsValidTransition(prev, eventType) {
					event.OutOfOrder = true
					resp.Issues = append(resp.Issues, domain.ValidationIssue{
						EventSeq: seq,
						Code:     domain.IssueUnexpectedTransition,
						Detail:   fmt.Sprintf("%s after %s", eventType, orNone(prev)),
					})
				}
				lastChain[r.TaskID] = eventType
			}

			events = append(events, event)
		}

		if err := s.events.AppendBatch(txCtx, events); err != nil {
			return err
		}
		if err := s.attempts.TouchActivity(txCtx, attemptID, now); err != nil {
			return err
		}

		resp.Accepted = len(events)
		resp.FirstSeq = maxSeq + 1
		resp.LastSeq = maxSeq + int64(len(events))
		return nil
	})
	return resp, err
}

// ListEvents returns the full ordered log of an attempt.
func (s *eventService) ListEvents(ctx context.Context, attemptID string) ([]*domain.BehavioralEvent, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	events, err := s.events.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list events", err)
	}
	return events, nil
}

func orNone(t domain.EventType) string {
	if t == "" {
		return "(no prior event)"
	}
	return string(t)
}
