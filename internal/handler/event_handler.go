package handler

import (
	"github.com/gofiber/fiber/v2"

	"hiremate/internal/domain"
	"hiremate/internal/dto"
	"hiremate/internal/service"
	"hiremate/internal/validation"
)

// EventHandler handles behavioral event ingestion
type EventHandler struct {
	eventService service.EventService
	validator    *validation.Validator
}

// NewEventHandler creates a new EventHandler instance
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		validator:    validation.NewValidator(),
	}
}

// Ingest handles POST /api/attempts/:id/events
func (h *EventHandler) Ingest(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateEventRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.eventService.Ingest(c.Context(), attemptID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// IngestBatch handles POST /api/attempts/:id/events/batch
func (h *EventHandler) IngestBatch(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	var req dto.BatchEventRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateBatchEventRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.eventService.IngestBatch(c.Context(), attemptID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// List handles GET /api/attempts/:id/events (recruiter only)
func (h *EventHandler) List(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	events, err := h.eventService.ListEvents(c.Context(), attemptID)
	if err != nil {
		return err
	}
	return c.JSON(events)
}
