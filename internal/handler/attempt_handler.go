package handler

import (
	"github.com/gofiber/fiber/v2"

	"hiremate/internal/domain"
	"hiremate/internal/dto"
	"hiremate/internal/middleware"
	"hiremate/internal/service"
	"hiremate/internal/validation"
)

// AttemptHandler handles attempt lifecycle HTTP requests
type AttemptHandler struct {
	attemptService service.AttemptService
	reportService  service.ReportService
	fitService     service.FitScoreService
	validator      *validation.Validator
}

// NewAttemptHandler creates a new AttemptHandler instance
func NewAttemptHandler(
	attemptService service.AttemptService,
	reportService service.ReportService,
	fitService service.FitScoreService,
) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		reportService:  reportService,
		fitService:     fitService,
		validator:      validation.NewValidator(),
	}
}

// Create handles POST /api/attempts (recruiter only)
func (h *AttemptHandler) Create(c *fiber.Ctx) error {
	recruiterID, _ := c.Locals(middleware.RecruiterIDKey).(string)
	if recruiterID == "" {
		return domain.NewUnauthorizedError("recruiter authentication required")
	}

	var req dto.CreateAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateCreateAttemptRequest(&req); len(errs) > 0 {
		return errs
	}

	attempt, err := h.attemptService.Create(c.Context(), recruiterID, req.CandidateID, req.AssessmentID, req.TaskIDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toAttemptResponse(attempt))
}

// Get handles GET /api/attempts/:id
func (h *AttemptHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateAttemptID(id); len(errs) > 0 {
		return errs
	}

	attempt, err := h.attemptService.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(toAttemptResponse(attempt))
}

// ListByCandidate handles GET /api/candidates/:id/attempts
func (h *AttemptHandler) ListByCandidate(c *fiber.Ctx) error {
	candidateID := c.Params("id")
	if candidateID == "" {
		return domain.NewInvalidInputError("candidate id is required")
	}

	attempts, err := h.attemptService.ListByCandidate(c.Context(), candidateID)
	if err != nil {
		return err
	}

	resp := make([]*dto.AttemptResponse, len(attempts))
	for i, a := range attempts {
		resp[i] = toAttemptResponse(a)
	}
	return c.JSON(resp)
}

// Start handles POST /api/attempts/:id/start
func (h *AttemptHandler) Start(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateAttemptID(id); len(errs) > 0 {
		return errs
	}

	attempt, err := h.attemptService.Start(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(toAttemptResponse(attempt))
}

// Complete handles POST /api/attempts/:id/complete. Completion is
// terminal and triggers report finalization.
func (h *AttemptHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateAttemptID(id); len(errs) > 0 {
		return errs
	}

	if _, err := h.attemptService.Complete(c.Context(), id); err != nil {
		return err
	}
	report, err := h.reportService.Finalize(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// Abandon handles POST /api/attempts/:id/abandon
func (h *AttemptHandler) Abandon(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateAttemptID(id); len(errs) > 0 {
		return errs
	}

	attempt, err := h.attemptService.Abandon(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(toAttemptResponse(attempt))
}

// Override handles POST /api/attempts/:id/override (recruiter only)
func (h *AttemptHandler) Override(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateAttemptID(id); len(errs) > 0 {
		return errs
	}

	recruiterID, _ := c.Locals(middleware.RecruiterIDKey).(string)
	if recruiterID == "" {
		return domain.NewUnauthorizedError("recruiter authentication required")
	}

	var req dto.OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateOverrideRequest(&req); len(errs) > 0 {
		return errs
	}

	override, err := h.fitService.Override(c.Context(), id, recruiterID, domain.Grade(req.NewGrade), req.Reason)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toOverrideResponse(override))
}

// ListOverrides handles GET /api/attempts/:id/overrides (recruiter only)
func (h *AttemptHandler) ListOverrides(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateAttemptID(id); len(errs) > 0 {
		return errs
	}

	overrides, err := h.fitService.ListOverrides(c.Context(), id)
	if err != nil {
		return err
	}
	resp := make([]*dto.OverrideResponse, len(overrides))
	for i, o := range overrides {
		resp[i] = toOverrideResponse(o)
	}
	return c.JSON(resp)
}

func toAttemptResponse(a *domain.Attempt) *dto.AttemptResponse {
	return &dto.AttemptResponse{
		ID:             a.ID,
		CandidateID:    a.CandidateID,
		AssessmentID:   a.AssessmentID,
		Status:         string(a.Status),
		TaskIDs:        a.TaskIDs,
		StartedAt:      a.StartedAt,
		CompletedAt:    a.CompletedAt,
		ExpiresAt:      a.ExpiresAt,
		LastActivityAt: a.LastActivityAt,
		CreatedAt:      a.CreatedAt,
	}
}

func toOverrideResponse(o *domain.GradeOverride) *dto.OverrideResponse {
	return &dto.OverrideResponse{
		ID:            o.ID,
		AttemptID:     o.AttemptID,
		RecruiterID:   o.RecruiterID,
		OriginalGrade: string(o.OriginalGrade),
		NewGrade:      string(o.NewGrade),
		Reason:        o.Reason,
		CreatedAt:     o.CreatedAt,
	}
}
