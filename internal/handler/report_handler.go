package handler

import (
	"github.com/gofiber/fiber/v2"

	"hiremate/internal/domain"
	"hiremate/internal/middleware"
	"hiremate/internal/service"
	"hiremate/internal/validation"
)

// ReportHandler serves assembled candidate reports
type ReportHandler struct {
	reportService service.ReportService
	fitService    service.FitScoreService
	validator     *validation.Validator
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(reportService service.ReportService, fitService service.FitScoreService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		fitService:    fitService,
		validator:     validation.NewValidator(),
	}
}

// Live handles GET /api/attempts/:id/report. The report is recomputed
// from the event log on demand; completed attempts serve the persisted
// fit score alongside the live sections.
func (h *ReportHandler) Live(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	report, err := h.reportService.LiveReport(c.Context(), attemptID)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// FitScore handles GET /api/attempts/:id/fit-score
func (h *ReportHandler) FitScore(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	score, err := h.fitService.Get(c.Context(), attemptID)
	if err != nil {
		return err
	}
	if score == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "fit score has not been computed yet",
		})
	}
	return c.JSON(score)
}

// PopulationSummary handles GET /api/population/summary (recruiter only)
func (h *ReportHandler) PopulationSummary(c *fiber.Ctx) error {
	recruiterID, _ := c.Locals(middleware.RecruiterIDKey).(string)
	if recruiterID == "" {
		return domain.NewUnauthorizedError("recruiter authentication required")
	}

	summary, err := h.reportService.PopulationSummary(c.Context(), recruiterID)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
