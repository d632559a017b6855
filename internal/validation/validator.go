package validation

import (
	"fmt"
	"regexp"
	"strings"

	"hiremate/internal/domain"
	"hiremate/internal/dto"
)

// maxBatchSize bounds one ingest request; clients flush well below this.
const maxBatchSize = 500

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCreateAttemptRequest validates the attempt creation request
func (v *Validator) ValidateCreateAttemptRequest(req *dto.CreateAttemptRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.CandidateID) == "" {
		errors = append(errors, domain.NewMissingFieldError("candidate_id"))
	} else if !isValidULID(req.CandidateID) {
		errors = append(errors, domain.NewInvalidFormatError("candidate_id", req.CandidateID))
	}

	if strings.TrimSpace(req.AssessmentID) == "" {
		errors = append(errors, domain.NewMissingFieldError("assessment_id"))
	}

	if len(req.TaskIDs) == 0 {
		errors = append(errors, domain.NewMissingFieldError("task_ids"))
	}
	for _, id := range req.TaskIDs {
		if !isValidULID(id) {
			errors = append(errors, domain.NewInvalidFormatError("task_ids", id))
		}
	}

	return errors
}

// ValidateEventRequest validates a single behavioral event
func (v *Validator) ValidateEventRequest(req *dto.EventRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Type) == "" {
		errors = append(errors, domain.NewMissingFieldError("type"))
	}
	if req.ClientTime.IsZero() {
		errors = append(errors, domain.NewMissingFieldError("client_time"))
	}
	if req.WordCount < 0 {
		errors = append(errors, domain.NewOutOfRangeError("word_count", req.WordCount, 0, 100000))
	}
	if req.IdleSeconds < 0 {
		errors = append(errors, domain.NewInvalidFormatError("idle_seconds", "negative"))
	}

	return errors
}

// ValidateBatchEventRequest validates an event batch; per-event failures
// carry the event index in the field name.
func (v *Validator) ValidateBatchEventRequest(req *dto.BatchEventRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(req.Events) == 0 {
		errors = append(errors, domain.NewMissingFieldError("events"))
		return errors
	}
	if len(req.Events) > maxBatchSize {
		errors = append(errors, domain.NewOutOfRangeError("events", len(req.Events), 1, maxBatchSize))
		return errors
	}

	for i := range req.Events {
		for _, err := range v.ValidateEventRequest(&req.Events[i]) {
			err.Field = indexedField(i, err.Field)
			errors = append(errors, err)
		}
	}
	return errors
}

// ValidateOverrideRequest validates a recruiter grade override
func (v *Validator) ValidateOverrideRequest(req *dto.OverrideRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.NewGrade) == "" {
		errors = append(errors, domain.NewMissingFieldError("new_grade"))
	} else if !domain.ValidGrade(domain.Grade(req.NewGrade)) {
		errors = append(errors, domain.NewInvalidFormatError("new_grade", req.NewGrade))
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		errors = append(errors, domain.NewMissingFieldError("reason"))
	} else if len(reason) < domain.MinOverrideReasonLength {
		errors = append(errors, domain.NewOutOfRangeError("reason", len(reason), domain.MinOverrideReasonLength, 2000))
	}

	return errors
}

// ValidateAttemptID validates an attempt path parameter
func (v *Validator) ValidateAttemptID(attemptID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(attemptID) == "" {
		errors = append(errors, domain.NewMissingFieldError("attempt_id"))
	} else if !isValidULID(attemptID) {
		errors = append(errors, domain.NewInvalidFormatError("attempt_id", attemptID))
	}
	return errors
}

func indexedField(i int, field string) string {
	return fmt.Sprintf("events[%d].%s", i, field)
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
