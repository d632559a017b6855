package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Assessment specific errors
	ErrAttemptNotFound   ErrorCode = "ATTEMPT_NOT_FOUND"
	ErrAttemptNotActive  ErrorCode = "ATTEMPT_NOT_ACTIVE"
	ErrAttemptExpired    ErrorCode = "ATTEMPT_EXPIRED"
	ErrTaskNotFound      ErrorCode = "TASK_NOT_FOUND"
	ErrInvalidEventType  ErrorCode = "INVALID_EVENT_TYPE"
	ErrInvalidOverride   ErrorCode = "INVALID_OVERRIDE"
	ErrNarrativeService  ErrorCode = "NARRATIVE_SERVICE_ERROR"
	ErrInsufficientData  ErrorCode = "INSUFFICIENT_DATA"
	ErrCandidateNotFound ErrorCode = "CANDIDATE_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewAttemptNotFoundError(attemptID string) *DomainError {
	return NewError(ErrAttemptNotFound, fmt.Sprintf("Attempt not found with ID: %s", attemptID), nil)
}

func NewAttemptNotActiveError(attemptID string, status AttemptStatus) *DomainError {
	return NewError(ErrAttemptNotActive, fmt.Sprintf("Attempt %s is not active (status: %s)", attemptID, status), nil)
}

func NewAttemptExpiredError(attemptID string) *DomainError {
	return NewError(ErrAttemptExpired, fmt.Sprintf("Attempt %s has expired", attemptID), nil)
}

func NewTaskNotFoundError(taskID string) *DomainError {
	return NewError(ErrTaskNotFound, fmt.Sprintf("Task not found with ID: %s", taskID), nil)
}

func NewInvalidOverrideError(message string) *DomainError {
	return NewError(ErrInvalidOverride, message, nil)
}

func NewNarrativeServiceError(err error) *DomainError {
	return NewError(ErrNarrativeService, "Failed to generate narrative", err)
}
