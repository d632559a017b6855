package domain

import (
	"fmt"
	"strings"
)

// ErrValidation marks request validation failures.
const ErrValidation ErrorCode = "VALIDATION_ERROR"

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field failures so a response can report
// all of them at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// NewMissingFieldError reports a required field that was absent.
func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

// NewInvalidFormatError reports a field whose value has the wrong shape.
func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Value: value, Message: "has an invalid format"}
}

// NewOutOfRangeError reports a numeric field outside its allowed range.
func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Value:   fmt.Sprintf("%d", value),
		Message: fmt.Sprintf("must be between %d and %d", min, max),
	}
}
