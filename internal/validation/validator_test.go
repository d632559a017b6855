package validation

import (
	"testing"
	"time"

	"hiremate/internal/dto"

	"github.com/stretchr/testify/assert"
)

const validULID = "01HZXK5T8N9QRSTVWXYZ012345"

func TestValidateCreateAttemptRequest(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateCreateAttemptRequest(&dto.CreateAttemptRequest{
		CandidateID:  validULID,
		AssessmentID: "backend-engineer-2026",
		TaskIDs:      []string{validULID},
	})
	assert.Empty(t, errs)

	errs = v.ValidateCreateAttemptRequest(&dto.CreateAttemptRequest{})
	assert.Len(t, errs, 3)

	errs = v.ValidateCreateAttemptRequest(&dto.CreateAttemptRequest{
		CandidateID:  "not-a-ulid",
		AssessmentID: "backend-engineer-2026",
		TaskIDs:      []string{"also-bad"},
	})
	assert.Len(t, errs, 2)
	assert.Equal(t, "candidate_id", errs[0].Field)
	assert.Equal(t, "task_ids", errs[1].Field)
}

func TestValidateEventRequest(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateEventRequest(&dto.EventRequest{Type: "task_started", ClientTime: time.Now()})
	assert.Empty(t, errs)

	errs = v.ValidateEventRequest(&dto.EventRequest{})
	assert.Len(t, errs, 2)

	errs = v.ValidateEventRequest(&dto.EventRequest{
		Type:        "reasoning_updated",
		ClientTime:  time.Now(),
		WordCount:   -1,
		IdleSeconds: -2,
	})
	assert.Len(t, errs, 2)
}

func TestValidateBatchEventRequest(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateBatchEventRequest(&dto.BatchEventRequest{})
	assert.Len(t, errs, 1)
	assert.Equal(t, "events", errs[0].Field)

	oversized := make([]dto.EventRequest, maxBatchSize+1)
	errs = v.ValidateBatchEventRequest(&dto.BatchEventRequest{Events: oversized})
	assert.Len(t, errs, 1)

	errs = v.ValidateBatchEventRequest(&dto.BatchEventRequest{Events: []dto.EventRequest{
		{Type: "task_started", ClientTime: time.Now()},
		{Type: "", ClientTime: time.Now()},
	}})
	assert.Len(t, errs, 1)
	assert.Equal(t, "events[1].type", errs[0].Field)
}

func TestValidateOverrideRequest(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateOverrideRequest(&dto.OverrideRequest{
		NewGrade: "A",
		Reason:   "interview performance outweighs the timing flags",
	})
	assert.Empty(t, errs)

	errs = v.ValidateOverrideRequest(&dto.OverrideRequest{NewGrade: "Z", Reason: "too short"})
	assert.Len(t, errs, 2)

	errs = v.ValidateOverrideRequest(&dto.OverrideRequest{})
	assert.Len(t, errs, 2)
}

func TestValidateAttemptID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateAttemptID(validULID))
	assert.Len(t, v.ValidateAttemptID(""), 1)
	assert.Len(t, v.ValidateAttemptID("short"), 1)
	// I, L, O, U are excluded from the ULID alphabet.
	assert.Len(t, v.ValidateAttemptID("01HZXK5T8N9QRSTVWXYZ01234I"), 1)
}
