package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Matching(t *testing.T) {
	assert.ErrorIs(t, ErrScoreSheetNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrScoreAlreadySubmitted, ErrAlreadyProcessed)
	assert.ErrorIs(t, ErrDeadlineReached, ErrExpired)
	assert.ErrorIs(t, ErrNotScoreResponsible, ErrForbidden)

	wrapped := WrapError("command", "EncodeScores", ErrValidation, "bad input", ErrInvalidRegistrationNumber)
	assert.ErrorIs(t, wrapped, ErrValidation)
	assert.ErrorIs(t, wrapped, ErrInvalidRegistrationNumber)
}

func TestDomainError_Message(t *testing.T) {
	err := NewDomainError("scoresheet", "Get", ErrNotFound, "score sheet not found")
	assert.Equal(t, "scoresheet.Get: score sheet not found", err.Error())
}

func TestViolations_AggregateMatching(t *testing.T) {
	vs := Violations{
		{RegistrationNumber: "12345678", Err: ErrEmailMismatch},
		{RegistrationNumber: "12345678", Err: ErrDecimalScoreNotAllowed},
		{RegistrationNumber: "23456789", Err: ErrStudentNotInSheet},
	}

	// Each wrapped rule error is reachable through errors.Is.
	assert.ErrorIs(t, vs, ErrEmailMismatch)
	assert.ErrorIs(t, vs, ErrStudentNotInSheet)
	assert.NotErrorIs(t, vs, ErrDeadlineReached)
}

func TestViolations_ForStudent(t *testing.T) {
	vs := Violations{
		{RegistrationNumber: "12345678", Err: ErrEmailMismatch},
		{RegistrationNumber: "23456789", Err: ErrStudentNotInSheet},
		{RegistrationNumber: "12345678", Err: ErrDeadlineReached},
	}

	assert.Len(t, vs.ForStudent("12345678"), 2)
	assert.Len(t, vs.ForStudent("23456789"), 1)
	assert.Empty(t, vs.ForStudent("99999999"))
}

func TestAsViolations(t *testing.T) {
	vs := Violations{{RegistrationNumber: "12345678", Err: ErrEmailMismatch}}

	got, ok := AsViolations(vs)
	assert.True(t, ok)
	assert.Len(t, got, 1)

	got, ok = AsViolations(errors.New("plain"))
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestEvents_CarryTypeAndAggregate(t *testing.T) {
	encoded := NewScoresEncodedEvent("LDROI1001 (2024-25) session 1", "LDROI1001", 2024, 1, "54321", []string{"12345678"})
	assert.Equal(t, EventScoresEncoded, encoded.EventType())
	assert.Equal(t, "LDROI1001 (2024-25) session 1", encoded.AggregateID())
	assert.NotEmpty(t, encoded.ID)
	assert.False(t, encoded.OccurredAt().IsZero())

	traced := encoded.BaseEvent.WithCorrelationID("corr-1")
	assert.Equal(t, "corr-1", traced.CorrelationID)
	// The original event is unchanged.
	assert.Empty(t, encoded.CorrelationID)

	assigned := NewResponsibleAssignedEvent("LDROI1001", 2024, "22222", "11111")
	assert.Equal(t, EventResponsibleAssigned, assigned.EventType())
	assert.Equal(t, "11111", assigned.Payload()["previous_teacher_id"])
}
