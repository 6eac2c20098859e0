package scoresheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/pkg/timeutil"
)

func encodeViolations(t *testing.T, sheet *ScoreSheet, noma shared.RegistrationNumber, email, raw string) shared.Violations {
	t.Helper()

	err := sheet.encodeScore(noma, email, raw, testToday)
	if err == nil {
		return nil
	}
	violations, ok := shared.AsViolations(err)
	assert.True(t, ok)
	return violations
}

func TestValidate_UnknownStudent_OnlyPresenceRuleFires(t *testing.T) {
	sheet := testSheet(t, 10)

	violations := encodeViolations(t, sheet, "99999999", "nobody@student.campus.be", "12")
	assert.Len(t, violations, 1)
	assert.ErrorIs(t, violations[0], shared.ErrStudentNotInSheet)
}

func TestValidate_EmailMismatch(t *testing.T) {
	sheet := testSheet(t, 10)

	violations := encodeViolations(t, sheet, "12345678", "wrong@student.campus.be", "12")
	assert.Len(t, violations, 1)
	assert.ErrorIs(t, violations[0], shared.ErrEmailMismatch)
}

func TestValidate_AlreadySubmitted(t *testing.T) {
	sheet := testSheet(t, 10)
	assert.NoError(t, sheet.encodeScore("12345678", "alice@student.campus.be", "14", testToday))
	sheet.Submit()

	violations := encodeViolations(t, sheet, "12345678", "alice@student.campus.be", "15")
	assert.Len(t, violations, 1)
	assert.ErrorIs(t, violations[0], shared.ErrScoreAlreadySubmitted)
}

func TestValidate_InvalidScoreValue(t *testing.T) {
	sheet := testSheet(t, 10)

	violations := encodeViolations(t, sheet, "12345678", "alice@student.campus.be", "21")
	assert.Len(t, violations, 1)
	assert.ErrorIs(t, violations[0], shared.ErrInvalidScoreValue)
}

func TestValidate_DecimalScoreRefusedBelowCreditThreshold(t *testing.T) {
	sheet := testSheet(t, 10)

	violations := encodeViolations(t, sheet, "12345678", "alice@student.campus.be", "15.5")
	assert.Len(t, violations, 1)
	assert.ErrorIs(t, violations[0], shared.ErrDecimalScoreNotAllowed)
}

func TestValidate_DecimalScoreAllowedAtCreditThreshold(t *testing.T) {
	sheet := testSheet(t, 15)

	err := sheet.encodeScore("12345678", "alice@student.campus.be", "15,5", testToday)
	assert.NoError(t, err)

	entry, _ := sheet.Entry("12345678")
	assert.True(t, entry.Score.IsDecimal())
}

func TestValidate_UnparseableValueFailsOnceNotTwice(t *testing.T) {
	// ScoreIsValidChoice owns the parse failure; DecimalScorePermitted
	// passes through an unparseable value.
	sheet := testSheet(t, 10)

	violations := encodeViolations(t, sheet, "12345678", "alice@student.campus.be", "abc")
	assert.Len(t, violations, 1)
	assert.ErrorIs(t, violations[0], shared.ErrInvalidScoreValue)
}

func TestValidate_AggregatesAllFailuresForOneEntry(t *testing.T) {
	sheet := testSheet(t, 10)
	assert.NoError(t, sheet.encodeScore("12345678", "alice@student.campus.be", "14", testToday))
	sheet.Submit()

	// Wrong email, already submitted, decimal refused: all three reported.
	violations := encodeViolations(t, sheet, "12345678", "wrong@student.campus.be", "15.5")
	assert.Len(t, violations, 3)
	assert.ErrorIs(t, violations, shared.ErrEmailMismatch)
	assert.ErrorIs(t, violations, shared.ErrScoreAlreadySubmitted)
	assert.ErrorIs(t, violations, shared.ErrDecimalScoreNotAllowed)
}

func TestValidate_DeadlineRule(t *testing.T) {
	sheet := testSheet(t, 10)
	dayAfterDue := timeutil.AddDays(testToday, 6)

	err := sheet.encodeScore("12345678", "alice@student.campus.be", "12", dayAfterDue)
	violations, ok := shared.AsViolations(err)
	assert.True(t, ok)
	assert.Len(t, violations, 1)
	assert.ErrorIs(t, violations[0], shared.ErrDeadlineReached)
}

func TestValidate_DeenrolledStudentRefused(t *testing.T) {
	sheet := testSheet(t, 10)
	deenrolled := map[shared.RegistrationNumber]bool{"12345678": true}

	changed, err := sheet.encodeAll([]EncodeEntry{
		{RegistrationNumber: "12345678", Email: "alice@student.campus.be", RawValue: "12"},
	}, deenrolled, testToday)

	assert.Empty(t, changed)
	violations, ok := shared.AsViolations(err)
	assert.True(t, ok)
	assert.Len(t, violations, 1)
	assert.ErrorIs(t, violations[0], shared.ErrStudentDeenrolled)
}
