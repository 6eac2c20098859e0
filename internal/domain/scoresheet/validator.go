package scoresheet

import (
	"time"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// Validator is one stateless business rule over a score-sheet entry. Each
// validator checks exactly one predicate and returns exactly one typed error.
// Callers evaluate every validator and aggregate the failures; validation
// never short-circuits on the first violation.
type Validator interface {
	Validate() error
}

// RunValidators evaluates every validator and aggregates all failures for one
// student entry into a shared.Violations. Returns nil when all rules pass.
func RunValidators(noma shared.RegistrationNumber, validators ...Validator) shared.Violations {
	var violations shared.Violations
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			violations = append(violations, shared.Violation{RegistrationNumber: noma, Err: err})
		}
	}
	return violations
}

// EncodeScoreValidators returns the rule set guarding EncodeScore, in the
// order the rules are reported.
func EncodeScoreValidators(sheet *ScoreSheet, noma shared.RegistrationNumber, email, rawValue string, today time.Time) []Validator {
	return []Validator{
		StudentPresentInSheet{Sheet: sheet, RegistrationNumber: noma},
		EmailMatchesStudent{Sheet: sheet, RegistrationNumber: noma, Email: email},
		ScoreNotYetSubmitted{Sheet: sheet, RegistrationNumber: noma},
		DeadlineNotReached{Sheet: sheet, RegistrationNumber: noma, Today: today},
		ScoreIsValidChoice{RawValue: rawValue},
		DecimalScorePermitted{Sheet: sheet, RawValue: rawValue},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Rules
// ═══════════════════════════════════════════════════════════════════════════

// StudentPresentInSheet checks that the student is enrolled on the sheet.
type StudentPresentInSheet struct {
	Sheet              *ScoreSheet
	RegistrationNumber shared.RegistrationNumber
}

// Validate implements Validator.
func (v StudentPresentInSheet) Validate() error {
	if v.Sheet.entry(v.RegistrationNumber) == nil {
		return shared.ErrStudentNotInSheet
	}
	return nil
}

// EmailMatchesStudent checks that the submitted email equals the sheet's
// recorded email for the student. Passes when the student is absent from the
// sheet: that failure belongs to StudentPresentInSheet alone.
type EmailMatchesStudent struct {
	Sheet              *ScoreSheet
	RegistrationNumber shared.RegistrationNumber
	Email              string
}

// Validate implements Validator.
func (v EmailMatchesStudent) Validate() error {
	entry := v.Sheet.entry(v.RegistrationNumber)
	if entry == nil {
		return nil
	}
	if entry.Email != v.Email {
		return shared.ErrEmailMismatch
	}
	return nil
}

// ScoreNotYetSubmitted checks that the target score has not been submitted.
type ScoreNotYetSubmitted struct {
	Sheet              *ScoreSheet
	RegistrationNumber shared.RegistrationNumber
}

// Validate implements Validator.
func (v ScoreNotYetSubmitted) Validate() error {
	entry := v.Sheet.entry(v.RegistrationNumber)
	if entry == nil {
		return nil
	}
	if entry.Submitted {
		return shared.ErrScoreAlreadySubmitted
	}
	return nil
}

// DeadlineNotReached blocks encoding once the entry's due date has passed.
// The entry remains encodable on the due date itself; the rule fails only
// when Today falls on a strictly later campus date.
type DeadlineNotReached struct {
	Sheet              *ScoreSheet
	RegistrationNumber shared.RegistrationNumber
	Today              time.Time
}

// Validate implements Validator.
func (v DeadlineNotReached) Validate() error {
	entry := v.Sheet.entry(v.RegistrationNumber)
	if entry == nil {
		return nil
	}
	if entry.DeadlinePassed(v.Today) {
		return shared.ErrDeadlineReached
	}
	return nil
}

// ScoreIsValidChoice checks that the raw value parses to a numeric score in
// [0, 20] or one of the justification codes. The empty value passes: it
// clears a not-yet-submitted entry.
type ScoreIsValidChoice struct {
	RawValue string
}

// Validate implements Validator.
func (v ScoreIsValidChoice) Validate() error {
	if _, err := ParseScore(v.RawValue); err != nil {
		return err
	}
	return nil
}

// DecimalScorePermitted checks that a fractional score is only encoded on a
// sheet whose teaching unit meets the credit threshold. Unparseable values
// pass: ScoreIsValidChoice owns that failure.
type DecimalScorePermitted struct {
	Sheet    *ScoreSheet
	RawValue string
}

// Validate implements Validator.
func (v DecimalScorePermitted) Validate() error {
	score, err := ParseScore(v.RawValue)
	if err != nil {
		return nil
	}
	if score.IsDecimal() && !v.Sheet.DecimalScoresAllowed() {
		return shared.ErrDecimalScoreNotAllowed
	}
	return nil
}

// StudentNotDeenrolled checks that the student has not withdrawn from the
// exam. The withdrawal set comes from the exam-enrollment translator and is
// resolved by the caller before validation.
type StudentNotDeenrolled struct {
	RegistrationNumber shared.RegistrationNumber
	Deenrolled         map[shared.RegistrationNumber]bool
}

// Validate implements Validator.
func (v StudentNotDeenrolled) Validate() error {
	if v.Deenrolled[v.RegistrationNumber] {
		return shared.ErrStudentDeenrolled
	}
	return nil
}
