package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrExpired          = errors.New("expired")

	// Authorization-adjacent business errors
	ErrForbidden = errors.New("forbidden")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "scoresheet", "responsible", "calendar"
	Op      string // Operation that failed, e.g., "EncodeScore", "Assign"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e == target {
		return true
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Value object validation errors
var (
	ErrInvalidAcademicYear       = NewDomainError("shared", "Validate", ErrValueOutOfRange, "academic year out of range")
	ErrInvalidSessionNumber      = NewDomainError("shared", "Validate", ErrValueOutOfRange, "session number must be 1, 2 or 3")
	ErrInvalidRegistrationNumber = NewDomainError("shared", "Validate", ErrInvalidFormat, "registration number must be 8 digits")
	ErrInvalidTeacherID          = NewDomainError("shared", "Validate", ErrInvalidFormat, "invalid teacher personnel number")
	ErrInvalidTeachingUnitCode   = NewDomainError("shared", "Validate", ErrInvalidInput, "teaching unit code cannot be empty")
)

// Score sheet domain errors
var (
	ErrScoreSheetNotFound     = NewDomainError("scoresheet", "Get", ErrNotFound, "score sheet not found")
	ErrStudentNotInSheet      = NewDomainError("scoresheet", "EncodeScore", ErrNotFound, "student is not enrolled on this score sheet")
	ErrEmailMismatch          = NewDomainError("scoresheet", "EncodeScore", ErrInvalidInput, "email does not match the enrolled student")
	ErrScoreAlreadySubmitted  = NewDomainError("scoresheet", "EncodeScore", ErrAlreadyProcessed, "score has already been submitted")
	ErrInvalidScoreValue      = NewDomainError("scoresheet", "EncodeScore", ErrValueOutOfRange, "score must be between 0 and 20 or a justification code")
	ErrDecimalScoreNotAllowed = NewDomainError("scoresheet", "EncodeScore", ErrInvalidInput, "decimal scores are not allowed for this teaching unit")
	ErrDeadlineReached        = NewDomainError("scoresheet", "EncodeScore", ErrExpired, "the submission deadline for this score has passed")
	ErrStudentDeenrolled      = NewDomainError("scoresheet", "EncodeScore", ErrInvalidState, "student has de-enrolled from the exam")
)

// Submission window errors
var (
	ErrSubmissionWindowClosed = NewDomainError("calendar", "VerifyOpen", ErrInvalidState, "the score submission window is closed")
)

// Responsibility errors
var (
	ErrTeacherNotAttributed = NewDomainError("responsible", "Assign", ErrForbidden, "teacher is not attributed to this teaching unit")
	ErrNotScoreResponsible  = NewDomainError("responsible", "VerifyResponsible", ErrForbidden, "teacher is not the score responsible for this teaching unit")
	ErrResponsibleNotFound  = NewDomainError("responsible", "Get", ErrNotFound, "score responsible not found")
)

// ═══════════════════════════════════════════════════════════════════════════
// Violations (aggregated business-rule failures)
// ═══════════════════════════════════════════════════════════════════════════

// Violation is a single business-rule failure tied to the student entry that
// caused it. RegistrationNumber is empty for sheet-level violations.
type Violation struct {
	RegistrationNumber RegistrationNumber
	Err                error
}

// Error implements the error interface.
func (v Violation) Error() string {
	if v.RegistrationNumber != "" {
		return fmt.Sprintf("%s: %v", v.RegistrationNumber, v.Err)
	}
	return v.Err.Error()
}

// Unwrap returns the wrapped rule error.
func (v Violation) Unwrap() error {
	return v.Err
}

// Violations aggregates every business-rule failure of a batch operation into
// one error. Validation never stops at the first failing entry: all rules are
// evaluated for all entries and the full set is raised together.
type Violations []Violation

// Error implements the error interface.
func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%d violation(s): %s", len(vs), strings.Join(msgs, "; "))
}

// Unwrap exposes each violation to errors.Is/errors.As.
func (vs Violations) Unwrap() []error {
	errs := make([]error, len(vs))
	for i, v := range vs {
		errs[i] = v
	}
	return errs
}

// ForStudent returns the violations recorded for one student entry.
func (vs Violations) ForStudent(noma RegistrationNumber) Violations {
	var out Violations
	for _, v := range vs {
		if v.RegistrationNumber == noma {
			out = append(out, v)
		}
	}
	return out
}

// AsViolations extracts a Violations value from err, if it carries one.
func AsViolations(err error) (Violations, bool) {
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}
