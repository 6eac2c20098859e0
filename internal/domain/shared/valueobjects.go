// Package shared contains common domain types, errors, events, and value objects
// that are used across all score-encoding domain packages. This package has zero
// external dependencies apart from event identifiers.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// Identity Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// AcademicYear identifies an academic year by its starting calendar year
// (2024 means the 2024-2025 academic year).
type AcademicYear int

// IsValid checks that the academic year is within a plausible range.
func (y AcademicYear) IsValid() bool {
	return y >= 2000 && y <= 2100
}

// Int returns the underlying int value.
func (y AcademicYear) Int() int {
	return int(y)
}

// String returns the "2024-25" display form.
func (y AcademicYear) String() string {
	return fmt.Sprintf("%d-%02d", int(y), (int(y)+1)%100)
}

// SessionNumber identifies an exam session within an academic year.
// Sessions follow the institutional calendar: 1 (January), 2 (June), 3 (September).
type SessionNumber int

// IsValid checks that the session number is one of the three exam sessions.
func (s SessionNumber) IsValid() bool {
	return s >= 1 && s <= 3
}

// Int returns the underlying int value.
func (s SessionNumber) Int() int {
	return int(s)
}

// RegistrationNumber is a student's registration number ("noma"): 8 digits.
type RegistrationNumber string

var registrationNumberRegex = regexp.MustCompile(`^[0-9]{8}$`)

// IsValid checks the 8-digit registration number format.
func (n RegistrationNumber) IsValid() bool {
	return registrationNumberRegex.MatchString(string(n))
}

// String returns the string representation.
func (n RegistrationNumber) String() string {
	return string(n)
}

// NewRegistrationNumber creates a RegistrationNumber with validation.
func NewRegistrationNumber(raw string) (RegistrationNumber, error) {
	n := RegistrationNumber(strings.TrimSpace(raw))
	if !n.IsValid() {
		return "", ErrInvalidRegistrationNumber
	}
	return n, nil
}

// TeacherID is a teacher's personnel number ("matricule").
type TeacherID string

var teacherIDRegex = regexp.MustCompile(`^[0-9]{1,12}$`)

// IsValid checks the personnel number format.
func (t TeacherID) IsValid() bool {
	return teacherIDRegex.MatchString(string(t))
}

// String returns the string representation.
func (t TeacherID) String() string {
	return string(t)
}

// IsEmpty checks if the ID is empty.
func (t TeacherID) IsEmpty() bool {
	return t == ""
}

// NewTeacherID creates a TeacherID with validation.
func NewTeacherID(raw string) (TeacherID, error) {
	t := TeacherID(strings.TrimSpace(raw))
	if !t.IsValid() {
		return "", ErrInvalidTeacherID
	}
	return t, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Teaching Unit Identity
// ═══════════════════════════════════════════════════════════════════════════

// TeachingUnitID identifies one teaching unit in one academic year.
// It is an immutable value with equality by value: two TeachingUnitID values
// compare equal iff code and year match, so it is usable as a map key.
type TeachingUnitID struct {
	Code string
	Year AcademicYear
}

// NewTeachingUnitID creates a TeachingUnitID with validation.
func NewTeachingUnitID(code string, year int) (TeachingUnitID, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return TeachingUnitID{}, ErrInvalidTeachingUnitCode
	}
	y := AcademicYear(year)
	if !y.IsValid() {
		return TeachingUnitID{}, ErrInvalidAcademicYear
	}
	return TeachingUnitID{Code: code, Year: y}, nil
}

// String returns the "LDROI1001 (2024-25)" display form.
func (id TeachingUnitID) String() string {
	return fmt.Sprintf("%s (%s)", id.Code, id.Year)
}

// IsZero reports whether the identity is unset.
func (id TeachingUnitID) IsZero() bool {
	return id.Code == "" && id.Year == 0
}
