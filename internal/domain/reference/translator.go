// Package reference defines the read-only translator contracts through which
// the score-encoding engine consumes data owned by other parts of the campus
// system: the student registry, teaching-unit metadata, teacher attributions
// and exam enrollments. Implementations live in infrastructure; the engine
// never writes through these interfaces.
package reference

import (
	"context"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// DTOs
// ═══════════════════════════════════════════════════════════════════════════

// Accommodation describes special exam arrangements granted to a student
// (extra time, adapted copy, specific room...). Its presence on a profile is
// what the progress report flags.
type Accommodation struct {
	Type         string
	ExtraTime    bool
	AdaptedCopy  bool
	SpecificRoom bool
	Details      string
}

// StudentProfile is the registry's view of a student.
type StudentProfile struct {
	RegistrationNumber shared.RegistrationNumber
	FirstName          string
	LastName           string
	Email              string
	Accommodation      *Accommodation
}

// HasAccommodation reports whether the student has any recorded accommodation.
func (p StudentProfile) HasAccommodation() bool {
	return p.Accommodation != nil
}

// TeachingUnit is the catalogue's view of a teaching unit for one year.
type TeachingUnit struct {
	ID      shared.TeachingUnitID
	Title   string
	Credits float64
}

// Attribution records that a teacher is attributed to a teaching unit for a year.
type Attribution struct {
	TeacherID shared.TeacherID
	FirstName string
	LastName  string
	UnitID    shared.TeachingUnitID
}

// ExamEnrollment is one student's enrollment to a unit's exam for a session.
type ExamEnrollment struct {
	RegistrationNumber shared.RegistrationNumber
	UnitID             shared.TeachingUnitID
	Session            shared.SessionNumber
	Cohort             string
	LateEnrollment     bool
}

// ExamDeenrollment records a student's withdrawal from a unit's exam for a session.
type ExamDeenrollment struct {
	RegistrationNumber shared.RegistrationNumber
	UnitID             shared.TeachingUnitID
	Session            shared.SessionNumber
}

// ═══════════════════════════════════════════════════════════════════════════
// Translator contracts
// ═══════════════════════════════════════════════════════════════════════════

// StudentRegistryTranslator looks up student profiles by registration number.
type StudentRegistryTranslator interface {
	// Search returns the profiles for the given registration numbers.
	// Unknown numbers are silently absent from the result.
	Search(ctx context.Context, nomas []shared.RegistrationNumber) ([]StudentProfile, error)
}

// TeachingUnitTranslator looks up teaching-unit metadata.
type TeachingUnitTranslator interface {
	// Get returns one teaching unit. Returns shared.ErrNotFound-kinded error
	// when the unit does not exist for that year.
	Get(ctx context.Context, id shared.TeachingUnitID) (TeachingUnit, error)

	// Search returns the units for the given identities, unknown ones omitted.
	Search(ctx context.Context, ids []shared.TeachingUnitID) ([]TeachingUnit, error)
}

// AttributionTranslator looks up teacher attributions.
type AttributionTranslator interface {
	// SearchByUnit returns all teachers attributed to the unit for its year.
	SearchByUnit(ctx context.Context, unitID shared.TeachingUnitID) ([]Attribution, error)

	// SearchByTeacher returns all attributions of one teacher for a year.
	SearchByTeacher(ctx context.Context, teacherID shared.TeacherID, year shared.AcademicYear) ([]Attribution, error)
}

// ExamEnrollmentTranslator looks up exam enrollments and withdrawals.
type ExamEnrollmentTranslator interface {
	// SearchEnrolled returns the students enrolled to the unit's exam for the session.
	SearchEnrolled(ctx context.Context, unitID shared.TeachingUnitID, session shared.SessionNumber) ([]ExamEnrollment, error)

	// SearchDeenrolled returns, for several units at once, the students who
	// withdrew from the exam for the session.
	SearchDeenrolled(ctx context.Context, unitIDs []shared.TeachingUnitID, session shared.SessionNumber) ([]ExamDeenrollment, error)
}
