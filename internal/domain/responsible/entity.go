// Package responsible contains the score-responsible aggregate and the
// assignment service that maintains the one-responsible-per-teaching-unit
// invariant across aggregates.
package responsible

import (
	"sort"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ScoreResponsible is the aggregate root recording which teaching units one
// teacher is score responsible for. A teacher's aggregate is created on first
// assignment and may persist empty once every unit has been unassigned.
type ScoreResponsible struct {
	TeacherID shared.TeacherID

	units map[shared.TeachingUnitID]struct{}
}

// NewScoreResponsible creates an empty aggregate for a teacher.
func NewScoreResponsible(teacherID shared.TeacherID) *ScoreResponsible {
	return &ScoreResponsible{
		TeacherID: teacherID,
		units:     make(map[shared.TeachingUnitID]struct{}),
	}
}

// RestoreScoreResponsible re-hydrates an aggregate from persistence.
func RestoreScoreResponsible(teacherID shared.TeacherID, units []shared.TeachingUnitID) *ScoreResponsible {
	r := NewScoreResponsible(teacherID)
	for _, u := range units {
		r.units[u] = struct{}{}
	}
	return r
}

// Assign adds a teaching unit to the teacher's responsibility set.
// Idempotent for a unit already held.
func (r *ScoreResponsible) Assign(unitID shared.TeachingUnitID) {
	r.units[unitID] = struct{}{}
}

// Unassign removes a teaching unit from the responsibility set. Returns
// shared.ErrNotScoreResponsible when the teacher does not hold the unit.
func (r *ScoreResponsible) Unassign(unitID shared.TeachingUnitID) error {
	if _, ok := r.units[unitID]; !ok {
		return shared.ErrNotScoreResponsible
	}
	delete(r.units, unitID)
	return nil
}

// IsResponsibleFor reports whether the teacher holds the unit for the year.
func (r *ScoreResponsible) IsResponsibleFor(unitCode string, year shared.AcademicYear) bool {
	_, ok := r.units[shared.TeachingUnitID{Code: unitCode, Year: year}]
	return ok
}

// Units returns the responsibility set ordered by unit code then year.
func (r *ScoreResponsible) Units() []shared.TeachingUnitID {
	units := make([]shared.TeachingUnitID, 0, len(r.units))
	for u := range r.units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].Code != units[j].Code {
			return units[i].Code < units[j].Code
		}
		return units[i].Year < units[j].Year
	})
	return units
}

// IsEmpty reports whether the teacher holds no unit.
func (r *ScoreResponsible) IsEmpty() bool {
	return len(r.units) == 0
}
