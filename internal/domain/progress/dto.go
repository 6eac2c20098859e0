// Package progress computes score-submission progress: per teaching unit and
// per due date, how many scores are submitted versus outstanding, plus a flag
// for students requiring exam accommodations.
package progress

import (
	"time"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// DeadlineBucket tallies one due date of one sheet.
type DeadlineBucket struct {
	DueDate        time.Time
	SubmittedCount int
	TotalCount     int
}

// Complete reports whether every score of the bucket is submitted.
func (b DeadlineBucket) Complete() bool {
	return b.SubmittedCount == b.TotalCount
}

// UnitProgress is the progression record of one teaching unit: its ordered
// due-date buckets and whether any enrolled student has a recorded
// accommodation.
type UnitProgress struct {
	UnitCode  string
	UnitTitle string

	// Deadlines is ordered by due date ascending.
	Deadlines []DeadlineBucket

	HasAccommodatedStudents bool

	// ResponsibleName is the display name of the recorded score responsible,
	// empty when the unit is vacant.
	ResponsibleName string
}

// SubmittedCount returns the unit's total submitted scores.
func (p UnitProgress) SubmittedCount() int {
	n := 0
	for _, d := range p.Deadlines {
		n += d.SubmittedCount
	}
	return n
}

// TotalCount returns the unit's total scores.
func (p UnitProgress) TotalCount() int {
	n := 0
	for _, d := range p.Deadlines {
		n += d.TotalCount
	}
	return n
}

// Report is the top-level progression result for the resolved year/session.
// Units is ordered by teaching-unit code ascending.
type Report struct {
	Year    shared.AcademicYear
	Session shared.SessionNumber
	Units   []UnitProgress
}
