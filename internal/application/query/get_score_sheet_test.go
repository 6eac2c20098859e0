package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/pkg/timeutil"
)

func (f *queryFixture) sheetHandler() *GetScoreSheetHandler {
	return NewGetScoreSheetHandler(
		f.sheets,
		f.responsibles,
		f.window,
		responsible.NewAssignmentCheck(f.refs),
		f.refs,
		f.refs.Units(),
		f.refs,
	)
}

func (f *queryFixture) seedSheetView(t *testing.T) scoresheet.Identity {
	t.Helper()

	id, err := scoresheet.NewIdentity("LDROI1001", 2024, 1)
	assert.NoError(t, err)

	// Due dates relative to the real clock: row deadlines are evaluated
	// against today's campus date.
	due := timeutil.AddDays(timeutil.Today(), 5)
	passed := timeutil.AddDays(timeutil.Today(), -1)

	sheet, err := scoresheet.NewScoreSheet(id, 15, []scoresheet.StudentScore{
		{
			RegistrationNumber: "10000001",
			Email:              "alice@student.campus.be",
			Score:              scoresheet.MustScore("15.5"),
			DueDate:            due,
			Submitted:          true,
		},
		{
			RegistrationNumber: "10000002",
			Email:              "bob@student.campus.be",
			DueDate:            passed,
		},
	})
	assert.NoError(t, err)
	assert.NoError(t, f.sheets.Save(context.Background(), sheet))

	f.refs.AddAttribution(reference.Attribution{TeacherID: "54321", UnitID: id.TeachingUnitID()})
	f.refs.AddProfile(reference.StudentProfile{
		RegistrationNumber: "10000001",
		FirstName:          "Alice",
		LastName:           "Bernard",
		Accommodation:      &reference.Accommodation{Type: "extra-time", ExtraTime: true},
	})
	f.refs.AddProfile(reference.StudentProfile{
		RegistrationNumber: "10000002",
		FirstName:          "Bob",
		LastName:           "Antoine",
	})
	f.refs.AddUnit(reference.TeachingUnit{
		ID:      id.TeachingUnitID(),
		Title:   "Introduction au droit",
		Credits: 15,
	})
	return id
}

func TestGetScoreSheet_FullView(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	id := f.seedSheetView(t)

	assert.NoError(t, f.responsibles.Save(ctx,
		responsible.RestoreScoreResponsible("54321", []shared.TeachingUnitID{id.TeachingUnitID()})))
	f.responsibles.SetTeacherName("54321", "Marie", "Dupont")

	result, err := f.sheetHandler().Handle(ctx, GetScoreSheetQuery{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
	})

	assert.NoError(t, err)
	assert.Equal(t, "LDROI1001", result.UnitCode)
	assert.Equal(t, "Introduction au droit", result.UnitTitle)
	assert.Equal(t, "2024-25", result.Year)
	assert.Equal(t, 1, result.Session)
	assert.True(t, result.DecimalScoresAllowed)
	assert.Equal(t, "Dupont Marie", result.ResponsibleName)
	assert.Equal(t, 1, result.SubmittedCount)
	assert.Equal(t, 2, result.TotalCount)

	// Rows ordered by last name.
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, "Antoine", result.Rows[0].LastName)
	assert.Equal(t, "Bernard", result.Rows[1].LastName)

	assert.Equal(t, "15.5", result.Rows[1].Score)
	assert.True(t, result.Rows[1].Submitted)
	assert.True(t, result.Rows[1].HasAccommodation)
	assert.False(t, result.Rows[1].DeadlinePassed)

	assert.Equal(t, "", result.Rows[0].Score)
	assert.True(t, result.Rows[0].DeadlinePassed)
}

func TestGetScoreSheet_DeenrolledRowFlagged(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	id := f.seedSheetView(t)
	f.refs.AddDeenrollment(reference.ExamDeenrollment{
		RegistrationNumber: "10000002",
		UnitID:             id.TeachingUnitID(),
		Session:            1,
	})

	result, err := f.sheetHandler().Handle(ctx, GetScoreSheetQuery{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
	})

	assert.NoError(t, err)
	assert.True(t, result.Rows[0].Deenrolled)
	assert.False(t, result.Rows[1].Deenrolled)
}

func TestGetScoreSheet_ReadableWhileWindowClosed(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedSheetView(t)
	f.windows.SetWindow(calendar.SubmissionWindow{})

	result, err := f.sheetHandler().Handle(ctx, GetScoreSheetQuery{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
	})

	assert.NoError(t, err)
	assert.False(t, result.WindowOpen)
	assert.Len(t, result.Rows, 2)
}

func TestGetScoreSheet_NotAttributedRefused(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedSheetView(t)

	_, err := f.sheetHandler().Handle(ctx, GetScoreSheetQuery{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "99999",
	})
	assert.ErrorIs(t, err, shared.ErrTeacherNotAttributed)
}

func TestGetScoreSheet_VacantUnitHasNoResponsibleName(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedSheetView(t)

	result, err := f.sheetHandler().Handle(ctx, GetScoreSheetQuery{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
	})

	assert.NoError(t, err)
	assert.Equal(t, "", result.ResponsibleName)
}
