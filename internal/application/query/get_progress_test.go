package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/progress"
	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/internal/infrastructure/persistence/inmemory"
	"github.com/campus-hub/score-encoding-hub/pkg/timeutil"
)

var queryToday = timeutil.Date(2025, 6, 10)

type queryFixture struct {
	sheets       *inmemory.ScoreSheetRepository
	responsibles *inmemory.ResponsibleRepository
	refs         *inmemory.ReferenceData
	windows      *inmemory.WindowTranslator
	window       *calendar.WindowCheck
}

func newQueryFixture() *queryFixture {
	windows := inmemory.NewWindowTranslator()
	windows.SetWindow(calendar.SubmissionWindow{
		Year:      2024,
		Session:   1,
		StartDate: timeutil.Date(2025, 6, 1),
		EndDate:   timeutil.Date(2025, 6, 30),
	})

	return &queryFixture{
		sheets:       inmemory.NewScoreSheetRepository(),
		responsibles: inmemory.NewResponsibleRepository(),
		refs:         inmemory.NewReferenceData(),
		windows:      windows,
		window: calendar.NewWindowCheck(windows).
			WithClock(func() time.Time { return queryToday }),
	}
}

func (f *queryFixture) progressHandler() *GetProgressHandler {
	service := progress.NewService(f.sheets, f.responsibles, f.refs, f.refs.Units())
	return NewGetProgressHandler(service, f.window, f.refs)
}

func (f *queryFixture) seedSheet(t *testing.T, unitCode string, teacherID shared.TeacherID) scoresheet.Identity {
	t.Helper()

	id, err := scoresheet.NewIdentity(unitCode, 2024, 1)
	assert.NoError(t, err)
	sheet, err := scoresheet.NewScoreSheet(id, 10, []scoresheet.StudentScore{
		{
			RegistrationNumber: "10000001",
			Email:              "alice@student.campus.be",
			Score:              scoresheet.MustScore("12"),
			DueDate:            timeutil.AddDays(queryToday, 5),
			Submitted:          true,
		},
		{
			RegistrationNumber: "10000002",
			Email:              "bob@student.campus.be",
			DueDate:            timeutil.AddDays(queryToday, 5),
		},
	})
	assert.NoError(t, err)
	assert.NoError(t, f.sheets.Save(context.Background(), sheet))

	f.refs.AddAttribution(reference.Attribution{TeacherID: teacherID, UnitID: id.TeachingUnitID()})
	return id
}

func TestGetProgress_ExplicitPeriod(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedSheet(t, "LDROI1001", "54321")
	f.seedSheet(t, "LMAT1002", "54321")

	result, err := f.progressHandler().Handle(ctx, GetProgressQuery{
		TeacherID: "54321",
		Year:      2024,
		Session:   1,
	})

	assert.NoError(t, err)
	assert.True(t, result.WindowOpen)
	assert.Len(t, result.Report.Units, 2)
	assert.Equal(t, "LDROI1001", result.Report.Units[0].UnitCode)
	assert.Equal(t, 1, result.Report.Units[0].SubmittedCount())
	assert.Equal(t, 2, result.Report.Units[0].TotalCount())
}

func TestGetProgress_PeriodResolvedFromActiveWindow(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedSheet(t, "LDROI1001", "54321")

	result, err := f.progressHandler().Handle(ctx, GetProgressQuery{TeacherID: "54321"})

	assert.NoError(t, err)
	assert.Equal(t, shared.AcademicYear(2024), result.Report.Year)
	assert.Equal(t, shared.SessionNumber(1), result.Report.Session)
	assert.Len(t, result.Report.Units, 1)
}

func TestGetProgress_NoPeriodAndNoWindow(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.windows.SetWindow(calendar.SubmissionWindow{})

	_, err := f.progressHandler().Handle(ctx, GetProgressQuery{TeacherID: "54321"})
	assert.ErrorIs(t, err, shared.ErrSubmissionWindowClosed)
}

func TestGetProgress_FilteredToOneUnit(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedSheet(t, "LDROI1001", "54321")
	f.seedSheet(t, "LMAT1002", "54321")

	result, err := f.progressHandler().Handle(ctx, GetProgressQuery{
		TeacherID: "54321",
		Year:      2024,
		Session:   1,
		UnitCode:  "LMAT1002",
	})

	assert.NoError(t, err)
	assert.Len(t, result.Report.Units, 1)
	assert.Equal(t, "LMAT1002", result.Report.Units[0].UnitCode)
}

func TestGetProgress_OnlyAttributedUnits(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedSheet(t, "LDROI1001", "54321")
	f.seedSheet(t, "LMAT1002", "11111")

	result, err := f.progressHandler().Handle(ctx, GetProgressQuery{
		TeacherID: "54321",
		Year:      2024,
		Session:   1,
	})

	assert.NoError(t, err)
	assert.Len(t, result.Report.Units, 1)
	assert.Equal(t, "LDROI1001", result.Report.Units[0].UnitCode)
}

func TestGetProgress_WindowClosedFlag(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedSheet(t, "LDROI1001", "54321")

	// Window exists but targets session 2; the session 1 report still renders.
	f.windows.SetWindow(calendar.SubmissionWindow{
		Year:      2024,
		Session:   2,
		StartDate: timeutil.Date(2025, 6, 1),
		EndDate:   timeutil.Date(2025, 6, 30),
	})

	result, err := f.progressHandler().Handle(ctx, GetProgressQuery{
		TeacherID: "54321",
		Year:      2024,
		Session:   1,
	})

	assert.NoError(t, err)
	assert.False(t, result.WindowOpen)
	assert.Len(t, result.Report.Units, 1)
}
