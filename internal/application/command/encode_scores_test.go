package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/internal/infrastructure/persistence/inmemory"
	"github.com/campus-hub/score-encoding-hub/pkg/timeutil"
)

// capturePublisher records every published event for assertions.
type capturePublisher struct {
	events []shared.Event
}

func (p *capturePublisher) Publish(e shared.Event) error {
	p.events = append(p.events, e)
	return nil
}

var cmdToday = timeutil.Date(2025, 6, 10)

type commandFixture struct {
	sheets       *inmemory.ScoreSheetRepository
	responsibles *inmemory.ResponsibleRepository
	refs         *inmemory.ReferenceData
	windows      *inmemory.WindowTranslator
	window       *calendar.WindowCheck
	publisher    *capturePublisher
}

func newCommandFixture() *commandFixture {
	windows := inmemory.NewWindowTranslator()
	windows.SetWindow(calendar.SubmissionWindow{
		Year:      2024,
		Session:   1,
		StartDate: timeutil.Date(2025, 6, 1),
		EndDate:   timeutil.Date(2025, 6, 30),
	})

	return &commandFixture{
		sheets:       inmemory.NewScoreSheetRepository(),
		responsibles: inmemory.NewResponsibleRepository(),
		refs:         inmemory.NewReferenceData(),
		windows:      windows,
		window: calendar.NewWindowCheck(windows).
			WithClock(func() time.Time { return cmdToday }),
		publisher: &capturePublisher{},
	}
}

func (f *commandFixture) seedSheet(t *testing.T) scoresheet.Identity {
	t.Helper()

	id, err := scoresheet.NewIdentity("LDROI1001", 2024, 1)
	assert.NoError(t, err)

	sheet, err := scoresheet.NewScoreSheet(id, 10, []scoresheet.StudentScore{
		{
			RegistrationNumber: "10000001",
			Email:              "alice@student.campus.be",
			DueDate:            timeutil.AddDays(timeutil.Today(), 5),
		},
		{
			RegistrationNumber: "10000002",
			Email:              "bob@student.campus.be",
			DueDate:            timeutil.AddDays(timeutil.Today(), 5),
		},
	})
	assert.NoError(t, err)
	assert.NoError(t, f.sheets.Save(context.Background(), sheet))

	f.refs.AddAttribution(reference.Attribution{TeacherID: "54321", UnitID: id.TeachingUnitID()})
	return id
}

func (f *commandFixture) encodeHandler() *EncodeScoresHandler {
	return NewEncodeScoresHandler(
		f.sheets,
		f.window,
		responsible.NewAssignmentCheck(f.refs),
		f.refs,
		f.publisher,
	)
}

func TestEncodeScores_HappyPath(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	id := f.seedSheet(t)

	result, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "10000001", Email: "alice@student.campus.be", Value: "14"},
			{RegistrationNumber: "10000002", Email: "bob@student.campus.be", Value: "A"},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, []shared.RegistrationNumber{"10000001", "10000002"}, result.Encoded)
	assert.Empty(t, result.Violations)
	assert.Len(t, result.Events, 1)
	assert.Len(t, f.publisher.events, 1)

	sheet, err := f.sheets.Get(ctx, id)
	assert.NoError(t, err)
	entry, _ := sheet.Entry("10000001")
	assert.True(t, entry.Score.Equal(scoresheet.MustScore("14")))
}

func TestEncodeScores_PartialBatchSavedWithViolations(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	id := f.seedSheet(t)

	result, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "10000001", Email: "alice@student.campus.be", Value: "14"},
			{RegistrationNumber: "10000002", Email: "wrong@student.campus.be", Value: "12"},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, []shared.RegistrationNumber{"10000001"}, result.Encoded)
	assert.Len(t, result.Violations, 1)
	assert.ErrorIs(t, result.Violations[0], shared.ErrEmailMismatch)

	// The valid entry is persisted despite the failing one.
	sheet, err := f.sheets.Get(ctx, id)
	assert.NoError(t, err)
	entry, _ := sheet.Entry("10000001")
	assert.False(t, entry.IsMissing())
	entry, _ = sheet.Entry("10000002")
	assert.True(t, entry.IsMissing())
}

func TestEncodeScores_AllEntriesFail_NothingSavedNoEvent(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	f.seedSheet(t)

	result, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "10000001", Email: "alice@student.campus.be", Value: "99"},
		},
	})

	assert.NoError(t, err)
	assert.Empty(t, result.Encoded)
	assert.Len(t, result.Violations, 1)
	assert.Empty(t, result.Events)
	assert.Empty(t, f.publisher.events)
}

func TestEncodeScores_WindowClosed(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	f.seedSheet(t)
	f.windows.SetWindow(calendar.SubmissionWindow{})

	_, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "10000001", Email: "alice@student.campus.be", Value: "14"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrSubmissionWindowClosed)
}

func TestEncodeScores_TeacherNotAttributed(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	f.seedSheet(t)

	_, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "99999",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "10000001", Email: "alice@student.campus.be", Value: "14"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrTeacherNotAttributed)
}

func TestEncodeScores_DeenrolledStudentRefused(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	id := f.seedSheet(t)
	f.refs.AddDeenrollment(reference.ExamDeenrollment{
		RegistrationNumber: "10000001",
		UnitID:             id.TeachingUnitID(),
		Session:            1,
	})

	result, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "10000001", Email: "alice@student.campus.be", Value: "14"},
		},
	})

	assert.NoError(t, err)
	assert.Empty(t, result.Encoded)
	assert.Len(t, result.Violations, 1)
	assert.ErrorIs(t, result.Violations[0], shared.ErrStudentDeenrolled)
}

func TestEncodeScores_InvalidCommand(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()

	_, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "not-a-noma", Value: "14"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestEncodeScores_UnknownSheet(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	f.refs.AddAttribution(reference.Attribution{
		TeacherID: "54321",
		UnitID:    shared.TeachingUnitID{Code: "LHIST9999", Year: 2024},
	})

	_, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LHIST9999",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "10000001", Email: "alice@student.campus.be", Value: "14"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrScoreSheetNotFound)
}
