package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

func (f *commandFixture) assignmentService() *responsible.AssignmentService {
	return responsible.NewAssignmentService(
		f.responsibles, f.responsibles, responsible.NewAssignmentCheck(f.refs))
}

func (f *commandFixture) submitHandler() *SubmitScoresHandler {
	return NewSubmitScoresHandler(f.sheets, f.window, f.assignmentService(), f.publisher)
}

func (f *commandFixture) makeResponsible(t *testing.T, teacherID shared.TeacherID, unitID shared.TeachingUnitID) {
	t.Helper()
	_, err := f.assignmentService().Assign(context.Background(), unitID, teacherID)
	assert.NoError(t, err)
}

func (f *commandFixture) encodeOne(t *testing.T, noma, email, value string) {
	t.Helper()
	result, err := f.encodeHandler().Handle(context.Background(), EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: noma, Email: email, Value: value},
		},
	})
	assert.NoError(t, err)
	assert.Empty(t, result.Violations)
}

func TestSubmitScores_FinalizesEncodedEntries(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	id := f.seedSheet(t)
	f.makeResponsible(t, "54321", id.TeachingUnitID())
	f.encodeOne(t, "10000001", "alice@student.campus.be", "14")

	result, err := f.submitHandler().Handle(ctx, SubmitScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
	})

	assert.NoError(t, err)
	assert.Equal(t, []shared.RegistrationNumber{"10000001"}, result.Submitted)
	assert.Equal(t, 1, result.MissingCount)
	assert.Len(t, result.Events, 1)

	sheet, err := f.sheets.Get(ctx, id)
	assert.NoError(t, err)
	assert.True(t, sheet.IsSubmitted("10000001"))
	assert.False(t, sheet.IsSubmitted("10000002"))
}

func TestSubmitScores_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	id := f.seedSheet(t)
	f.makeResponsible(t, "54321", id.TeachingUnitID())
	f.encodeOne(t, "10000001", "alice@student.campus.be", "14")

	cmd := SubmitScoresCommand{UnitCode: "LDROI1001", Year: 2024, Session: 1, TeacherID: "54321"}

	first, err := f.submitHandler().Handle(ctx, cmd)
	assert.NoError(t, err)
	assert.Len(t, first.Submitted, 1)

	publishedBefore := len(f.publisher.events)
	second, err := f.submitHandler().Handle(ctx, cmd)
	assert.NoError(t, err)
	assert.Empty(t, second.Submitted)
	assert.Empty(t, second.Events)
	assert.Len(t, f.publisher.events, publishedBefore)
}

func TestSubmitScores_SubmittedValueLocked(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	id := f.seedSheet(t)
	f.makeResponsible(t, "54321", id.TeachingUnitID())
	f.encodeOne(t, "10000001", "alice@student.campus.be", "14")

	_, err := f.submitHandler().Handle(ctx, SubmitScoresCommand{
		UnitCode: "LDROI1001", Year: 2024, Session: 1, TeacherID: "54321",
	})
	assert.NoError(t, err)

	result, err := f.encodeHandler().Handle(ctx, EncodeScoresCommand{
		UnitCode:  "LDROI1001",
		Year:      2024,
		Session:   1,
		TeacherID: "54321",
		Entries: []ScoreEntryInput{
			{RegistrationNumber: "10000001", Email: "alice@student.campus.be", Value: "16"},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, result.Violations, 1)
	assert.ErrorIs(t, result.Violations[0], shared.ErrScoreAlreadySubmitted)

	sheet, err := f.sheets.Get(ctx, id)
	assert.NoError(t, err)
	entry, _ := sheet.Entry("10000001")
	assert.True(t, entry.Score.Equal(scoresheet.MustScore("14")))
}

func TestSubmitScores_NotResponsibleRefused(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	f.seedSheet(t)
	f.encodeOne(t, "10000001", "alice@student.campus.be", "14")

	// Attributed but not the recorded score responsible.
	_, err := f.submitHandler().Handle(ctx, SubmitScoresCommand{
		UnitCode: "LDROI1001", Year: 2024, Session: 1, TeacherID: "54321",
	})
	assert.ErrorIs(t, err, shared.ErrNotScoreResponsible)
}

func TestSubmitScores_WindowClosed(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	id := f.seedSheet(t)
	f.makeResponsible(t, "54321", id.TeachingUnitID())

	// Window targets another session than the command.
	_, err := f.submitHandler().Handle(ctx, SubmitScoresCommand{
		UnitCode: "LDROI1001", Year: 2024, Session: 2, TeacherID: "54321",
	})
	assert.ErrorIs(t, err, shared.ErrSubmissionWindowClosed)
}
