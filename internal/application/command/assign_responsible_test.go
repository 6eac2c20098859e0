package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

func (f *commandFixture) assignHandler() *AssignResponsibleHandler {
	return NewAssignResponsibleHandler(f.assignmentService(), f.publisher)
}

func (f *commandFixture) unassignHandler() *UnassignResponsibleHandler {
	return NewUnassignResponsibleHandler(f.assignmentService(), f.publisher)
}

func (f *commandFixture) attribute(teacherID shared.TeacherID, unitID shared.TeachingUnitID) {
	f.refs.AddAttribution(reference.Attribution{TeacherID: teacherID, UnitID: unitID})
}

func TestAssignResponsible_VacantUnit(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	unit := shared.TeachingUnitID{Code: "LDROI1001", Year: 2024}
	f.attribute("11111", unit)

	result, err := f.assignHandler().Handle(ctx, AssignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "11111",
	})

	assert.NoError(t, err)
	assert.Equal(t, shared.TeacherID("11111"), result.TeacherID)
	assert.Empty(t, result.PreviousTeacherID)
	assert.Len(t, result.Events, 1)
}

func TestAssignResponsible_ReassignmentReportsPreviousHolder(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	unit := shared.TeachingUnitID{Code: "LDROI1001", Year: 2024}
	f.attribute("11111", unit)
	f.attribute("22222", unit)

	_, err := f.assignHandler().Handle(ctx, AssignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "11111",
	})
	assert.NoError(t, err)

	result, err := f.assignHandler().Handle(ctx, AssignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "22222",
	})
	assert.NoError(t, err)
	assert.Equal(t, shared.TeacherID("11111"), result.PreviousTeacherID)

	holder, err := f.responsibles.GetForTeachingUnit(ctx, unit)
	assert.NoError(t, err)
	assert.Equal(t, shared.TeacherID("22222"), holder.TeacherID)
}

func TestAssignResponsible_SameTeacherNoEvent(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	unit := shared.TeachingUnitID{Code: "LDROI1001", Year: 2024}
	f.attribute("11111", unit)

	_, err := f.assignHandler().Handle(ctx, AssignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "11111",
	})
	assert.NoError(t, err)
	publishedBefore := len(f.publisher.events)

	result, err := f.assignHandler().Handle(ctx, AssignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "11111",
	})
	assert.NoError(t, err)
	assert.Empty(t, result.PreviousTeacherID)
	assert.Empty(t, result.Events)
	assert.Len(t, f.publisher.events, publishedBefore)
}

func TestAssignResponsible_NotAttributedRefused(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()

	_, err := f.assignHandler().Handle(ctx, AssignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "11111",
	})
	assert.ErrorIs(t, err, shared.ErrTeacherNotAttributed)
}

func TestUnassignResponsible(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()
	unit := shared.TeachingUnitID{Code: "LDROI1001", Year: 2024}
	f.attribute("11111", unit)

	_, err := f.assignHandler().Handle(ctx, AssignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "11111",
	})
	assert.NoError(t, err)

	result, err := f.unassignHandler().Handle(ctx, UnassignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "11111",
	})
	assert.NoError(t, err)
	assert.Len(t, result.Events, 1)

	_, err = f.responsibles.GetForTeachingUnit(ctx, unit)
	assert.ErrorIs(t, err, shared.ErrResponsibleNotFound)
}

func TestUnassignResponsible_NotHolding(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture()

	_, err := f.unassignHandler().Handle(ctx, UnassignResponsibleCommand{
		UnitCode: "LDROI1001", Year: 2024, TeacherID: "11111",
	})
	assert.ErrorIs(t, err, shared.ErrNotScoreResponsible)
}
