package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/internal/infrastructure/persistence/inmemory"
)

func TestGetUnitResponsible(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewResponsibleRepository()
	unit := shared.TeachingUnitID{Code: "LDROI1001", Year: 2024}

	assert.NoError(t, repo.Save(ctx,
		responsible.RestoreScoreResponsible("54321", []shared.TeachingUnitID{unit})))
	repo.SetTeacherName("54321", "Marie", "Dupont")

	result, err := NewGetResponsibleHandler(repo).HandleUnit(ctx, GetUnitResponsibleQuery{
		UnitCode: "LDROI1001",
		Year:     2024,
	})

	assert.NoError(t, err)
	assert.Equal(t, "54321", result.TeacherID)
	assert.Equal(t, "Marie", result.FirstName)
	assert.Equal(t, "Dupont", result.LastName)
	assert.False(t, result.Vacant)
}

func TestGetUnitResponsible_Vacant(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewResponsibleRepository()

	result, err := NewGetResponsibleHandler(repo).HandleUnit(ctx, GetUnitResponsibleQuery{
		UnitCode: "LDROI1001",
		Year:     2024,
	})

	assert.NoError(t, err)
	assert.True(t, result.Vacant)
	assert.Empty(t, result.TeacherID)
}

func TestGetTeacherResponsibilities(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewResponsibleRepository()

	assert.NoError(t, repo.Save(ctx, responsible.RestoreScoreResponsible("54321", []shared.TeachingUnitID{
		{Code: "LMAT1002", Year: 2024},
		{Code: "LDROI1001", Year: 2024},
	})))

	result, err := NewGetResponsibleHandler(repo).HandleTeacher(ctx, GetTeacherResponsibilitiesQuery{
		TeacherID: "54321",
	})

	assert.NoError(t, err)
	assert.Equal(t, "54321", result.TeacherID)
	assert.Equal(t, []shared.TeachingUnitID{
		{Code: "LDROI1001", Year: 2024},
		{Code: "LMAT1002", Year: 2024},
	}, result.Units)
}

func TestGetTeacherResponsibilities_UnknownTeacher(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewResponsibleRepository()

	result, err := NewGetResponsibleHandler(repo).HandleTeacher(ctx, GetTeacherResponsibilitiesQuery{
		TeacherID: "99999",
	})

	assert.NoError(t, err)
	assert.Empty(t, result.Units)
}
