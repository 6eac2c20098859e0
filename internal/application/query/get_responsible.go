package query

import (
	"context"
	"errors"

	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RESPONSIBLE QUERY
// Who is score responsible for a teaching unit, and for which units a teacher
// is responsible.
// ══════════════════════════════════════════════════════════════════════════════

// GetUnitResponsibleQuery looks up the responsible of one teaching unit.
type GetUnitResponsibleQuery struct {
	UnitCode string
	Year     int
}

// Validate validates the query shape.
func (q GetUnitResponsibleQuery) Validate() error {
	_, err := shared.NewTeachingUnitID(q.UnitCode, q.Year)
	return err
}

// UnitResponsibleDTO is the responsible of a unit.
type UnitResponsibleDTO struct {
	TeacherID string `json:"teacher_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Vacant reports that no responsible is recorded for the unit.
	Vacant bool `json:"vacant"`
}

// GetResponsibleHandler handles responsibility lookups.
type GetResponsibleHandler struct {
	responsibleRepo responsible.Repository
}

// NewGetResponsibleHandler creates a new GetResponsibleHandler.
func NewGetResponsibleHandler(responsibleRepo responsible.Repository) *GetResponsibleHandler {
	return &GetResponsibleHandler{responsibleRepo: responsibleRepo}
}

// HandleUnit returns the responsible of the unit; a vacant unit is not an
// error, the DTO carries a Vacant flag instead.
func (h *GetResponsibleHandler) HandleUnit(ctx context.Context, query GetUnitResponsibleQuery) (*UnitResponsibleDTO, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetUnitResponsible", shared.ErrValidation, err.Error(), err)
	}
	unitID, err := shared.NewTeachingUnitID(query.UnitCode, query.Year)
	if err != nil {
		return nil, err
	}

	details, err := h.responsibleRepo.SearchDetails(ctx, []shared.TeachingUnitID{unitID})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return &UnitResponsibleDTO{Vacant: true}, nil
	}
	d := details[0]
	return &UnitResponsibleDTO{
		TeacherID: d.TeacherID.String(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
	}, nil
}

// GetTeacherResponsibilitiesQuery lists a teacher's responsibilities.
type GetTeacherResponsibilitiesQuery struct {
	TeacherID string
}

// Validate validates the query shape.
func (q GetTeacherResponsibilitiesQuery) Validate() error {
	_, err := shared.NewTeacherID(q.TeacherID)
	return err
}

// TeacherResponsibilitiesDTO lists the units one teacher holds.
type TeacherResponsibilitiesDTO struct {
	TeacherID string `json:"teacher_id"`

	// Units is ordered by unit code then year.
	Units []shared.TeachingUnitID `json:"units"`
}

// HandleTeacher returns the units the teacher is responsible for. A teacher
// with no recorded aggregate holds no units; that is not an error.
func (h *GetResponsibleHandler) HandleTeacher(ctx context.Context, query GetTeacherResponsibilitiesQuery) (*TeacherResponsibilitiesDTO, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetTeacherResponsibilities", shared.ErrValidation, err.Error(), err)
	}
	teacherID := shared.TeacherID(query.TeacherID)

	r, err := h.responsibleRepo.Get(ctx, teacherID)
	if errors.Is(err, shared.ErrNotFound) {
		return &TeacherResponsibilitiesDTO{TeacherID: teacherID.String()}, nil
	} else if err != nil {
		return nil, err
	}
	return &TeacherResponsibilitiesDTO{TeacherID: teacherID.String(), Units: r.Units()}, nil
}
