package responsible

import (
	"context"
	"errors"

	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// Teaching assignment check
// ═══════════════════════════════════════════════════════════════════════════

// AssignmentCheck verifies teaching attributions against the external
// attribution translator. Side-effect free.
type AssignmentCheck struct {
	attributions reference.AttributionTranslator
}

// NewAssignmentCheck creates an AssignmentCheck.
func NewAssignmentCheck(attributions reference.AttributionTranslator) *AssignmentCheck {
	return &AssignmentCheck{attributions: attributions}
}

// VerifyAssigned checks that the teacher is among the teachers attributed to
// the unit for the year. Returns shared.ErrTeacherNotAttributed otherwise.
func (c *AssignmentCheck) VerifyAssigned(ctx context.Context, unitID shared.TeachingUnitID, teacherID shared.TeacherID) error {
	attributions, err := c.attributions.SearchByUnit(ctx, unitID)
	if err != nil {
		return err
	}
	for _, a := range attributions {
		if a.TeacherID == teacherID {
			return nil
		}
	}
	return shared.ErrTeacherNotAttributed
}

// ═══════════════════════════════════════════════════════════════════════════
// Assignment service
// ═══════════════════════════════════════════════════════════════════════════

// AssignmentService maintains the single-responsible-per-unit invariant. The
// invariant spans two aggregates, so Assign is a move: the vacated aggregate
// and the target aggregate are persisted in one unit of work.
type AssignmentService struct {
	repo       Repository
	uowFactory UnitOfWorkFactory
	assignment *AssignmentCheck
}

// NewAssignmentService creates an AssignmentService.
func NewAssignmentService(repo Repository, uowFactory UnitOfWorkFactory, assignment *AssignmentCheck) *AssignmentService {
	return &AssignmentService{repo: repo, uowFactory: uowFactory, assignment: assignment}
}

// Assign makes the teacher the score responsible for the unit, removing the
// unit from whoever held it before. Returns the previous holder's ID (empty
// when the unit was vacant).
//
// Fails with shared.ErrTeacherNotAttributed when the teacher is not
// attributed to the unit.
func (s *AssignmentService) Assign(ctx context.Context, unitID shared.TeachingUnitID, teacherID shared.TeacherID) (shared.TeacherID, error) {
	if err := s.assignment.VerifyAssigned(ctx, unitID, teacherID); err != nil {
		return "", err
	}

	uow, err := s.uowFactory.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer uow.Rollback(ctx)

	repo := uow.Responsibles()

	var previousID shared.TeacherID
	current, err := repo.GetForTeachingUnit(ctx, unitID)
	switch {
	case err == nil:
		if current.TeacherID == teacherID {
			// Already the responsible; nothing to move.
			return teacherID, uow.Commit(ctx)
		}
		previousID = current.TeacherID
		if err := current.Unassign(unitID); err != nil {
			return "", err
		}
		if err := repo.Save(ctx, current); err != nil {
			return "", err
		}
	case errors.Is(err, shared.ErrNotFound):
		// Vacant unit; first assignment.
	default:
		return "", err
	}

	target, err := repo.Get(ctx, teacherID)
	if errors.Is(err, shared.ErrNotFound) {
		target = NewScoreResponsible(teacherID)
	} else if err != nil {
		return "", err
	}
	target.Assign(unitID)
	if err := repo.Save(ctx, target); err != nil {
		return "", err
	}

	if err := uow.Commit(ctx); err != nil {
		return "", err
	}
	return previousID, nil
}

// Unassign removes the unit from the teacher's responsibility set. The
// aggregate is saved even when it becomes empty. Returns
// shared.ErrNotScoreResponsible when the teacher does not hold the unit.
func (s *AssignmentService) Unassign(ctx context.Context, unitID shared.TeachingUnitID, teacherID shared.TeacherID) error {
	uow, err := s.uowFactory.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	repo := uow.Responsibles()
	r, err := repo.Get(ctx, teacherID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrNotScoreResponsible
	} else if err != nil {
		return err
	}
	if err := r.Unassign(unitID); err != nil {
		return err
	}
	if err := repo.Save(ctx, r); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// VerifyResponsible checks that the teacher is the recorded score responsible
// for the unit/year. Used as a guard before submitting a score sheet.
// Returns shared.ErrNotScoreResponsible when absent or not holding the unit.
func (s *AssignmentService) VerifyResponsible(ctx context.Context, teacherID shared.TeacherID, unitCode string, year shared.AcademicYear) error {
	r, err := s.repo.Get(ctx, teacherID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrNotScoreResponsible
	} else if err != nil {
		return err
	}
	if !r.IsResponsibleFor(unitCode, year) {
		return shared.ErrNotScoreResponsible
	}
	return nil
}
