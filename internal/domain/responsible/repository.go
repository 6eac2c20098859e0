package responsible

import (
	"context"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// Detail is the read-model view of a responsibility: who holds a unit, with
// the display name the score sheet and progress reports print.
type Detail struct {
	TeacherID shared.TeacherID
	FirstName string
	LastName  string
	UnitID    shared.TeachingUnitID
}

// Repository defines the persistence contract for score responsibles.
type Repository interface {
	// Get returns the aggregate for a teacher.
	// Returns shared.ErrResponsibleNotFound when absent.
	Get(ctx context.Context, teacherID shared.TeacherID) (*ScoreResponsible, error)

	// Search returns the aggregates for the given teachers, absent ones omitted.
	Search(ctx context.Context, teacherIDs []shared.TeacherID) ([]*ScoreResponsible, error)

	// Save persists the aggregate, creating or replacing it. An empty
	// responsibility set is a valid persisted state.
	Save(ctx context.Context, r *ScoreResponsible) error

	// Delete removes the aggregate.
	Delete(ctx context.Context, teacherID shared.TeacherID) error

	// GetAllIdentities returns every teacher holding an aggregate.
	GetAllIdentities(ctx context.Context) ([]shared.TeacherID, error)

	// GetForTeachingUnit returns the aggregate currently holding the unit.
	// Returns shared.ErrResponsibleNotFound when the unit is vacant.
	GetForTeachingUnit(ctx context.Context, unitID shared.TeachingUnitID) (*ScoreResponsible, error)

	// SearchDetails returns the responsibility details (with display names)
	// for the given units, vacant ones omitted.
	SearchDetails(ctx context.Context, unitIDs []shared.TeachingUnitID) ([]Detail, error)
}

// UnitOfWork scopes repository writes to one transaction. The assign
// operation moves a teaching unit between two aggregates; both writes must be
// applied atomically or a concurrent assignment could transiently see two
// responsibles for one unit.
type UnitOfWork interface {
	// Responsibles returns the repository bound to this transaction.
	Responsibles() Repository

	// Commit applies every write of the transaction.
	Commit(ctx context.Context) error

	// Rollback discards the transaction. Safe to call after Commit.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory begins transactions.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
