package inmemory

import (
	"context"
	"sync"

	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// TeacherName is a directory entry used to serve responsibility details.
type TeacherName struct {
	FirstName string
	LastName  string
}

// ResponsibleRepository is an in-memory responsible.Repository. It doubles as
// its own unit-of-work factory: Begin snapshots the store and Commit swaps the
// snapshot back in, so a rolled-back move leaves no trace.
type ResponsibleRepository struct {
	mu    sync.RWMutex
	units map[shared.TeacherID][]shared.TeachingUnitID
	names map[shared.TeacherID]TeacherName
}

// NewResponsibleRepository creates an empty repository.
func NewResponsibleRepository() *ResponsibleRepository {
	return &ResponsibleRepository{
		units: make(map[shared.TeacherID][]shared.TeachingUnitID),
		names: make(map[shared.TeacherID]TeacherName),
	}
}

// SetTeacherName records a directory entry for SearchDetails results.
func (r *ResponsibleRepository) SetTeacherName(teacherID shared.TeacherID, firstName, lastName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[teacherID] = TeacherName{FirstName: firstName, LastName: lastName}
}

// Get returns the aggregate for a teacher.
func (r *ResponsibleRepository) Get(_ context.Context, teacherID shared.TeacherID) (*responsible.ScoreResponsible, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(teacherID)
}

func (r *ResponsibleRepository) getLocked(teacherID shared.TeacherID) (*responsible.ScoreResponsible, error) {
	units, ok := r.units[teacherID]
	if !ok {
		return nil, shared.ErrResponsibleNotFound
	}
	return responsible.RestoreScoreResponsible(teacherID, units), nil
}

// Search returns the aggregates for the given teachers, absent ones omitted.
func (r *ResponsibleRepository) Search(_ context.Context, teacherIDs []shared.TeacherID) ([]*responsible.ScoreResponsible, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*responsible.ScoreResponsible
	for _, id := range teacherIDs {
		if units, ok := r.units[id]; ok {
			result = append(result, responsible.RestoreScoreResponsible(id, units))
		}
	}
	return result, nil
}

// Save persists the aggregate, replacing its responsibility set.
func (r *ResponsibleRepository) Save(_ context.Context, resp *responsible.ScoreResponsible) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.units[resp.TeacherID] = resp.Units()
	return nil
}

// Delete removes the aggregate.
func (r *ResponsibleRepository) Delete(_ context.Context, teacherID shared.TeacherID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.units, teacherID)
	return nil
}

// GetAllIdentities returns every teacher holding an aggregate.
func (r *ResponsibleRepository) GetAllIdentities(_ context.Context) ([]shared.TeacherID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]shared.TeacherID, 0, len(r.units))
	for id := range r.units {
		ids = append(ids, id)
	}
	return ids, nil
}

// GetForTeachingUnit returns the aggregate currently holding the unit.
func (r *ResponsibleRepository) GetForTeachingUnit(_ context.Context, unitID shared.TeachingUnitID) (*responsible.ScoreResponsible, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for teacherID, units := range r.units {
		for _, u := range units {
			if u == unitID {
				return r.getLocked(teacherID)
			}
		}
	}
	return nil, shared.ErrResponsibleNotFound
}

// SearchDetails returns the responsibility details for the given units.
func (r *ResponsibleRepository) SearchDetails(_ context.Context, unitIDs []shared.TeachingUnitID) ([]responsible.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[shared.TeachingUnitID]bool, len(unitIDs))
	for _, u := range unitIDs {
		wanted[u] = true
	}

	var details []responsible.Detail
	for teacherID, units := range r.units {
		for _, u := range units {
			if !wanted[u] {
				continue
			}
			name := r.names[teacherID]
			details = append(details, responsible.Detail{
				TeacherID: teacherID,
				FirstName: name.FirstName,
				LastName:  name.LastName,
				UnitID:    u,
			})
		}
	}
	return details, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// unitOfWork buffers writes on a snapshot; Commit publishes it atomically.
type unitOfWork struct {
	base *ResponsibleRepository
	work *ResponsibleRepository

	mu   sync.Mutex
	done bool
}

// Responsibles returns the repository bound to this unit of work.
func (u *unitOfWork) Responsibles() responsible.Repository {
	return u.work
}

// Commit publishes the snapshot back into the shared store.
func (u *unitOfWork) Commit(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return nil
	}
	u.done = true

	u.base.mu.Lock()
	defer u.base.mu.Unlock()
	u.base.units = u.work.units
	return nil
}

// Rollback discards the snapshot. Safe to call after Commit.
func (u *unitOfWork) Rollback(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.done = true
	return nil
}

// Begin makes the repository its own responsible.UnitOfWorkFactory.
func (r *ResponsibleRepository) Begin(context.Context) (responsible.UnitOfWork, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[shared.TeacherID][]shared.TeachingUnitID, len(r.units))
	for id, units := range r.units {
		cloned := make([]shared.TeachingUnitID, len(units))
		copy(cloned, units)
		snapshot[id] = cloned
	}

	return &unitOfWork{
		base: r,
		work: &ResponsibleRepository{units: snapshot, names: r.names},
	}, nil
}
