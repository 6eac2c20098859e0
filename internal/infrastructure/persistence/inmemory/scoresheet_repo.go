// Package inmemory provides map-backed implementations of the persistence and
// translator contracts. Used by the application-layer tests and by local
// development without PostgreSQL or the campus services.
package inmemory

import (
	"context"
	"sync"

	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ScoreSheetRepository is an in-memory scoresheet.Repository. Sheets are
// stored by value: Get hands out copies, so only Save publishes mutations.
type ScoreSheetRepository struct {
	mu     sync.RWMutex
	sheets map[scoresheet.Identity]*scoresheet.ScoreSheet
}

// NewScoreSheetRepository creates an empty repository.
func NewScoreSheetRepository() *ScoreSheetRepository {
	return &ScoreSheetRepository{sheets: make(map[scoresheet.Identity]*scoresheet.ScoreSheet)}
}

// Get returns a copy of the sheet for the given identity.
func (r *ScoreSheetRepository) Get(_ context.Context, id scoresheet.Identity) (*scoresheet.ScoreSheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sheet, ok := r.sheets[id]
	if !ok {
		return nil, shared.ErrScoreSheetNotFound
	}
	return copySheet(sheet), nil
}

// Search returns copies of the sheets for the given identities, absent ones
// omitted, in the order requested.
func (r *ScoreSheetRepository) Search(_ context.Context, ids []scoresheet.Identity) ([]*scoresheet.ScoreSheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sheets []*scoresheet.ScoreSheet
	for _, id := range ids {
		if sheet, ok := r.sheets[id]; ok {
			sheets = append(sheets, copySheet(sheet))
		}
	}
	return sheets, nil
}

// Save persists a copy of the sheet.
func (r *ScoreSheetRepository) Save(_ context.Context, sheet *scoresheet.ScoreSheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sheets[sheet.ID] = copySheet(sheet)
	return nil
}

// Delete removes the sheet.
func (r *ScoreSheetRepository) Delete(_ context.Context, id scoresheet.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sheets, id)
	return nil
}

// GetAllIdentities returns the identity of every stored sheet.
func (r *ScoreSheetRepository) GetAllIdentities(_ context.Context) ([]scoresheet.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]scoresheet.Identity, 0, len(r.sheets))
	for id := range r.sheets {
		ids = append(ids, id)
	}
	return ids, nil
}

func copySheet(sheet *scoresheet.ScoreSheet) *scoresheet.ScoreSheet {
	clone := *sheet
	clone.Scores = make([]scoresheet.StudentScore, len(sheet.Scores))
	copy(clone.Scores, sheet.Scores)
	return &clone
}
