package scoresheet

import (
	"context"
)

// Repository defines the persistence contract for score sheets. The
// implementation lives in infrastructure/persistence; it must serialize
// concurrent writes to the same Identity (the engine performs no locking of
// its own).
type Repository interface {
	// Get returns the sheet for the given identity.
	// Returns shared.ErrScoreSheetNotFound when absent.
	Get(ctx context.Context, id Identity) (*ScoreSheet, error)

	// Search returns the sheets for the given identities, absent ones omitted.
	Search(ctx context.Context, ids []Identity) ([]*ScoreSheet, error)

	// Save persists the sheet, creating or replacing it.
	Save(ctx context.Context, sheet *ScoreSheet) error

	// Delete removes the sheet. Administrative cleanup only; the engine
	// itself never deletes sheets.
	Delete(ctx context.Context, id Identity) error

	// GetAllIdentities returns the identity of every persisted sheet.
	GetAllIdentities(ctx context.Context) ([]Identity, error)
}
