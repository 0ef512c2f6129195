package driven

import (
	"context"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// SnapshotKey names the single persisted snapshot slot.
const SnapshotKey = "pigeons_cache_v1"

// SnapshotStore persists the last successfully fetched record set.
// It holds exactly one slot; every Save overwrites it.
type SnapshotStore interface {
	// Load returns the stored records.
	// Returns domain.ErrNoSnapshot if nothing has been saved.
	Load(ctx context.Context) ([]domain.Bird, error)

	// Save replaces the stored records.
	Save(ctx context.Context, birds []domain.Bird) error
}
