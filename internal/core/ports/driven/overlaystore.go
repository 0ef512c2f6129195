package driven

import (
	"context"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// OverlayStore persists records edited locally.
// Entries are keyed by normalised identifier and are never deleted.
type OverlayStore interface {
	// List returns every overlay entry in insertion order.
	List(ctx context.Context) ([]domain.Bird, error)

	// Get returns the entry with the given identifier.
	// Returns domain.ErrNotFound if none exists.
	Get(ctx context.Context, identifier string) (domain.Bird, error)

	// Upsert shallow-merges bird into the entry with the same identifier,
	// or appends it. Returns the stored entry.
	Upsert(ctx context.Context, bird domain.Bird) (domain.Bird, error)
}
