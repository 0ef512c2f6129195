package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// Ensure OverlayStore implements the interface.
var _ driven.OverlayStore = (*OverlayStore)(nil)

// OverlayStore is an in-memory implementation of driven.OverlayStore.
// Entries live for the lifetime of the process.
type OverlayStore struct {
	mu    sync.RWMutex
	birds []domain.Bird
}

// NewOverlayStore creates a new in-memory overlay store.
func NewOverlayStore() *OverlayStore {
	return &OverlayStore{}
}

// List returns every entry in insertion order.
func (s *OverlayStore) List(_ context.Context) ([]domain.Bird, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Bird, len(s.birds))
	copy(out, s.birds)
	return out, nil
}

// Get returns the entry with the given identifier.
func (s *OverlayStore) Get(_ context.Context, identifier string) (domain.Bird, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := domain.NormalizeIdentifier(identifier)
	for _, b := range s.birds {
		if b.Key() == key {
			return b, nil
		}
	}
	return domain.Bird{}, domain.ErrNotFound
}

// Upsert merges bird into the entry with the same identifier or appends it.
func (s *OverlayStore) Upsert(_ context.Context, bird domain.Bird) (domain.Bird, error) {
	if bird.Key() == "" {
		return domain.Bird{}, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var stored domain.Bird
	s.birds, stored = domain.UpsertBird(s.birds, bird)
	return stored, nil
}
