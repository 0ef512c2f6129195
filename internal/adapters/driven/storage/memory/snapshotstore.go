package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
type SnapshotStore struct {
	mu    sync.RWMutex
	birds []domain.Bird
	saved bool
}

// NewSnapshotStore creates a new, empty in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Load returns a copy of the stored records.
func (s *SnapshotStore) Load(_ context.Context) ([]domain.Bird, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return nil, domain.ErrNoSnapshot
	}
	out := make([]domain.Bird, len(s.birds))
	copy(out, s.birds)
	return out, nil
}

// Save replaces the stored records.
func (s *SnapshotStore) Save(_ context.Context, birds []domain.Bird) error {
	stored := make([]domain.Bird, len(birds))
	copy(stored, birds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.birds = stored
	s.saved = true
	return nil
}
