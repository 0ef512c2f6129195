package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the snapshot in <dataDir>/pigeons_cache_v1.json.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewSnapshotStore creates the data directory if needed.
// If dataDir is empty, defaults to ~/.palomar/data.
func NewSnapshotStore(dataDir string) (*SnapshotStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".palomar", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &SnapshotStore{path: filepath.Join(dataDir, driven.SnapshotKey+".json")}, nil
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file is domain.ErrNoSnapshot.
func (s *SnapshotStore) Load(_ context.Context) ([]domain.Bird, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var birds []domain.Bird
	if err := json.Unmarshal(data, &birds); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", s.path, err)
	}
	if birds == nil {
		birds = []domain.Bird{}
	}
	return birds, nil
}

// Save replaces the snapshot file atomically.
func (s *SnapshotStore) Save(_ context.Context, birds []domain.Bird) error {
	if birds == nil {
		birds = []domain.Bird{}
	}
	data, err := json.MarshalIndent(birds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
