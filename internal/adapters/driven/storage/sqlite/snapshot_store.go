package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// snapshotStore implements driven.SnapshotStore.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// Load returns the stored snapshot, or domain.ErrNoSnapshot if none was saved.
func (s *snapshotStore) Load(ctx context.Context) ([]domain.Bird, error) {
	var data string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT data FROM snapshots WHERE key = ?", driven.SnapshotKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	var birds []domain.Bird
	if err := json.Unmarshal([]byte(data), &birds); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot: %w", err)
	}
	if birds == nil {
		birds = []domain.Bird{}
	}
	return birds, nil
}

// Save replaces the stored snapshot.
func (s *snapshotStore) Save(ctx context.Context, birds []domain.Bird) error {
	if birds == nil {
		birds = []domain.Bird{}
	}
	data, err := json.Marshal(birds)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, records, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			records = excluded.records,
			saved_at = excluded.saved_at
	`, driven.SnapshotKey, string(data), len(birds), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}
