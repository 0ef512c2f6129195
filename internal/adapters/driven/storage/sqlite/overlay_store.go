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

// overlayStore implements driven.OverlayStore.
type overlayStore struct {
	store *Store
}

var _ driven.OverlayStore = (*overlayStore)(nil)

// List returns the overlay in insertion order.
func (s *overlayStore) List(ctx context.Context) ([]domain.Bird, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT data FROM overlay ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying overlay: %w", err)
	}
	defer rows.Close()

	birds := []domain.Bird{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning overlay entry: %w", err)
		}
		var b domain.Bird
		if err := json.Unmarshal([]byte(data), &b); err != nil {
			return nil, fmt.Errorf("unmarshalling overlay entry: %w", err)
		}
		birds = append(birds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating overlay: %w", err)
	}
	return birds, nil
}

// Get returns the overlay entry for an identifier.
func (s *overlayStore) Get(ctx context.Context, identifier string) (domain.Bird, error) {
	return getOverlay(ctx, s.store.db, domain.NormalizeIdentifier(identifier))
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getOverlay(ctx context.Context, q queryRower, key string) (domain.Bird, error) {
	var data string
	err := q.QueryRowContext(ctx, "SELECT data FROM overlay WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bird{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Bird{}, fmt.Errorf("querying overlay entry: %w", err)
	}
	var b domain.Bird
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return domain.Bird{}, fmt.Errorf("unmarshalling overlay entry: %w", err)
	}
	return b, nil
}

// Upsert merges bird onto the entry with the same key, or appends it.
func (s *overlayStore) Upsert(ctx context.Context, bird domain.Bird) (domain.Bird, error) {
	key := bird.Key()
	if key == "" {
		return domain.Bird{}, fmt.Errorf("%w: identifier required", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Bird{}, fmt.Errorf("starting overlay transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored := bird
	existing, err := getOverlay(ctx, tx, key)
	switch {
	case err == nil:
		stored = existing.Apply(bird)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Bird{}, err
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return domain.Bird{}, fmt.Errorf("marshalling overlay entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO overlay (key, position, data, updated_at)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM overlay), ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, key, string(data), formatTime(time.Now()))
	if err != nil {
		return domain.Bird{}, fmt.Errorf("saving overlay entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Bird{}, fmt.Errorf("committing overlay entry: %w", err)
	}
	return stored, nil
}
