// Package redis stores the catalogue snapshot in Redis, so several machines
// can share the last good copy of the sheet.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the snapshot as one JSON string under driven.SnapshotKey.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

// NewSnapshotStore connects to redisURL and checks the connection.
func NewSnapshotStore(redisURL string) (*SnapshotStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewSnapshotStoreWithClient(client), nil
}

// NewSnapshotStoreWithClient creates a store from an existing client.
func NewSnapshotStoreWithClient(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client, key: driven.SnapshotKey}
}

// Load returns the stored snapshot, or domain.ErrNoSnapshot if the key is absent.
func (s *SnapshotStore) Load(ctx context.Context) ([]domain.Bird, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var birds []domain.Bird
	if err := json.Unmarshal(data, &birds); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if birds == nil {
		birds = []domain.Bird{}
	}
	return birds, nil
}

// Save replaces the stored snapshot. It never expires.
func (s *SnapshotStore) Save(ctx context.Context, birds []domain.Bird) error {
	if birds == nil {
		birds = []domain.Bird{}
	}
	data, err := json.Marshal(birds)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
