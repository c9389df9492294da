// Package redis implements a scope store over Redis, persisting each entry's
// bindings as one JSON blob.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

// Store implements ports.ScopeStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for persisted scopes.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for persisted scopes.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "dotpipe:scope:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(entryID string) string {
	return s.prefix + entryID
}

// Save persists the bindings as a JSON blob under the entry's key.
func (s *Store) Save(ctx context.Context, entryID string, values map[string]domain.Value) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal scope: %w", err)
	}
	if err := s.client.Set(ctx, s.key(entryID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save scope to redis: %w", err)
	}
	return nil
}

// Load retrieves and decodes the bindings for an entry.
func (s *Store) Load(ctx context.Context, entryID string) (map[string]domain.Value, error) {
	raw, err := s.client.Get(ctx, s.key(entryID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrScopeNotFound
		}
		return nil, fmt.Errorf("failed to get scope from redis: %w", err)
	}

	var values map[string]domain.Value
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scope: %w", err)
	}
	return values, nil
}

// Delete removes the persisted scope for an entry.
func (s *Store) Delete(ctx context.Context, entryID string) error {
	return s.client.Del(ctx, s.key(entryID)).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
