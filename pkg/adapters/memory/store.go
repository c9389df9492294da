// Package memory provides in-process adapters: a scope store and a page
// loader backed by plain maps. Useful for tests and single-process hosts.
package memory

import (
	"context"
	"sync"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

// Store implements ports.ScopeStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]domain.Value
}

// NewStore creates an empty in-memory scope store.
func NewStore() *Store {
	return &Store{data: make(map[string]map[string]domain.Value)}
}

// Save persists a copy of the bindings, so the caller keeps ownership of its
// map.
func (s *Store) Save(ctx context.Context, entryID string, values map[string]domain.Value) error {
	copied := make(map[string]domain.Value, len(values))
	for k, v := range values {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[entryID] = copied
	return nil
}

// Load retrieves a copy of the persisted bindings.
func (s *Store) Load(ctx context.Context, entryID string) (map[string]domain.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.data[entryID]
	if !ok {
		return nil, domain.ErrScopeNotFound
	}
	copied := make(map[string]domain.Value, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return copied, nil
}

// Delete removes the bindings for an entry.
func (s *Store) Delete(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, entryID)
	return nil
}

// List returns the entry ids with persisted scopes.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
