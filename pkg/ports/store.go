package ports

import (
	"context"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

// ScopeStore persists entry scopes, enabling variable state to survive
// process restarts when the host wants it to.
type ScopeStore interface {
	// Save persists the bindings for a given entry ID.
	Save(ctx context.Context, entryID string, values map[string]domain.Value) error

	// Load retrieves the bindings for a given entry ID.
	// Returns domain.ErrScopeNotFound if nothing was persisted.
	Load(ctx context.Context, entryID string) (map[string]domain.Value, error)

	// Delete removes the bindings for a given entry ID.
	Delete(ctx context.Context, entryID string) error
}
