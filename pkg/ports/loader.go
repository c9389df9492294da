package ports

import "context"

// PageLoader supplies raw page definitions (the JSON element tree the
// document package decodes). Implementations include the in-memory loader
// and the loam-backed repository adapter.
type PageLoader interface {
	// GetPage returns the raw definition for a page id.
	// Returns domain.ErrPageNotFound if the id is unknown.
	GetPage(ctx context.Context, id string) ([]byte, error)

	// ListPages returns the known page ids.
	ListPages(ctx context.Context) ([]string, error)
}

// Watchable is an optional PageLoader extension that signals when the
// underlying page source changes.
type Watchable interface {
	// Watch returns a channel emitting the id of each changed page.
	Watch(ctx context.Context) (<-chan string, error)
}
