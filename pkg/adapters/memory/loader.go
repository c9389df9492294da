package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

// Loader implements ports.PageLoader over a map of raw page definitions.
type Loader struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

// NewLoader creates a loader seeded with the given pages. The map may be nil.
func NewLoader(pages map[string][]byte) *Loader {
	l := &Loader{pages: make(map[string][]byte, len(pages))}
	for id, raw := range pages {
		l.pages[id] = append([]byte(nil), raw...)
	}
	return l
}

// SetPage adds or replaces a page definition.
func (l *Loader) SetPage(id string, raw []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pages[id] = append([]byte(nil), raw...)
}

// GetPage returns the raw definition for a page id.
func (l *Loader) GetPage(ctx context.Context, id string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	raw, ok := l.pages[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPageNotFound, id)
	}
	return append([]byte(nil), raw...), nil
}

// ListPages returns the known page ids, sorted.
func (l *Loader) ListPages(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.pages))
	for id := range l.pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
