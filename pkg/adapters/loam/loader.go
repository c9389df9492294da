// Package loam adapts a loam document repository to the page loader port, so
// pages live as versionable files next to the rest of a content repository.
package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

// PageMetadata is the frontmatter of a page document. Loose keys land in
// Extra, mirroring the page definition schema's handling of unknown keys.
type PageMetadata struct {
	ID    string         `json:"id" mapstructure:"id"`
	Title string         `json:"title" mapstructure:"title"`
	Extra map[string]any `json:",omitempty" mapstructure:",remain"`
}

// Loader implements ports.PageLoader over a typed loam repository.
type Loader struct {
	Repo *loam.TypedRepository[PageMetadata]
}

// New creates a loam page loader.
func New(repo *loam.TypedRepository[PageMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// GetPage returns the raw page definition. Markdown documents keep the JSON
// element tree in their body; JSON/YAML documents are reassembled from their
// decoded metadata.
func (l *Loader) GetPage(ctx context.Context, id string) ([]byte, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPageNotFound, id, err)
	}

	if body := strings.TrimSpace(doc.Content); body != "" {
		return []byte(body), nil
	}

	page := make(map[string]any, len(doc.Data.Extra)+1)
	for k, v := range doc.Data.Extra {
		page[k] = v
	}
	if doc.Data.Title != "" {
		page["title"] = doc.Data.Title
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page %s: %w", id, err)
	}
	return raw, nil
}

// ListPages returns the normalized ids of all page documents.
func (l *Loader) ListPages(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)
		if existing, dup := seen[id]; dup {
			return nil, fmt.Errorf("page id %q defined in both %q and %q", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

// Watch implements ports.Watchable, emitting the id of each changed page.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	if ext := filepath.Ext(id); ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
