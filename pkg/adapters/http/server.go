// Package http exposes the interpreter and its live document over HTTP:
// pipeline triggering, document inspection and an SSE mutation stream.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dotpipe/dotpipe"
	"github.com/dotpipe/dotpipe/internal/logging"
	"github.com/dotpipe/dotpipe/pkg/document"
	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/ports"
)

// Engine is the interpreter surface the server needs.
type Engine interface {
	Run(ctx context.Context, entryID string) error
	Register(match func(ports.Node) bool) int
	Entries() []string
	Entry(nodeID string) (*domain.Entry, bool)
}

// Server routes HTTP requests to an engine and its document tree.
type Server struct {
	engine  Engine
	tree    *document.Tree
	logger  *slog.Logger
	streams *StreamManager
	router  chi.Router

	apiVersion      string
	cancelMutations func()
}

type ServerOption func(*Server)

// WithLogger sets the request logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds the handler. The embedded OpenAPI document is validated
// here so a broken spec is a startup failure. Call Close when done to detach
// the mutation listener.
func NewServer(engine Engine, tree *document.Tree, opts ...ServerOption) (*Server, error) {
	spec, err := loadSpec()
	if err != nil {
		return nil, err
	}

	s := &Server{
		engine:     engine,
		tree:       tree,
		logger:     logging.NewNop(),
		streams:    NewStreamManager(),
		apiVersion: spec.Info.Version,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cancelMutations = tree.OnMutation(func(m domain.Mutation) {
		if data, err := json.Marshal(m); err == nil {
			s.streams.Broadcast(string(data))
		}
	})

	r := chi.NewRouter()
	r.Post("/entries/{id}/run", s.handleRunEntry)
	r.Post("/register", s.handleRegister)
	r.Get("/entries", s.handleListEntries)
	r.Get("/entries/{id}", s.handleGetEntry)
	r.Get("/page", s.handlePage)
	r.Get("/document", s.handleDocument)
	r.Get("/events", s.handleEvents)
	r.Get("/health", s.handleHealth)
	r.Get("/info", s.handleInfo)
	r.Get("/openapi.yaml", s.handleSpec)
	r.Get("/swagger", s.handleSwagger)
	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler with permissive CORS, since pipelines
// are triggered from browser-hosted pages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.router.ServeHTTP(w, r)
}

// Close detaches the document mutation listener.
func (s *Server) Close() {
	if s.cancelMutations != nil {
		s.cancelMutations()
		s.cancelMutations = nil
	}
}

func (s *Server) handleRunEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.Run(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			http.Error(w, fmt.Sprintf("entry not found: %s", id), http.StatusNotFound)
			return
		}
		s.logger.Error("pipeline run failed", "entry", id, "error", err)
		http.Error(w, fmt.Sprintf("run error: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	n := s.engine.Register(nil)
	writeJSON(w, s.logger, map[string]int{"registered": n})
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	type entryInfo struct {
		ID    string `json:"id"`
		Macro string `json:"macro"`
	}
	infos := make([]entryInfo, 0)
	for _, id := range s.engine.Entries() {
		if e, ok := s.engine.Entry(id); ok {
			infos = append(infos, entryInfo{ID: e.NodeID, Macro: e.Macro})
		}
	}
	writeJSON(w, s.logger, map[string]any{"entries": infos})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.engine.Entry(id)
	if !ok {
		http.Error(w, fmt.Sprintf("entry not found: %s", id), http.StatusNotFound)
		return
	}
	writeJSON(w, s.logger, map[string]any{
		"id":          entry.NodeID,
		"macro":       entry.Macro,
		"scope":       entry.Scope.Snapshot(),
		"open_shells": entry.OpenShells(),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.tree.RenderHTML()))
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, s.tree.Definition())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("sse client disconnected")
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":         "dotpipe-http",
		"version":     strings.TrimSpace(dotpipe.Version),
		"api_version": s.apiVersion,
	})
}

func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = w.Write(rawSpec)
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(swaggerHTML))
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>dotpipe API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
