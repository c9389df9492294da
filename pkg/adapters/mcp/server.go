// Package mcp exposes the interpreter as an MCP server, so agent hosts can
// trigger pipelines and inspect the live document as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dotpipe/dotpipe"
	"github.com/dotpipe/dotpipe/pkg/document"
	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/ports"
)

// Engine is the interpreter surface the MCP server needs.
type Engine interface {
	Run(ctx context.Context, entryID string) error
	Register(match func(ports.Node) bool) int
	Entries() []string
	Entry(nodeID string) (*domain.Entry, bool)
}

// RunResult is the structured output of the run_entry tool.
type RunResult struct {
	EntryID string                  `json:"entry_id" jsonschema_description:"The entry that was triggered"`
	Status  string                  `json:"status" jsonschema_description:"ok or error"`
	Scope   map[string]domain.Value `json:"scope,omitempty" jsonschema_description:"Entry scope after the run"`
}

// EntryList is the structured output of the list_entries tool.
type EntryList struct {
	Entries []EntryInfo `json:"entries"`
}

// EntryInfo describes one registered entry.
type EntryInfo struct {
	ID    string `json:"id"`
	Macro string `json:"macro"`
}

// Server wraps an engine and its document as an MCP server.
type Server struct {
	engine    Engine
	tree      *document.Tree
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools and resources.
func NewServer(engine Engine, tree *document.Tree) *Server {
	s := &Server{
		engine:    engine,
		tree:      tree,
		mcpServer: server.NewMCPServer("dotpipe-mcp", strings.TrimSpace(dotpipe.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, shutting down
// gracefully when the context ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("mcp server listening (sse)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	runTool := mcp.NewTool("run_entry",
		mcp.WithDescription("Run the macro pipeline registered for a document node."),
		mcp.WithString("entry_id", mcp.Required(), mcp.Description("The id of the macro-bearing node")),
		mcp.WithOutputSchema[RunResult](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunEntry))

	listTool := mcp.NewTool("list_entries",
		mcp.WithDescription("List all registered entries with their macro text."),
		mcp.WithOutputSchema[EntryList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListEntries))

	s.mcpServer.AddTool(mcp.NewTool("inspect_document",
		mcp.WithDescription("Get the live document as a JSON page definition."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(s.tree.Definition())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleRunEntry(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunResult, error) {
	entryID, _ := args["entry_id"].(string)
	if entryID == "" {
		return RunResult{}, fmt.Errorf("entry_id is required")
	}

	if err := s.engine.Run(ctx, entryID); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return RunResult{}, fmt.Errorf("entry not found: %s", entryID)
		}
		return RunResult{}, fmt.Errorf("run failed: %w", err)
	}

	result := RunResult{EntryID: entryID, Status: "ok"}
	if entry, ok := s.engine.Entry(entryID); ok {
		result.Scope = entry.Scope.Snapshot()
	}
	return result, nil
}

func (s *Server) handleListEntries(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EntryList, error) {
	list := EntryList{Entries: make([]EntryInfo, 0)}
	for _, id := range s.engine.Entries() {
		if entry, ok := s.engine.Entry(id); ok {
			list.Entries = append(list.Entries, EntryInfo{ID: entry.NodeID, Macro: entry.Macro})
		}
	}
	return list, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("dotpipe://document", "Live Document Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.tree.Definition())
		if err != nil {
			return nil, fmt.Errorf("failed to encode document: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "dotpipe://document",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
