package dotpipe

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/loam"

	"github.com/dotpipe/dotpipe/internal/runtime"
	loamAdapter "github.com/dotpipe/dotpipe/pkg/adapters/loam"
	"github.com/dotpipe/dotpipe/pkg/document"
	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/ports"
	"github.com/dotpipe/dotpipe/pkg/registry"
)

// Engine is the public facade: a document tree plus the interpreter bound to
// it. Construct one per page.
type Engine struct {
	tree   *document.Tree
	interp *runtime.Interpreter

	logger *slog.Logger
	opts   []runtime.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger for the engine and interpreter.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
			e.opts = append(e.opts, runtime.WithLogger(logger))
		}
	}
}

// WithHooks installs lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.opts = append(e.opts, runtime.WithHooks(hooks)) }
}

// WithFetcher supplies the network primitive backing the ajax verb.
func WithFetcher(f ports.Fetcher) Option {
	return func(e *Engine) { e.opts = append(e.opts, runtime.WithFetcher(f)) }
}

// WithScopeStore enables persistence of entry scopes.
func WithScopeStore(store ports.ScopeStore) Option {
	return func(e *Engine) { e.opts = append(e.opts, runtime.WithScopeStore(store)) }
}

// WithVerbs replaces the default builtin verb table.
func WithVerbs(verbs *registry.Registry) Option {
	return func(e *Engine) { e.opts = append(e.opts, runtime.WithVerbs(verbs)) }
}

// WithFuncs exposes host functions to the call dispatcher.
func WithFuncs(funcs registry.ModuleMap) Option {
	return func(e *Engine) { e.opts = append(e.opts, runtime.WithFuncs(funcs)) }
}

// WithModules exposes an external module registry to the call dispatcher.
func WithModules(modules registry.ModuleResolver) Option {
	return func(e *Engine) { e.opts = append(e.opts, runtime.WithModules(modules)) }
}

// New binds an engine to an existing document tree and registers an entry
// for every macro-bearing node.
func New(tree *document.Tree, opts ...Option) *Engine {
	e := &Engine{tree: tree}
	for _, opt := range opts {
		opt(e)
	}
	e.interp = runtime.New(tree, e.opts...)
	e.interp.Register(nil)
	return e
}

// FromDefinition decodes a raw page definition and binds an engine to it.
func FromDefinition(raw []byte, opts ...Option) (*Engine, error) {
	tree, err := document.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return New(tree, opts...), nil
}

// FromLoader fetches a page definition through a loader and binds an engine
// to it.
func FromLoader(ctx context.Context, loader ports.PageLoader, pageID string, opts ...Option) (*Engine, error) {
	raw, err := loader.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return FromDefinition(raw, opts...)
}

// FromRepo loads a page out of a loam content repository at repoPath. The
// repository is opened read-only in strict mode, so numeric metadata keeps
// a consistent type across the JSON and Markdown adapters.
func FromRepo(ctx context.Context, repoPath, pageID string, opts ...Option) (*Engine, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	loader := loamAdapter.New(loam.NewTypedRepository[loamAdapter.PageMetadata](repo))
	return FromLoader(ctx, loader, pageID, opts...)
}

// Run triggers the pipeline registered for a node. Nodes carrying a macro
// attribute that were added after construction are registered lazily on
// their first trigger.
func (e *Engine) Run(ctx context.Context, entryID string) error {
	if _, ok := e.interp.Entry(entryID); !ok {
		if n, found := e.tree.NodeByID(entryID); found {
			if macro, has := n.Attribute(runtime.MacroAttribute); has {
				e.interp.RegisterNode(entryID, macro)
			}
		}
	}
	return e.interp.Run(ctx, entryID)
}

// Register scans the tree for macro-bearing nodes matching the predicate and
// registers entries for them. A nil predicate matches any node with a macro
// attribute. Returns the number of entries created.
func (e *Engine) Register(match func(ports.Node) bool) int {
	return e.interp.Register(match)
}

// Unregister drops the entry for a node.
func (e *Engine) Unregister(nodeID string) bool {
	return e.interp.Unregister(nodeID)
}

// Entries returns the ids of registered entries.
func (e *Engine) Entries() []string {
	return e.interp.Entries()
}

// Entry returns the registered entry for a node.
func (e *Engine) Entry(nodeID string) (*domain.Entry, bool) {
	return e.interp.Entry(nodeID)
}

// Verbs exposes the verb table so hosts can extend it.
func (e *Engine) Verbs() *registry.Registry {
	return e.interp.Verbs()
}

// Tree returns the document the engine mutates.
func (e *Engine) Tree() *document.Tree {
	return e.tree
}

// Close detaches the engine from document notifications.
func (e *Engine) Close() {
	e.interp.Close()
}
