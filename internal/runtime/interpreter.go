// Package runtime holds the execution engine: the state machine that walks a
// classified segment sequence against an entry's scope, recursing into shells
// and dispatching verbs.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dotpipe/dotpipe/internal/logging"
	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/ports"
	"github.com/dotpipe/dotpipe/pkg/registry"
)

// MacroAttribute is the node attribute carrying the pipeline text.
const MacroAttribute = "macro"

// Interpreter owns the entry registry and runs pipelines against a document.
// Entries are registered explicitly and unregistered when their node leaves
// the tree, so entry lifetime is auditable instead of leaking.
type Interpreter struct {
	doc     ports.Document
	verbs   *registry.Registry
	fetcher ports.Fetcher
	store   ports.ScopeStore
	funcs   registry.ModuleMap
	modules registry.ModuleResolver
	hooks   domain.LifecycleHooks
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]*domain.Entry

	cancelRemove func()
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithHooks installs lifecycle hooks. Hooks run synchronously inside the
// pipeline.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(i *Interpreter) { i.hooks = hooks }
}

// WithVerbs replaces the default builtin verb table.
func WithVerbs(verbs *registry.Registry) Option {
	return func(i *Interpreter) { i.verbs = verbs }
}

// WithFetcher supplies the network primitive backing the ajax verb.
func WithFetcher(f ports.Fetcher) Option {
	return func(i *Interpreter) { i.fetcher = f }
}

// WithScopeStore enables scope persistence: entry scopes are restored on
// first run and saved after each successful run.
func WithScopeStore(store ports.ScopeStore) Option {
	return func(i *Interpreter) { i.store = store }
}

// WithFuncs exposes host functions to the call dispatcher.
func WithFuncs(funcs registry.ModuleMap) Option {
	return func(i *Interpreter) { i.funcs = funcs }
}

// WithModules exposes an external module registry to the call dispatcher,
// its last resolution stop.
func WithModules(modules registry.ModuleResolver) Option {
	return func(i *Interpreter) { i.modules = modules }
}

// New creates an interpreter bound to a document. If the document notifies
// on node removal, entries for removed nodes are unregistered automatically.
func New(doc ports.Document, opts ...Option) *Interpreter {
	i := &Interpreter{
		doc:     doc,
		logger:  logging.NewNop(),
		entries: make(map[string]*domain.Entry),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.verbs == nil {
		i.verbs = registry.Default(i.logger)
	}
	i.registerIOVerbs()

	if notifier, ok := doc.(ports.RemovalNotifier); ok {
		i.cancelRemove = notifier.OnRemove(func(nodeID string) {
			if i.Unregister(nodeID) {
				i.logger.Debug("entry unregistered after node removal", "entry", nodeID)
			}
		})
	}
	return i
}

// Close detaches the interpreter from document notifications.
func (i *Interpreter) Close() {
	if i.cancelRemove != nil {
		i.cancelRemove()
		i.cancelRemove = nil
	}
}

// Register scans the tree and creates an entry for every node matching the
// predicate. A nil predicate matches nodes carrying a macro attribute.
// Idempotent per node: already-registered entries are left untouched.
// Returns the number of entries created.
func (i *Interpreter) Register(match func(ports.Node) bool) int {
	if match == nil {
		match = func(n ports.Node) bool {
			_, ok := n.Attribute(MacroAttribute)
			return ok
		}
	}

	var created int
	i.doc.Walk(func(n ports.Node) bool {
		if n.ID() == "" || !match(n) {
			return true
		}
		macro, _ := n.Attribute(MacroAttribute)

		i.mu.Lock()
		if _, exists := i.entries[n.ID()]; !exists {
			i.entries[n.ID()] = domain.NewEntry(n.ID(), macro)
			created++
		}
		i.mu.Unlock()
		return true
	})
	if created > 0 {
		i.logger.Debug("entries registered", "count", created)
	}
	return created
}

// RegisterNode creates an entry for a single node with explicit macro text,
// replacing any previous registration for that node.
func (i *Interpreter) RegisterNode(nodeID, macro string) *domain.Entry {
	entry := domain.NewEntry(nodeID, macro)
	i.mu.Lock()
	i.entries[nodeID] = entry
	i.mu.Unlock()
	return entry
}

// Unregister removes the entry for a node. Reports whether one existed.
func (i *Interpreter) Unregister(nodeID string) bool {
	i.mu.Lock()
	_, ok := i.entries[nodeID]
	delete(i.entries, nodeID)
	i.mu.Unlock()
	return ok
}

// Entry returns the registered entry for a node.
func (i *Interpreter) Entry(nodeID string) (*domain.Entry, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	e, ok := i.entries[nodeID]
	return e, ok
}

// Entries returns the ids of all registered entries.
func (i *Interpreter) Entries() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	ids := make([]string, 0, len(i.entries))
	for id := range i.entries {
		ids = append(ids, id)
	}
	return ids
}

// Verbs exposes the verb table so hosts can extend it.
func (i *Interpreter) Verbs() *registry.Registry { return i.verbs }

// Run executes the pipeline registered for entryID. It returns when the
// pipeline, including any shells it opens, completes; the first engine-level
// error aborts the remainder without rolling back applied mutations.
func (i *Interpreter) Run(ctx context.Context, entryID string) error {
	entry, ok := i.Entry(entryID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, entryID)
	}

	i.restoreScope(ctx, entry)

	var trigger ports.Node
	if n, found := i.doc.NodeByID(entry.NodeID); found {
		trigger = n
	}

	start := &domain.PipelineEvent{
		EventBase: eventBase(domain.EventPipelineStart, entry.NodeID),
		Macro:     entry.Macro,
	}
	if i.hooks.OnPipelineStart != nil {
		i.hooks.OnPipelineStart(ctx, start)
	}

	_, err := i.execSegments(ctx, entry, entry.Scope, nil, splitMacro(entry.Macro), trigger)

	end := &domain.PipelineEvent{
		EventBase: eventBase(domain.EventPipelineEnd, entry.NodeID),
		Macro:     entry.Macro,
		Err:       err,
	}
	if i.hooks.OnPipelineEnd != nil {
		i.hooks.OnPipelineEnd(ctx, end)
	}

	if err != nil {
		i.logger.Error("pipeline aborted", "entry", entryID, "error", err)
		return err
	}
	i.persistScope(ctx, entry)
	return nil
}

// restoreScope loads persisted bindings into a still-empty entry scope.
func (i *Interpreter) restoreScope(ctx context.Context, entry *domain.Entry) {
	if i.store == nil || entry.Scope.Len() > 0 {
		return
	}
	values, err := i.store.Load(ctx, entry.NodeID)
	switch {
	case errors.Is(err, domain.ErrScopeNotFound):
	case err != nil:
		i.logger.Warn("scope restore failed", "entry", entry.NodeID, "error", err)
	case len(values) > 0:
		entry.Scope.Replace(values)
	}
}

func (i *Interpreter) persistScope(ctx context.Context, entry *domain.Entry) {
	if i.store == nil {
		return
	}
	if err := i.store.Save(ctx, entry.NodeID, entry.Scope.Snapshot()); err != nil {
		i.logger.Warn("scope persist failed", "entry", entry.NodeID, "error", err)
	}
}

func eventBase(t domain.EventType, entryID string) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, EntryID: entryID}
}
