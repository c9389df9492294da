// Package registry manages the verb table: the extensible mapping from verb
// names to callables invoked from pipeline segments.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/ports"
)

// Call carries one verb invocation: resolved positional arguments, the
// active scope, and the node that triggered the pipeline. Trigger replaces
// the stringly-typed "this" convention: argument tokens equal to "this" are
// resolved to it before the verb runs.
type Call struct {
	Verb    string
	Args    []domain.Value
	Scope   *domain.Scope
	Trigger ports.Node
}

// Arg returns the i-th argument, or Absent when missing.
func (c *Call) Arg(i int) domain.Value {
	if i < 0 || i >= len(c.Args) {
		return domain.Absent()
	}
	return c.Args[i]
}

// Func is the signature for a verb implementation. Verbs may block; they
// receive the pipeline's context and must honor cancellation at suspension
// points.
type Func func(ctx context.Context, call *Call) (domain.Value, error)

// Registry manages the available verbs. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	verbs map[string]Func
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{verbs: make(map[string]Func)}
}

// Register adds a verb. If a verb with the same name exists, it is
// overwritten.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbs[name] = fn
}

// Lookup returns the verb implementation, if registered.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.verbs[name]
	return fn, ok
}

// Execute looks up a verb by name and invokes it.
// Returns an error if the verb is not registered.
func (r *Registry) Execute(ctx context.Context, call *Call) (domain.Value, error) {
	fn, ok := r.Lookup(call.Verb)
	if !ok {
		return domain.Absent(), fmt.Errorf("verb not found: %s", call.Verb)
	}
	return fn(ctx, call)
}

// Names returns the registered verb names, for introspection.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.verbs))
	for name := range r.verbs {
		names = append(names, name)
	}
	return names
}

// ModuleResolver resolves free-standing functions from an external module
// map, the last stop in the call dispatcher's resolution order.
type ModuleResolver interface {
	ResolveFunc(name string) (Func, bool)
}

// ModuleMap is a plain map implementation of ModuleResolver.
type ModuleMap map[string]Func

// ResolveFunc implements ModuleResolver.
func (m ModuleMap) ResolveFunc(name string) (Func, bool) {
	fn, ok := m[name]
	return fn, ok
}
