package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/registry"
)

// registerIOVerbs installs the verbs that need interpreter wiring: ajax
// (network fetch) and call (free-standing function dispatch).
func (i *Interpreter) registerIOVerbs() {
	i.verbs.Register("ajax", i.ajaxVerb)
	i.verbs.Register("call", i.callVerb)
}

// ajaxVerb fetches a URL and returns the response body as text. Failures
// propagate and abort the pipeline; parsing is the caller's business.
func (i *Interpreter) ajaxVerb(ctx context.Context, call *registry.Call) (domain.Value, error) {
	if i.fetcher == nil {
		return domain.Absent(), fmt.Errorf("ajax: no fetcher configured")
	}
	url := call.Arg(0).Render()
	if url == "" {
		return domain.Absent(), fmt.Errorf("ajax: missing url")
	}
	method := strings.ToUpper(call.Arg(1).Render())

	body, err := i.fetcher.FetchText(ctx, url, method)
	if err != nil {
		return domain.Absent(), fmt.Errorf("ajax %s: %w", url, err)
	}
	return domain.Text(body), nil
}

// callVerb resolves a free-standing function name through the verb table,
// the host function table and finally the external module registry, then
// invokes it with the remaining arguments. The callee receives the
// triggering node through the call itself rather than a sentinel argument.
//
// Errors from the resolved function are caught, logged and converted to
// Absent. This is deliberately the only place the engine swallows errors.
func (i *Interpreter) callVerb(ctx context.Context, call *registry.Call) (domain.Value, error) {
	name := call.Arg(0).Render()
	if name == "" {
		i.logger.Warn("call with no function name")
		return domain.Absent(), nil
	}

	fn, ok := i.resolveFunc(name)
	if !ok {
		i.logger.Warn("call target not found", "function", name)
		return domain.Absent(), nil
	}

	inner := &registry.Call{
		Verb:    name,
		Args:    forwardArgs(call),
		Scope:   call.Scope,
		Trigger: call.Trigger,
	}
	result, err := fn(ctx, inner)
	if err != nil {
		i.logger.Warn("called function failed", "function", name, "error", err)
		return domain.Absent(), nil
	}
	return result, nil
}

func (i *Interpreter) resolveFunc(name string) (registry.Func, bool) {
	if fn, ok := i.verbs.Lookup(name); ok {
		return fn, true
	}
	if i.funcs != nil {
		if fn, ok := i.funcs.ResolveFunc(name); ok {
			return fn, true
		}
	}
	if i.modules != nil {
		if fn, ok := i.modules.ResolveFunc(name); ok {
			return fn, true
		}
	}
	return nil, false
}

// forwardArgs passes the call's remaining arguments through. The literal
// token "this" is dropped from the positional list; callees read the
// triggering node from the call context instead.
func forwardArgs(call *registry.Call) []domain.Value {
	if len(call.Args) <= 1 {
		return nil
	}
	out := make([]domain.Value, 0, len(call.Args)-1)
	for _, a := range call.Args[1:] {
		if a.Kind() == domain.KindText && a.Render() == "this" {
			continue
		}
		out = append(out, a)
	}
	return out
}
