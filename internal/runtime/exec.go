package runtime

import (
	"context"
	"strings"
	"time"

	"github.com/dotpipe/dotpipe/internal/classify"
	"github.com/dotpipe/dotpipe/internal/selector"
	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/ports"
	"github.com/dotpipe/dotpipe/pkg/registry"
)

func splitMacro(macro string) []string {
	return classify.Split(macro)
}

// execSegments is the engine loop: it classifies and executes segments in
// order, threading the last-value register between them. When shell is
// non-nil the loop is a shell sub-run over the shell's captured program.
//
// A shell-open segment hands the remainder of the list to the new shell and
// terminates this loop; segments after a shell-open never execute here.
func (i *Interpreter) execSegments(ctx context.Context, entry *domain.Entry, scope *domain.Scope, shell *domain.Shell, segments []string, trigger ports.Node) (domain.Value, error) {
	current := domain.Absent()
	active := scope

	for idx, raw := range segments {
		if err := ctx.Err(); err != nil {
			return current, err
		}

		seg := classify.Classify(raw)
		if i.hooks.OnSegment != nil {
			i.hooks.OnSegment(ctx, &domain.SegmentEvent{
				EventBase: eventBase(domain.EventSegment, entry.NodeID),
				Raw:       seg.Raw,
				Kind:      seg.Kind.String(),
			})
		}

		switch seg.Kind {
		case classify.KindInvalid:
			i.logger.Warn("segment matched no form, skipping", "segment", raw)

		case classify.KindAttrBind:
			nodes, err := selector.Resolve(i.doc, seg.Selector, "")
			if err != nil {
				return current, err
			}
			val := derefLiteral(seg.Value, active)
			for _, n := range nodes {
				if seg.Value == "" {
					n.RemoveAttribute(seg.Attr)
				} else {
					n.SetAttribute(seg.Attr, val.Render())
				}
			}
			current = val

		case classify.KindIndexedSet:
			nodes, err := selector.Resolve(i.doc, seg.Selector, seg.Index)
			if err != nil {
				return current, err
			}
			val := derefLiteral(seg.Value, active)
			for _, n := range nodes {
				applyNamed(n, seg.Prop, val.Render())
			}
			current = val

		case classify.KindShellOpen:
			result, err := i.execShell(ctx, entry, seg, segments[idx+1:], trigger)
			if err != nil {
				return result, err
			}
			// The nested shell consumed the remainder; this run is over,
			// and a shell we run in merges back now. closeShell is a no-op
			// when the program already closed it with an explicit -name.
			if shell != nil {
				i.closeShell(ctx, entry, shell.Name)
			}
			return result, nil

		case classify.KindShellClose:
			if i.closeShell(ctx, entry, seg.Name) {
				// Writes after closing the shell we run in land on the
				// entry scope.
				if shell != nil && shell.Name == seg.Name {
					active = entry.Scope
				}
			} else {
				i.logger.Warn("close of unknown shell", "shell", seg.Name)
			}

		case classify.KindAssign:
			current = i.assign(seg, active)

		case classify.KindPropSet:
			nodes, err := selector.Resolve(i.doc, seg.Selector, "")
			if err != nil {
				return current, err
			}
			val := derefLiteral(seg.Value, active)
			if len(nodes) > 0 {
				applyNamed(nodes[0], seg.Prop, val.Render())
			} else {
				i.logger.Warn("selector resolved nothing", "selector", seg.Selector)
			}
			current = val

		case classify.KindValueStore:
			active.SetValue(seg.Name, current)

		case classify.KindContentSet:
			val := current
			if seg.Value != "" {
				name := strings.TrimPrefix(seg.Value, "!")
				val = active.Get(name)
			}
			if n, ok := i.doc.NodeByID(seg.Name); ok {
				n.SetContent(val.Render())
			} else {
				i.logger.Warn("content target not found", "target", seg.Name)
			}
			current = val

		case classify.KindVerb:
			result, ran, err := i.invokeVerb(ctx, entry, seg, active, trigger)
			if err != nil {
				return current, err
			}
			if ran {
				current = result
			}
		}
	}

	// A shell that never closed itself merges back when its program ends.
	if shell != nil {
		i.closeShell(ctx, entry, shell.Name)
	}
	return current, nil
}

// execShell opens (or reuses) the named shell, hands it the captured
// remainder of the pipeline, and runs it recursively against its own scope.
func (i *Interpreter) execShell(ctx context.Context, entry *domain.Entry, seg classify.Segment, remainder []string, trigger ports.Node) (domain.Value, error) {
	sh := entry.OpenShell(seg.Name, seg.Target, remainder)
	if i.hooks.OnShellOpen != nil {
		i.hooks.OnShellOpen(ctx, &domain.ShellEvent{
			EventBase: eventBase(domain.EventShellOpen, entry.NodeID),
			Shell:     sh.Name,
			TargetID:  sh.TargetID,
		})
	}

	// The shell is rooted at its target node when it resolves.
	shellTrigger := trigger
	if n, ok := i.doc.NodeByID(sh.TargetID); ok {
		shellTrigger = n
	}
	return i.execSegments(ctx, entry, sh.Scope, sh, sh.Segments, shellTrigger)
}

func (i *Interpreter) closeShell(ctx context.Context, entry *domain.Entry, name string) bool {
	sh, open := entry.LookupShell(name)
	if !open {
		return false
	}
	entry.CloseShell(name)
	if i.hooks.OnShellClose != nil {
		i.hooks.OnShellClose(ctx, &domain.ShellEvent{
			EventBase: eventBase(domain.EventShellClose, entry.NodeID),
			Shell:     name,
			TargetID:  sh.TargetID,
		})
	}
	return true
}

// assign handles &name:value. The default-assign sub-form keeps the existing
// variable's value when it is present and falls back to the default literal
// only on first use.
func (i *Interpreter) assign(seg classify.Segment, scope *domain.Scope) domain.Value {
	if seg.HasDefault {
		if existing, ok := scope.Lookup(seg.DerefName); ok {
			scope.SetValue(seg.Name, existing)
			return existing
		}
		return scope.Set(seg.Name, seg.Default)
	}
	val := derefLiteral(seg.Value, scope)
	scope.SetValue(seg.Name, val)
	return val
}

// invokeVerb dispatches a verb segment. A missing verb warns and reports
// ran=false so the last-value register stays untouched; a verb error
// propagates and aborts the pipeline.
func (i *Interpreter) invokeVerb(ctx context.Context, entry *domain.Entry, seg classify.Segment, scope *domain.Scope, trigger ports.Node) (domain.Value, bool, error) {
	if _, known := i.verbs.Lookup(seg.Name); !known {
		i.logger.Warn("unknown verb, continuing", "verb", seg.Name)
		return domain.Absent(), false, nil
	}

	call := &registry.Call{
		Verb:    seg.Name,
		Args:    derefArgs(seg.Args, scope),
		Scope:   scope,
		Trigger: trigger,
	}
	if i.hooks.OnVerbCall != nil {
		i.hooks.OnVerbCall(ctx, &domain.VerbEvent{
			EventBase: eventBase(domain.EventVerbCall, entry.NodeID),
			Verb:      call.Verb,
			Args:      call.Args,
		})
	}

	started := time.Now()
	result, err := i.verbs.Execute(ctx, call)

	if i.hooks.OnVerbReturn != nil {
		i.hooks.OnVerbReturn(ctx, &domain.VerbEvent{
			EventBase: eventBase(domain.EventVerbReturn, entry.NodeID),
			Verb:      call.Verb,
			Args:      call.Args,
			Result:    result,
			Duration:  time.Since(started),
			IsError:   err != nil,
		})
	}
	if err != nil {
		return domain.Absent(), false, err
	}
	return result, true, nil
}

// derefLiteral resolves a right-hand-side token: "!name" reads the scope,
// anything else is coerced once.
func derefLiteral(token string, scope *domain.Scope) domain.Value {
	if name, ok := strings.CutPrefix(token, "!"); ok && name != "" {
		return scope.Get(name)
	}
	return domain.Parse(token)
}

// derefArgs resolves verb arguments: "!name" tokens read the scope, plain
// tokens pass through as literal text without coercion.
func derefArgs(args []string, scope *domain.Scope) []domain.Value {
	out := make([]domain.Value, len(args))
	for i, arg := range args {
		if name, ok := strings.CutPrefix(arg, "!"); ok && name != "" {
			out[i] = scope.Get(name)
		} else {
			out[i] = domain.Text(arg)
		}
	}
	return out
}

// applyNamed writes a named value to a node: "text" means content, then
// style, plain property and raw attribute in trial order.
func applyNamed(n ports.Node, name, value string) {
	if name == "text" {
		n.SetContent(value)
		return
	}
	if n.SetStyle(name, value) {
		return
	}
	if n.SetProperty(name, value) {
		return
	}
	n.SetAttribute(name, value)
}
