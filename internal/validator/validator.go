// Package validator statically checks the macros on a page: segments that
// match no grammatical form, selectors addressing nothing in the initial
// tree, and unbalanced shell delimiters. The engine tolerates all of these
// at run time (warn and skip), so validation is a lint, not a gate.
package validator

import (
	"fmt"

	"github.com/dotpipe/dotpipe/internal/classify"
	"github.com/dotpipe/dotpipe/internal/runtime"
	"github.com/dotpipe/dotpipe/internal/selector"
	"github.com/dotpipe/dotpipe/pkg/document"
)

// Problem is one finding on a macro segment.
type Problem struct {
	NodeID  string
	Segment string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %q: %s", p.NodeID, p.Segment, p.Message)
}

// ValidatePage lints every macro-bearing node in the tree. Selector checks
// run against the initial tree state, so a selector that only resolves
// after earlier segments ran may be reported even though it works live.
func ValidatePage(tree *document.Tree) []Problem {
	var problems []Problem
	var visit func(n *document.Node)
	visit = func(n *document.Node) {
		if macro, ok := n.Attribute(runtime.MacroAttribute); ok {
			id := n.ID()
			if id == "" {
				id = "<anonymous " + n.Tag() + ">"
			}
			problems = append(problems, lintMacro(tree, id, macro)...)
		}
		for _, child := range n.Children() {
			visit(child)
		}
	}
	visit(tree.Root())
	return problems
}

func lintMacro(tree *document.Tree, nodeID, macro string) []Problem {
	var problems []Problem
	report := func(segment, format string, args ...any) {
		problems = append(problems, Problem{
			NodeID:  nodeID,
			Segment: segment,
			Message: fmt.Sprintf(format, args...),
		})
	}

	var openShells []string
	for _, raw := range classify.Split(macro) {
		seg := classify.Classify(raw)
		switch seg.Kind {
		case classify.KindInvalid:
			report(raw, "segment matches no form")

		case classify.KindAttrBind, classify.KindPropSet:
			checkSelector(tree, seg.Selector, "", raw, report)

		case classify.KindIndexedSet:
			checkSelector(tree, seg.Selector, seg.Index, raw, report)

		case classify.KindShellOpen:
			checkSelector(tree, seg.Target, "", raw, report)
			openShells = append(openShells, seg.Name)

		case classify.KindShellClose:
			if len(openShells) == 0 {
				report(raw, "closes shell %q but none is open", seg.Name)
				break
			}
			last := openShells[len(openShells)-1]
			if last != seg.Name {
				report(raw, "closes shell %q but %q is open", seg.Name, last)
			}
			openShells = openShells[:len(openShells)-1]

		case classify.KindContentSet:
			checkSelector(tree, seg.Name, "", raw, report)
		}
	}
	// Shells left open merge implicitly at pipeline end, which is legal,
	// so no finding for a dangling open.
	return problems
}

func checkSelector(tree *document.Tree, sel, indexExpr, raw string, report func(string, string, ...any)) {
	nodes, err := selector.Resolve(tree, sel, indexExpr)
	if err != nil {
		report(raw, "bad index expression: %v", err)
		return
	}
	if len(nodes) == 0 {
		report(raw, "selector %q resolves to no nodes", sel)
	}
}
