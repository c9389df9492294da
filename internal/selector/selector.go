// Package selector turns textual addresses ("#id", ".class", bare id) plus
// optional index expressions into ordered node lists. Resolution is a pure
// function of current tree state.
package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/ports"
)

// Resolve returns the nodes addressed by sel, optionally filtered and
// reordered by indexExpr. An unresolved selector yields an empty list, never
// an error; a malformed index expression is a genuine error and propagates.
func Resolve(doc ports.Document, sel, indexExpr string) ([]ports.Node, error) {
	nodes := lookup(doc, sel)
	if indexExpr == "" {
		return nodes, nil
	}
	return slice(nodes, indexExpr)
}

func lookup(doc ports.Document, sel string) []ports.Node {
	sel = strings.TrimSpace(sel)
	switch {
	case sel == "":
		return nil
	case strings.HasPrefix(sel, "#"):
		if n, ok := doc.NodeByID(sel[1:]); ok {
			return []ports.Node{n}
		}
		return nil
	case strings.HasPrefix(sel, "."):
		return doc.NodesByClass(sel[1:])
	default:
		// Bare tokens are id lookups.
		if n, ok := doc.NodeByID(sel); ok {
			return []ports.Node{n}
		}
		return nil
	}
}

// slice applies an index expression: a single integer (negative counts from
// the end), a comma list of integers, or a start:end:step range.
// Out-of-bounds indices are dropped, not errors.
func slice(nodes []ports.Node, expr string) ([]ports.Node, error) {
	expr = strings.TrimSpace(expr)
	if strings.Contains(expr, ":") {
		return sliceRange(nodes, expr)
	}

	var out []ports.Node
	for _, field := range strings.Split(expr, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrBadIndex, expr)
		}
		if i < 0 {
			i += len(nodes)
		}
		if i < 0 || i >= len(nodes) {
			continue
		}
		out = append(out, nodes[i])
	}
	return out, nil
}

func sliceRange(nodes []ports.Node, expr string) ([]ports.Node, error) {
	parts := strings.Split(expr, ":")
	if len(parts) > 3 {
		return nil, fmt.Errorf("%w: %q", domain.ErrBadIndex, expr)
	}

	start, err := rangeField(parts[0], 0, expr)
	if err != nil {
		return nil, err
	}
	end, err := rangeField(parts[1], len(nodes), expr)
	if err != nil {
		return nil, err
	}
	step := 1
	if len(parts) == 3 {
		step, err = rangeField(parts[2], 1, expr)
		if err != nil {
			return nil, err
		}
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be positive in %q", domain.ErrBadIndex, expr)
	}

	if start < 0 {
		start += len(nodes)
	}
	if end < 0 {
		end += len(nodes)
	}
	if start < 0 {
		start = 0
	}
	if end > len(nodes) {
		end = len(nodes)
	}

	var out []ports.Node
	for i := start; i < end; i += step {
		out = append(out, nodes[i])
	}
	return out, nil
}

func rangeField(field string, missing int, expr string) (int, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return missing, nil
	}
	i, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrBadIndex, expr)
	}
	return i, nil
}
