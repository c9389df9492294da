// Package graph renders the document tree as Mermaid flowchart syntax so a
// page and its macro entries can be visualized.
package graph

import (
	"fmt"
	"strings"

	"github.com/dotpipe/dotpipe/internal/runtime"
	"github.com/dotpipe/dotpipe/pkg/document"
)

// Overlay contains dynamic state to highlight on the graph.
type Overlay struct {
	Entries   []string // nodes with registered pipelines
	LastFired string   // entry of the most recent run
}

// GenerateMermaid produces Mermaid flowchart syntax for the tree's node
// hierarchy. Shapes carry meaning:
//   - macro-bearing nodes: [[Subroutine]]
//   - the body root: ((Circle))
//   - anonymous containers: [Rectangle] with their tag as label
func GenerateMermaid(tree *document.Tree, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	counter := 0
	writeMermaidNode(&sb, tree.Root(), "", &counter)

	if overlay != nil {
		for _, id := range overlay.Entries {
			sb.WriteString(fmt.Sprintf("    style %s stroke:#818cf8,stroke-width:2px\n", sanitizeMermaidID(id)))
		}
		if overlay.LastFired != "" {
			sb.WriteString(fmt.Sprintf("    style %s fill:#e879f9,color:#fff\n", sanitizeMermaidID(overlay.LastFired)))
		}
	}

	return sb.String()
}

func writeMermaidNode(sb *strings.Builder, n *document.Node, parentID string, counter *int) {
	safeID := sanitizeMermaidID(n.ID())
	if safeID == "" {
		// Anonymous nodes still need a stable vertex id.
		safeID = fmt.Sprintf("anon%d", *counter)
		*counter++
	}

	label := n.ID()
	if label == "" {
		label = n.Tag()
	}

	opener, closer := "[", "]"
	switch {
	case n.Parent() == nil:
		opener, closer = "((", "))"
	default:
		if _, ok := n.Attribute(runtime.MacroAttribute); ok {
			opener, closer = "[[", "]]"
		}
	}

	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(label), closer))

	if parentID != "" {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", parentID, safeID))
	}

	for _, child := range n.Children() {
		writeMermaidNode(sb, child, safeID, counter)
	}
}

// sanitizeMermaidID strips characters Mermaid cannot carry in a vertex id.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, `"`, "#quot;")
}
