package tui

import (
	"fmt"
	"strings"

	"github.com/dotpipe/dotpipe/internal/runtime"
	"github.com/dotpipe/dotpipe/pkg/document"
)

// PageMarkdown flattens a document tree into markdown so the live page can
// be previewed in a terminal. It is a sketch of the page, not a faithful
// HTML rendering: headings keep their level, buttons show their macro, and
// everything else collapses to its text content.
func PageMarkdown(tree *document.Tree) string {
	var sb strings.Builder

	if tree.Title != "" {
		sb.WriteString("# " + tree.Title + "\n\n")
	}

	for _, child := range tree.Root().Children() {
		writeNode(&sb, child)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n *document.Node) {
	tag := n.Tag()
	content := strings.TrimSpace(n.Content())

	switch {
	case len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6':
		level := int(tag[1]-'0') + 1 // page title already took level one
		if level > 6 {
			level = 6
		}
		sb.WriteString(strings.Repeat("#", level) + " " + content + "\n\n")

	case tag == "button":
		label := content
		if label == "" {
			label = n.ID()
		}
		sb.WriteString(fmt.Sprintf("**[ %s ]**", label))
		if macro, ok := n.Attribute(runtime.MacroAttribute); ok {
			sb.WriteString(" `" + macro + "`")
		}
		sb.WriteString("\n\n")

	case tag == "li":
		sb.WriteString("- " + content + "\n")

	case tag == "hr":
		sb.WriteString("---\n\n")

	default:
		if content != "" {
			sb.WriteString(content + "\n\n")
		}
	}

	for _, child := range n.Children() {
		writeNode(sb, child)
	}

	if tag == "ul" || tag == "ol" {
		sb.WriteString("\n")
	}
}
