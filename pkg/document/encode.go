package document

import "strings"

// Definition exports the tree back into the page definition shape, the
// inverse of Decode. Used by hosts that expose the live document as JSON.
func (t *Tree) Definition() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	page := map[string]any{}
	if t.Title != "" {
		page["title"] = t.Title
	}
	if len(t.Stylesheets) > 0 {
		page["stylesheets"] = append([]string(nil), t.Stylesheets...)
	}
	if t.InlineStyle != "" {
		page["style"] = t.InlineStyle
	}

	body := make([]any, 0, len(t.root.children))
	for _, child := range t.root.children {
		body = append(body, exportNode(child))
	}
	page["body"] = body
	return page
}

func exportNode(n *Node) map[string]any {
	el := map[string]any{"tag": n.tag}
	if n.id != "" {
		el["id"] = n.id
	}
	if len(n.classes) > 0 {
		el["class"] = strings.Join(n.classes, " ")
	}
	if n.content != "" {
		el["text"] = n.content
	}
	if len(n.styles) > 0 {
		styles := make(map[string]any, len(n.styles))
		for k, v := range n.styles {
			styles[k] = v
		}
		el["style"] = styles
	}
	attrs := make(map[string]any, len(n.attrs)+len(n.props))
	for k, v := range n.attrs {
		attrs[k] = v
	}
	for k, v := range n.props {
		attrs[k] = v
	}
	if len(attrs) > 0 {
		el["attributes"] = attrs
	}
	if len(n.children) > 0 {
		children := make([]any, 0, len(n.children))
		for _, c := range n.children {
			children = append(children, exportNode(c))
		}
		el["children"] = children
	}
	return el
}
