package document

import (
	"html"
	"sort"
	"strings"
)

// voidElements have no closing tag.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// RenderHTML serializes the whole tree to an HTML document, including head
// metadata carried over from the page definition.
func (t *Tree) RenderHTML() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	if t.Title != "" {
		b.WriteString("<title>" + escapeHTML(t.Title) + "</title>\n")
	}
	for _, href := range t.Stylesheets {
		b.WriteString("<link rel=\"stylesheet\" href=\"" + escapeAttr(href) + "\">\n")
	}
	if t.InlineStyle != "" {
		b.WriteString("<style>" + t.InlineStyle + "</style>\n")
	}
	b.WriteString("</head>\n")
	renderNode(&b, t.root)
	b.WriteString("\n</html>\n")
	return b.String()
}

// RenderFragment serializes a single subtree.
func (t *Tree) RenderFragment(n *Node) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var b strings.Builder
	renderNode(&b, n)
	return b.String()
}

func renderNode(b *strings.Builder, n *Node) {
	b.WriteString("<" + n.tag)

	if n.id != "" {
		b.WriteString(` id="` + escapeAttr(n.id) + `"`)
	}
	if len(n.classes) > 0 {
		b.WriteString(` class="` + escapeAttr(strings.Join(n.classes, " ")) + `"`)
	}
	if len(n.styles) > 0 {
		names := sortedKeys(n.styles)
		decls := make([]string, 0, len(names))
		for _, name := range names {
			decls = append(decls, name+": "+n.styles[name])
		}
		b.WriteString(` style="` + escapeAttr(strings.Join(decls, "; ")) + `"`)
	}
	for _, name := range sortedKeys(n.props) {
		b.WriteString(" " + name + `="` + escapeAttr(n.props[name]) + `"`)
	}
	for _, name := range sortedKeys(n.attrs) {
		if v := n.attrs[name]; v == "" {
			b.WriteString(" " + name)
		} else {
			b.WriteString(" " + name + `="` + escapeAttr(v) + `"`)
		}
	}
	b.WriteString(">")

	if _, void := voidElements[n.tag]; void {
		return
	}
	if n.content != "" {
		b.WriteString(escapeHTML(n.content))
	}
	for _, c := range n.children {
		renderNode(b, c)
	}
	b.WriteString("</" + n.tag + ">")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// escapeAttr only rewrites the characters that can break out of a
// double-quoted attribute value.
func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", `"`, "&quot;")
	return r.Replace(s)
}
