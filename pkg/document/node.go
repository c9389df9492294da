package document

import (
	"strings"
	"time"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

// styleNames are the style declarations a node accepts. Unknown names make
// SetStyle return false so the caller can fall through to properties and
// then raw attributes.
var styleNames = map[string]struct{}{
	"color": {}, "background": {}, "background-color": {}, "display": {},
	"visibility": {}, "width": {}, "height": {}, "font-size": {},
	"font-weight": {}, "font-family": {}, "margin": {}, "padding": {},
	"border": {}, "opacity": {}, "text-align": {}, "cursor": {},
}

// propertyNames are the plain node properties, mirroring the form-control
// surface of the original renderer.
var propertyNames = map[string]struct{}{
	"value": {}, "checked": {}, "disabled": {}, "selected": {},
	"src": {}, "href": {}, "placeholder": {}, "title": {}, "type": {},
}

// Node is one element in an in-memory document tree. All mutation goes
// through the tree's lock and fires its mutation listeners.
type Node struct {
	tree *Tree

	tag      string
	id       string
	classes  []string
	attrs    map[string]string
	styles   map[string]string
	props    map[string]string
	content  string
	children []*Node
	parent   *Node
}

// ID returns the node's identifier, or "" for anonymous nodes.
func (n *Node) ID() string {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.id
}

// Tag returns the element tag (div, span, ...).
func (n *Node) Tag() string {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.tag
}

// HasClass reports whether the node carries the given class.
func (n *Node) HasClass(class string) bool {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}

// Content returns the node's text content.
func (n *Node) Content() string {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.content
}

// SetContent replaces the node's text content.
func (n *Node) SetContent(value string) {
	n.tree.mu.Lock()
	n.content = value
	n.tree.mu.Unlock()
	n.tree.notify(domain.Mutation{
		NodeID: n.id, Kind: domain.MutationContent, Value: value, Timestamp: time.Now(),
	})
}

// Attribute returns a raw attribute value.
func (n *Node) Attribute(name string) (string, bool) {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	if name == "class" {
		if len(n.classes) == 0 {
			return "", false
		}
		return strings.Join(n.classes, " "), true
	}
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttribute sets a raw attribute. Setting "class" rewrites the class
// list; setting "id" is ignored to keep the tree index stable.
func (n *Node) SetAttribute(name, value string) {
	n.tree.mu.Lock()
	switch name {
	case "id":
		n.tree.mu.Unlock()
		return
	case "class":
		n.classes = strings.Fields(value)
	default:
		n.attrs[name] = value
	}
	n.tree.mu.Unlock()
	n.tree.notify(domain.Mutation{
		NodeID: n.id, Kind: domain.MutationAttribute, Name: name, Value: value, Timestamp: time.Now(),
	})
}

// RemoveAttribute deletes a raw attribute.
func (n *Node) RemoveAttribute(name string) {
	n.tree.mu.Lock()
	if name == "class" {
		n.classes = nil
	} else {
		delete(n.attrs, name)
	}
	n.tree.mu.Unlock()
	n.tree.notify(domain.Mutation{
		NodeID: n.id, Kind: domain.MutationAttrRemoved, Name: name, Timestamp: time.Now(),
	})
}

// SetStyle sets a style declaration, reporting whether the name is known.
func (n *Node) SetStyle(name, value string) bool {
	if _, ok := styleNames[name]; !ok {
		return false
	}
	n.tree.mu.Lock()
	n.styles[name] = value
	n.tree.mu.Unlock()
	n.tree.notify(domain.Mutation{
		NodeID: n.id, Kind: domain.MutationStyle, Name: name, Value: value, Timestamp: time.Now(),
	})
	return true
}

// SetProperty sets a plain node property, reporting whether the name is known.
func (n *Node) SetProperty(name, value string) bool {
	if _, ok := propertyNames[name]; !ok {
		return false
	}
	n.tree.mu.Lock()
	n.props[name] = value
	n.tree.mu.Unlock()
	n.tree.notify(domain.Mutation{
		NodeID: n.id, Kind: domain.MutationProperty, Name: name, Value: value, Timestamp: time.Now(),
	})
	return true
}

// Property returns a plain node property value.
func (n *Node) Property(name string) (string, bool) {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	v, ok := n.props[name]
	return v, ok
}

// Children returns the node's children in order.
func (n *Node) Children() []*Node {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Parent returns the node's parent, nil for the root.
func (n *Node) Parent() *Node {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.parent
}
