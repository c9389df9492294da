package ports

import "github.com/dotpipe/dotpipe/pkg/domain"

// Node is the interpreter's view of one addressable document node. The
// engine only ever mutates nodes through these primitives; how the host
// materializes them (in-memory tree, real DOM bridge, test double) is its
// own business.
type Node interface {
	// ID returns the node's stable identifier, or "" for anonymous nodes.
	ID() string

	// HasClass reports whether the node carries the given class.
	HasClass(class string) bool

	// Content returns the node's rendered text content.
	Content() string

	// SetContent replaces the node's rendered content.
	SetContent(value string)

	// Attribute returns a raw attribute value.
	Attribute(name string) (string, bool)

	// SetAttribute sets a raw attribute. An empty value still sets it;
	// removal is explicit.
	SetAttribute(name, value string)

	// RemoveAttribute deletes a raw attribute.
	RemoveAttribute(name string)

	// SetStyle sets a style declaration. Returns false when the name is not
	// a recognized style property, so callers can fall through.
	SetStyle(name, value string) bool

	// SetProperty sets a plain node property (value, checked, ...). Returns
	// false when the node has no such property.
	SetProperty(name, value string) bool
}

// Document is the lookup side of the host's document API. Resolution is a
// pure function of current tree state.
type Document interface {
	// NodeByID returns the node with the given id, if any.
	NodeByID(id string) (Node, bool)

	// NodesByClass returns all nodes carrying the class, in tree order.
	NodesByClass(class string) []Node

	// Walk visits every node in tree order until fn returns false.
	Walk(fn func(Node) bool)
}

// RemovalNotifier is an optional Document extension. Implementations invoke
// the listener whenever a node leaves the tree, which the interpreter uses to
// unregister stale entries.
type RemovalNotifier interface {
	// OnRemove registers a listener and returns a cancel func.
	OnRemove(fn func(nodeID string)) (cancel func())
}

// MutationStreamer is an optional Document extension for observing applied
// side effects, e.g. to stream partial updates to clients.
type MutationStreamer interface {
	// OnMutation registers a listener and returns a cancel func.
	OnMutation(fn func(domain.Mutation)) (cancel func())
}
