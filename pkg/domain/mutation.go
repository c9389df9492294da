package domain

import "time"

// MutationKind categorizes a document change.
type MutationKind string

const (
	MutationContent     MutationKind = "content"
	MutationAttribute   MutationKind = "attribute"
	MutationAttrRemoved MutationKind = "attribute_removed"
	MutationStyle       MutationKind = "style"
	MutationProperty    MutationKind = "property"
	MutationNodeRemoved MutationKind = "node_removed"
)

// Mutation describes one side effect applied to the document tree. It is
// designed to be serialized to JSON so clients can apply partial updates,
// e.g. over an SSE stream.
type Mutation struct {
	NodeID    string       `json:"node_id"`
	Kind      MutationKind `json:"kind"`
	Name      string       `json:"name,omitempty"`
	Value     string       `json:"value,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
