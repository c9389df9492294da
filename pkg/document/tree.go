package document

import (
	"fmt"
	"sync"
	"time"

	"github.com/dotpipe/dotpipe/pkg/domain"
	"github.com/dotpipe/dotpipe/pkg/ports"
)

// Tree is an in-memory document: a rooted node hierarchy with an id index
// and class lookup in tree order. It implements ports.Document plus the
// RemovalNotifier and MutationStreamer extensions.
//
// The tree is safe for concurrent use, but offers no isolation between
// concurrently running pipelines: writes land in arrival order.
type Tree struct {
	mu   sync.RWMutex
	root *Node
	byID map[string]*Node

	listenerMu   sync.Mutex
	nextListener int
	onMutation   map[int]func(domain.Mutation)
	onRemove     map[int]func(string)

	// Head metadata carried over from the page definition.
	Title       string
	Stylesheets []string
	InlineStyle string
}

// New creates an empty tree with a body root.
func New() *Tree {
	t := &Tree{
		byID:       make(map[string]*Node),
		onMutation: make(map[int]func(domain.Mutation)),
		onRemove:   make(map[int]func(string)),
	}
	t.root = t.newNode("body")
	return t
}

func (t *Tree) newNode(tag string) *Node {
	return &Node{
		tree:   t,
		tag:    tag,
		attrs:  make(map[string]string),
		styles: make(map[string]string),
		props:  make(map[string]string),
	}
}

// Root returns the body node.
func (t *Tree) Root() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// NodeByID returns the node with the given id, if any.
func (t *Tree) NodeByID(id string) (ports.Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// NodesByClass returns all nodes carrying the class, in tree order.
func (t *Tree) NodesByClass(class string) []ports.Node {
	var out []ports.Node
	t.Walk(func(n ports.Node) bool {
		if n.HasClass(class) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Walk visits every node depth-first in document order until fn returns
// false.
func (t *Tree) Walk(fn func(ports.Node) bool) {
	t.mu.RLock()
	nodes := flatten(t.root, nil)
	t.mu.RUnlock()
	for _, n := range nodes {
		if !fn(n) {
			return
		}
	}
}

func flatten(n *Node, acc []*Node) []*Node {
	acc = append(acc, n)
	for _, c := range n.children {
		acc = flatten(c, acc)
	}
	return acc
}

// Append attaches a child under parent (nil parent means the root). It
// returns an error when the child's id collides with an existing node.
func (t *Tree) Append(parent, child *Node) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if parent == nil {
		parent = t.root
	}
	if child.id != "" {
		if _, exists := t.byID[child.id]; exists {
			return fmt.Errorf("duplicate node id %q", child.id)
		}
	}
	child.parent = parent
	parent.children = append(parent.children, child)
	t.indexSubtree(child)
	return nil
}

func (t *Tree) indexSubtree(n *Node) {
	if n.id != "" {
		t.byID[n.id] = n
	}
	for _, c := range n.children {
		t.indexSubtree(c)
	}
}

// Remove detaches the identified node and its subtree. Removal listeners
// fire for every removed node that had an id, which the interpreter uses to
// unregister entries.
func (t *Tree) Remove(id string) bool {
	t.mu.Lock()
	n, ok := t.byID[id]
	if !ok || n.parent == nil {
		t.mu.Unlock()
		return false
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
	removed := collectIDs(n, nil)
	for _, rid := range removed {
		delete(t.byID, rid)
	}
	t.mu.Unlock()

	for _, rid := range removed {
		t.notify(domain.Mutation{NodeID: rid, Kind: domain.MutationNodeRemoved, Timestamp: time.Now()})
		t.notifyRemoval(rid)
	}
	return true
}

func collectIDs(n *Node, acc []string) []string {
	if n.id != "" {
		acc = append(acc, n.id)
	}
	for _, c := range n.children {
		acc = collectIDs(c, acc)
	}
	return acc
}

// OnMutation registers a mutation listener and returns a cancel func.
func (t *Tree) OnMutation(fn func(domain.Mutation)) (cancel func()) {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	id := t.nextListener
	t.nextListener++
	t.onMutation[id] = fn
	return func() {
		t.listenerMu.Lock()
		defer t.listenerMu.Unlock()
		delete(t.onMutation, id)
	}
}

// OnRemove registers a removal listener and returns a cancel func.
func (t *Tree) OnRemove(fn func(nodeID string)) (cancel func()) {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	id := t.nextListener
	t.nextListener++
	t.onRemove[id] = fn
	return func() {
		t.listenerMu.Lock()
		defer t.listenerMu.Unlock()
		delete(t.onRemove, id)
	}
}

func (t *Tree) notify(m domain.Mutation) {
	t.listenerMu.Lock()
	fns := make([]func(domain.Mutation), 0, len(t.onMutation))
	for _, fn := range t.onMutation {
		fns = append(fns, fn)
	}
	t.listenerMu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
}

func (t *Tree) notifyRemoval(id string) {
	t.listenerMu.Lock()
	fns := make([]func(string), 0, len(t.onRemove))
	for _, fn := range t.onRemove {
		fns = append(fns, fn)
	}
	t.listenerMu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

var (
	_ ports.Document         = (*Tree)(nil)
	_ ports.RemovalNotifier  = (*Tree)(nil)
	_ ports.MutationStreamer = (*Tree)(nil)
)
