package domain

import "sync"

// Entry is the registered state owned by one macro-bearing node: its macro
// text, its entry scope, and any shells currently open under it.
type Entry struct {
	// NodeID identifies the owning document node.
	NodeID string

	// Macro is the full pipe-delimited pipeline attached to the node.
	Macro string

	// Scope holds the entry's variables for the lifetime of the registration.
	Scope *Scope

	mu     sync.Mutex
	shells map[string]*Shell
}

// NewEntry creates an entry with an empty scope.
func NewEntry(nodeID, macro string) *Entry {
	return &Entry{
		NodeID: nodeID,
		Macro:  macro,
		Scope:  NewScope(),
		shells: make(map[string]*Shell),
	}
}

// Shell is a named, temporarily isolated sub-execution context opened
// mid-pipeline. Its scope is invisible to the parent until it closes.
type Shell struct {
	// Name identifies the shell under its entry.
	Name string

	// TargetID is the node the shell is rooted at. Defaults to the entry's
	// own node when the open segment names nothing else.
	TargetID string

	// Scope starts empty and merges into the entry scope on close.
	Scope *Scope

	// Segments is the captured remainder of the pipeline, owned by the shell.
	Segments []string
}

// OpenShell creates (or reuses) the named shell. Opening a duplicate name is
// a no-op that returns the existing shell object; its scope is preserved and
// only the captured program is refreshed.
func (e *Entry) OpenShell(name, targetID string, segments []string) *Shell {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sh, ok := e.shells[name]; ok {
		sh.Segments = segments
		return sh
	}
	sh := &Shell{
		Name:     name,
		TargetID: targetID,
		Scope:    NewScope(),
		Segments: segments,
	}
	e.shells[name] = sh
	return sh
}

// LookupShell returns the named shell if it is open.
func (e *Entry) LookupShell(name string) (*Shell, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sh, ok := e.shells[name]
	return sh, ok
}

// CloseShell merges the named shell's scope into the entry scope and discards
// the shell. Same-named parent values are overwritten by the shell's values,
// never the reverse. Closing an unknown shell is a no-op.
func (e *Entry) CloseShell(name string) bool {
	e.mu.Lock()
	sh, ok := e.shells[name]
	if ok {
		delete(e.shells, name)
	}
	e.mu.Unlock()
	if !ok {
		return false
	}
	e.Scope.Merge(sh.Scope)
	return true
}

// OpenShells reports the names of shells currently open, for introspection.
func (e *Entry) OpenShells() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.shells))
	for name := range e.shells {
		names = append(names, name)
	}
	return names
}
