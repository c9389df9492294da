package domain

import "sync"

// Scope is a mutable named-value store. Entries own one scope for their whole
// registration; shells own a second, short-lived kind that merges back into
// the parent on close.
//
// Access is guarded so that independently triggered pipelines touching the
// same entry do not corrupt the map, but there is deliberately no isolation
// beyond that: concurrent writers race and the last write wins.
type Scope struct {
	mu     sync.RWMutex
	values map[string]Value
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{values: make(map[string]Value)}
}

// Get returns the value for name, or Absent when undefined.
func (s *Scope) Get(name string) Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[name]
}

// Lookup returns the value and whether it was ever assigned.
func (s *Scope) Lookup(name string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Set coerces a literal and stores it. This is the only place literals are
// coerced; use SetValue for already-typed values.
func (s *Scope) Set(name, literal string) Value {
	v := Parse(literal)
	s.SetValue(name, v)
	return v
}

// SetValue stores an already-coerced value.
func (s *Scope) SetValue(name string, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = v
}

// Merge overlays other's keys onto this scope, last-write-wins.
func (s *Scope) Merge(other *Scope) {
	if other == nil {
		return
	}
	snapshot := other.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range snapshot {
		s.values[k] = v
	}
}

// Snapshot returns a copy of the current bindings.
func (s *Scope) Snapshot() map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Replace swaps the bindings wholesale. Used when restoring a persisted scope.
func (s *Scope) Replace(values map[string]Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]Value, len(values))
	for k, v := range values {
		s.values[k] = v
	}
}

// Len reports the number of bindings.
func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
