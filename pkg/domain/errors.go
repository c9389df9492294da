package domain

import "errors"

// ErrEntryNotFound is returned when a trigger names an entry that was never
// registered (or whose node has since been removed).
var ErrEntryNotFound = errors.New("entry not found")

// ErrPageNotFound is returned by page loaders when the page id is unknown.
var ErrPageNotFound = errors.New("page not found")

// ErrScopeNotFound is returned by scope stores when no persisted scope
// exists for the entry.
var ErrScopeNotFound = errors.New("scope not found")

// ErrBadIndex is returned for malformed index expressions. Unlike an
// unresolved selector (which yields an empty list), this is a genuine
// programming error and aborts the pipeline.
var ErrBadIndex = errors.New("malformed index expression")
