package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPipelineStart EventType = "pipeline_start"
	EventPipelineEnd   EventType = "pipeline_end"
	EventSegment       EventType = "segment"
	EventVerbCall      EventType = "verb_call"
	EventVerbReturn    EventType = "verb_return"
	EventShellOpen     EventType = "shell_open"
	EventShellClose    EventType = "shell_close"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	EntryID   string    `json:"entry_id"`
}

// PipelineEvent marks the start or end of one pipeline run.
type PipelineEvent struct {
	EventBase
	Macro string `json:"macro"`
	Err   error  `json:"-"`
}

// SegmentEvent is emitted once per classified segment, in source order.
type SegmentEvent struct {
	EventBase
	Raw  string `json:"raw"`
	Kind string `json:"kind"`
}

// VerbEvent represents a verb invocation or its return.
type VerbEvent struct {
	EventBase
	Verb     string        `json:"verb"`
	Args     []Value       `json:"-"`
	Result   Value         `json:"-"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// ShellEvent represents a shell opening or closing.
type ShellEvent struct {
	EventBase
	Shell    string `json:"shell"`
	TargetID string `json:"target_id"`
}

// LifecycleHooks defines callbacks for interpreter observability. Any field
// may be nil; hooks run synchronously inside the pipeline.
type LifecycleHooks struct {
	OnPipelineStart func(context.Context, *PipelineEvent)
	OnPipelineEnd   func(context.Context, *PipelineEvent)
	OnSegment       func(context.Context, *SegmentEvent)
	OnVerbCall      func(context.Context, *VerbEvent)
	OnVerbReturn    func(context.Context, *VerbEvent)
	OnShellOpen     func(context.Context, *ShellEvent)
	OnShellClose    func(context.Context, *ShellEvent)
}
