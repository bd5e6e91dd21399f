package domain

import (
	"context"
	"time"
)

// EventType defines the category of a runtime event.
type EventType string

const (
	EventRunStarted EventType = "run:started"
	EventNodeFired  EventType = "node:fired"
	EventNodeError  EventType = "node:error"
	EventStopped    EventType = "run:stopped"
)

// EventBase contains common fields for all runtime events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	TraceID   string    `json:"trace_id,omitempty"`
}

// RunEvent is emitted when a run starts.
type RunEvent struct {
	EventBase
	GraphID    string   `json:"graph_id"`
	EntryNodes []string `json:"entry_nodes"`
}

// NodeFiredEvent is emitted after a node's firing completes successfully.
type NodeFiredEvent struct {
	EventBase
	NodeID   string        `json:"node_id"`
	NodeType string        `json:"node_type"`
	Duration time.Duration `json:"duration"`
	Outputs  []string      `json:"outputs,omitempty"`
}

// NodeErrorEvent is emitted when a firing yields or synthesizes an ErrorPacket.
type NodeErrorEvent struct {
	EventBase
	NodeID string      `json:"node_id"`
	Packet ErrorPacket `json:"packet"`
}

// StopEvent is emitted after Stop has disposed the loaded nodes.
type StopEvent struct {
	EventBase
	GraphID string `json:"graph_id"`
}

// Hooks defines callbacks for runtime observability. All fields are optional.
// Callbacks run inline on the scheduler goroutine and must not block.
type Hooks struct {
	OnRunStarted func(context.Context, *RunEvent)
	OnNodeFired  func(context.Context, *NodeFiredEvent)
	OnNodeError  func(context.Context, *NodeErrorEvent)
	OnStopped    func(context.Context, *StopEvent)
}

// MergeHooks combines several hook sets into one; each callback fans out to
// every non-nil member in order.
func MergeHooks(sets ...Hooks) Hooks {
	var merged Hooks
	merged.OnRunStarted = func(ctx context.Context, ev *RunEvent) {
		for _, h := range sets {
			if h.OnRunStarted != nil {
				h.OnRunStarted(ctx, ev)
			}
		}
	}
	merged.OnNodeFired = func(ctx context.Context, ev *NodeFiredEvent) {
		for _, h := range sets {
			if h.OnNodeFired != nil {
				h.OnNodeFired(ctx, ev)
			}
		}
	}
	merged.OnNodeError = func(ctx context.Context, ev *NodeErrorEvent) {
		for _, h := range sets {
			if h.OnNodeError != nil {
				h.OnNodeError(ctx, ev)
			}
		}
	}
	merged.OnStopped = func(ctx context.Context, ev *StopEvent) {
		for _, h := range sets {
			if h.OnStopped != nil {
				h.OnStopped(ctx, ev)
			}
		}
	}
	return merged
}
