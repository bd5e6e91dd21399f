package domain

import (
	"time"

	"github.com/google/uuid"
)

// CodeUnhandledException is the error code assigned to failures that escaped
// node logic as a panic rather than being returned as an ErrorPacket.
const CodeUnhandledException = "unhandled_exception"

// DataPacket is an immutable value produced by a node firing and attached to
// exactly one output port. It is consumed once per delivering edge.
type DataPacket struct {
	ID        string    `json:"id"`
	Payload   any       `json:"payload"`
	TraceID   string    `json:"trace_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPacket wraps a payload in a DataPacket with a fresh id.
func NewPacket(payload any) DataPacket {
	return DataPacket{
		ID:        uuid.NewString(),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// WithTrace returns a copy of the packet stamped with the given trace id.
func (p DataPacket) WithTrace(traceID string) DataPacket {
	p.TraceID = traceID
	return p
}

// ErrorPacket is a failure value returned in place of normal output. It is a
// first-class result, not a thrown fault, so the runtime can route it without
// relying on panic propagation.
type ErrorPacket struct {
	Code        string         `json:"code"`
	Message     string         `json:"message"`
	NodeID      string         `json:"node_id"`
	TraceID     string         `json:"trace_id"`
	Timestamp   time.Time      `json:"timestamp"`
	Recoverable bool           `json:"recoverable"`
	Details     map[string]any `json:"details,omitempty"`
}

// NewErrorPacket builds a failure value for the given node.
func NewErrorPacket(code, message, nodeID, traceID string) ErrorPacket {
	return ErrorPacket{
		Code:      code,
		Message:   message,
		NodeID:    nodeID,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	}
}

// Result is the tagged outcome of a node firing: either a mapping of output
// port names to DataPackets, or an ErrorPacket. The tag is enforced by the
// constructors; a zero Result is a success with no outputs.
type Result struct {
	outputs map[string]DataPacket
	err     *ErrorPacket
}

// OK returns a successful Result carrying the given outputs. A nil map is
// valid and means the firing produced nothing this round.
func OK(outputs map[string]DataPacket) Result {
	return Result{outputs: outputs}
}

// Fail returns a failed Result carrying the given ErrorPacket.
func Fail(packet ErrorPacket) Result {
	return Result{err: &packet}
}

// Failed reports whether the result carries an ErrorPacket.
func (r Result) Failed() bool { return r.err != nil }

// Err returns the ErrorPacket, or nil for a successful result.
func (r Result) Err() *ErrorPacket { return r.err }

// Outputs returns the output mapping. It is nil for failed results.
func (r Result) Outputs() map[string]DataPacket {
	if r.err != nil {
		return nil
	}
	return r.outputs
}
