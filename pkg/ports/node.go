package ports

import (
	"context"
	"log/slog"

	"github.com/aretw0/weir/pkg/domain"
)

// ProcessContext carries per-firing metadata into node logic.
type ProcessContext struct {
	// TraceID correlates every firing of one run invocation.
	TraceID string

	// Logger is scoped to the firing node and trace.
	Logger *slog.Logger

	// Attempt is the 1-based attempt counter. The runtime performs no
	// retries today, so it is always 1.
	Attempt int
}

// EmitFunc pushes spontaneous output from a node back into the graph. The
// runtime binds it at load time; downstream nodes cannot distinguish an
// emission from a normal firing's output.
type EmitFunc func(outputs map[string]domain.DataPacket)

// Node is the execution contract every processing unit must satisfy.
type Node interface {
	// Manifest returns the immutable type description.
	Manifest() domain.NodeManifest

	// Process consumes the current input buffer contents and returns either
	// an output mapping or an ErrorPacket, tagged in the Result.
	Process(ctx context.Context, inputs map[string]domain.DataPacket, pc ProcessContext) domain.Result
}

// Initializer is implemented by nodes that must set up external resources
// (subscriptions, timers) when the graph is loaded.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Disposer is implemented by nodes that hold resources to release on unload.
type Disposer interface {
	Dispose(ctx context.Context) error
}

// Emitter is implemented by nodes that produce output outside Process calls.
type Emitter interface {
	BindEmit(emit EmitFunc)
}

// Configurable is implemented by nodes whose behavior follows the instance's
// persisted settings bag. Configure is called at instantiation and again on
// every settings update, with the merged bag.
type Configurable interface {
	Configure(settings map[string]any) error
}

// Factory builds a live node instance for one NodeInstance of the schema.
type Factory func(instanceID string, settings map[string]any) (Node, error)
