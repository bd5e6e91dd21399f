// Package runtime contains the Weir graph execution engine: graph
// load/persist/restore, run/stop, node firing, output propagation and error
// routing.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/weir/internal/logging"
	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/graph"
	"github.com/aretw0/weir/pkg/ports"
	"github.com/aretw0/weir/pkg/registry"
	"github.com/google/uuid"
)

// Engine orchestrates one loaded graph. All wrapper and adjacency state is
// exclusively owned by the engine; firings run one at a time on the
// cooperative scheduler.
type Engine struct {
	registry *registry.Registry
	store    ports.SchemaStore
	logger   *slog.Logger
	hooks    domain.Hooks
	sched    *scheduler

	mu       sync.Mutex
	schema   *domain.GraphSchema
	model    *graph.Model
	wrappers map[string]*nodeWrapper
	running  bool
	traceID  string
}

// Option configures the Engine.
type Option func(*Engine)

// WithStore enables topology and run-state persistence. Without a store the
// engine is purely in-memory.
func WithStore(store ports.SchemaStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New creates an Engine. If the store already holds a topology, it is
// loaded without re-persisting; if the run-state file then says running,
// execution resumes transparently without an external Run call.
func New(reg *registry.Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		registry: reg,
		logger:   logging.NewNop(),
		wrappers: make(map[string]*nodeWrapper),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.model = graph.NewModel(graph.WithLogger(e.logger))
	e.sched = newScheduler()

	if e.store != nil {
		ctx := context.Background()
		schema, err := e.store.LoadSchema(ctx)
		switch {
		case err == nil:
			if err := e.load(ctx, schema, false); err != nil {
				e.sched.Close()
				return nil, fmt.Errorf("failed to restore topology: %w", err)
			}
			wasRunning, err := e.store.LoadRunState(ctx)
			if err != nil {
				e.logger.Warn("failed to read run state, staying stopped", "err", err)
			} else if wasRunning {
				e.logger.Info("resuming previously running graph", "graph", schema.ID)
				if err := e.Run(ctx); err != nil {
					e.logger.Warn("auto-resume failed", "err", err)
				}
			}
		case err == domain.ErrSchemaNotFound:
			// Fresh store; wait for an explicit Load.
		default:
			e.sched.Close()
			return nil, fmt.Errorf("failed to load topology: %w", err)
		}
	}

	return e, nil
}

// Load persists the schema (when a store is configured) and makes it the
// live graph, replacing any previously loaded one.
func (e *Engine) Load(ctx context.Context, schema *domain.GraphSchema) error {
	return e.load(ctx, schema, true)
}

func (e *Engine) load(ctx context.Context, schema *domain.GraphSchema, persist bool) error {
	if schema == nil {
		return fmt.Errorf("load: nil schema")
	}

	if persist && e.store != nil {
		if err := e.store.SaveSchema(ctx, schema); err != nil {
			return fmt.Errorf("failed to persist topology: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Replacing a graph disposes the previous instances first.
	e.disposeLocked(ctx)

	e.schema = schema
	e.model.Load(schema)
	e.wrappers = make(map[string]*nodeWrapper, len(schema.Nodes))

	for i := range schema.Nodes {
		inst := &schema.Nodes[i]
		node, err := e.registry.CreateInstance(inst.Type, inst.ID, inst.Settings)
		if err != nil {
			return fmt.Errorf("failed to instantiate node %q: %w", inst.ID, err)
		}

		if em, ok := node.(ports.Emitter); ok {
			nodeID := inst.ID
			em.BindEmit(func(outputs map[string]domain.DataPacket) {
				e.handleEmit(nodeID, outputs)
			})
		}

		e.wrappers[inst.ID] = newNodeWrapper(inst, node)
	}

	// Initialize in schema order. Failures are logged and do not abort the
	// remaining nodes.
	for _, id := range nodeOrder(schema) {
		w := e.wrappers[id]
		if init, ok := w.node.(ports.Initializer); ok {
			if err := init.Initialize(ctx); err != nil {
				e.logger.Error("node initialize failed", "node", id, "err", err)
			}
		}
	}

	e.logger.Info("graph loaded",
		"graph", schema.ID,
		"nodes", len(schema.Nodes),
		"edges", len(schema.Edges),
		"dropped_edges", len(e.model.DanglingEdges()),
	)
	return nil
}

// Run marks the runtime active, persists the running flag and fires every
// entry node with an empty input set under a fresh trace id.
func (e *Engine) Run(ctx context.Context) error {
	return e.RunWithTrace(ctx, uuid.NewString())
}

// RunWithTrace runs under a caller-supplied trace id, enabling reproducible
// replays with correlated logs.
func (e *Engine) RunWithTrace(ctx context.Context, traceID string) error {
	e.mu.Lock()
	if e.schema == nil {
		e.mu.Unlock()
		return domain.ErrNoGraphLoaded
	}
	e.running = true
	e.traceID = traceID
	schema := e.schema
	roots := e.model.RootNodes()
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.SaveRunState(ctx, true); err != nil {
			return fmt.Errorf("failed to persist run state: %w", err)
		}
	}

	entryIDs := make([]string, 0, len(roots))
	for _, r := range roots {
		entryIDs = append(entryIDs, r.ID)
	}

	if e.hooks.OnRunStarted != nil {
		e.hooks.OnRunStarted(ctx, &domain.RunEvent{
			EventBase:  eventBase(domain.EventRunStarted, traceID),
			GraphID:    schema.ID,
			EntryNodes: entryIDs,
		})
	}

	if len(schema.Nodes) > 0 && len(roots) == 0 {
		// Every node is some edge's target: likely a cyclic configuration.
		// The graph stays loaded but inert.
		e.logger.Warn("no entry nodes found, graph will not fire", "graph", schema.ID)
		return nil
	}

	e.logger.Info("run started", "graph", schema.ID, "trace", traceID, "entry_nodes", len(roots))
	for _, root := range roots {
		id := root.ID
		e.sched.Schedule(func() {
			e.fire(id, map[string]domain.DataPacket{}, traceID)
		})
	}
	return nil
}

// Stop flips the active flag, persists it and disposes every node
// best-effort. Firings already scheduled are not cancelled; cancellation is
// cooperative only.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	schema := e.schema
	e.running = false
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.SaveRunState(ctx, false); err != nil {
			return fmt.Errorf("failed to persist run state: %w", err)
		}
	}

	e.mu.Lock()
	e.disposeLocked(ctx)
	e.mu.Unlock()

	graphID := ""
	if schema != nil {
		graphID = schema.ID
	}
	if e.hooks.OnStopped != nil {
		e.hooks.OnStopped(ctx, &domain.StopEvent{
			EventBase: eventBase(domain.EventStopped, ""),
			GraphID:   graphID,
		})
	}
	e.logger.Info("run stopped", "graph", graphID)
	return nil
}

// Running reports the active flag.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Inspect returns a deep copy of the loaded schema for tooling.
func (e *Engine) Inspect() (*domain.GraphSchema, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.schema == nil {
		return nil, domain.ErrNoGraphLoaded
	}
	return e.schema.Clone(), nil
}

// NodeSettings returns a copy of one instance's settings bag.
func (e *Engine) NodeSettings(nodeID string) (map[string]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.schema == nil {
		return nil, domain.ErrNoGraphLoaded
	}
	inst := e.schema.Node(nodeID)
	if inst == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, nodeID)
	}
	out := make(map[string]any, len(inst.Settings))
	for k, v := range inst.Settings {
		out[k] = v
	}
	return out, nil
}

// UpdateNodeSettings merges a partial settings map into the persisted
// instance and the live node's config, then re-persists the whole schema.
// Updates for one engine are serialized by the engine mutex; the merged
// settings themselves are not validated here, that is each node's job.
func (e *Engine) UpdateNodeSettings(ctx context.Context, nodeID string, partial map[string]any) error {
	e.mu.Lock()
	if e.schema == nil {
		e.mu.Unlock()
		return domain.ErrNoGraphLoaded
	}
	inst := e.schema.Node(nodeID)
	if inst == nil {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, nodeID)
	}
	inst.MergeSettings(partial)

	var node ports.Node
	if w, ok := e.wrappers[nodeID]; ok {
		node = w.node
	}
	schema := e.schema
	merged := make(map[string]any, len(inst.Settings))
	for k, v := range inst.Settings {
		merged[k] = v
	}
	e.mu.Unlock()

	if cfg, ok := node.(ports.Configurable); ok {
		if err := cfg.Configure(merged); err != nil {
			e.logger.Warn("live node rejected updated settings", "node", nodeID, "err", err)
		}
	}

	if e.store != nil {
		if err := e.store.SaveSchema(ctx, schema); err != nil {
			return fmt.Errorf("failed to persist updated topology: %w", err)
		}
	}
	return nil
}

// Wait blocks until every scheduled firing has drained. Intended for tests
// and for orderly shutdown of batch-style graphs.
func (e *Engine) Wait() {
	e.sched.Wait()
}

// Close stops the scheduler. The engine cannot be reused afterwards.
func (e *Engine) Close() {
	e.sched.Close()
}

// fire invokes one node's Process with the captured inputs and routes the
// tagged result. Panics are caught at this boundary and synthesized into a
// non-recoverable ErrorPacket so one faulty node never halts the graph.
func (e *Engine) fire(nodeID string, inputs map[string]domain.DataPacket, traceID string) {
	e.mu.Lock()
	w, ok := e.wrappers[nodeID]
	e.mu.Unlock()
	if !ok {
		e.logger.Warn("firing skipped, node no longer loaded", "node", nodeID)
		return
	}

	manifest := w.node.Manifest()
	pc := ports.ProcessContext{
		TraceID: traceID,
		Logger:  e.logger.With("node", nodeID, "trace", traceID),
		Attempt: 1,
	}

	ctx := context.Background()
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			packet := domain.NewErrorPacket(
				domain.CodeUnhandledException,
				fmt.Sprintf("node %s panicked: %v", nodeID, r),
				nodeID,
				traceID,
			)
			packet.Details = map[string]any{"panic": fmt.Sprintf("%v", r)}
			e.routeError(ctx, packet)
		}
	}()

	result := w.node.Process(ctx, inputs, pc)

	if result.Failed() {
		packet := *result.Err()
		if packet.NodeID == "" {
			packet.NodeID = nodeID
		}
		if packet.TraceID == "" {
			packet.TraceID = traceID
		}
		e.routeError(ctx, packet)
		return
	}

	outputs := result.Outputs()
	if e.hooks.OnNodeFired != nil {
		names := make([]string, 0, len(outputs))
		for name := range outputs {
			names = append(names, name)
		}
		e.hooks.OnNodeFired(ctx, &domain.NodeFiredEvent{
			EventBase: eventBase(domain.EventNodeFired, traceID),
			NodeID:    nodeID,
			NodeType:  manifest.Type,
			Duration:  time.Since(started),
			Outputs:   names,
		})
	}

	e.propagate(nodeID, outputs, traceID)
}

// propagate pushes each produced packet along the node's outgoing edges.
// Ports the node stayed silent on this round are skipped. A target that
// becomes ready has its buffer captured-and-cleared atomically and its
// firing deferred to the next scheduler tick.
func (e *Engine) propagate(nodeID string, outputs map[string]domain.DataPacket, traceID string) {
	if len(outputs) == 0 {
		return
	}

	e.mu.Lock()
	edges := e.model.OutgoingEdges(nodeID)
	targets := make(map[string]*nodeWrapper, len(edges))
	for _, edge := range edges {
		if w, ok := e.wrappers[edge.TargetNode]; ok {
			targets[edge.TargetNode] = w
		}
	}
	e.mu.Unlock()

	for _, edge := range edges {
		packet, ok := outputs[edge.SourcePort]
		if !ok {
			continue
		}
		target, ok := targets[edge.TargetNode]
		if !ok {
			continue
		}

		if target.AcceptInput(edge.TargetPort, packet.WithTrace(traceID)) {
			inputs := target.TakeInputs()
			targetID := edge.TargetNode
			e.sched.Schedule(func() {
				e.fire(targetID, inputs, traceID)
			})
		}
	}
}

// handleEmit routes a node's spontaneous output through the same propagation
// path as a completed Process call, so timer- or trigger-driven nodes are
// indistinguishable downstream.
func (e *Engine) handleEmit(nodeID string, outputs map[string]domain.DataPacket) {
	e.mu.Lock()
	running := e.running
	traceID := e.traceID
	e.mu.Unlock()

	if !running {
		e.logger.Debug("dropping emission while stopped", "node", nodeID)
		return
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}

	e.sched.Schedule(func() {
		e.propagate(nodeID, outputs, traceID)
	})
}

func (e *Engine) routeError(ctx context.Context, packet domain.ErrorPacket) {
	// Value-level and synthesized failures land here. The run continues;
	// the failing node will simply be attempted again on its next trigger.
	e.logger.Error("node produced error packet",
		"node", packet.NodeID,
		"code", packet.Code,
		"trace", packet.TraceID,
		"recoverable", packet.Recoverable,
		"msg", packet.Message,
	)
	if e.hooks.OnNodeError != nil {
		e.hooks.OnNodeError(ctx, &domain.NodeErrorEvent{
			EventBase: eventBase(domain.EventNodeError, packet.TraceID),
			NodeID:    packet.NodeID,
			Packet:    packet,
		})
	}
}

// disposeLocked calls Dispose on every wrapper best-effort and drops them.
// Callers hold e.mu.
func (e *Engine) disposeLocked(ctx context.Context) {
	for id, w := range e.wrappers {
		if d, ok := w.node.(ports.Disposer); ok {
			if err := d.Dispose(ctx); err != nil {
				e.logger.Error("node dispose failed", "node", id, "err", err)
			}
		}
	}
	e.wrappers = make(map[string]*nodeWrapper)
}

func nodeOrder(schema *domain.GraphSchema) []string {
	ids := make([]string, len(schema.Nodes))
	for i := range schema.Nodes {
		ids[i] = schema.Nodes[i].ID
	}
	return ids
}

func eventBase(t domain.EventType, traceID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now().UTC(),
		Type:      t,
		TraceID:   traceID,
	}
}
