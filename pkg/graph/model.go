// Package graph derives an in-memory adjacency index from a persisted
// GraphSchema. The model is runtime-only and rebuilt on every load; it is
// never persisted.
package graph

import (
	"log/slog"

	"github.com/aretw0/weir/internal/logging"
	"github.com/aretw0/weir/pkg/domain"
)

// Model holds the node map plus outgoing and incoming adjacency for O(1)
// lookups during execution. A Model is exclusively owned by one runtime
// instance; callers must not mutate it concurrently with Load.
type Model struct {
	nodes    map[string]*domain.NodeInstance
	outgoing map[string][]domain.EdgeInstance
	incoming map[string][]domain.EdgeInstance
	order    []string
	dangling []domain.EdgeInstance
	logger   *slog.Logger
}

// Option configures the Model.
type Option func(*Model)

// WithLogger sets the logger used for integrity warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// NewModel creates an empty model.
func NewModel(opts ...Option) *Model {
	m := &Model{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	m.reset()
	return m
}

func (m *Model) reset() {
	m.nodes = make(map[string]*domain.NodeInstance)
	m.outgoing = make(map[string][]domain.EdgeInstance)
	m.incoming = make(map[string][]domain.EdgeInstance)
	m.order = nil
	m.dangling = nil
}

// Load rebuilds both adjacency maps from scratch, discarding any prior
// model. Edges referencing a missing node on either endpoint are dropped
// from the index with a logged integrity warning and never used for
// execution.
func (m *Model) Load(schema *domain.GraphSchema) {
	m.reset()
	if schema == nil {
		return
	}

	for i := range schema.Nodes {
		n := &schema.Nodes[i]
		m.nodes[n.ID] = n
		m.order = append(m.order, n.ID)
	}

	for _, e := range schema.Edges {
		_, srcOK := m.nodes[e.SourceNode]
		_, dstOK := m.nodes[e.TargetNode]
		if !srcOK || !dstOK {
			m.dangling = append(m.dangling, e)
			m.logger.Warn("dropping edge referencing missing node",
				"edge", e.ID,
				"source", e.SourceNode,
				"target", e.TargetNode,
			)
			continue
		}
		m.outgoing[e.SourceNode] = append(m.outgoing[e.SourceNode], e)
		m.incoming[e.TargetNode] = append(m.incoming[e.TargetNode], e)
	}
}

// Node returns the instance for the given id.
func (m *Model) Node(id string) (*domain.NodeInstance, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Len returns the number of indexed nodes.
func (m *Model) Len() int { return len(m.nodes) }

// RootNodes returns every node with empty reverse-adjacency, in schema
// order. These are the entry candidates fired on run.
func (m *Model) RootNodes() []*domain.NodeInstance {
	var roots []*domain.NodeInstance
	for _, id := range m.order {
		if len(m.incoming[id]) == 0 {
			roots = append(roots, m.nodes[id])
		}
	}
	return roots
}

// OutgoingEdges returns the edges leaving the given node; empty if none.
func (m *Model) OutgoingEdges(nodeID string) []domain.EdgeInstance {
	return m.outgoing[nodeID]
}

// IncomingEdges returns the edges entering the given node; empty if none.
func (m *Model) IncomingEdges(nodeID string) []domain.EdgeInstance {
	return m.incoming[nodeID]
}

// DanglingEdges returns the edges dropped during the last Load.
func (m *Model) DanglingEdges() []domain.EdgeInstance {
	return m.dangling
}
