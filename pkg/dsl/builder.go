package dsl

import (
	"fmt"

	"github.com/aretw0/weir/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	id    string
	nodes map[string]*NodeBuilder
	order []string
	edges []domain.EdgeInstance
}

// New creates a new graph builder. The id becomes both the schema ID and
// its name unless Name is called.
func New(id string) *Builder {
	return &Builder{
		id:    id,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node instance of the given type.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id, nodeType string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.NodeInstance{
			ID:   id,
			Type: nodeType,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Connect adds an edge between two ports. Edge IDs are assigned
// sequentially in connection order.
func (b *Builder) Connect(sourceNode, sourcePort, targetNode, targetPort string) *Builder {
	b.edges = append(b.edges, domain.EdgeInstance{
		ID:         fmt.Sprintf("e%d", len(b.edges)+1),
		SourceNode: sourceNode,
		SourcePort: sourcePort,
		TargetNode: targetNode,
		TargetPort: targetPort,
	})
	return b
}

// Build compiles the graph into a schema. It fails when an edge references
// a node that was never added, so typos surface at construction instead of
// as silently dropped dangling edges at load time.
func (b *Builder) Build() (*domain.GraphSchema, error) {
	nodes := make([]domain.NodeInstance, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].node)
	}

	for _, e := range b.edges {
		if _, ok := b.nodes[e.SourceNode]; !ok {
			return nil, fmt.Errorf("edge %s: unknown source node %q", e.ID, e.SourceNode)
		}
		if _, ok := b.nodes[e.TargetNode]; !ok {
			return nil, fmt.Errorf("edge %s: unknown target node %q", e.ID, e.TargetNode)
		}
	}

	return &domain.GraphSchema{
		ID:    b.id,
		Name:  b.id,
		Nodes: nodes,
		Edges: append([]domain.EdgeInstance(nil), b.edges...),
	}, nil
}
