package graph

import (
	"testing"

	"github.com/aretw0/weir/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *domain.GraphSchema {
	return &domain.GraphSchema{
		ID: "g1",
		Nodes: []domain.NodeInstance{
			{ID: "a", Type: "inject"},
			{ID: "b", Type: "debug"},
			{ID: "c", Type: "debug"},
		},
		Edges: []domain.EdgeInstance{
			{ID: "e1", SourceNode: "a", SourcePort: "out", TargetNode: "b", TargetPort: "data"},
			{ID: "e2", SourceNode: "a", SourcePort: "out", TargetNode: "c", TargetPort: "data"},
		},
	}
}

func TestModelLoadBuildsAdjacency(t *testing.T) {
	m := NewModel()
	m.Load(testSchema())

	assert.Equal(t, 3, m.Len())

	out := m.OutgoingEdges("a")
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].TargetNode)
	assert.Equal(t, "c", out[1].TargetNode)

	in := m.IncomingEdges("b")
	require.Len(t, in, 1)
	assert.Equal(t, "a", in[0].SourceNode)

	assert.Empty(t, m.OutgoingEdges("c"))
	assert.Empty(t, m.IncomingEdges("a"))
}

func TestModelRootNodesInSchemaOrder(t *testing.T) {
	schema := testSchema()
	// Add a second entry node after the others.
	schema.Nodes = append(schema.Nodes, domain.NodeInstance{ID: "d", Type: "inject"})

	m := NewModel()
	m.Load(schema)

	roots := m.RootNodes()
	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].ID)
	assert.Equal(t, "d", roots[1].ID)
}

func TestModelDropsDanglingEdges(t *testing.T) {
	schema := testSchema()
	schema.Edges = append(schema.Edges,
		domain.EdgeInstance{ID: "e3", SourceNode: "ghost", TargetNode: "b", TargetPort: "data"},
		domain.EdgeInstance{ID: "e4", SourceNode: "a", SourcePort: "out", TargetNode: "ghost"},
	)

	m := NewModel()
	m.Load(schema)

	dangling := m.DanglingEdges()
	require.Len(t, dangling, 2)
	assert.Equal(t, "e3", dangling[0].ID)
	assert.Equal(t, "e4", dangling[1].ID)

	// Dropped edges never show up in the execution index.
	assert.Len(t, m.OutgoingEdges("a"), 2)
	assert.Len(t, m.IncomingEdges("b"), 1)
}

func TestModelReloadDiscardsPriorState(t *testing.T) {
	m := NewModel()
	m.Load(testSchema())

	m.Load(&domain.GraphSchema{
		ID:    "g2",
		Nodes: []domain.NodeInstance{{ID: "x", Type: "debug"}},
	})

	assert.Equal(t, 1, m.Len())
	_, ok := m.Node("a")
	assert.False(t, ok)
	assert.Empty(t, m.DanglingEdges())
}

func TestModelLoadNilSchema(t *testing.T) {
	m := NewModel()
	m.Load(nil)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.RootNodes())
}
