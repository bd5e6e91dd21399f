package dsl

import (
	"testing"

	"github.com/aretw0/weir/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuildsSchema(t *testing.T) {
	b := New("pipeline")
	b.Add("tick", "inject").
		Set("payload", "hello").
		Set("interval_ms", 1000).
		To("out", "log", "data")
	b.Add("log", "debug").At(120, 40)

	schema, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "pipeline", schema.ID)
	assert.Equal(t, "pipeline", schema.Name)
	require.Len(t, schema.Nodes, 2)
	require.Len(t, schema.Edges, 1)

	tick := schema.Node("tick")
	require.NotNil(t, tick)
	assert.Equal(t, "inject", tick.Type)
	assert.Equal(t, "hello", tick.Settings["payload"])

	log := schema.Node("log")
	require.NotNil(t, log)
	assert.Equal(t, 120.0, log.Position.X)

	edge := schema.Edges[0]
	assert.Equal(t, "e1", edge.ID)
	assert.Equal(t, "tick", edge.SourceNode)
	assert.Equal(t, "out", edge.SourcePort)
	assert.Equal(t, "log", edge.TargetNode)
	assert.Equal(t, "data", edge.TargetPort)
}

func TestBuilderPreservesInsertionOrder(t *testing.T) {
	b := New("ordered")
	b.Add("c", "debug")
	b.Add("a", "debug")
	b.Add("b", "debug")

	schema, err := b.Build()
	require.NoError(t, err)
	require.Len(t, schema.Nodes, 3)
	assert.Equal(t, "c", schema.Nodes[0].ID)
	assert.Equal(t, "a", schema.Nodes[1].ID)
	assert.Equal(t, "b", schema.Nodes[2].ID)
}

func TestBuilderAddIsIdempotentPerID(t *testing.T) {
	b := New("dedup")
	first := b.Add("n", "inject")
	second := b.Add("n", "other-type")

	assert.Same(t, first, second, "re-adding an id returns the existing builder")

	schema, err := b.Build()
	require.NoError(t, err)
	require.Len(t, schema.Nodes, 1)
	assert.Equal(t, "inject", schema.Nodes[0].Type)
}

func TestBuilderRejectsEdgesToUnknownNodes(t *testing.T) {
	b := New("broken")
	b.Add("a", "inject").To("out", "ghost", "data")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestBuilderOverrides(t *testing.T) {
	b := New("tuned")
	b.Add("n", "inject").Timeout(2500).Retry(3)

	schema, err := b.Build()
	require.NoError(t, err)

	n := schema.Node("n")
	require.NotNil(t, n.Overrides)
	assert.Equal(t, int64(2500), n.Overrides.TimeoutMs)
	assert.Equal(t, 3, n.Overrides.Retry)
}

func TestBuilderSettingsReplacesBag(t *testing.T) {
	b := New("replace")
	b.Add("n", "inject").
		Set("old", true).
		Settings(map[string]any{"fresh": 1})

	schema, err := b.Build()
	require.NoError(t, err)

	n := schema.Node("n")
	assert.Equal(t, map[string]any{"fresh": 1}, n.Settings)
}

func TestBuilderEdgeIDsAreSequential(t *testing.T) {
	b := New("multi")
	b.Add("a", "inject")
	b.Add("b", "debug")
	b.Connect("a", "out", "b", "data").Connect("a", "out", "b", "extra")

	schema, err := b.Build()
	require.NoError(t, err)
	require.Len(t, schema.Edges, 2)
	assert.Equal(t, "e1", schema.Edges[0].ID)
	assert.Equal(t, "e2", schema.Edges[1].ID)
}

func TestNodeBuilderBuildExposesInstance(t *testing.T) {
	b := New("raw")
	inst := b.Add("n", "inject").Set("k", "v").Build()
	assert.Equal(t, domain.NodeInstance{
		ID:       "n",
		Type:     "inject",
		Settings: map[string]any{"k": "v"},
	}, inst)
}
