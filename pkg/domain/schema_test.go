package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() *GraphSchema {
	return &GraphSchema{
		ID:   "g1",
		Name: "sample",
		Meta: GraphMeta{Tags: []string{"ci"}},
		Nodes: []NodeInstance{
			{
				ID:        "a",
				Type:      "inject",
				Settings:  map[string]any{"payload": "x"},
				Overrides: &ExecutionOverrides{TimeoutMs: 100},
			},
		},
		Edges: []EdgeInstance{
			{ID: "e1", SourceNode: "a", SourcePort: "out", TargetNode: "a", TargetPort: "in",
				Modifiers: &EdgeModifiers{BufferSize: 2}},
		},
	}
}

func TestSchemaNodeLookup(t *testing.T) {
	s := sampleSchema()
	require.NotNil(t, s.Node("a"))
	assert.Nil(t, s.Node("missing"))
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleSchema()
	c := s.Clone()

	c.Nodes[0].Settings["payload"] = "mutated"
	c.Nodes[0].Overrides.TimeoutMs = 999
	c.Edges[0].Modifiers.BufferSize = 99
	c.Meta.Tags[0] = "mutated"

	assert.Equal(t, "x", s.Nodes[0].Settings["payload"])
	assert.Equal(t, int64(100), s.Nodes[0].Overrides.TimeoutMs)
	assert.Equal(t, 2, s.Edges[0].Modifiers.BufferSize)
	assert.Equal(t, "ci", s.Meta.Tags[0])
}

func TestCloneNil(t *testing.T) {
	var s *GraphSchema
	assert.Nil(t, s.Clone())
}

func TestMergeSettings(t *testing.T) {
	n := &NodeInstance{ID: "a"}
	n.MergeSettings(map[string]any{"k1": 1})
	n.MergeSettings(map[string]any{"k2": 2, "k1": 10})

	assert.Equal(t, map[string]any{"k1": 10, "k2": 2}, n.Settings)
}
