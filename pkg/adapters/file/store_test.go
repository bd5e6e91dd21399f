package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "flow.json"))
	ports.RunSchemaStoreContract(t, store)
}

func TestDefaultTopologyPath(t *testing.T) {
	store := New("")
	assert.Equal(t, filepath.Join(".weir", "flow.json"), store.TopologyPath)
}

func TestStatePathDerivation(t *testing.T) {
	tests := []struct {
		topology string
		state    string
	}{
		{"data/flow.json", "data/flow.state.json"},
		{"flow.json", "flow.state.json"},
		{"pipeline", "pipeline.state"},
	}
	for _, tt := range tests {
		store := New(tt.topology)
		assert.Equal(t, tt.state, store.StatePath())
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "flow.json")
	store := New(path)

	err := store.SaveSchema(context.Background(), &domain.GraphSchema{ID: "g"})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "flow.json"))

	ctx := context.Background()
	require.NoError(t, store.SaveSchema(ctx, &domain.GraphSchema{ID: "g"}))
	require.NoError(t, store.SaveRunState(ctx, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "tmp-", "temp files must be renamed or removed")
	}
}

func TestLoadCorruptTopology(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := New(path)
	_, err := store.LoadSchema(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSchemaNotFound, "corruption is not the same as absence")
}

func TestRoundTripPreservesStructure(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "flow.json"))
	ctx := context.Background()

	schema := &domain.GraphSchema{
		ID:      "round",
		Name:    "Round Trip",
		Version: "2.1.0",
		Config:  domain.GraphConfig{MaxConcurrency: 4, StateStorage: "file"},
		Nodes: []domain.NodeInstance{
			{
				ID:       "a",
				Type:     "inject",
				Settings: map[string]any{"payload": "x", "interval_ms": float64(250)},
				Position: domain.Position{X: 10, Y: 20},
			},
		},
		Edges: []domain.EdgeInstance{
			{
				ID: "e1", SourceNode: "a", SourcePort: "out", TargetNode: "a", TargetPort: "in",
				Modifiers: &domain.EdgeModifiers{BufferSize: 8},
			},
		},
	}

	require.NoError(t, store.SaveSchema(ctx, schema))
	loaded, err := store.LoadSchema(ctx)
	require.NoError(t, err)

	assert.Equal(t, schema, loaded)
}
