package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/weir/pkg/adapters/memory"
	"github.com/aretw0/weir/pkg/bus"
	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/ports"
	"github.com/aretw0/weir/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigured(t *testing.T, tb *bus.TriggerBus, settings map[string]any) *Node {
	t.Helper()
	r := registry.NewRegistry()
	require.NoError(t, Register(r, tb))

	node, err := r.CreateInstance("trigger", "n1", settings)
	require.NoError(t, err)
	return node.(*Node)
}

func TestEmitsOnMatchingKey(t *testing.T) {
	tb := bus.New(memory.NewBroadcaster())
	n := newConfigured(t, tb, map[string]any{"key": "deploy"})

	got := make(chan map[string]domain.DataPacket, 4)
	n.BindEmit(func(outputs map[string]domain.DataPacket) {
		got <- outputs
	})

	ctx := context.Background()
	require.NoError(t, n.Initialize(ctx))
	defer func() { require.NoError(t, n.Dispose(ctx)) }()

	require.NoError(t, tb.Fire(ctx, "deploy", map[string]any{"env": "prod"}))

	select {
	case outputs := <-got:
		require.Contains(t, outputs, "out")
		payload, ok := outputs["out"].Payload.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "prod", payload["env"])
	case <-time.After(2 * time.Second):
		t.Fatal("matching trigger never emitted")
	}
}

func TestIgnoresOtherKeys(t *testing.T) {
	tb := bus.New(memory.NewBroadcaster())
	n := newConfigured(t, tb, map[string]any{"key": "deploy"})

	got := make(chan struct{}, 4)
	n.BindEmit(func(map[string]domain.DataPacket) {
		got <- struct{}{}
	})

	ctx := context.Background()
	require.NoError(t, n.Initialize(ctx))
	defer func() { require.NoError(t, n.Dispose(ctx)) }()

	require.NoError(t, tb.Fire(ctx, "unrelated", nil))

	select {
	case <-got:
		t.Fatal("node emitted for a key it does not listen to")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEmptyKeyMatchesEverything(t *testing.T) {
	tb := bus.New(memory.NewBroadcaster())
	n := newConfigured(t, tb, nil)

	got := make(chan struct{}, 4)
	n.BindEmit(func(map[string]domain.DataPacket) {
		got <- struct{}{}
	})

	ctx := context.Background()
	require.NoError(t, n.Initialize(ctx))
	defer func() { require.NoError(t, n.Dispose(ctx)) }()

	require.NoError(t, tb.Fire(ctx, "anything", nil))

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("wildcard trigger never emitted")
	}
}

func TestDisposeUnsubscribes(t *testing.T) {
	tb := bus.New(memory.NewBroadcaster())
	n := newConfigured(t, tb, map[string]any{"key": "k"})

	got := make(chan struct{}, 4)
	n.BindEmit(func(map[string]domain.DataPacket) {
		got <- struct{}{}
	})

	ctx := context.Background()
	require.NoError(t, n.Initialize(ctx))
	require.NoError(t, n.Dispose(ctx))
	require.NoError(t, n.Dispose(ctx), "dispose is idempotent")

	require.NoError(t, tb.Fire(ctx, "k", nil))
	select {
	case <-got:
		t.Fatal("emitted after dispose")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProcessIsANoOp(t *testing.T) {
	n := &Node{id: "n1"}
	result := n.Process(context.Background(), nil, ports.ProcessContext{})
	assert.False(t, result.Failed())
	assert.Empty(t, result.Outputs())
}

func TestInitializeWithoutBusStaysSilent(t *testing.T) {
	n := &Node{id: "n1"}
	require.NoError(t, n.Initialize(context.Background()))
	require.NoError(t, n.Dispose(context.Background()))
}
