package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/weir/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSchemaStoreContract runs a suite of tests to verify that a SchemaStore
// implementation adheres to the defined interface contract.
func RunSchemaStoreContract(t *testing.T, store SchemaStore) {
	ctx := context.Background()

	t.Run("Load Before Save", func(t *testing.T) {
		_, err := store.LoadSchema(ctx)
		assert.ErrorIs(t, err, domain.ErrSchemaNotFound)
	})

	t.Run("Save and Load Round Trip", func(t *testing.T) {
		schema := &domain.GraphSchema{
			ID:      "contract-graph",
			Name:    "Contract Graph",
			Version: "1.0.0",
			Nodes: []domain.NodeInstance{
				{ID: "a", Type: "inject", Settings: map[string]any{"payload": "x"}},
				{ID: "b", Type: "debug", Overrides: &domain.ExecutionOverrides{TimeoutMs: 500}},
			},
			Edges: []domain.EdgeInstance{
				{ID: "e1", SourceNode: "a", SourcePort: "out", TargetNode: "b", TargetPort: "data"},
			},
		}

		err := store.SaveSchema(ctx, schema)
		require.NoError(t, err, "SaveSchema should not return error")

		loaded, err := store.LoadSchema(ctx)
		require.NoError(t, err, "LoadSchema should not return error")
		assert.Equal(t, schema.ID, loaded.ID)
		assert.Len(t, loaded.Nodes, 2)
		assert.Len(t, loaded.Edges, 1)
		assert.Equal(t, "x", loaded.Nodes[0].Settings["payload"])
		require.NotNil(t, loaded.Nodes[1].Overrides)
		assert.Equal(t, int64(500), loaded.Nodes[1].Overrides.TimeoutMs)
	})

	t.Run("Overwrite Replaces Wholesale", func(t *testing.T) {
		err := store.SaveSchema(ctx, &domain.GraphSchema{ID: "contract-graph", Name: "Rewritten"})
		require.NoError(t, err)

		loaded, err := store.LoadSchema(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Rewritten", loaded.Name)
		assert.Empty(t, loaded.Nodes)
	})

	t.Run("Run State", func(t *testing.T) {
		running, err := store.LoadRunState(ctx)
		require.NoError(t, err)
		assert.False(t, running, "run state should default to false")

		require.NoError(t, store.SaveRunState(ctx, true))
		running, err = store.LoadRunState(ctx)
		require.NoError(t, err)
		assert.True(t, running)

		require.NoError(t, store.SaveRunState(ctx, false))
		running, err = store.LoadRunState(ctx)
		require.NoError(t, err)
		assert.False(t, running)
	})
}

// RunBroadcasterContract runs a suite of tests to verify that a Broadcaster
// implementation adheres to the defined interface contract.
func RunBroadcasterContract(t *testing.T, b Broadcaster) {
	ctx := context.Background()

	t.Run("Publish Reaches Subscriber", func(t *testing.T) {
		got := make(chan []byte, 1)
		unsub, err := b.Subscribe(ctx, "contract-topic", func(payload []byte) {
			select {
			case got <- payload:
			default:
			}
		})
		require.NoError(t, err)
		defer func() { _ = unsub() }()

		require.NoError(t, b.Publish(ctx, "contract-topic", []byte("hello")))

		select {
		case payload := <-got:
			assert.Equal(t, "hello", string(payload))
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	})

	t.Run("All Local Subscribers Receive", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(2)
		seen := make(chan string, 2)

		for _, name := range []string{"one", "two"} {
			name := name
			once := sync.Once{}
			unsub, err := b.Subscribe(ctx, "contract-fanout", func(payload []byte) {
				once.Do(func() {
					seen <- name
					wg.Done()
				})
			})
			require.NoError(t, err)
			defer func() { _ = unsub() }()
		}

		require.NoError(t, b.Publish(ctx, "contract-fanout", []byte("x")))

		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("not all subscribers received the message")
		}
		assert.Len(t, seen, 2)
	})

	t.Run("Unsubscribe Stops Delivery", func(t *testing.T) {
		got := make(chan struct{}, 8)
		unsub, err := b.Subscribe(ctx, "contract-unsub", func(payload []byte) {
			got <- struct{}{}
		})
		require.NoError(t, err)

		require.NoError(t, b.Publish(ctx, "contract-unsub", []byte("first")))
		select {
		case <-got:
		case <-time.After(2 * time.Second):
			t.Fatal("first publish not delivered")
		}

		require.NoError(t, unsub())
		require.NoError(t, unsub(), "unsubscribe should be idempotent")

		require.NoError(t, b.Publish(ctx, "contract-unsub", []byte("second")))
		select {
		case <-got:
			t.Fatal("received message after unsubscribe")
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("Topics Are Isolated", func(t *testing.T) {
		got := make(chan struct{}, 1)
		unsub, err := b.Subscribe(ctx, "contract-a", func(payload []byte) {
			got <- struct{}{}
		})
		require.NoError(t, err)
		defer func() { _ = unsub() }()

		require.NoError(t, b.Publish(ctx, "contract-b", []byte("other")))
		select {
		case <-got:
			t.Fatal("received message for a different topic")
		case <-time.After(200 * time.Millisecond):
		}
	})
}
