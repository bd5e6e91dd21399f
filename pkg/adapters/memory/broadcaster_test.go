package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/weir/pkg/ports"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterContract(t *testing.T) {
	ports.RunBroadcasterContract(t, NewBroadcaster())
}

func TestBroadcasterSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroadcaster()
	ctx := context.Background()

	release := make(chan struct{})
	unsub, err := b.Subscribe(ctx, "slow", func(payload []byte) {
		<-release
	})
	require.NoError(t, err)
	defer func() { _ = unsub() }()

	done := make(chan struct{})
	go func() {
		_ = b.Publish(ctx, "slow", []byte("x"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	close(release)
}
