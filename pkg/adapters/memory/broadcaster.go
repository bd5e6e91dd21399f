package memory

import (
	"context"
	"sync"

	"github.com/aretw0/weir/pkg/ports"
)

// Broadcaster implements ports.Broadcaster as an in-process fanout. It keeps
// the Trigger Bus semantics (every local subscriber receives every message,
// unordered across publishers) when a single node hosts the whole system.
type Broadcaster struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]func(payload []byte)
}

// NewBroadcaster creates an empty in-process broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[string]map[int]func(payload []byte)),
	}
}

// Publish delivers the payload to every current subscriber of the topic.
// Each callback runs on its own goroutine so a slow subscriber cannot block
// the publisher or its siblings.
func (b *Broadcaster) Publish(ctx context.Context, topic string, payload []byte) error {
	b.mu.RLock()
	fns := make([]func([]byte), 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		data := make([]byte, len(payload))
		copy(data, payload)
		go fn(data)
	}
	return nil
}

// Subscribe registers the callback and returns an idempotent unsubscribe.
func (b *Broadcaster) Subscribe(ctx context.Context, topic string, fn func(payload []byte)) (ports.UnsubscribeFunc, error) {
	b.mu.Lock()
	id := b.next
	b.next++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func(payload []byte))
	}
	b.subs[topic][id] = fn
	b.mu.Unlock()

	return func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
		return nil
	}, nil
}
