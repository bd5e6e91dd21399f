package ports

import "context"

// UnsubscribeFunc removes a subscription. It is safe to call more than once.
type UnsubscribeFunc func() error

// Broadcaster is an abstract distributed broadcast channel with
// at-least-once, unordered delivery and no acknowledgement or redelivery.
// Every local subscriber within one process receives every published
// message.
type Broadcaster interface {
	// Publish sends a message on a topic.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Subscribe registers a callback for a topic and returns an
	// UnsubscribeFunc that MUST be called to release the subscription.
	// The callback may be invoked from a different goroutine.
	Subscribe(ctx context.Context, topic string, fn func(payload []byte)) (UnsubscribeFunc, error)
}
