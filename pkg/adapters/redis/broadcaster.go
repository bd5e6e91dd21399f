// Package redis binds the Weir broadcast port to Redis Pub/Sub, giving the
// Trigger Bus its distributed fanout across processes.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/weir/internal/logging"
	"github.com/aretw0/weir/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Broadcaster implements ports.Broadcaster using Redis Pub/Sub. Connections
// are established lazily by go-redis on first use. Delivery is at-least-once
// and unordered across publishers; Redis gives no acknowledgement or
// redelivery, which matches the port contract.
type Broadcaster struct {
	client *backend.Client
	logger *slog.Logger
}

// Option configures the Broadcaster.
type Option func(*Broadcaster)

// WithLogger sets the logger used for subscription lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broadcaster) {
		b.logger = logger
	}
}

// New creates a Broadcaster with its own client.
func New(address, password string, db int, opts ...Option) *Broadcaster {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Broadcaster from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		client: client,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish sends the payload on the given channel.
func (b *Broadcaster) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish on %q: %w", topic, err)
	}
	return nil
}

// Subscribe opens a dedicated Pub/Sub connection for the topic and pumps
// messages into the callback from a background goroutine. The returned
// function closes the subscription and is safe to call more than once.
func (b *Broadcaster) Subscribe(ctx context.Context, topic string, fn func(payload []byte)) (ports.UnsubscribeFunc, error) {
	sub := b.client.Subscribe(ctx, topic)

	// Confirm the subscription before returning so a Publish immediately
	// after Subscribe is not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe on %q: %w", topic, err)
	}

	ch := sub.Channel()
	go func() {
		for msg := range ch {
			fn([]byte(msg.Payload))
		}
		b.logger.Debug("redis subscription closed", "topic", topic)
	}()

	var once sync.Once
	return func() error {
		var err error
		once.Do(func() {
			err = sub.Close()
		})
		return err
	}, nil
}

// Close closes the underlying client.
func (b *Broadcaster) Close() error {
	return b.client.Close()
}
