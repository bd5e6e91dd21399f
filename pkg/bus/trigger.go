// Package bus implements the Trigger Bus: a distributed broadcast channel
// that lets trigger-class nodes fire consistently even when the process
// accepting an external call is not the process running the graph.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/weir/internal/logging"
	"github.com/aretw0/weir/pkg/ports"
)

// Topic is the single well-known channel all trigger events travel on.
const Topic = "weir:triggers"

// Event is the wire envelope published on the bus. Timestamp is unix
// milliseconds at publish time.
type Event struct {
	Key       string `json:"key"`
	Payload   any    `json:"payload"`
	Timestamp int64  `json:"timestamp"`
}

// TriggerBus publishes and subscribes trigger events over an abstract
// Broadcaster. Delivery follows the broadcaster's semantics: at-least-once,
// unordered across publishers, no acknowledgement.
type TriggerBus struct {
	broadcaster ports.Broadcaster
	logger      *slog.Logger
}

// Option configures the TriggerBus.
type Option func(*TriggerBus)

// WithLogger sets the logger used for malformed-event warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(tb *TriggerBus) {
		tb.logger = logger
	}
}

// New creates a TriggerBus on top of the given broadcaster. Connections are
// established lazily by the broadcaster on first publish or subscribe.
func New(b ports.Broadcaster, opts ...Option) *TriggerBus {
	tb := &TriggerBus{
		broadcaster: b,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(tb)
	}
	return tb
}

// Fire publishes {key, payload, timestamp} on the trigger topic.
func (tb *TriggerBus) Fire(ctx context.Context, key string, payload any) error {
	ev := Event{
		Key:       key,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger event: %w", err)
	}
	if err := tb.broadcaster.Publish(ctx, Topic, data); err != nil {
		return fmt.Errorf("failed to publish trigger event: %w", err)
	}
	return nil
}

// Subscribe registers a callback for every trigger event and returns an
// unsubscribe function. Malformed envelopes are logged and skipped.
func (tb *TriggerBus) Subscribe(ctx context.Context, fn func(Event)) (ports.UnsubscribeFunc, error) {
	return tb.broadcaster.Subscribe(ctx, Topic, func(payload []byte) {
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			tb.logger.Warn("skipping malformed trigger event", "err", err)
			return
		}
		fn(ev)
	})
}
