// Package trigger provides the bus-fed trigger node: an entry node whose
// firing originates from an external event delivered via the Trigger Bus.
package trigger

import (
	"context"
	"sync"

	"github.com/aretw0/weir/pkg/bus"
	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/ports"
	"github.com/aretw0/weir/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Manifest describes the trigger node type.
var Manifest = domain.NodeManifest{
	Type:    "trigger",
	Version: "1.0.0",
	Label:   "Trigger",
	Outputs: []domain.PortSpec{
		{Name: "out", Description: "The trigger event payload"},
	},
	SettingsSchema: map[string]string{
		"key": "string",
	},
}

type settings struct {
	Key string `mapstructure:"key"`
}

// Node subscribes to the Trigger Bus on Initialize and emits the payload of
// every event whose key matches its configured key. Because the bus fans out
// to every subscribing process, the node fires consistently no matter which
// process accepted the original call.
type Node struct {
	id string
	tb *bus.TriggerBus

	mu       sync.Mutex
	settings settings
	emit     ports.EmitFunc
	unsub    ports.UnsubscribeFunc
}

// Register adds the trigger type to a registry, bound to the given bus.
func Register(r *registry.Registry, tb *bus.TriggerBus) error {
	return r.Register(Manifest, func(instanceID string, _ map[string]any) (ports.Node, error) {
		return &Node{id: instanceID, tb: tb}, nil
	})
}

// Manifest implements ports.Node.
func (n *Node) Manifest() domain.NodeManifest { return Manifest }

// Configure implements ports.Configurable.
func (n *Node) Configure(raw map[string]any) error {
	var s settings
	if err := mapstructure.Decode(raw, &s); err != nil {
		return err
	}
	n.mu.Lock()
	n.settings = s
	n.mu.Unlock()
	return nil
}

// BindEmit implements ports.Emitter.
func (n *Node) BindEmit(emit ports.EmitFunc) {
	n.mu.Lock()
	n.emit = emit
	n.mu.Unlock()
}

// Initialize subscribes to the bus. Without a bus the node stays silent.
func (n *Node) Initialize(ctx context.Context) error {
	if n.tb == nil {
		return nil
	}
	unsub, err := n.tb.Subscribe(ctx, func(ev bus.Event) {
		n.mu.Lock()
		key := n.settings.Key
		emit := n.emit
		n.mu.Unlock()

		if emit == nil || (key != "" && ev.Key != key) {
			return
		}
		emit(map[string]domain.DataPacket{
			"out": domain.NewPacket(ev.Payload),
		})
	})
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.unsub = unsub
	n.mu.Unlock()
	return nil
}

// Dispose releases the subscription.
func (n *Node) Dispose(ctx context.Context) error {
	n.mu.Lock()
	unsub := n.unsub
	n.unsub = nil
	n.mu.Unlock()
	if unsub != nil {
		return unsub()
	}
	return nil
}

// Process produces nothing: a trigger node only speaks when its event
// arrives, so firing it as an entry node is a no-op.
func (n *Node) Process(ctx context.Context, inputs map[string]domain.DataPacket, pc ports.ProcessContext) domain.Result {
	return domain.OK(nil)
}
