// Package inject provides an entry node that emits a configured payload,
// either once per run or repeatedly on a timer.
package inject

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/ports"
	"github.com/aretw0/weir/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Manifest describes the inject node type.
var Manifest = domain.NodeManifest{
	Type:    "inject",
	Version: "1.0.0",
	Label:   "Inject",
	Outputs: []domain.PortSpec{
		{Name: "out", Description: "The configured payload"},
	},
	SettingsSchema: map[string]string{
		"payload":     "any",
		"interval_ms": "int",
	},
}

type settings struct {
	Payload    any   `mapstructure:"payload"`
	IntervalMs int64 `mapstructure:"interval_ms"`
}

// Node emits its payload on "out" when fired, and additionally on a timer
// when interval_ms is set. The timer path goes through the bound emit
// callback, exercising the same propagation as a normal firing.
type Node struct {
	id string

	mu       sync.Mutex
	settings settings
	emit     ports.EmitFunc
	stop     chan struct{}
}

// Register adds the inject type to a registry.
func Register(r *registry.Registry) error {
	return r.Register(Manifest, func(instanceID string, _ map[string]any) (ports.Node, error) {
		return &Node{id: instanceID}, nil
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

// Initialize starts the interval timer when configured.
func (n *Node) Initialize(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.settings.IntervalMs <= 0 {
		return nil
	}

	n.stop = make(chan struct{})
	stop := n.stop
	interval := time.Duration(n.settings.IntervalMs) * time.Millisecond

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n.mu.Lock()
				emit := n.emit
				payload := n.settings.Payload
				n.mu.Unlock()
				if emit != nil {
					emit(map[string]domain.DataPacket{
						"out": domain.NewPacket(payload),
					})
				}
			}
		}
	}()
	return nil
}

// Dispose stops the timer.
func (n *Node) Dispose(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stop != nil {
		close(n.stop)
		n.stop = nil
	}
	return nil
}

// Process emits the configured payload once.
func (n *Node) Process(ctx context.Context, inputs map[string]domain.DataPacket, pc ports.ProcessContext) domain.Result {
	n.mu.Lock()
	payload := n.settings.Payload
	n.mu.Unlock()

	return domain.OK(map[string]domain.DataPacket{
		"out": domain.NewPacket(payload),
	})
}
