// Package debug provides a sink node that logs whatever reaches it.
package debug

import (
	"context"

	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/ports"
	"github.com/aretw0/weir/pkg/registry"
)

// Manifest describes the debug node type.
var Manifest = domain.NodeManifest{
	Type:    "debug",
	Version: "1.0.0",
	Label:   "Debug",
	Inputs: []domain.PortSpec{
		{Name: "data", Required: true, Description: "Value to log"},
	},
}

// Node logs each received packet through the firing's scoped logger.
type Node struct {
	id string
}

// Register adds the debug type to a registry.
func Register(r *registry.Registry) error {
	return r.Register(Manifest, func(instanceID string, _ map[string]any) (ports.Node, error) {
		return &Node{id: instanceID}, nil
	})
}

// Manifest implements ports.Node.
func (n *Node) Manifest() domain.NodeManifest { return Manifest }

// Process logs the inputs and produces no output.
func (n *Node) Process(ctx context.Context, inputs map[string]domain.DataPacket, pc ports.ProcessContext) domain.Result {
	for port, packet := range inputs {
		pc.Logger.Info("debug", "port", port, "payload", packet.Payload)
	}
	return domain.OK(nil)
}
