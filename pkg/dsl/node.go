package dsl

import "github.com/aretw0/weir/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node instance.
type NodeBuilder struct {
	node    domain.NodeInstance
	builder *Builder
}

// Set adds one setting to the node's settings bag.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	if n.node.Settings == nil {
		n.node.Settings = make(map[string]any)
	}
	n.node.Settings[key] = value
	return n
}

// Settings replaces the node's settings bag.
func (n *NodeBuilder) Settings(settings map[string]any) *NodeBuilder {
	n.node.Settings = settings
	return n
}

// At sets the editor position of the node.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Position{X: x, Y: y}
	return n
}

// Timeout sets the reserved per-instance timeout override.
func (n *NodeBuilder) Timeout(ms int64) *NodeBuilder {
	if n.node.Overrides == nil {
		n.node.Overrides = &domain.ExecutionOverrides{}
	}
	n.node.Overrides.TimeoutMs = ms
	return n
}

// Retry sets the reserved per-instance retry override.
func (n *NodeBuilder) Retry(count int) *NodeBuilder {
	if n.node.Overrides == nil {
		n.node.Overrides = &domain.ExecutionOverrides{}
	}
	n.node.Overrides.Retry = count
	return n
}

// To connects an output port of this node to an input port of the target.
func (n *NodeBuilder) To(sourcePort, targetNode, targetPort string) *NodeBuilder {
	n.builder.Connect(n.node.ID, sourcePort, targetNode, targetPort)
	return n
}

// Build returns the underlying node instance.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.NodeInstance {
	return n.node
}
