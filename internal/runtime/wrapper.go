package runtime

import (
	"sync"

	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/ports"
)

// nodeWrapper pairs a live node with its per-instance input buffer. It is
// ephemeral: created on graph load, destroyed on unload or replace.
type nodeWrapper struct {
	instance *domain.NodeInstance
	node     ports.Node
	required []string

	mu     sync.Mutex
	buffer map[string]domain.DataPacket
}

func newNodeWrapper(instance *domain.NodeInstance, node ports.Node) *nodeWrapper {
	return &nodeWrapper{
		instance: instance,
		node:     node,
		required: node.Manifest().RequiredInputs(),
		buffer:   make(map[string]domain.DataPacket),
	}
}

// AcceptInput stores the packet under portName and reports whether the node
// is now ready: every manifest-required port holds a value. Optional ports
// never block readiness. Last value wins per port.
func (w *nodeWrapper) AcceptInput(portName string, packet domain.DataPacket) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffer[portName] = packet
	return w.readyLocked()
}

// TakeInputs captures the buffer for a firing and clears it in one step
// under the lock, so an input arriving after capture lands in the fresh
// buffer and feeds the next firing instead of being dropped.
func (w *nodeWrapper) TakeInputs() map[string]domain.DataPacket {
	w.mu.Lock()
	defer w.mu.Unlock()
	inputs := w.buffer
	w.buffer = make(map[string]domain.DataPacket)
	return inputs
}

// Inputs snapshots the buffer without clearing it.
func (w *nodeWrapper) Inputs() map[string]domain.DataPacket {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]domain.DataPacket, len(w.buffer))
	for k, v := range w.buffer {
		out[k] = v
	}
	return out
}

// ClearInputs empties the buffer.
func (w *nodeWrapper) ClearInputs() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffer = make(map[string]domain.DataPacket)
}

func (w *nodeWrapper) readyLocked() bool {
	for _, port := range w.required {
		if _, ok := w.buffer[port]; !ok {
			return false
		}
	}
	return true
}
