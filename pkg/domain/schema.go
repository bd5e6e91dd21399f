package domain

import "time"

// Position is the editor placement of a node. Presentation only.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// ExecutionOverrides carries per-instance execution tuning.
// Both fields are reserved: they round-trip through persistence but are not
// enforced by the runtime today.
type ExecutionOverrides struct {
	TimeoutMs int64 `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry     int   `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// EdgeModifiers are reserved hook points for future filtering and
// backpressure logic on an edge. Round-tripped, never evaluated.
type EdgeModifiers struct {
	FilterExpression    string `json:"filter_expression,omitempty" yaml:"filter_expression,omitempty"`
	TransformExpression string `json:"transform_expression,omitempty" yaml:"transform_expression,omitempty"`
	BufferSize          int    `json:"buffer_size,omitempty" yaml:"buffer_size,omitempty"`
}

// NodeInstance is one node element of the persisted graph.
type NodeInstance struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Version  string         `json:"version,omitempty" yaml:"version,omitempty"`
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
	Position Position       `json:"position" yaml:"position"`

	Overrides *ExecutionOverrides `json:"overrides,omitempty" yaml:"overrides,omitempty"`

	// Visualization optionally binds this instance to a dashboard widget.
	Visualization string `json:"visualization,omitempty" yaml:"visualization,omitempty"`
}

// EdgeInstance connects one output port to one input port.
type EdgeInstance struct {
	ID         string `json:"id" yaml:"id"`
	SourceNode string `json:"source_node" yaml:"source_node"`
	SourcePort string `json:"source_port" yaml:"source_port"`
	TargetNode string `json:"target_node" yaml:"target_node"`
	TargetPort string `json:"target_port" yaml:"target_port"`

	Modifiers *EdgeModifiers `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

// GraphMeta holds authorship metadata for a schema.
type GraphMeta struct {
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// GraphConfig is the per-graph execution configuration block.
type GraphConfig struct {
	MaxConcurrency       int    `json:"max_concurrency,omitempty" yaml:"max_concurrency,omitempty"`
	StateStorage         string `json:"state_storage,omitempty" yaml:"state_storage,omitempty"`
	CheckpointIntervalMs int64  `json:"checkpoint_interval_ms,omitempty" yaml:"checkpoint_interval_ms,omitempty"`
}

// GraphSchema is the single persisted source of truth for a graph: identity,
// metadata, configuration and the full node/edge collections. Every
// load/save cycle must round-trip it semantically intact.
type GraphSchema struct {
	ID      string      `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Version string      `json:"version,omitempty" yaml:"version,omitempty"`
	Meta    GraphMeta   `json:"meta,omitempty" yaml:"meta,omitempty"`
	Config  GraphConfig `json:"config,omitempty" yaml:"config,omitempty"`

	Nodes []NodeInstance `json:"nodes" yaml:"nodes"`
	Edges []EdgeInstance `json:"edges" yaml:"edges"`
}

// Node returns the instance with the given id, or nil.
func (s *GraphSchema) Node(id string) *NodeInstance {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand to external observers.
func (s *GraphSchema) Clone() *GraphSchema {
	if s == nil {
		return nil
	}
	out := *s
	out.Nodes = make([]NodeInstance, len(s.Nodes))
	for i, n := range s.Nodes {
		out.Nodes[i] = n
		out.Nodes[i].Settings = cloneMap(n.Settings)
		if n.Overrides != nil {
			ov := *n.Overrides
			out.Nodes[i].Overrides = &ov
		}
	}
	out.Edges = make([]EdgeInstance, len(s.Edges))
	for i, e := range s.Edges {
		out.Edges[i] = e
		if e.Modifiers != nil {
			mod := *e.Modifiers
			out.Edges[i].Modifiers = &mod
		}
	}
	if s.Meta.Tags != nil {
		out.Meta.Tags = append([]string(nil), s.Meta.Tags...)
	}
	return &out
}

// MergeSettings merges a partial settings map into the instance, creating
// the bag if needed. Keys in partial win over existing keys.
func (n *NodeInstance) MergeSettings(partial map[string]any) {
	if n.Settings == nil {
		n.Settings = make(map[string]any, len(partial))
	}
	for k, v := range partial {
		n.Settings[k] = v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
