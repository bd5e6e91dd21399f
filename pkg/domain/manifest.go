package domain

import "fmt"

// PortSpec declares one named input or output port on a node type.
type PortSpec struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
}

// NodeManifest describes a registered node type. It is immutable after
// registration and used only for registration and tooling, never on the
// firing hot path.
type NodeManifest struct {
	Type    string `json:"type" yaml:"type" mapstructure:"type"`
	Version string `json:"version" yaml:"version" mapstructure:"version"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`

	Inputs  []PortSpec `json:"inputs,omitempty" yaml:"inputs,omitempty" mapstructure:"inputs"`
	Outputs []PortSpec `json:"outputs,omitempty" yaml:"outputs,omitempty" mapstructure:"outputs"`

	// SettingsSchema maps setting keys to type strings ("string", "int",
	// "[string]", "any", ...) parsed by pkg/schema. The runtime never
	// consults it on the hot path; editors and the validate command do.
	SettingsSchema map[string]string `json:"settings_schema,omitempty" yaml:"settings_schema,omitempty" mapstructure:"settings_schema"`
}

// Validate checks the structural invariants required for registration.
func (m NodeManifest) Validate() error {
	if m.Type == "" {
		return fmt.Errorf("manifest: %w: missing type id", ErrManifestInvalid)
	}
	if m.Version == "" {
		return fmt.Errorf("manifest %q: %w: missing version", m.Type, ErrManifestInvalid)
	}
	return nil
}

// RequiredInputs returns the names of all input ports marked required.
func (m NodeManifest) RequiredInputs() []string {
	var names []string
	for _, p := range m.Inputs {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}
