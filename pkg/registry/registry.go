// Package registry decouples the runtime from concrete node
// implementations. It maps a type identifier to a manifest and a factory
// that builds live instances.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/weir/internal/logging"
	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/ports"
	"github.com/aretw0/weir/pkg/schema"
)

type entry struct {
	manifest domain.NodeManifest
	factory  ports.Factory
}

// Registry manages the available node types. It is an explicitly
// constructed object, not a process-wide singleton, so independent runtimes
// can coexist in tests.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]entry
	logger *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		types:  make(map[string]entry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register stores a type entry. Overwriting an existing type id is allowed
// but logged as a warning. A manifest lacking a type id or version, or
// declaring an unparseable settings schema, fails with a structural
// validation error.
func (r *Registry) Register(manifest domain.NodeManifest, factory ports.Factory) error {
	if err := manifest.Validate(); err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("register %q: nil factory", manifest.Type)
	}
	if _, err := schema.ParseTypeMap(manifest.SettingsSchema); err != nil {
		return fmt.Errorf("register %q: %w: %v", manifest.Type, domain.ErrManifestInvalid, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[manifest.Type]; exists {
		r.logger.Warn("overwriting registered node type", "type", manifest.Type)
	}
	r.types[manifest.Type] = entry{manifest: manifest, factory: factory}
	return nil
}

// CreateInstance builds a live node for the given type. If the node is
// Configurable, the settings bag is applied before it is returned.
func (r *Registry) CreateInstance(typeID, instanceID string, settings map[string]any) (ports.Node, error) {
	r.mu.RLock()
	e, ok := r.types[typeID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownNodeType, typeID)
	}

	node, err := e.factory(instanceID, settings)
	if err != nil {
		return nil, fmt.Errorf("factory for %q: %w", typeID, err)
	}

	if cfg, ok := node.(ports.Configurable); ok {
		if err := cfg.Configure(settings); err != nil {
			return nil, fmt.Errorf("configure %q instance %q: %w", typeID, instanceID, err)
		}
	}

	return node, nil
}

// Manifest returns the manifest for one type id.
func (r *Registry) Manifest(typeID string) (domain.NodeManifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[typeID]
	return e.manifest, ok
}

// Manifests returns all registered manifests sorted by type id, for tooling.
func (r *Registry) Manifests() []domain.NodeManifest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.NodeManifest, 0, len(r.types))
	for _, e := range r.types {
		out = append(out, e.manifest)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
