package weir

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/weir/internal/logging"
	"github.com/aretw0/weir/internal/runtime"
	fileAdapter "github.com/aretw0/weir/pkg/adapters/file"
	"github.com/aretw0/weir/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/weir/pkg/adapters/redis"
	"github.com/aretw0/weir/pkg/bus"
	"github.com/aretw0/weir/pkg/domain"
	"github.com/aretw0/weir/pkg/nodes/debug"
	"github.com/aretw0/weir/pkg/nodes/inject"
	"github.com/aretw0/weir/pkg/nodes/trigger"
	"github.com/aretw0/weir/pkg/observability"
	"github.com/aretw0/weir/pkg/ports"
	"github.com/aretw0/weir/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the library version, surfaced by the CLI.
const Version = "0.1.0"

// Runtime bundles a configured engine with its registry and trigger bus.
type Runtime struct {
	Engine   *runtime.Engine
	Registry *registry.Registry
	Triggers *bus.TriggerBus
	Metrics  *observability.Metrics

	metricsReg *prometheus.Registry
}

type config struct {
	logger       *slog.Logger
	topologyPath string
	broadcaster  ports.Broadcaster
	hooks        domain.Hooks
	withMetrics  bool
	extraNodes   []func(*registry.Registry) error
}

// Option configures the Runtime facade.
type Option func(*config)

// WithLogger sets the structured logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTopologyFile enables file persistence at the given path, including
// auto-resume from the colocated run-state file.
func WithTopologyFile(path string) Option {
	return func(c *config) { c.topologyPath = path }
}

// WithRedisBroker backs the Trigger Bus with Redis Pub/Sub, letting trigger
// nodes fire consistently across horizontally scaled processes.
func WithRedisBroker(addr string) Option {
	return func(c *config) { c.broadcaster = redisAdapter.New(addr, "", 0) }
}

// WithBroadcaster backs the Trigger Bus with a custom broadcast channel.
func WithBroadcaster(b ports.Broadcaster) Option {
	return func(c *config) { c.broadcaster = b }
}

// WithHooks registers runtime observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *config) { c.hooks = hooks }
}

// WithMetrics enables the Prometheus collectors.
func WithMetrics() Option {
	return func(c *config) { c.withMetrics = true }
}

// WithNodeTypes registers additional node packages on top of the builtins.
func WithNodeTypes(registrars ...func(*registry.Registry) error) Option {
	return func(c *config) { c.extraNodes = append(c.extraNodes, registrars...) }
}

// New wires the default runtime: builtin node types (inject, trigger,
// debug), an in-process broadcaster unless a distributed one is configured,
// and optional file persistence and metrics.
func New(opts ...Option) (*Runtime, error) {
	cfg := &config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.broadcaster == nil {
		cfg.broadcaster = memory.NewBroadcaster()
	}
	triggers := bus.New(cfg.broadcaster, bus.WithLogger(cfg.logger))

	reg := registry.NewRegistry(registry.WithLogger(cfg.logger))
	if err := inject.Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register inject node: %w", err)
	}
	if err := debug.Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register debug node: %w", err)
	}
	if err := trigger.Register(reg, triggers); err != nil {
		return nil, fmt.Errorf("failed to register trigger node: %w", err)
	}
	for _, register := range cfg.extraNodes {
		if err := register(reg); err != nil {
			return nil, fmt.Errorf("failed to register node type: %w", err)
		}
	}

	rt := &Runtime{Registry: reg, Triggers: triggers}

	hooks := cfg.hooks
	if cfg.withMetrics {
		rt.metricsReg = prometheus.NewRegistry()
		rt.Metrics = observability.NewMetrics(rt.metricsReg)
		hooks = domain.MergeHooks(cfg.hooks, rt.Metrics.Hooks())
	}

	engineOpts := []runtime.Option{
		runtime.WithLogger(cfg.logger),
		runtime.WithHooks(hooks),
	}
	if cfg.topologyPath != "" {
		engineOpts = append(engineOpts, runtime.WithStore(fileAdapter.New(cfg.topologyPath)))
	}

	engine, err := runtime.New(reg, engineOpts...)
	if err != nil {
		return nil, err
	}
	rt.Engine = engine
	return rt, nil
}

// Gatherer returns the metrics registry, or nil when metrics are disabled.
func (rt *Runtime) Gatherer() *prometheus.Registry {
	return rt.metricsReg
}

// Close releases the engine scheduler.
func (rt *Runtime) Close() {
	rt.Engine.Close()
}
