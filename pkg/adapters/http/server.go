// Package http exposes the engine's tooling surface over HTTP: settings
// query/update RPCs, graph inspection, external trigger ingestion, health
// and metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/weir/internal/logging"
	"github.com/aretw0/weir/pkg/bus"
	"github.com/aretw0/weir/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the slice of the runtime the HTTP surface needs.
type Engine interface {
	Inspect() (*domain.GraphSchema, error)
	NodeSettings(nodeID string) (map[string]any, error)
	UpdateNodeSettings(ctx context.Context, nodeID string, partial map[string]any) error
}

// Server routes tooling requests to the engine and trigger calls to the bus.
type Server struct {
	engine   Engine
	triggers *bus.TriggerBus
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the given gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates the HTTP handler. The trigger bus may be nil, in which
// case POST /triggers returns 503.
func NewHandler(engine Engine, triggers *bus.TriggerBus, opts ...Option) http.Handler {
	s := &Server{
		engine:   engine,
		triggers: triggers,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/nodes/{nodeID}/settings", s.handleGetSettings)
	r.Patch("/nodes/{nodeID}/settings", s.handleUpdateSettings)
	r.Post("/triggers/{key}", s.handleTrigger)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	schema, err := s.engine.Inspect()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, schema)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	settings, err := s.engine.NodeSettings(nodeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		s.logger.Warn("update settings: invalid body", "node", nodeID, "err", err)
		return
	}

	if err := s.engine.UpdateNodeSettings(r.Context(), nodeID, partial); err != nil {
		s.writeError(w, err)
		return
	}

	settings, err := s.engine.NodeSettings(nodeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if s.triggers == nil {
		http.Error(w, "trigger bus not configured", http.StatusServiceUnavailable)
		return
	}
	key := chi.URLParam(r, "key")

	var payload any
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	if err := s.triggers.Fire(r.Context(), key, payload); err != nil {
		s.logger.Error("trigger publish failed", "key", key, "err", err)
		http.Error(w, "failed to publish trigger", http.StatusBadGateway)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"key": key})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNodeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrNoGraphLoaded):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
