package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/weir/pkg/adapters/memory"
	"github.com/aretw0/weir/pkg/bus"
	"github.com/aretw0/weir/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine implements the Engine slice with an in-memory schema.
type fakeEngine struct {
	mu     sync.Mutex
	schema *domain.GraphSchema
}

func (f *fakeEngine) Inspect() (*domain.GraphSchema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.schema == nil {
		return nil, domain.ErrNoGraphLoaded
	}
	return f.schema.Clone(), nil
}

func (f *fakeEngine) NodeSettings(nodeID string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.schema == nil {
		return nil, domain.ErrNoGraphLoaded
	}
	inst := f.schema.Node(nodeID)
	if inst == nil {
		return nil, domain.ErrNodeNotFound
	}
	return inst.Settings, nil
}

func (f *fakeEngine) UpdateNodeSettings(ctx context.Context, nodeID string, partial map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.schema == nil {
		return domain.ErrNoGraphLoaded
	}
	inst := f.schema.Node(nodeID)
	if inst == nil {
		return domain.ErrNodeNotFound
	}
	inst.MergeSettings(partial)
	return nil
}

func loadedEngine() *fakeEngine {
	return &fakeEngine{schema: &domain.GraphSchema{
		ID: "g1",
		Nodes: []domain.NodeInstance{
			{ID: "a", Type: "inject", Settings: map[string]any{"payload": "x"}},
		},
	}}
}

func TestHealthz(t *testing.T) {
	h := NewHandler(loadedEngine(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetGraph(t *testing.T) {
	h := NewHandler(loadedEngine(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graph", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var schema domain.GraphSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, "g1", schema.ID)
	assert.Len(t, schema.Nodes, 1)
}

func TestGetGraphWithoutLoadedGraph(t *testing.T) {
	h := NewHandler(&fakeEngine{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graph", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetNodeSettings(t *testing.T) {
	h := NewHandler(loadedEngine(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nodes/a/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"payload":"x"}`, rec.Body.String())
}

func TestGetNodeSettingsNotFound(t *testing.T) {
	h := NewHandler(loadedEngine(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nodes/ghost/settings", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchNodeSettings(t *testing.T) {
	engine := loadedEngine()
	h := NewHandler(engine, nil)

	body := strings.NewReader(`{"interval_ms": 500}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/nodes/a/settings", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"payload":"x","interval_ms":500}`, rec.Body.String(),
		"response carries the merged settings")
}

func TestPatchNodeSettingsInvalidBody(t *testing.T) {
	h := NewHandler(loadedEngine(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/nodes/a/settings", strings.NewReader("{oops")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostTriggerPublishesOnBus(t *testing.T) {
	tb := bus.New(memory.NewBroadcaster())
	h := NewHandler(loadedEngine(), tb)

	got := make(chan bus.Event, 1)
	unsub, err := tb.Subscribe(context.Background(), func(ev bus.Event) {
		select {
		case got <- ev:
		default:
		}
	})
	require.NoError(t, err)
	defer func() { _ = unsub() }()

	body := strings.NewReader(`{"ref":"main"}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/triggers/deploy", body))

	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case ev := <-got:
		assert.Equal(t, "deploy", ev.Key)
		payload, ok := ev.Payload.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "main", payload["ref"])
	case <-time.After(2 * time.Second):
		t.Fatal("trigger never reached the bus")
	}
}

func TestPostTriggerWithoutBus(t *testing.T) {
	h := NewHandler(loadedEngine(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/triggers/deploy", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpointOptIn(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "weir_test_total"})
	reg.MustRegister(counter)
	counter.Inc()

	withMetrics := NewHandler(loadedEngine(), nil, WithMetrics(reg))
	rec := httptest.NewRecorder()
	withMetrics.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "weir_test_total 1")

	without := NewHandler(loadedEngine(), nil)
	rec = httptest.NewRecorder()
	without.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
