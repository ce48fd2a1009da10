package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/creative-analytics/internal/config"
	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/ingest"
	"github.com/ignite/creative-analytics/internal/pkg/distlock"
	"github.com/ignite/creative-analytics/internal/service/metrics"
	"github.com/ignite/creative-analytics/internal/service/override"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
)

type mockSyncer struct {
	calls int
	err   error
}

func (m *mockSyncer) Run(context.Context) (*ingest.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &ingest.Result{RunID: "run-1", Counts: map[string]any{"mapped": 2}}, nil
}

type mockReconciler struct {
	runs  []domain.SyncRun
	limit int
}

func (m *mockReconciler) Reconcile(context.Context) (*reconcile.Outcome, error) {
	return &reconcile.Outcome{Ads: 3, Mapped: 2, Unmapped: 1}, nil
}

func (m *mockReconciler) Runs(_ context.Context, limit int) ([]domain.SyncRun, error) {
	m.limit = limit
	return m.runs, nil
}

type mockOverrides struct {
	got      override.Input
	filter   override.ListFilter
	unmapped []domain.UnmappedAd
	stored   map[string]*domain.ManualOverride
}

func (m *mockOverrides) Upsert(_ context.Context, in override.Input) (*domain.ManualOverride, error) {
	m.got = in
	if in.AdID == "" && in.AdName == "" {
		return nil, override.ErrKeyRequired
	}
	return &domain.ManualOverride{ID: "o1", AdID: in.AdID, CreativeIDOverride: in.CreativeIDOverride}, nil
}

func (m *mockOverrides) Get(_ context.Context, id string) (*domain.ManualOverride, error) {
	if o, ok := m.stored[id]; ok {
		return o, nil
	}
	return nil, override.ErrNotFound
}

func (m *mockOverrides) List(_ context.Context, f override.ListFilter) ([]domain.ManualOverride, int, error) {
	m.filter = f
	var out []domain.ManualOverride
	for _, o := range m.stored {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockOverrides) Delete(_ context.Context, id string) error {
	if _, ok := m.stored[id]; !ok {
		return override.ErrNotFound
	}
	delete(m.stored, id)
	return nil
}

func (m *mockOverrides) ListUnmapped(_ context.Context, f override.ListFilter) ([]domain.UnmappedAd, int, error) {
	m.filter = f
	return m.unmapped, 120, nil
}

type mockMetrics struct {
	rng       metrics.Range
	filter    metrics.CreativeFilter
	dimension string
}

func (m *mockMetrics) Overview(_ context.Context, r metrics.Range) (*metrics.Overview, error) {
	m.rng = r
	return &metrics.Overview{Totals: metrics.Finalize(metrics.Totals{Spend: 100, Revenue: 250})}, nil
}

func (m *mockMetrics) CreativeRows(_ context.Context, r metrics.Range, f metrics.CreativeFilter) (*metrics.CreativePage, error) {
	m.rng, m.filter = r, f
	return &metrics.CreativePage{Rows: []metrics.CreativeRow{{CreativeID: "V1"}}, Total: 1, Pages: 1}, nil
}

func (m *mockMetrics) FilterOptions(context.Context) (*metrics.FilterOptions, error) {
	return &metrics.FilterOptions{Angle: []string{"Gain", "Pain"}}, nil
}

func (m *mockMetrics) CreativeDetail(_ context.Context, id string, r metrics.Range) (*metrics.CreativeDetail, error) {
	if id != "V1" {
		return nil, metrics.ErrNotFound
	}
	return &metrics.CreativeDetail{Creative: domain.Creative{CreativeID: "V1"}}, nil
}

func (m *mockMetrics) Analysis(_ context.Context, r metrics.Range, dimension string) (*metrics.Analysis, error) {
	m.dimension = dimension
	return &metrics.Analysis{Dimension: metrics.NormalizeDimension(dimension)}, nil
}

type testEnv struct {
	handler   http.Handler
	syncer    *mockSyncer
	recon     *mockReconciler
	overrides *mockOverrides
	metrics   *mockMetrics
	redis     *redis.Client
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	env := &testEnv{
		syncer:    &mockSyncer{},
		recon:     &mockReconciler{},
		overrides: &mockOverrides{stored: map[string]*domain.ManualOverride{"o1": {ID: "o1", AdID: "1"}}},
		metrics:   &mockMetrics{},
		redis:     client,
	}
	h := NewHandlers(env.recon, env.overrides, env.metrics,
		distlock.NewFactory(client, nil, ingest.RunLockKey, time.Minute))
	h.SetSyncer(env.syncer)
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	srv := NewServer(config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}}, h, nil)
	env.handler = srv.Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestSyncLocal(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/sync/local", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "run-1", body["runId"])
	assert.Equal(t, 1, env.syncer.calls)

	// lock is released after the run
	w = env.do(t, http.MethodPost, "/api/sync/local", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSyncLocalConflictWhileLocked(t *testing.T) {
	env := setupTestEnv(t)

	held := distlock.NewRedisLock(env.redis, ingest.RunLockKey, time.Minute)
	ok, err := held.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	w := env.do(t, http.MethodPost, "/api/sync/local", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "run_in_progress", decode(t, w)["code"])
	assert.Zero(t, env.syncer.calls)

	w = env.do(t, http.MethodPost, "/api/reconcile", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSyncLocalSourceMissing(t *testing.T) {
	env := setupTestEnv(t)
	env.syncer.err = fmt.Errorf("%w: Creative metadata file not found at path: <empty>", ingest.ErrSourceMissing)

	w := env.do(t, http.MethodPost, "/api/sync/local", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Creative metadata file not found")
}

func TestSyncLocalFailureIsSanitized(t *testing.T) {
	env := setupTestEnv(t)
	env.syncer.err = fmt.Errorf("save maps: pq: connection reset")

	w := env.do(t, http.MethodPost, "/api/sync/local", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["error"])
}

func TestReconcile(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/reconcile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	counts := decode(t, w)["counts"].(map[string]interface{})
	assert.Equal(t, float64(2), counts["mapped"])
}

func TestListRuns(t *testing.T) {
	env := setupTestEnv(t)
	env.recon.runs = []domain.SyncRun{{ID: "r1", Type: domain.RunLocal, Status: domain.RunSuccess}}

	w := env.do(t, http.MethodGet, "/api/sync/runs?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, env.recon.limit)
	assert.Len(t, decode(t, w)["runs"], 1)
}

func TestUpsertOverride(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/unmapped-ads/override", map[string]string{
		"adId":               "123",
		"creativeIdOverride": "v9",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123", env.overrides.got.AdID)
	assert.Equal(t, "v9", env.overrides.got.CreativeIDOverride)
	assert.Equal(t, true, decode(t, w)["ok"])
}

func TestUpsertOverrideRequiresKey(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/unmapped-ads/override", map[string]string{"creativeIdOverride": "V9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, override.ErrKeyRequired.Error(), decode(t, w)["error"])
}

func TestUpsertOverrideInvalidJSON(t *testing.T) {
	env := setupTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/unmapped-ads/override", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUnmappedPagination(t *testing.T) {
	env := setupTestEnv(t)
	env.overrides.unmapped = []domain.UnmappedAd{{ID: "u1", AdName: "broken", Reason: "missing_tokens:copy_id"}}

	w := env.do(t, http.MethodGet, "/api/unmapped-ads?page=3&limit=10&search=broken", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, override.ListFilter{Search: "broken", Limit: 10, Offset: 20}, env.overrides.filter)

	pagination := decode(t, w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(12), pagination["totalPages"])
	assert.Equal(t, true, pagination["hasMore"])
}

func TestOverrideCRUD(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/overrides/o1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/overrides/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/overrides/o1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/overrides/o1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/overrides/o1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsDefaultRange(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/metrics/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), env.metrics.rng.Start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), env.metrics.rng.End)

	totals := decode(t, w)["totals"].(map[string]interface{})
	assert.Equal(t, 2.5, totals["roas"])
}

func TestMetricsInvalidRange(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/metrics/overview?start=2026-02-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/metrics/creatives?start=2026-02-10&end=2026-02-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCreatives(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/metrics/creatives?start=2026-02-01&end=2026-02-28&angle=Pain&targetTraffic=Cold&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pain", env.metrics.filter.Angle)
	assert.Equal(t, "Cold", env.metrics.filter.TargetTraffic)
	assert.Equal(t, 25, env.metrics.filter.Limit)
	assert.Equal(t, 25, env.metrics.filter.Offset)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), env.metrics.rng.End)
	assert.Equal(t, float64(2), decode(t, w)["page"])
}

func TestGetCreative(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/metrics/creatives/V1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/metrics/creatives/V404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisAndFilters(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/metrics/analysis?dimension=format", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "format", env.metrics.dimension)

	w = env.do(t, http.MethodGet, "/api/metrics/filters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"Gain", "Pain"}, decode(t, w)["angle"])
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/reconcile", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
