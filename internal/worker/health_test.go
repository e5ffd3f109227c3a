package worker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aescanero/dago-node-classifier/internal/metrics"
	"github.com/aescanero/dago-node-classifier/internal/responder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHealthServer(t *testing.T, metricsHandler http.Handler) (*HealthServer, *testEnv) {
	t.Helper()
	env := newTestEnv(t, responder.First{})
	return NewHealthServer(0, env.worker, metricsHandler, zap.NewNop()), env
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec, resp
}

func TestHealthEndpoints(t *testing.T) {
	hs, env := newTestHealthServer(t, nil)
	h := hs.Handler()

	rec, resp := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Checks["redis"])

	require.NoError(t, env.worker.Start())
	t.Cleanup(func() { _ = env.worker.Stop() })

	rec, resp = get(t, h, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "ok", resp.Checks["redis"])
	assert.Equal(t, "sentiment,topic", resp.Checks["trees"])
	assert.Equal(t, "consuming classifier.work", resp.Checks["worker"])

	rec, _ = get(t, h, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadyRequiresRunningWorker(t *testing.T) {
	hs, env := newTestHealthServer(t, nil)
	h := hs.Handler()

	rec, resp := get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "stopped", resp.Checks["worker"])

	require.NoError(t, env.worker.Start())
	require.NoError(t, env.worker.Stop())

	rec, resp = get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", resp.Status)
	assert.Equal(t, "stopped", resp.Checks["worker"])
	assert.Equal(t, "ok", resp.Checks["redis"])
}

func TestHealthRedisDown(t *testing.T) {
	hs, env := newTestHealthServer(t, nil)
	env.mr.Close()
	h := hs.Handler()

	rec, resp := get(t, h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Checks["redis"], "unhealthy")

	rec, resp = get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", resp.Status)
	assert.Contains(t, resp.Checks["redis"], "unavailable")
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.NewCollector("test", nil)
	collector.RecordFailure("sentiment", "backend")

	hs, _ := newTestHealthServer(t, collector.Handler())

	rec := httptest.NewRecorder()
	hs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_failures_total{reason="backend",tree="sentiment"} 1`)
}
