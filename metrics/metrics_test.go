package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/superflake/clog"
)

func newTestMeter(t *testing.T) Meter {
	t.Helper()
	m, err := New(&Config{Enabled: true, ServiceName: "test-service", Version: "v0.0.1"},
		WithLogger(clog.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func scrape(t *testing.T, m Meter) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	m, err := New(&Config{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, noopMeter{}, m)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestMeter_Instruments(t *testing.T) {
	m := newTestMeter(t)
	ctx := context.Background()

	counter, err := m.Counter("idgen_test_generated_total", "generated ids")
	require.NoError(t, err)
	counter.Inc(ctx, L("node_id", "7"))
	counter.Add(ctx, 2, L("node_id", "7"))
	counter.Add(ctx, -5, L("node_id", "7"))

	gauge, err := m.Gauge("idgen_test_sequence", "current sequence")
	require.NoError(t, err)
	gauge.Set(ctx, 10)
	gauge.Inc(ctx)
	gauge.Dec(ctx)

	hist, err := m.Histogram("idgen_test_wait", "wait", WithUnit("s"), WithBuckets([]float64{0.001, 0.01}))
	require.NoError(t, err)
	hist.Record(ctx, 0.002)

	body := scrape(t, m)
	assert.Contains(t, body, "idgen_test_generated_total")
	assert.Contains(t, body, `node_id="7"`)
	assert.Contains(t, body, "idgen_test_sequence")
	assert.Contains(t, body, "idgen_test_wait")
}

func TestMeter_Runtime(t *testing.T) {
	m, err := New(&Config{Enabled: true, Runtime: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	assert.Contains(t, scrape(t, m), "go_goroutine")
}

func TestHTTPStatusHelpers(t *testing.T) {
	assert.Equal(t, "2xx", HTTPStatusClass(200))
	assert.Equal(t, "4xx", HTTPStatusClass(429))
	assert.Equal(t, "unknown", HTTPStatusClass(42))
	assert.Equal(t, OutcomeSuccess, HTTPOutcome(302))
	assert.Equal(t, OutcomeError, HTTPOutcome(500))
}

func TestGinHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestMeter(t)

	httpMetrics, err := NewHTTPServerMetrics(m, "superflake")
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinHTTPMiddleware(httpMetrics))
	r.GET("/ids/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/ids/1", "/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, MetricHTTPServerRequestTotal)
	assert.Contains(t, body, `route="/ids/:id"`)
	assert.Contains(t, body, `route="unknown"`)

	_, err = NewHTTPServerMetrics(nil, "x")
	assert.Error(t, err)

	// nil 指标集直接放行
	r2 := gin.New()
	r2.Use(GinHTTPMiddleware(nil))
	r2.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	rec := httptest.NewRecorder()
	r2.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
