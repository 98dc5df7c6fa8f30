package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCacheCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry, Config{ServiceName: "appinventory", Environment: "test"})

	m.CacheResult("apps", CacheResultHit)
	m.CacheResult("apps", CacheResultHit)
	m.CacheResult("apps", CacheResultMiss)
	m.CacheLoad("apps", 10*time.Millisecond, errors.New("boom"))
	m.CacheInvalidated()

	if got := testutil.ToFloat64(m.cacheRequests.WithLabelValues("apps", CacheResultHit)); got != 2 {
		t.Fatalf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLoadErrors.WithLabelValues("apps")); got != 1 {
		t.Fatalf("expected 1 load error, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheInvalidations); got != 1 {
		t.Fatalf("expected 1 invalidation, got %v", got)
	}
}

func TestSummaryOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry, Config{})

	m.Summary(SummaryOutcomeSentinel, time.Second)
	m.Summary(SummaryOutcomeRateLimited, 0)

	if got := testutil.ToFloat64(m.summaries.WithLabelValues(SummaryOutcomeSentinel)); got != 1 {
		t.Fatalf("expected 1 sentinel, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.CacheResult("apps", CacheResultHit)
	m.Summary(SummaryOutcomeOK, time.Second)
	m.ObserveHTTP("GET", "/health", "200", time.Millisecond)
}

func TestGinMiddlewareObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := New(registry, Config{})

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/apps", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/apps", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	if got := testutil.CollectAndCount(m.httpDuration); got != 2 {
		t.Fatalf("expected 2 series, got %d", got)
	}
	if got := statusClass(404); got != "4xx" {
		t.Fatalf("expected 4xx, got %s", got)
	}
}
