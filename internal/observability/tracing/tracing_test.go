package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/appinventory/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestSafeAttributes(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/apps"),
		attribute.String("http.authorization", "Bearer x"),
		attribute.String("long", strings.Repeat("a", 300)),
		attribute.Int("http.status_code", 200),
	)
	require.Len(t, attrs, 3)
	assert.Equal(t, "/api/apps", attrs[0].Value.AsString())
	assert.Len(t, attrs[1].Value.AsString(), maxAttributeLength)
	assert.Equal(t, int64(200), attrs[2].Value.AsInt64())
}

func TestSafeError(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	assert.Nil(t, SafeError(errors.New("  ")))
	assert.Len(t, SafeError(errors.New(strings.Repeat("x", 400))).Error(), maxAttributeLength)
}

func TestGinMiddlewareStartsServerSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := NewProvider(nil, Config{ServiceName: "appinventory", SamplingRatio: 1}, zap.NewNop())
	require.NoError(t, err)

	var sc trace.SpanContext
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/apps", func(c *gin.Context) {
		sc = trace.SpanContextFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/apps", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, sc.IsValid())
}

func TestGinMiddlewareRecordsViewerAndScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/apps/detail", func(c *gin.Context) {
		ctx := obscontext.WithViewer(c.Request.Context(), "jsmith")
		c.Request = c.Request.WithContext(obscontext.WithScope(ctx, "team"))
		_ = c.Error(errors.New("warehouse unavailable"))
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/apps/detail?location=DB.S.DEMO_APP", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /api/apps/detail", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "jsmith", attrs["app.viewer"].AsString())
	assert.Equal(t, "team", attrs["app.scope"].AsString())
	assert.Equal(t, "DB.S.DEMO_APP", attrs["app.location"].AsString())
	assert.Equal(t, int64(http.StatusInternalServerError), attrs["http.status_code"].AsInt64())
	require.Len(t, span.Events(), 1)
}
