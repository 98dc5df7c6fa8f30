package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/appinventory/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGinMiddlewareLogsRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeGlobal(t)

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{
		ErrorClassifier: func(error) (string, string) { return "rate_limited", "rate_limited" },
	}))
	r.POST("/api/apps/summary", func(c *gin.Context) {
		ctx := obscontext.WithViewer(c.Request.Context(), "jsmith")
		c.Request = c.Request.WithContext(obscontext.WithScope(ctx, "all"))
		_ = c.Error(errors.New("limited"))
		c.Status(http.StatusTooManyRequests)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/apps/summary?location=DB.SCHEMA.DEMO_APP", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "jsmith", fields["viewer"])
	assert.Equal(t, "all", fields["scope"])
	assert.Equal(t, "DB.SCHEMA.DEMO_APP", fields["location"])
	assert.Equal(t, "/api/apps/summary", fields["route"])
	assert.Equal(t, "rate_limited", fields["error_type"])
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeGlobal(t)

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
}

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, requestLevel("/api/apps", http.StatusOK))
	assert.Equal(t, zapcore.WarnLevel, requestLevel("/api/apps/summary", http.StatusBadGateway))
	assert.Equal(t, zapcore.ErrorLevel, requestLevel("/api/apps", http.StatusInternalServerError))
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/metrics", http.StatusOK))
}
