package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestScopedValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, ViewerFromContext(ctx))

	ctx = WithRequestID(ctx, " req-1 ")
	ctx = WithViewer(ctx, "jsmith")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "jsmith", ViewerFromContext(ctx))

	assert.Equal(t, ctx, WithViewer(ctx, "  "))

	assert.Empty(t, ScopeFromContext(ctx))
	ctx = WithScope(ctx, "all")
	assert.Equal(t, "all", ScopeFromContext(ctx))
}
