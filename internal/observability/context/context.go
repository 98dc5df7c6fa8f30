// Package context carries request-scoped correlation values for logging and
// tracing.
package context

import (
	"context"
	"strings"
)

type requestIDKey struct{}
type viewerKey struct{}
type scopeKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

// WithViewer records the authenticated viewer login.
func WithViewer(ctx context.Context, login string) context.Context {
	login = strings.TrimSpace(login)
	if login == "" {
		return ctx
	}
	return context.WithValue(ctx, viewerKey{}, login)
}

func ViewerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(viewerKey{}).(string)
	return value
}

// WithScope records the inventory scope ("team" or "all") a request browses.
func WithScope(ctx context.Context, scope string) context.Context {
	if scope == "" {
		return ctx
	}
	return context.WithValue(ctx, scopeKey{}, scope)
}

func ScopeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(scopeKey{}).(string)
	return value
}
