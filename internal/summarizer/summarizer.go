// Package summarizer drafts app descriptions with a remote model. Failures
// are reported in-band as strings starting with ErrorPrefix.
package summarizer

import (
	"context"
	"strings"
)

const ErrorPrefix = "Error:"

// Summarizer returns a description for the app at location, or a string
// prefixed with ErrorPrefix when no description could be produced.
type Summarizer interface {
	Summarize(ctx context.Context, location string) string
}

// IsSentinel reports whether a Summarize result signals failure.
func IsSentinel(result string) bool {
	return strings.HasPrefix(strings.TrimSpace(result), ErrorPrefix)
}

// Sentinel formats msg as a failure result.
func Sentinel(msg string) string {
	return ErrorPrefix + " " + strings.TrimSpace(msg)
}

type disabled struct{}

// NewDisabled returns a Summarizer that always reports it is not configured.
func NewDisabled() Summarizer {
	return disabled{}
}

func (disabled) Summarize(ctx context.Context, location string) string {
	return Sentinel("summarization is not configured")
}
