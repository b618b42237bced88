// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// RunIDKey is the context key for the run ID of a single command invocation.
type RunIDKey struct{}

// WithRunID returns a context with the run ID embedded.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey{}, runID)
}

// RunIDFromContext returns the run ID from context, or empty string if not set.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RunIDKey{}).(string); ok {
		return v
	}
	return ""
}

// ClientKey is the context key for the client a workflow is acting on.
type ClientKey struct{}

// WithClient returns a context with the client name embedded.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, ClientKey{}, client)
}

// ClientFromContext returns the client name from context, or empty string if not set.
func ClientFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ClientKey{}).(string); ok {
		return v
	}
	return ""
}
