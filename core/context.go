package core

import "context"

// Context keys for scan options
type contextKey string

const (
	runIDKey            contextKey = "runID"
	suppressProgressKey contextKey = "suppressProgress"
)

// withRunID stores the history run ID in the context
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// runIDFromContext returns the history run ID, or "" when untracked
func runIDFromContext(ctx context.Context) string {
	runID, _ := ctx.Value(runIDKey).(string)
	return runID
}

// WithSuppressProgress disables progress output for scans run with ctx
func WithSuppressProgress(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressProgressKey, true)
}

// shouldSuppressProgress returns whether progress output is disabled
func shouldSuppressProgress(ctx context.Context) bool {
	val := ctx.Value(suppressProgressKey)
	if val == nil {
		return false // default: show progress
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
