package core

import "context"

// Context keys for run options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	runIDKey          contextKey = "runID"
)

// withSuppressHeader marks the context so report headers are not printed
func withSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && suppress
}

// withRunID attaches the report-store run id to the context
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the run id from context, if any
func getRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(runIDKey).(string)
	return runID, ok && runID != ""
}
