package logging

import "context"

type contextKey string

const (
	pairIDKey   contextKey = "pair_id"
	viewModeKey contextKey = "view_mode"
	reviewIDKey contextKey = "review_id"
)

// WithPairID adds the short hash of the compared document pair to the context.
func WithPairID(ctx context.Context, pairID string) context.Context {
	return context.WithValue(ctx, pairIDKey, pairID)
}

// WithViewMode adds the active view mode to the context.
func WithViewMode(ctx context.Context, mode string) context.Context {
	return context.WithValue(ctx, viewModeKey, mode)
}

// WithReviewID adds the id of the running review session to the context.
func WithReviewID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reviewIDKey, id)
}

// GetPairID retrieves the pair ID from the context.
// Returns empty string if not present.
func GetPairID(ctx context.Context) string {
	return stringValue(ctx, pairIDKey)
}

// GetViewMode retrieves the view mode from the context.
// Returns empty string if not present.
func GetViewMode(ctx context.Context) string {
	return stringValue(ctx, viewModeKey)
}

// GetReviewID retrieves the review session ID from the context.
// Returns empty string if not present.
func GetReviewID(ctx context.Context) string {
	return stringValue(ctx, reviewIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
