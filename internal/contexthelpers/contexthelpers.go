// Package contexthelpers carries request-scoped values through context.Context.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const CoachIDContextKey = contextKey("coachID")

// CoachID returns the coach identifier set by the session middleware, or 0 when
// the request carries no coach scope.
func CoachID(ctx context.Context) int64 {
	coachID, ok := ctx.Value(CoachIDContextKey).(int64)
	if !ok {
		return 0
	}
	return coachID
}

// WithCoachID returns a context carrying the coach identifier.
func WithCoachID(ctx context.Context, coachID int64) context.Context {
	return context.WithValue(ctx, CoachIDContextKey, coachID)
}

// SetCoachID attaches the coach identifier to the request context.
func SetCoachID(r *http.Request, coachID int64) *http.Request {
	return r.WithContext(WithCoachID(r.Context(), coachID))
}
