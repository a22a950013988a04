package httpx

import (
	"context"
	"net/http"

	"locallibrary/internal/access"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "requestID"
	visitsKey    contextKey = "visits"
)

// PrincipalFrom returns the authenticated caller, or access.Anonymous.
func PrincipalFrom(r *http.Request) access.Principal {
	if v, ok := r.Context().Value(principalKey).(access.Principal); ok {
		return v
	}
	return access.Anonymous
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	return PrincipalFrom(r).UserID
}

// ContextWithPrincipal returns a new context carrying the caller.
func ContextWithPrincipal(ctx context.Context, p access.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// VisitsFrom returns how many times this client had visited before the
// current request. Zero when VisitsMiddleware is not installed.
func VisitsFrom(r *http.Request) int {
	if v, ok := r.Context().Value(visitsKey).(int); ok {
		return v
	}
	return 0
}

func ContextWithVisits(ctx context.Context, visits int) context.Context {
	return context.WithValue(ctx, visitsKey, visits)
}
