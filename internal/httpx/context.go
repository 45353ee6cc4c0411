package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	adminSubjectKey contextKey = "adminSubject"
	requestIDKey    contextKey = "requestID"
)

// AdminSubjectFrom retrieves the authenticated admin subject from the
// request context; empty when the request is unauthenticated.
func AdminSubjectFrom(r *http.Request) string {
	if v, ok := r.Context().Value(adminSubjectKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithAdminSubject returns a new context carrying the admin subject.
func ContextWithAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminSubjectKey, subject)
}

// RequestIDFrom retrieves the request id from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
