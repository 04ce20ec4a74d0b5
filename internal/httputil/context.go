package httputil

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated user id on the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(ContextWithUserID(r.Context(), userID))
}

// ContextWithUserID is WithUserID for code that only has a context
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID retrieves the user id, or "" when the request is unauthenticated
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
