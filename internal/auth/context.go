package auth

import (
	"context"
	"strings"
)

type authContextKey struct{}

// ContextWithAuth attaches the resolved caller context to the request
// context.
func ContextWithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, &ac)
}

// AuthFromContext extracts the caller context if the identity middleware
// resolved one.
func AuthFromContext(ctx context.Context) (AuthContext, bool) {
	if ctx == nil {
		return AuthContext{}, false
	}
	v, ok := ctx.Value(authContextKey{}).(*AuthContext)
	if !ok || v == nil {
		return AuthContext{}, false
	}
	return *v, true
}

// UserIDFromContext returns the authenticated caller identity, if any.
// Used by the audit log to attribute events.
func UserIDFromContext(ctx context.Context) (string, bool) {
	ac, ok := AuthFromContext(ctx)
	if !ok || strings.TrimSpace(ac.User) == "" {
		return "", false
	}
	return ac.User, true
}
