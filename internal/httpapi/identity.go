package httpapi

import (
	"net/http"

	"vantage.org/internal/audit"
	"vantage.org/internal/auth"
)

const (
	userHeader   = "X-Auth-User"
	groupsHeader = "X-Auth-Groups"
)

var publicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/v1/info",
	"/",
}

// withIdentity resolves the proxy-injected identity headers into an
// AuthContext and attaches it to the request context. Protected paths
// reject requests that arrive without a user identity.
func (a *API) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ac, ok := auth.ResolveContext(r.Header.Get(userHeader), r.Header.Get(groupsHeader))
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "Missing authentication headers")
			return
		}

		ctx := auth.ContextWithAuth(r.Context(), ac)
		ctx = audit.WithRequestID(ctx, RequestIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
