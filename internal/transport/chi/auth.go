package chi

import (
	"context"
	"net/http"
	"strings"

	"github.com/pedalfleet/searchd/internal/domain"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type scopeContextKey struct{}

// Identity headers set by the platform gateway after it authenticates the
// end user. The API key authenticates the gateway itself.
const (
	headerAdmin      = "X-Auth-Admin"
	headerCompanyIDs = "X-Auth-Company-Ids"
)

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled, pass everything through
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					"unauthorized", "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ScopeMiddleware derives the caller's tenant scope from the gateway's
// identity headers and stores it in the request context. The scope is
// rebuilt per request and never persisted.
func ScopeMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := scopeFromHeaders(r)
			ctx := context.WithValue(r.Context(), scopeContextKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func scopeFromHeaders(r *http.Request) domain.TenantScope {
	if strings.EqualFold(r.Header.Get(headerAdmin), "true") {
		return domain.UnrestrictedScope()
	}
	return domain.RestrictedScope(splitParam(r.Header.Get(headerCompanyIDs))...)
}

// ScopeFromContext returns the request's tenant scope. Absent a
// middleware-set scope it returns the empty restricted scope, which the
// services reject.
func ScopeFromContext(ctx context.Context) domain.TenantScope {
	if scope, ok := ctx.Value(scopeContextKey{}).(domain.TenantScope); ok {
		return scope
	}
	return domain.RestrictedScope()
}
