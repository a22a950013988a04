package httpx

import (
	"net/http"
	"strings"

	"locallibrary/internal/access"
	"locallibrary/internal/platform/crypto"
)

// AuthMiddleware requires a valid bearer token and attaches its principal to
// the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				Unauthorized(w, r)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				Unauthorized(w, r)
				return
			}

			ctx := ContextWithPrincipal(r.Context(), access.Principal{
				UserID:       claims.Sub,
				Capabilities: claims.Caps,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects callers the authorizer does not grant capability.
// It must run after AuthMiddleware.
func RequireCapability(authz access.Authorizer, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r)
			if !authz.IsAuthenticated(r.Context(), p) {
				Unauthorized(w, r)
				return
			}
			if !authz.HasCapability(r.Context(), p, capability) {
				Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
