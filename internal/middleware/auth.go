package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/audioryx/backend/internal/auth"
)

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// IdentityFrom returns the claims the guard attached to the request context.
// Handlers behind RequireAuth must obtain the owner id this way and nowhere
// else.
func IdentityFrom(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(identityKey).(auth.Claims)
	return claims, ok
}

// WithIdentity attaches resolved claims to a context. Exported for tests that
// exercise handlers without the full middleware chain.
func WithIdentity(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

// RequireAuth is the single choke point in front of every owned-resource
// route: it extracts the bearer token, verifies it, and attaches the resolved
// identity to the request context. Any failure short-circuits with 401 before
// a handler runs.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tokens.Verify(bearerToken(r))
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
