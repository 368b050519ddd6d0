package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"venuecatalog/backend/internal/models"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	apiKeyKey    contextKey = "api_key_ok"
)

const APIKeyHeader = "X-API-Key"

// SessionVerifier resolves a session token to its principal.
type SessionVerifier interface {
	Enabled() bool
	VerifyPrincipal(ctx context.Context, token string) (models.Principal, error)
}

func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	val, ok := ctx.Value(principalKey).(models.Principal)
	return val, ok
}

func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// APIKeyFromContext reports whether the request passed the API key gate.
func APIKeyFromContext(ctx context.Context) bool {
	ok, _ := ctx.Value(apiKeyKey).(bool)
	return ok
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// APIKeyMiddleware rejects requests whose X-API-Key header does not match key.
func APIKeyMiddleware(key string) func(http.Handler) http.Handler {
	expected := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(APIKeyHeader))
			if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
				writeDetail(w, http.StatusUnauthorized, "Invalid API Key")
				return
			}
			ctx := context.WithValue(r.Context(), apiKeyKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attaches the principal of a valid bearer token to the request
// context. Requests without a usable token pass through unchanged.
func OptionalSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil || !verifier.Enabled() {
				next.ServeHTTP(w, r)
				return
			}
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			principal, err := verifier.VerifyPrincipal(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
