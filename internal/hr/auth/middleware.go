package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type contextKey string

const principalContextKey contextKey = "principal"

// ProfileEnsurer is called on first sight of an authenticated
// principal so a default user profile exists before any handler runs.
type ProfileEnsurer interface {
	Ensure(ctx context.Context, p Principal) error
}

// HTTPMiddleware validates bearer tokens on mutating requests and puts
// the principal into the request context. Reads stay open: the pages
// behind this API show directory data to any signed-in session, and
// the session check happens upstream.
func HTTPMiddleware(next http.Handler, jwtSecret string, ensurer ProfileEnsurer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		principal, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, *principal)
		if ensurer != nil {
			if err := ensurer.Ensure(ctx, *principal); err != nil {
				http.Error(w, "failed to resolve profile", http.StatusInternalServerError)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return "", fmt.Errorf("invalid authorization format")
	}

	return tokenString, nil
}

func isProtectedRequest(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}
