package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnsurer struct {
	seen []Principal
	err  error
}

func (r *recordingEnsurer) Ensure(_ context.Context, p Principal) error {
	r.seen = append(r.seen, p)
	return r.err
}

func TestHTTPMiddleware(t *testing.T) {
	const (
		validSecret   = "test-secret"
		invalidSecret = "wrong-secret"
	)

	// Helper to generate test tokens
	makeToken := func(secret string, expiresAt time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "user-1",
			"email": "ada@example.com",
			"name":  "Ada Lovelace",
			"role":  "hr",
			"exp":   expiresAt.Unix(),
		})
		tokenString, _ := token.SignedString([]byte(secret))
		return tokenString
	}

	tests := []struct {
		name       string
		method     string
		authHeader string
		wantStatus int
	}{
		{
			name:       "read requests pass without a token",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
		{
			name:       "mutating request with valid token",
			method:     http.MethodPost,
			authHeader: "Bearer " + makeToken(validSecret, time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
		},
		{
			name:       "mutating request without header",
			method:     http.MethodPost,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "mutating request with wrong signature",
			method:     http.MethodDelete,
			authHeader: "Bearer " + makeToken(invalidSecret, time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "mutating request with expired token",
			method:     http.MethodPatch,
			authHeader: "Bearer " + makeToken(validSecret, time.Now().Add(-time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed authorization header",
			method:     http.MethodPost,
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := HTTPMiddleware(next, validSecret, nil)

			req := httptest.NewRequest(tt.method, "/v1/announcements", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHTTPMiddlewarePrincipalInContext(t *testing.T) {
	const secret = "test-secret"
	token, err := GenerateToken(Principal{
		ID: "user-1", Email: "ada@example.com", DisplayName: "Ada Lovelace", Role: "hr",
	}, secret)
	require.NoError(t, err)

	var got Principal
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = PrincipalFromContext(r.Context())
	})

	ensurer := &recordingEnsurer{}
	handler := HTTPMiddleware(next, secret, ensurer)

	req := httptest.NewRequest(http.MethodPost, "/v1/incidents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found, "principal must be available to handlers")
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "hr", got.Role)

	require.Len(t, ensurer.seen, 1, "profile ensurer runs on every authenticated mutation")
	assert.Equal(t, "user-1", ensurer.seen[0].ID)
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(Principal{ID: "u-9", Email: "x@example.com"}, "s3cret")
	require.NoError(t, err)

	p, err := validateToken(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u-9", p.ID)

	_, err = validateToken(token, "other")
	assert.Error(t, err)
}
