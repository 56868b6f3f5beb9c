package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	viper.Set("jwt.secret_key", testSecret)
	t.Cleanup(func() { viper.Set("jwt.secret_key", "") })

	var captured *Identity
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	do := func(authHeader string) *httptest.ResponseRecorder {
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("valid token populates the identity", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":    "user-1",
			"user_name":  "Ana",
			"company_id": "acme",
			"exp":        time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		w := do("Bearer " + token)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "user-1", captured.UserID)
		assert.Equal(t, "Ana", captured.UserName)
		assert.Equal(t, "acme", captured.TenantID)
	})

	t.Run("missing header", func(t *testing.T) {
		w := do("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, captured)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := do("Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":    "user-1",
			"company_id": "acme",
			"exp":        time.Now().Add(time.Hour).Unix(),
		}, "other-secret")

		w := do("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":    "user-1",
			"company_id": "acme",
			"exp":        time.Now().Add(-time.Hour).Unix(),
		}, testSecret)

		w := do("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token without a company is forbidden", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":   "user-1",
			"user_name": "Ana",
			"exp":       time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		w := do("Bearer " + token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
}
