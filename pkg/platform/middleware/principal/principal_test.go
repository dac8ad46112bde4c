package principal

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexsync/pkg/requestcontext"
)

const signingKey = "test-signing-key"

func mintToken(t *testing.T, claims Claims, key string) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func Test_Parse_ValidToken(t *testing.T) {
	verifier := NewVerifier(signingKey)
	token := mintToken(t, Claims{
		TenantID:     "805000082",
		TenantName:   "ACME SAS",
		Role:         "client",
		Capabilities: []string{"cases:read"},
	}, signingKey)

	claims, err := verifier.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "805000082", claims.TenantID)
	assert.Equal(t, "ACME SAS", claims.TenantName)
	assert.Equal(t, "client", claims.Role)
}

func Test_Parse_WrongKey(t *testing.T) {
	verifier := NewVerifier(signingKey)
	token := mintToken(t, Claims{TenantID: "1"}, "some-other-key")

	_, err := verifier.Parse(token)
	require.ErrorContains(t, err, "invalid token")
}

func Test_Parse_ExpiredToken(t *testing.T) {
	verifier := NewVerifier(signingKey)
	token := mintToken(t, Claims{
		TenantID: "1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, signingKey)

	_, err := verifier.Parse(token)
	require.ErrorContains(t, err, "token expired")
}

func Test_RequireAuth(t *testing.T) {
	verifier := NewVerifier(signingKey)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got requestcontext.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.Caller(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(verifier, logger)(next)

	t.Run("injects the principal from valid tokens", func(t *testing.T) {
		token := mintToken(t, Claims{TenantID: "805000082", TenantName: "ACME", Role: "client"}, signingKey)
		req := httptest.NewRequest(http.MethodGet, "/cases/mine", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "805000082", got.TenantID)
		assert.Equal(t, "client", got.Role)
	})

	t.Run("rejects requests without a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cases/mine", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cases/mine", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func Test_RequireAdmin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(logger)(next)

	t.Run("admits admin and system roles", func(t *testing.T) {
		for _, role := range []string{requestcontext.RoleAdmin, requestcontext.RoleSystem} {
			req := httptest.NewRequest(http.MethodPost, "/registry/sync/55", nil)
			req = req.WithContext(requestcontext.WithCaller(req.Context(), requestcontext.Principal{Role: role}))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("refuses client callers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/registry/sync/55", nil)
		req = req.WithContext(requestcontext.WithCaller(req.Context(), requestcontext.Principal{Role: requestcontext.RoleClient}))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
