package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newAuthenticator(t *testing.T, handler http.HandlerFunc) *APIKeyAuthenticator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAPIKeyAuthenticator(server.URL, "test-api-key", server.Client(),
		WithAuthenticatorClock(func() time.Time { return authNow }))
}

func Test_Refresh_ExchangesKeyForToken(t *testing.T) {
	auth := newAuthenticator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/apikeys/CreateApiKey", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "test-api-key", body["token"])

		_, _ = w.Write([]byte(`{"authToken":"fresh-token","expiresInSeconds":3600}`))
	})

	tok, err := auth.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok.Value)
	assert.Equal(t, authNow.Add(time.Hour), tok.ExpiresAt)
}

func Test_Refresh_DefaultsLifetimeToOneDay(t *testing.T) {
	auth := newAuthenticator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"authToken":"fresh-token"}`))
	})

	tok, err := auth.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, authNow.Add(24*time.Hour), tok.ExpiresAt)
}

func Test_Refresh_MissingAuthToken(t *testing.T) {
	auth := newAuthenticator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"expiresInSeconds":3600}`))
	})

	_, err := auth.Refresh(context.Background())
	require.ErrorContains(t, err, "missing authToken")
}

func Test_Refresh_UpstreamRejection(t *testing.T) {
	auth := newAuthenticator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bad key"))
	})

	_, err := auth.Refresh(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "bad key", statusErr.Body)
}

func Test_Refresh_NotConfigured(t *testing.T) {
	auth := NewAPIKeyAuthenticator("http://unused", "", nil)
	_, err := auth.Refresh(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}
