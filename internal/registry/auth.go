package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lexsync/internal/registry/models"
)

// defaultTokenLifetime applies when upstream omits expiresInSeconds.
const defaultTokenLifetime = 24 * time.Hour

// APIKeyAuthenticator exchanges the static API key for a bearer credential
// via POST /apikeys/CreateApiKey. It implements token.Refresher.
type APIKeyAuthenticator struct {
	baseURL string
	apiKey  string
	http    *http.Client
	clock   func() time.Time
}

// AuthenticatorOption configures an APIKeyAuthenticator.
type AuthenticatorOption func(*APIKeyAuthenticator)

// WithAuthenticatorClock sets the clock function for testability.
func WithAuthenticatorClock(clock func() time.Time) AuthenticatorOption {
	return func(a *APIKeyAuthenticator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

func NewAPIKeyAuthenticator(baseURL, apiKey string, httpClient *http.Client, opts ...AuthenticatorOption) *APIKeyAuthenticator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	a := &APIKeyAuthenticator{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

type createAPIKeyRequest struct {
	Token string `json:"token"`
}

type createAPIKeyResponse struct {
	AuthToken        string `json:"authToken"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// Refresh obtains a new credential. No partial token is ever returned: any
// failure leaves the caller with the error and nothing stored.
func (a *APIKeyAuthenticator) Refresh(ctx context.Context) (models.AccessToken, error) {
	if a.apiKey == "" {
		return models.AccessToken{}, ErrNotConfigured
	}

	body, err := json.Marshal(createAPIKeyRequest{Token: a.apiKey})
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("encode key exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/apikeys/CreateApiKey", bytes.NewReader(body))
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("build key exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("key exchange: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("read key exchange response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.AccessToken{}, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed createAPIKeyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return models.AccessToken{}, fmt.Errorf("decode key exchange response: %w", err)
	}
	if parsed.AuthToken == "" {
		return models.AccessToken{}, fmt.Errorf("key exchange response missing authToken")
	}

	lifetime := defaultTokenLifetime
	if parsed.ExpiresInSeconds > 0 {
		lifetime = time.Duration(parsed.ExpiresInSeconds) * time.Second
	}

	return models.AccessToken{
		Value:     parsed.AuthToken,
		ExpiresAt: a.clock().Add(lifetime),
	}, nil
}
