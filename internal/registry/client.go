package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lexsync/internal/platform/config"
	registrymetrics "lexsync/internal/registry/metrics"
)

// LicenseHeader carries the fixed upstream license identifier on every
// authenticated call.
const LicenseHeader = "X-License-Id"

// TokenSource hands out a valid bearer credential and can force a refresh.
// Implemented by token.Cache.
type TokenSource interface {
	GetValidToken(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) (string, error)
}

// Client performs authenticated calls against the upstream registry. On a 401
// it forces exactly one token refresh and retries the call exactly once; a
// second rejection surfaces as ErrAuthRejected. Every other failure
// propagates unchanged.
type Client struct {
	baseURL   string
	apiKey    string
	licenseID string
	http      *http.Client
	tokens    TokenSource
	logger    *slog.Logger
	metrics   *registrymetrics.Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithClientMetrics sets the metrics sink.
func WithClientMetrics(m *registrymetrics.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient overrides the HTTP client (tests use httptest clients).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

func NewClient(cfg config.Registry, tokens TokenSource, opts ...ClientOption) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		licenseID: cfg.LicenseID,
		http:      &http.Client{Timeout: timeout},
		tokens:    tokens,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get issues an authenticated GET and returns the response body. The body of
// non-2xx responses is preserved inside StatusError; nothing is swallowed
// beyond the documented single 401 retry.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	tok, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(ctx, tok, path, query)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "registry rejected token, forcing refresh", "path", path)
		}
		if c.metrics != nil {
			c.metrics.AuthRejectionRecovery.Inc()
		}
		tok, err = c.tokens.ForceRefresh(ctx)
		if err != nil {
			return nil, err
		}
		status, body, err = c.do(ctx, tok, path, query)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, ErrAuthRejected
		}
	}
	if status < 200 || status > 299 {
		return nil, &StatusError{StatusCode: status, Body: string(body)}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, tok, path string, query url.Values) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set(LicenseHeader, c.licenseID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("registry request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read registry response %s: %w", path, err)
	}
	if c.metrics != nil {
		c.metrics.UpstreamRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	}
	return resp.StatusCode, body, nil
}
