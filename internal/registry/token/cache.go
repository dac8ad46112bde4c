package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	registrymetrics "lexsync/internal/registry/metrics"
	"lexsync/internal/registry/models"
	"lexsync/pkg/requestcontext"
	"lexsync/pkg/sentinel"
)

// DefaultMargin is how long a token must remain valid for GetValidToken to
// hand it out without refreshing.
const DefaultMargin = time.Minute

const refreshKey = "registry-token"

// Refresher obtains a brand-new credential from upstream.
type Refresher interface {
	Refresh(ctx context.Context) (models.AccessToken, error)
}

// Cache owns the upstream credential lifecycle: validity window, single-flight
// refresh and persistence. Any number of callers may use it concurrently; an
// in-flight refresh is shared by all of them.
type Cache struct {
	store     Store
	refresher Refresher
	margin    time.Duration
	group     singleflight.Group
	logger    *slog.Logger
	metrics   *registrymetrics.Metrics
}

// CacheOption configures a Cache instance.
type CacheOption func(*Cache)

// WithMargin overrides the validity safety margin.
func WithMargin(margin time.Duration) CacheOption {
	return func(c *Cache) {
		if margin > 0 {
			c.margin = margin
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *registrymetrics.Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

func NewCache(store Store, refresher Refresher, opts ...CacheOption) *Cache {
	c := &Cache{
		store:     store,
		refresher: refresher,
		margin:    DefaultMargin,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// GetValidToken returns a credential guaranteed valid for at least the safety
// margin from now, refreshing first if the stored one is missing or about to
// expire.
func (c *Cache) GetValidToken(ctx context.Context) (string, error) {
	tok, err := c.store.Current(ctx)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return "", fmt.Errorf("load current token: %w", err)
		}
	} else if tok.ValidFor(requestcontext.Now(ctx), c.margin) {
		return tok.Value, nil
	}
	return c.refresh(ctx)
}

// ForceRefresh unconditionally obtains a new credential and persists it,
// replacing any prior one. Concurrent forced refreshes collapse into one
// upstream call.
func (c *Cache) ForceRefresh(ctx context.Context) (string, error) {
	return c.refresh(ctx)
}

// refresh is single-flight: the first caller performs the upstream exchange,
// later callers await the same result. The slot clears once the call
// completes, success or failure, so a later expiry can start a new refresh.
func (c *Cache) refresh(ctx context.Context) (string, error) {
	v, err, _ := c.group.Do(refreshKey, func() (any, error) {
		tok, err := c.refresher.Refresh(ctx)
		if err != nil {
			if c.metrics != nil {
				c.metrics.TokenRefreshFailures.Inc()
			}
			return nil, err
		}
		if err := c.store.Replace(ctx, tok); err != nil {
			return nil, fmt.Errorf("persist refreshed token: %w", err)
		}
		if c.metrics != nil {
			c.metrics.TokenRefreshes.Inc()
		}
		if c.logger != nil {
			c.logger.InfoContext(ctx, "registry token refreshed",
				"expires_at", tok.ExpiresAt,
			)
		}
		return tok.Value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
