package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lexsync/internal/registry/models"
	"lexsync/pkg/sentinel"
)

const redisTokenKey = "registry:token"

// RedisStore keeps the current token in a single Redis key whose TTL matches
// the token expiry, so stale credentials evict themselves.
type RedisStore struct {
	client *redis.Client
	clock  func() time.Time
}

// RedisStoreOption configures a RedisStore instance.
type RedisStoreOption func(*RedisStore)

// WithRedisClock sets the clock function for testability.
func WithRedisClock(clock func() time.Time) RedisStoreOption {
	return func(s *RedisStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type redisToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *RedisStore) Current(ctx context.Context) (models.AccessToken, error) {
	raw, err := s.client.Get(ctx, redisTokenKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.AccessToken{}, sentinel.ErrNotFound
		}
		return models.AccessToken{}, fmt.Errorf("load current token: %w", err)
	}
	var rt redisToken
	if err := json.Unmarshal(raw, &rt); err != nil {
		return models.AccessToken{}, fmt.Errorf("decode stored token: %w", err)
	}
	return models.AccessToken{Value: rt.Value, ExpiresAt: rt.ExpiresAt}, nil
}

func (s *RedisStore) Replace(ctx context.Context, tok models.AccessToken) error {
	raw, err := json.Marshal(redisToken{Value: tok.Value, ExpiresAt: tok.ExpiresAt})
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	ttl := tok.ExpiresAt.Sub(s.clock())
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, redisTokenKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}
