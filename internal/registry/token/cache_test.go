package token

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lexsync/internal/registry/models"
	"lexsync/pkg/requestcontext"
)

// countingRefresher hands out sequential token values and records how many
// upstream exchanges happened.
type countingRefresher struct {
	mu       sync.Mutex
	calls    atomic.Int64
	err      error
	lifetime time.Duration
	clock    func() time.Time
	block    chan struct{}
}

func (r *countingRefresher) Refresh(_ context.Context) (models.AccessToken, error) {
	if r.block != nil {
		<-r.block
	}
	n := r.calls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return models.AccessToken{}, r.err
	}
	return models.AccessToken{
		Value:     "token-" + string(rune('a'+n-1)),
		ExpiresAt: r.clock().Add(r.lifetime),
	}, nil
}

type TokenCacheSuite struct {
	suite.Suite
	store     *InMemoryStore
	refresher *countingRefresher
	cache     *Cache
	now       time.Time
	ctx       context.Context
}

func (s *TokenCacheSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore()
	s.refresher = &countingRefresher{
		lifetime: 24 * time.Hour,
		clock:    func() time.Time { return s.now },
	}
	s.cache = NewCache(s.store, s.refresher)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func TestTokenCacheSuite(t *testing.T) {
	suite.Run(t, new(TokenCacheSuite))
}

func (s *TokenCacheSuite) TestGetValidToken() {
	s.Run("refreshes when store is empty", func() {
		value, err := s.cache.GetValidToken(s.ctx)
		s.Require().NoError(err)
		s.Equal("token-a", value)
		s.Equal(int64(1), s.refresher.calls.Load())
	})

	s.Run("serves the stored token while it stays valid", func() {
		value, err := s.cache.GetValidToken(s.ctx)
		s.Require().NoError(err)
		s.Equal("token-a", value)
		s.Equal(int64(1), s.refresher.calls.Load(), "no second upstream exchange")
	})

	s.Run("persists the refreshed token", func() {
		stored, err := s.store.Current(s.ctx)
		s.Require().NoError(err)
		s.Equal("token-a", stored.Value)
		s.Equal(s.now.Add(24*time.Hour), stored.ExpiresAt)
	})
}

func (s *TokenCacheSuite) TestMarginTriggersRefresh() {
	_, err := s.cache.GetValidToken(s.ctx)
	s.Require().NoError(err)

	s.Run("still valid just inside the margin", func() {
		later := requestcontext.WithTime(context.Background(), s.now.Add(24*time.Hour-2*time.Minute))
		value, err := s.cache.GetValidToken(later)
		s.Require().NoError(err)
		s.Equal("token-a", value)
		s.Equal(int64(1), s.refresher.calls.Load())
	})

	s.Run("refreshes once expiry falls inside the margin", func() {
		later := requestcontext.WithTime(context.Background(), s.now.Add(24*time.Hour-30*time.Second))
		s.now = s.now.Add(24 * time.Hour)
		value, err := s.cache.GetValidToken(later)
		s.Require().NoError(err)
		s.Equal("token-b", value)
		s.Equal(int64(2), s.refresher.calls.Load())
	})
}

func (s *TokenCacheSuite) TestForceRefreshReplacesToken() {
	_, err := s.cache.GetValidToken(s.ctx)
	s.Require().NoError(err)

	value, err := s.cache.ForceRefresh(s.ctx)
	s.Require().NoError(err)
	s.Equal("token-b", value)

	stored, err := s.store.Current(s.ctx)
	s.Require().NoError(err)
	s.Equal("token-b", stored.Value, "old token fully replaced")
}

func (s *TokenCacheSuite) TestSingleFlightRefresh() {
	s.refresher.block = make(chan struct{})

	const callers = 20
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.cache.GetValidToken(s.ctx)
		}()
	}

	// Give every goroutine time to reach the single-flight gate, then let the
	// one in-flight refresh finish.
	time.Sleep(50 * time.Millisecond)
	close(s.refresher.block)
	wg.Wait()

	for i := 0; i < callers; i++ {
		s.Require().NoError(errs[i])
		s.Equal("token-a", results[i])
	}
	s.Equal(int64(1), s.refresher.calls.Load(), "concurrent callers share one refresh")
}

func (s *TokenCacheSuite) TestRefreshFailure() {
	refreshErr := errors.New("upstream down")
	s.refresher.err = refreshErr

	s.Run("propagates the error and stores nothing", func() {
		_, err := s.cache.GetValidToken(s.ctx)
		s.Require().ErrorIs(err, refreshErr)

		_, err = s.store.Current(s.ctx)
		s.Require().Error(err)
	})

	s.Run("a later attempt starts a fresh refresh", func() {
		s.refresher.mu.Lock()
		s.refresher.err = nil
		s.refresher.mu.Unlock()

		value, err := s.cache.GetValidToken(s.ctx)
		s.Require().NoError(err)
		s.Equal("token-b", value)
	})
}
