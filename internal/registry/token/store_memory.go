package token

import (
	"context"
	"sync"

	"lexsync/internal/registry/models"
	"lexsync/pkg/sentinel"
)

// InMemoryStore holds the current token in process memory. Used in tests and
// when no persistent store is configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	tok   models.AccessToken
	valid bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Current(_ context.Context) (models.AccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return models.AccessToken{}, sentinel.ErrNotFound
	}
	return s.tok, nil
}

func (s *InMemoryStore) Replace(_ context.Context, tok models.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok
	s.valid = true
	return nil
}
