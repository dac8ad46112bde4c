package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"lexsync/internal/cases/models"
	"lexsync/pkg/sentinel"
)

// InMemoryStore implements Store over a mutex-guarded map. Used in tests and
// when no database is configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	cases map[int64]models.CaseRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{cases: make(map[int64]models.CaseRecord)}
}

func (s *InMemoryStore) UpsertBatch(_ context.Context, records []models.CaseRecord) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var upserted, modified int
	for _, rec := range records {
		existing, ok := s.cases[rec.CaseID]
		switch {
		case !ok:
			upserted++
		case existing != rec:
			modified++
		}
		s.cases[rec.CaseID] = rec
	}
	return upserted, modified, nil
}

func (s *InMemoryStore) DeleteAbsent(_ context.Context, keep []int64) (int, error) {
	keepSet := make(map[int64]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int
	for id := range s.cases {
		if _, ok := keepSet[id]; !ok {
			delete(s.cases, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryStore) FindByPartyIdentifier(_ context.Context, value string) ([]models.CaseRecord, error) {
	needle := strings.ToLower(strings.TrimSpace(value))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.CaseRecord
	for _, rec := range s.cases {
		if strings.Contains(strings.ToLower(rec.DefendantID), needle) ||
			strings.Contains(strings.ToLower(rec.PlaintiffID), needle) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CaseID < out[j].CaseID })
	return out, nil
}

func (s *InMemoryStore) FindByCaseID(_ context.Context, caseID int64) (models.CaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cases[caseID]
	if !ok {
		return models.CaseRecord{}, sentinel.ErrNotFound
	}
	return rec, nil
}

func (s *InMemoryStore) CountAll(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cases), nil
}
