package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"lexsync/internal/cases/models"
	"lexsync/pkg/sentinel"
)

type CaseStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *CaseStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestCaseStoreSuite(t *testing.T) {
	suite.Run(t, new(CaseStoreSuite))
}

func (s *CaseStoreSuite) newRecord(id int64, plaintiffID string) models.CaseRecord {
	return models.CaseRecord{
		CaseID:        id,
		FilingNumber:  "11001-2024",
		CaseClass:     "EJECUTIVO",
		PlaintiffName: "ACME",
		PlaintiffID:   plaintiffID,
		DefendantName: "JUAN PEREZ",
		DefendantID:   "79123456",
	}
}

func (s *CaseStoreSuite) TestUpsertBatch() {
	s.Run("counts fresh records as upserted", func() {
		upserted, modified, err := s.store.UpsertBatch(s.ctx, []models.CaseRecord{
			s.newRecord(1, "805000082"),
			s.newRecord(2, "805000082"),
		})
		s.Require().NoError(err)
		s.Equal(2, upserted)
		s.Equal(0, modified)
	})

	s.Run("identical records count as neither", func() {
		upserted, modified, err := s.store.UpsertBatch(s.ctx, []models.CaseRecord{
			s.newRecord(1, "805000082"),
		})
		s.Require().NoError(err)
		s.Equal(0, upserted)
		s.Equal(0, modified)
	})

	s.Run("changed records count as modified", func() {
		changed := s.newRecord(1, "805000082")
		changed.ProcedureStage = "SENTENCIA"
		upserted, modified, err := s.store.UpsertBatch(s.ctx, []models.CaseRecord{changed})
		s.Require().NoError(err)
		s.Equal(0, upserted)
		s.Equal(1, modified)

		got, err := s.store.FindByCaseID(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("SENTENCIA", got.ProcedureStage)
	})
}

func (s *CaseStoreSuite) TestDeleteAbsent() {
	_, _, err := s.store.UpsertBatch(s.ctx, []models.CaseRecord{
		s.newRecord(1, "805000082"),
		s.newRecord(2, "805000082"),
		s.newRecord(3, "805000082"),
	})
	s.Require().NoError(err)

	s.Run("removes everything not kept", func() {
		deleted, err := s.store.DeleteAbsent(s.ctx, []int64{1, 3})
		s.Require().NoError(err)
		s.Equal(1, deleted)

		_, err = s.store.FindByCaseID(s.ctx, 2)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("nil keep wipes the store", func() {
		deleted, err := s.store.DeleteAbsent(s.ctx, nil)
		s.Require().NoError(err)
		s.Equal(2, deleted)

		count, err := s.store.CountAll(s.ctx)
		s.Require().NoError(err)
		s.Zero(count)
	})
}

func (s *CaseStoreSuite) TestFindByPartyIdentifier() {
	recA := s.newRecord(10, "805000082-4")
	recB := s.newRecord(11, "905000082-4")
	recC := s.newRecord(12, "")
	recC.DefendantID = "805000082"
	_, _, err := s.store.UpsertBatch(s.ctx, []models.CaseRecord{recB, recC, recA})
	s.Require().NoError(err)

	s.Run("matches substrings on either party, ordered by case id", func() {
		got, err := s.store.FindByPartyIdentifier(s.ctx, "805000082")
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(int64(10), got[0].CaseID)
		s.Equal(int64(12), got[1].CaseID)
	})

	s.Run("does not match a different identifier prefix", func() {
		got, err := s.store.FindByPartyIdentifier(s.ctx, "705000082")
		s.Require().NoError(err)
		s.Empty(got)
	})
}

func (s *CaseStoreSuite) TestFindByCaseID() {
	_, _, err := s.store.UpsertBatch(s.ctx, []models.CaseRecord{s.newRecord(20, "1")})
	s.Require().NoError(err)

	got, err := s.store.FindByCaseID(s.ctx, 20)
	s.Require().NoError(err)
	s.Equal(int64(20), got.CaseID)

	_, err = s.store.FindByCaseID(s.ctx, 404)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
