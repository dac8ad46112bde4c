package syncer

//go:generate mockgen -source=syncer.go -destination=mocks/syncer-mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lexsync/internal/cases/models"
	"lexsync/internal/cases/store"
	"lexsync/internal/cases/syncer/mocks"
	registrymodels "lexsync/internal/registry/models"
	"lexsync/pkg/audit"
)

const testReportID = int64(55)

func exportPair(caseID int64, plaintiffID string) []registrymodels.ExportRow {
	id := json.RawMessage(fmt.Sprintf("%d", caseID))
	return []registrymodels.ExportRow{
		{
			CaseID:          id,
			PartyRole:       "DEMANDANTE",
			PartyName:       "ACME",
			PartyIdentifier: plaintiffID,
			CaseClass:       "EJECUTIVO",
		},
		{
			CaseID:          id,
			PartyRole:       "DEMANDADO",
			PartyName:       "JUAN PEREZ",
			PartyIdentifier: "79123456",
		},
	}
}

func export(caseIDs ...int64) []registrymodels.ExportRow {
	var rows []registrymodels.ExportRow
	for _, id := range caseIDs {
		rows = append(rows, exportPair(id, "805000082")...)
	}
	return rows
}

type SyncEngineSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	fetcher *mocks.MockExportFetcher
	store   *store.InMemoryStore
	events  *audit.InMemoryStore
	engine  *Engine
	ctx     context.Context
}

func (s *SyncEngineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.fetcher = mocks.NewMockExportFetcher(s.ctrl)
	s.store = store.NewInMemoryStore()
	s.events = audit.NewInMemoryStore()
	s.engine = New(s.fetcher, s.store, WithAudit(audit.NewPublisher(s.events)))
	s.ctx = context.Background()
}

func TestSyncEngineSuite(t *testing.T) {
	suite.Run(t, new(SyncEngineSuite))
}

func (s *SyncEngineSuite) TestFullSyncReconciles() {
	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(export(1, 2, 3), nil)
	summary, err := s.engine.RunFullSync(s.ctx, testReportID)
	s.Require().NoError(err)
	s.Equal(Summary{Total: 3, Upserted: 3}, summary)

	s.Run("stale records are deleted, new ones added", func() {
		s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(export(1, 3, 4), nil)
		summary, err := s.engine.RunFullSync(s.ctx, testReportID)
		s.Require().NoError(err)
		s.Equal(Summary{Total: 3, Upserted: 1, Deleted: 1}, summary)

		count, err := s.store.CountAll(s.ctx)
		s.Require().NoError(err)
		s.Equal(3, count)

		_, err = s.store.FindByCaseID(s.ctx, 2)
		s.Require().Error(err, "case 2 no longer in the export")
	})

	s.Run("an identical pass changes nothing", func() {
		s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(export(1, 3, 4), nil)
		summary, err := s.engine.RunFullSync(s.ctx, testReportID)
		s.Require().NoError(err)
		s.Equal(Summary{Total: 3}, summary)
	})
}

func (s *SyncEngineSuite) TestModifiedRecordsAreCounted() {
	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(exportPair(1, "805000082"), nil)
	_, err := s.engine.RunFullSync(s.ctx, testReportID)
	s.Require().NoError(err)

	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(exportPair(1, "900111222"), nil)
	summary, err := s.engine.RunFullSync(s.ctx, testReportID)
	s.Require().NoError(err)
	s.Equal(Summary{Total: 1, Modified: 1}, summary)
}

func (s *SyncEngineSuite) TestEmptyExportWipesStore() {
	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(export(1, 2), nil)
	_, err := s.engine.RunFullSync(s.ctx, testReportID)
	s.Require().NoError(err)

	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return([]registrymodels.ExportRow{}, nil)
	summary, err := s.engine.RunFullSync(s.ctx, testReportID)
	s.Require().NoError(err)
	s.Equal(Summary{Total: 0, Deleted: 2}, summary)

	count, err := s.store.CountAll(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *SyncEngineSuite) TestFetchFailureLeavesStoreUntouched() {
	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(export(1, 2), nil)
	_, err := s.engine.RunFullSync(s.ctx, testReportID)
	s.Require().NoError(err)

	fetchErr := errors.New("upstream exploded")
	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(nil, fetchErr)
	_, err = s.engine.RunFullSync(s.ctx, testReportID)
	s.Require().ErrorIs(err, fetchErr)

	count, err := s.store.CountAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count, "failed fetch must not mutate the store")
}

func (s *SyncEngineSuite) TestBatchFailureSkipsReconciliation() {
	mockStore := mocks.NewMockStore(s.ctrl)
	engine := New(s.fetcher, mockStore)

	batchErr := errors.New("db gone")
	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(export(1, 2), nil)
	mockStore.EXPECT().UpsertBatch(gomock.Any(), gomock.Any()).Return(0, 0, batchErr)
	// No DeleteAbsent expectation: reconciling after a failed batch would
	// delete records that were never upserted.

	_, err := engine.RunFullSync(s.ctx, testReportID)
	s.Require().ErrorIs(err, batchErr)
}

func (s *SyncEngineSuite) TestLargeExportIsBatched() {
	mockStore := mocks.NewMockStore(s.ctrl)
	engine := New(s.fetcher, mockStore)

	const cases = 2500
	rows := make([]registrymodels.ExportRow, 0, cases)
	for i := 0; i < cases; i++ {
		rows = append(rows, registrymodels.ExportRow{
			CaseID:    json.RawMessage(fmt.Sprintf("%d", i+1)),
			PartyRole: "DEMANDANTE",
			PartyName: "ACME",
		})
	}
	s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(rows, nil)

	var batchSizes []int
	mockStore.EXPECT().UpsertBatch(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(_ context.Context, records []models.CaseRecord) (int, int, error) {
			batchSizes = append(batchSizes, len(records))
			return len(records), 0, nil
		})
	mockStore.EXPECT().DeleteAbsent(gomock.Any(), gomock.Len(cases)).Return(0, nil)

	summary, err := engine.RunFullSync(s.ctx, testReportID)
	s.Require().NoError(err)
	s.Equal(cases, summary.Upserted)
	s.Equal([]int{1000, 1000, 500}, batchSizes)
}

func (s *SyncEngineSuite) TestAuditTrail() {
	s.Run("a completed pass is audited with its counts", func() {
		s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(export(7), nil)
		_, err := s.engine.RunFullSync(s.ctx, testReportID)
		s.Require().NoError(err)

		events := s.events.List()
		s.Require().Len(events, 1)
		s.Equal(audit.ActionSyncCompleted, events[0].Action)
		s.Equal(testReportID, events[0].ReportID)
		s.Equal(1, events[0].Total)
		s.Equal(1, events[0].Upserted)
		s.False(events[0].Timestamp.IsZero())
	})

	s.Run("a failed pass is audited with the error", func() {
		s.fetcher.EXPECT().FetchExport(gomock.Any(), testReportID).Return(nil, errors.New("boom"))
		_, err := s.engine.RunFullSync(s.ctx, testReportID)
		s.Require().Error(err)

		events := s.events.List()
		s.Require().Len(events, 2)
		s.Equal(audit.ActionSyncFailed, events[1].Action)
		s.Equal("boom", events[1].Error)
	})
}
