package store

import (
	"context"

	"lexsync/internal/cases/models"
)

// Store is the ordered case-record collection shared by the sync engine
// (writer) and the cached query path (reader). Readers may observe a store
// mid-sync; that is accepted eventual consistency.
type Store interface {
	// UpsertBatch fully replaces the stored record for each case id and
	// reports how many records were newly inserted and how many changed.
	// Records identical to what is stored count as neither.
	UpsertBatch(ctx context.Context, records []models.CaseRecord) (upserted, modified int, err error)

	// DeleteAbsent removes every record whose case id is not in keep and
	// returns the number removed. A nil or empty keep wipes the store.
	DeleteAbsent(ctx context.Context, keep []int64) (deleted int, err error)

	// FindByPartyIdentifier returns records where either party identifier
	// contains the value, case-insensitively, ordered by case id ascending.
	FindByPartyIdentifier(ctx context.Context, value string) ([]models.CaseRecord, error)

	// FindByCaseID returns a single record or sentinel.ErrNotFound.
	FindByCaseID(ctx context.Context, caseID int64) (models.CaseRecord, error)

	// CountAll returns the number of stored records.
	CountAll(ctx context.Context) (int, error)
}
