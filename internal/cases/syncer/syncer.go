// Package syncer orchestrates full synchronization passes against the
// upstream registry: fetch the flat export, consolidate it into canonical
// case records, upsert them in batches and reconcile the local store by
// deleting everything the export no longer contains.
package syncer

import (
	"context"
	"log/slog"
	"sort"
	"time"

	casemetrics "lexsync/internal/cases/metrics"
	"lexsync/internal/cases/consolidate"
	"lexsync/internal/cases/models"
	registrymodels "lexsync/internal/registry/models"
	"lexsync/pkg/audit"
)

// DefaultBatchSize bounds per-round-trip payload size and lock duration.
const DefaultBatchSize = 1000

// ExportFetcher pulls the full flat export for a report.
type ExportFetcher interface {
	FetchExport(ctx context.Context, reportID int64) ([]registrymodels.ExportRow, error)
}

// Store is the subset of the case store the engine writes through.
type Store interface {
	UpsertBatch(ctx context.Context, records []models.CaseRecord) (upserted, modified int, err error)
	DeleteAbsent(ctx context.Context, keep []int64) (deleted int, err error)
}

// Summary reports one sync pass. Total counts consolidated cases, not export
// rows.
type Summary struct {
	Total    int `json:"total"`
	Upserted int `json:"upserted"`
	Modified int `json:"modified"`
	Deleted  int `json:"deleted"`
}

// Engine runs full sync passes. It is not safe for concurrent invocation on
// the same store; callers serialize (the shipped scheduler is one goroutine).
type Engine struct {
	fetcher   ExportFetcher
	store     Store
	batchSize int
	logger    *slog.Logger
	metrics   *casemetrics.Metrics
	audit     *audit.Publisher
}

// Option configures an Engine.
type Option func(*Engine)

// WithBatchSize overrides the upsert batch size.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *casemetrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithAudit sets the audit publisher.
func WithAudit(p *audit.Publisher) Option {
	return func(e *Engine) { e.audit = p }
}

func New(fetcher ExportFetcher, store Store, opts ...Option) *Engine {
	e := &Engine{
		fetcher:   fetcher,
		store:     store,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// RunFullSync executes one fetch-consolidate-reconcile cycle. The store is
// only mutated after a fully successful fetch and parse. Stale records are
// deleted strictly after every upsert batch has committed; if a batch fails
// the pass stops there and a re-run converges (the operation is idempotent).
//
// An export that consolidates to zero cases wipes the local store. That
// mirrors the system this replaces and is pinned by test; revisit it
// deliberately, not here.
func (e *Engine) RunFullSync(ctx context.Context, reportID int64) (Summary, error) {
	start := time.Now()

	rows, err := e.fetcher.FetchExport(ctx, reportID)
	if err != nil {
		return e.failed(ctx, reportID, start, err)
	}

	consolidated := consolidate.Rows(rows)

	summary := Summary{Total: len(consolidated)}
	if len(consolidated) == 0 {
		deleted, err := e.store.DeleteAbsent(ctx, nil)
		if err != nil {
			return e.failed(ctx, reportID, start, err)
		}
		summary.Deleted = deleted
		return e.completed(ctx, reportID, start, summary)
	}

	records := make([]models.CaseRecord, 0, len(consolidated))
	keep := make([]int64, 0, len(consolidated))
	for id, rec := range consolidated {
		records = append(records, rec)
		keep = append(keep, id)
	}
	// Deterministic batch contents keep logs and audits reproducible.
	sort.Slice(records, func(i, j int) bool { return records[i].CaseID < records[j].CaseID })

	for from := 0; from < len(records); from += e.batchSize {
		to := min(from+e.batchSize, len(records))
		upserted, modified, err := e.store.UpsertBatch(ctx, records[from:to])
		if err != nil {
			return e.failed(ctx, reportID, start, err)
		}
		summary.Upserted += upserted
		summary.Modified += modified
	}

	// Reconciliation runs only after every batch above committed, so a
	// record mid-upsert can never be transiently deleted.
	deleted, err := e.store.DeleteAbsent(ctx, keep)
	if err != nil {
		return e.failed(ctx, reportID, start, err)
	}
	summary.Deleted = deleted

	return e.completed(ctx, reportID, start, summary)
}

func (e *Engine) completed(ctx context.Context, reportID int64, start time.Time, summary Summary) (Summary, error) {
	if e.metrics != nil {
		e.metrics.ObserveSync("success", time.Since(start))
		e.metrics.AddCounts(summary.Upserted, summary.Modified, summary.Deleted)
	}
	if e.logger != nil {
		e.logger.InfoContext(ctx, "sync pass completed",
			"report_id", reportID,
			"total", summary.Total,
			"upserted", summary.Upserted,
			"modified", summary.Modified,
			"deleted", summary.Deleted,
			"duration", time.Since(start),
		)
	}
	e.emit(ctx, audit.Event{
		Action:   audit.ActionSyncCompleted,
		ReportID: reportID,
		Total:    summary.Total,
		Upserted: summary.Upserted,
		Modified: summary.Modified,
		Deleted:  summary.Deleted,
	})
	return summary, nil
}

func (e *Engine) failed(ctx context.Context, reportID int64, start time.Time, err error) (Summary, error) {
	if e.metrics != nil {
		e.metrics.ObserveSync("failure", time.Since(start))
	}
	if e.logger != nil {
		e.logger.ErrorContext(ctx, "sync pass failed",
			"report_id", reportID,
			"error", err,
		)
	}
	e.emit(ctx, audit.Event{
		Action:   audit.ActionSyncFailed,
		ReportID: reportID,
		Error:    err.Error(),
	})
	return Summary{}, err
}

func (e *Engine) emit(ctx context.Context, event audit.Event) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Emit(ctx, event); err != nil && e.logger != nil {
		e.logger.WarnContext(ctx, "audit emit failed", "error", err)
	}
}
