// Package handler exposes the case domain over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lexsync/internal/cases/models"
	"lexsync/internal/cases/syncer"
	"lexsync/pkg/platform/middleware/principal"
	"lexsync/pkg/requestcontext"
)

// Syncer runs full synchronization passes.
type Syncer interface {
	RunFullSync(ctx context.Context, reportID int64) (syncer.Summary, error)
}

// QueryView answers read queries.
type QueryView interface {
	FindByIdentifier(ctx context.Context, identifier string) ([]models.CaseRecord, error)
	FindMine(ctx context.Context) ([]models.CaseRecord, error)
	FindByCaseID(ctx context.Context, caseID int64) (*models.CaseDetail, error)
}

// Handler wires the case endpoints.
type Handler struct {
	logger *slog.Logger
	syncer Syncer
	view   QueryView
}

func New(syncer Syncer, view QueryView, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		syncer: syncer,
		view:   view,
	}
}

// Register mounts the case routes. The router is expected to already carry
// the authentication middleware; admin-only routes add their own gate.
func (h *Handler) Register(r chi.Router) {
	r.Route("/registry", func(r chi.Router) {
		r.Use(principal.RequireAdmin(h.logger))
		r.Post("/sync/{reportID}", h.handleSync)
	})

	r.Route("/cases", func(r chi.Router) {
		r.Get("/mine", h.handleMine)
		r.With(principal.RequireAdmin(h.logger)).Get("/search/{identifier}", h.handleSearch)
		r.Get("/{caseID}", h.handleDetail)
	})
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID, err := strconv.ParseInt(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"bad_request", "report id must be numeric"})
		return
	}

	summary, err := h.syncer.RunFullSync(ctx, reportID)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync request failed",
			"report_id", reportID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{Success: true, Summary: summary})
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.view.FindMine(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "tenant case view failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CaseListResponse{Success: true, Count: len(records), Cases: emptyIfNil(records)})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.view.FindByIdentifier(ctx, chi.URLParam(r, "identifier"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CaseListResponse{Success: true, Count: len(records), Cases: emptyIfNil(records)})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := strconv.ParseInt(chi.URLParam(r, "caseID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"bad_request", "case id must be numeric"})
		return
	}

	detail, err := h.view.FindByCaseID(ctx, caseID)
	if err != nil {
		h.logger.WarnContext(ctx, "case detail failed",
			"case_id", caseID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CaseDetailResponse{Success: true, Case: detail})
}

// emptyIfNil keeps list responses as [] instead of null.
func emptyIfNil(records []models.CaseRecord) []models.CaseRecord {
	if records == nil {
		return []models.CaseRecord{}
	}
	return records
}
