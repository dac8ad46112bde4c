package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lexsync/internal/cases/models"
	"lexsync/internal/cases/query"
	"lexsync/internal/cases/syncer"
	"lexsync/internal/registry"
	"lexsync/pkg/sentinel"
)

// SyncResponse is the HTTP response for POST /registry/sync/{reportID}.
type SyncResponse struct {
	Success bool           `json:"success"`
	Summary syncer.Summary `json:"summary"`
}

// CaseListResponse is the HTTP response for the list and search endpoints.
type CaseListResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Cases   []models.CaseRecord `json:"cases"`
}

// CaseDetailResponse is the HTTP response for GET /cases/{caseID}.
type CaseDetailResponse struct {
	Success bool               `json:"success"`
	Case    *models.CaseDetail `json:"case"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors onto HTTP status codes. Upstream registry
// failures are the upstream's fault, so they surface as 502 rather than 500.
func writeError(w http.ResponseWriter, err error) {
	var statusErr *registry.StatusError
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{"not_found", "case not found"})
	case errors.Is(err, query.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{"forbidden", "not a party to this case"})
	case errors.Is(err, query.ErrEmptyIdentifier),
		errors.Is(err, query.ErrNoTenantIdentity):
		writeJSON(w, http.StatusBadRequest, errorResponse{"bad_request", err.Error()})
	case errors.Is(err, registry.ErrNotConfigured),
		errors.Is(err, registry.ErrAuthRejected),
		errors.Is(err, registry.ErrMalformedExport),
		errors.As(err, &statusErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{"upstream_error", "registry upstream unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{"internal_error", "internal server error"})
	}
}
