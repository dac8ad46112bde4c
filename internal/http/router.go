// Package httpapi assembles the public HTTP surface. It is a thin layer that
// delegates to domain services; business logic stays out of here.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	casehandler "lexsync/internal/cases/handler"
	"lexsync/pkg/platform/middleware/principal"
	"lexsync/pkg/platform/middleware/requestid"
	"lexsync/pkg/platform/middleware/requesttime"
)

// NewRouter wires middleware, operational endpoints and the authenticated API.
func NewRouter(
	cases *casehandler.Handler,
	verifier *principal.Verifier,
	logger *slog.Logger,
	health http.HandlerFunc,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(principal.RequireAuth(verifier, logger))
		cases.Register(r)
	})

	return r
}
