package httphandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/niksmo/storefront/internal/adapter/metrics"
	"github.com/niksmo/storefront/internal/adapter/view"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	store port.Storefront,
	pages view.Pages,
	renderer PageRenderer,
	session SessionConfig,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(Session(session))
		RegisterPages(r, store, pages, renderer)
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(AllowJSON)
			RegisterAPI(r, store)
		})
	})
	return r
}
