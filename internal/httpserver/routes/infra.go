package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/httpserver/handlers"
	"github.com/silahub/site/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	private := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	private.Get("/readyz", handlers.Readyz(d))
	private.Get("/infra", handlers.Infra(d))
	if d.Metrics != nil {
		private.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{}))
	}
}
