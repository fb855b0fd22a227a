package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/httpserver/handlers"
	"github.com/silahub/site/internal/httpserver/mw"
)

func init() { Register(registerPublic) }

func registerPublic(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.LeadRateBurst,
		RefillPerIPPerMin: d.LeadRatePerMinute,
		MaxEntries:        10000,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
		OnLimited: func() {
			if d.Metrics != nil {
				d.Metrics.RateLimited.Inc()
			}
		},
	})

	r.With(limit).Post("/api/leads", handlers.SubmitLead(d))

	r.Get("/api/blog", handlers.PublishedPosts(d))
	r.Get("/api/blog/{slug}", handlers.PostBySlug(d))

	r.Get("/api/calculator/industries", handlers.Industries(d))
	r.Post("/api/calculator", handlers.Calculator(d))
}
