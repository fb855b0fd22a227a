package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/httpserver/handlers"
	"github.com/silahub/site/internal/httpserver/mw"
)

func init() { Register(registerAdmin, middleware.NoCache) }

func registerAdmin(r chi.Router, d deps.Deps) {
	host := mw.EnforceHost(d.AllowedHosts, d.Logger)

	// Login is throttled harder than the forms; there is no lockout.
	loginLimit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             5,
		RefillPerIPPerMin: 5,
		MaxEntries:        10000,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
		OnLimited: func() {
			if d.Metrics != nil {
				d.Metrics.RateLimited.Inc()
			}
		},
	})

	r.With(host, loginLimit).Post("/api/admin/login", handlers.Login(d))
	r.With(host).Get("/api/admin/session", handlers.SessionState(d))

	r.Group(func(a chi.Router) {
		a.Use(host, mw.RequireAdmin(d.Session, d.Logger))

		a.Post("/api/admin/logout", handlers.Logout(d))
		a.Get("/api/admin/dashboard", handlers.Dashboard(d))

		a.Get("/api/admin/leads", handlers.ListLeads(d))
		a.Get("/api/admin/leads/stats", handlers.LeadStats(d))
		a.Get("/api/admin/leads/export.csv", handlers.ExportLeads(d))
		a.Get("/api/admin/leads/{id}", handlers.GetLead(d))
		a.Patch("/api/admin/leads/{id}", handlers.UpdateLead(d))
		a.Delete("/api/admin/leads/{id}", handlers.DeleteLead(d))
		a.Post("/api/admin/leads/{id}/notes", handlers.AddLeadNote(d))

		a.Get("/api/admin/posts", handlers.ListPosts(d))
		a.Post("/api/admin/posts", handlers.CreatePost(d))
		a.Get("/api/admin/posts/{id}", handlers.GetPost(d))
		a.Patch("/api/admin/posts/{id}", handlers.UpdatePost(d))
		a.Delete("/api/admin/posts/{id}", handlers.DeletePost(d))
	})
}
