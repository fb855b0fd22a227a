package handlers

import (
	"net/http"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/leads"
)

const recentLeadCount = 5

type postCounts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
}

type dashboardResponse struct {
	Leads       leads.Stats   `json:"leads"`
	Posts       postCounts    `json:"posts"`
	RecentLeads []domain.Lead `json:"recentLeads"`
}

// Dashboard summarises leads and posts for the admin home page.
func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		all, err := d.Leads.List(ctx)
		if err != nil {
			storeFailure(w, r, d, "dashboard leads", err)
			return
		}
		stats, err := d.Leads.Stats(ctx)
		if err != nil {
			storeFailure(w, r, d, "dashboard stats", err)
			return
		}
		posts, err := d.Blog.List(ctx)
		if err != nil {
			storeFailure(w, r, d, "dashboard posts", err)
			return
		}

		counts := postCounts{Total: len(posts)}
		for _, p := range posts {
			if p.IsPublished() {
				counts.Published++
			} else {
				counts.Drafts++
			}
		}

		Success(w, http.StatusOK, "", dashboardResponse{
			Leads:       stats,
			Posts:       counts,
			RecentLeads: all[:min(len(all), recentLeadCount)],
		})
	}
}
