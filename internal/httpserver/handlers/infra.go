package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/store"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Impact  string `json:"impact,omitempty"`
	Error   string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"store":    checkStore(ctx, d),
			"notifier": checkNotifier(d),
		}
		if components["store"].OK {
			components["leads"] = countCollection[domain.Lead](ctx, d, store.KeyLeads)
			components["blog"] = countCollection[domain.BlogPost](ctx, d, store.KeyBlogPosts)
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Without storage no form or page works.
	if st, ok := components["store"]; ok && !st.OK {
		return "critical"
	}
	// Leads are still captured while notifications are failing.
	if n, ok := components["notifier"]; ok && !n.OK {
		return "degraded"
	}
	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: false, Error: "store not initialized"}
	}
	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Backend: d.Store.Backend(),
			Impact:  "forms-and-blog-unavailable",
			Error:   "timeout",
		}
	}
	return componentStatus{OK: true, Backend: d.Store.Backend()}
}

func checkNotifier(d deps.Deps) componentStatus {
	st := componentStatus{OK: true, Backend: d.NotifierName, Mode: "direct"}
	if d.NotifierState == nil {
		return st
	}
	st.Mode = d.NotifierState()
	if st.Mode == "open" {
		st.OK = false
		st.Impact = "lead-alerts-paused"
	}
	return st
}

// countCollection reads the stored collection without seeding it.
func countCollection[T any](ctx context.Context, d deps.Deps, key string) componentStatus {
	items, _, err := store.LoadCollection[T](ctx, d.Store, key)
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	n := len(items)
	return componentStatus{OK: true, Count: &n}
}
