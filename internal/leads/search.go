package leads

import (
	"context"
	"strings"

	"github.com/silahub/site/internal/domain"
)

// StatusAll matches leads in any stage.
const StatusAll = "all"

// Filter narrows the admin lead list.
type Filter struct {
	// Status is a lead status, "" or StatusAll.
	Status string
	// Query is matched case-insensitively against name, email and business.
	Query string
}

// Matches reports whether l passes both the status and the text filter.
func (f Filter) Matches(l domain.Lead) bool {
	if f.Status != "" && f.Status != StatusAll && string(l.Status) != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{l.Name, l.Email, l.Business} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Search returns the leads matching f, in store order.
func (s *Store) Search(ctx context.Context, f Filter) ([]domain.Lead, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Lead, 0, len(items))
	for _, l := range items {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}
