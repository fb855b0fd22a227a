package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/leads"
	"github.com/silahub/site/internal/logger"
)

type leadRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"max=50"`
	Business string `json:"business" validate:"max=200"`
	Website  string `json:"website" validate:"max=500"`
	Message  string `json:"message" validate:"max=5000"`
	Source   string `json:"source" validate:"max=200"`
	Type     string `json:"type" validate:"max=100"`
	Urgency  string `json:"urgency" validate:"max=50"`
	Services string `json:"services" validate:"max=500"`
	Budget   string `json:"budget" validate:"max=100"`
	Package  string `json:"package" validate:"max=100"`
}

type leadPatchRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Business *string `json:"business" validate:"omitempty,max=200"`
	Website  *string `json:"website" validate:"omitempty,max=500"`
	Message  *string `json:"message" validate:"omitempty,max=5000"`
	Urgency  *string `json:"urgency" validate:"omitempty,max=50"`
	Status   *string `json:"status"`
}

type noteRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// SubmitLead stores a lead from any public site form.
func SubmitLead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leadRequest
		if !decodeAndValidate(w, r, d, &req) {
			return
		}

		in := leads.Input{
			Name:     strings.TrimSpace(req.Name),
			Email:    strings.TrimSpace(req.Email),
			Phone:    normalizePhone(req.Phone, d.PhoneRegion),
			Business: strings.TrimSpace(req.Business),
			Website:  strings.TrimSpace(req.Website),
			Message:  req.Message,
			Source:   orDefault(req.Source, "Website"),
			Type:     orDefault(req.Type, "General Inquiry"),
			Urgency:  req.Urgency,
			Services: req.Services,
			Budget:   req.Budget,
			Package:  req.Package,
		}

		lead, err := d.Leads.Create(r.Context(), in)
		if err != nil {
			storeFailure(w, r, d, "create lead", err)
			return
		}
		if d.Metrics != nil {
			d.Metrics.LeadsCreated.WithLabelValues(lead.Type).Inc()
		}

		Success(w, http.StatusCreated, "Thank you! We'll be in touch within 24 hours.", lead)
	}
}

// ListLeads returns the admin lead list filtered by ?status= and ?q=.
func ListLeads(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := d.Leads.Search(r.Context(), filterFromQuery(r))
		if err != nil {
			storeFailure(w, r, d, "list leads", err)
			return
		}
		Success(w, http.StatusOK, "", items)
	}
}

// LeadStats returns the per-status counts.
func LeadStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := d.Leads.Stats(r.Context())
		if err != nil {
			storeFailure(w, r, d, "lead stats", err)
			return
		}
		Success(w, http.StatusOK, "", stats)
	}
}

// ExportLeads downloads the filtered lead list as CSV.
func ExportLeads(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := d.Leads.Search(r.Context(), filterFromQuery(r))
		if err != nil {
			storeFailure(w, r, d, "export leads", err)
			return
		}

		filename := fmt.Sprintf("leads-%s.csv", d.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Cache-Control", "no-store")
		if err := leads.WriteCSV(w, items); err != nil {
			d.Logger.Warn("failed to stream lead export", logger.Error(err))
		}
	}
}

// GetLead returns one lead.
func GetLead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lead, ok, err := d.Leads.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			storeFailure(w, r, d, "get lead", err)
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "lead not found")
			return
		}
		Success(w, http.StatusOK, "", lead)
	}
}

// UpdateLead applies an admin patch, typically a status change.
func UpdateLead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leadPatchRequest
		if !decodeAndValidate(w, r, d, &req) {
			return
		}

		patch := leads.Patch{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Business: req.Business,
			Website:  req.Website,
			Message:  req.Message,
			Urgency:  req.Urgency,
		}
		if req.Status != nil {
			status, err := domain.ParseLeadStatus(*req.Status)
			if err != nil {
				Error(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.Status = &status
		}

		lead, ok, err := d.Leads.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			storeFailure(w, r, d, "update lead", err)
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "lead not found")
			return
		}
		Success(w, http.StatusOK, "lead updated", lead)
	}
}

// DeleteLead removes a lead.
func DeleteLead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := d.Leads.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			storeFailure(w, r, d, "delete lead", err)
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "lead not found")
			return
		}
		Success(w, http.StatusOK, "lead deleted", nil)
	}
}

// AddLeadNote appends an admin note to a lead.
func AddLeadNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req noteRequest
		if !decodeAndValidate(w, r, d, &req) {
			return
		}

		note, ok, err := d.Leads.AddNote(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.Text))
		if err != nil {
			storeFailure(w, r, d, "add note", err)
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "lead not found")
			return
		}
		Success(w, http.StatusCreated, "note added", note)
	}
}

func filterFromQuery(r *http.Request) leads.Filter {
	q := r.URL.Query()
	return leads.Filter{
		Status: strings.TrimSpace(q.Get("status")),
		Query:  q.Get("q"),
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
