package domain

import (
	"fmt"
	"time"
)

// LeadStatus is the pipeline stage of a lead.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadClosed    LeadStatus = "closed"
)

// LeadStatuses lists every valid status in pipeline order.
var LeadStatuses = []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadClosed}

// Valid reports whether s is one of the four pipeline stages.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadClosed:
		return true
	default:
		return false
	}
}

// ParseLeadStatus converts raw text into a LeadStatus.
func ParseLeadStatus(raw string) (LeadStatus, error) {
	s := LeadStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: lead status %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Lead represents one inquiry submitted through any site form.
type Lead struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	ID string `json:"id"`

	// ─────────────────────────────
	// Contact
	// ─────────────────────────────

	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Business string `json:"business"`
	Website  string `json:"website,omitempty"`
	Message  string `json:"message,omitempty"`

	// ─────────────────────────────
	// Funnel classification
	// ─────────────────────────────

	// Source is the page or landing page the form was submitted from.
	// Example: "Contact Page", "HVAC Marketing Blueprint"
	Source string `json:"source"`

	// Type is the inquiry kind.
	// Example: "General Consultation", "Package Inquiry"
	Type string `json:"type"`

	// Urgency is free text from the contact form (low, medium, high).
	Urgency string `json:"urgency,omitempty"`

	Services string `json:"services,omitempty"`
	Budget   string `json:"budget,omitempty"`
	Package  string `json:"package,omitempty"`

	// ─────────────────────────────
	// Pipeline
	// ─────────────────────────────

	Status LeadStatus `json:"status"`

	// CreatedAt is set once at submission and never changes.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is set on every mutation after creation.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// Notes is append-only and keeps insertion order.
	Notes []Note `json:"notes"`
}

// Note is a free-text admin remark attached to a lead.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
