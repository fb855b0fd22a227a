// Package leads manages the lead collection captured by the site forms.
package leads

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/store"
)

// Dispatcher receives every freshly created lead. Dispatch must not block.
type Dispatcher interface {
	Dispatch(lead domain.Lead)
}

// Input carries the form fields of a new lead.
type Input struct {
	Name     string
	Email    string
	Phone    string
	Business string
	Website  string
	Message  string
	Source   string
	Type     string
	Urgency  string
	Services string
	Budget   string
	Package  string
}

// Patch lists the lead fields an admin may change. Nil fields are kept.
type Patch struct {
	Name     *string
	Email    *string
	Phone    *string
	Business *string
	Website  *string
	Message  *string
	Urgency  *string
	Status   *domain.LeadStatus
}

// Stats counts leads per pipeline stage.
type Stats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Contacted int `json:"contacted"`
	Qualified int `json:"qualified"`
	Closed    int `json:"closed"`
}

// Store is the lead collection persisted under store.KeyLeads, newest first.
type Store struct {
	kv         store.Store
	dispatcher Dispatcher
	log        logger.Logger

	// mu serialises mutations issued through this process.
	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a Store. dispatcher may be nil, in which case new leads are
// only persisted.
func New(kv store.Store, dispatcher Dispatcher, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		dispatcher: dispatcher,
		log:        log.Named("leads"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new lead at the head of the collection and hands it to
// the dispatcher once persisted.
func (s *Store) Create(ctx context.Context, in Input) (domain.Lead, error) {
	lead := domain.Lead{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Business:  in.Business,
		Website:   in.Website,
		Message:   in.Message,
		Source:    in.Source,
		Type:      in.Type,
		Urgency:   in.Urgency,
		Services:  in.Services,
		Budget:    in.Budget,
		Package:   in.Package,
		Status:    domain.LeadNew,
		CreatedAt: s.now().UTC(),
		Notes:     []domain.Note{},
	}

	s.mu.Lock()
	err := store.MutateCollection(ctx, s.kv, store.KeyLeads, func(items []domain.Lead, _ bool) ([]domain.Lead, bool, error) {
		return append([]domain.Lead{lead}, items...), true, nil
	})
	s.mu.Unlock()
	if err != nil {
		return domain.Lead{}, fmt.Errorf("failed to create lead: %w", err)
	}

	s.log.Info("lead created",
		logger.String("id", lead.ID),
		logger.String("source", lead.Source),
		logger.String("type", lead.Type))

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(lead)
	}
	return lead, nil
}

// Update merges patch into the lead with the given id. It reports false,
// without writing, when no such lead exists.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (domain.Lead, bool, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return domain.Lead{}, false, fmt.Errorf("%w: lead status %q", domain.ErrInvalidStatus, *patch.Status)
	}

	var updated domain.Lead
	found, err := s.mutateOne(ctx, id, func(l *domain.Lead) {
		applyPatch(l, patch)
		now := s.now().UTC()
		l.UpdatedAt = &now
		updated = *l
	})
	if err != nil {
		return domain.Lead{}, false, fmt.Errorf("failed to update lead %s: %w", id, err)
	}
	return updated, found, nil
}

// AddNote appends a note to the lead with the given id.
func (s *Store) AddNote(ctx context.Context, id, text string) (domain.Note, bool, error) {
	now := s.now().UTC()
	note := domain.Note{ID: s.newID(), Text: text, CreatedAt: now}

	found, err := s.mutateOne(ctx, id, func(l *domain.Lead) {
		l.Notes = append(l.Notes, note)
		l.UpdatedAt = &now
	})
	if err != nil {
		return domain.Note{}, false, fmt.Errorf("failed to add note to lead %s: %w", id, err)
	}
	if !found {
		return domain.Note{}, false, nil
	}
	return note, true, nil
}

// Delete removes the lead with the given id.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	err := store.MutateCollection(ctx, s.kv, store.KeyLeads, func(items []domain.Lead, _ bool) ([]domain.Lead, bool, error) {
		removed = false
		i := indexOf(items, id)
		if i < 0 {
			return nil, false, nil
		}
		removed = true
		return slices.Delete(items, i, i+1), true, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete lead %s: %w", id, err)
	}
	return removed, nil
}

// List returns every lead, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Lead, error) {
	items, _, err := store.LoadCollection[domain.Lead](ctx, s.kv, store.KeyLeads)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	if items == nil {
		items = []domain.Lead{}
	}
	return items, nil
}

// Get returns the lead with the given id.
func (s *Store) Get(ctx context.Context, id string) (domain.Lead, bool, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.Lead{}, false, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], true, nil
	}
	return domain.Lead{}, false, nil
}

// ByStatus returns the leads in the given stage, in store order.
func (s *Store) ByStatus(ctx context.Context, status domain.LeadStatus) ([]domain.Lead, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Lead, 0, len(items))
	for _, l := range items {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

// Stats counts the collection by status. It rescans on every call.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	items, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(items)}
	for _, l := range items {
		switch l.Status {
		case domain.LeadNew:
			st.New++
		case domain.LeadContacted:
			st.Contacted++
		case domain.LeadQualified:
			st.Qualified++
		case domain.LeadClosed:
			st.Closed++
		}
	}
	return st, nil
}

// mutateOne runs fn on the lead with the given id and persists the
// collection. Nothing is written when the id is unknown.
func (s *Store) mutateOne(ctx context.Context, id string, fn func(*domain.Lead)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := store.MutateCollection(ctx, s.kv, store.KeyLeads, func(items []domain.Lead, _ bool) ([]domain.Lead, bool, error) {
		found = false
		i := indexOf(items, id)
		if i < 0 {
			return nil, false, nil
		}
		found = true
		fn(&items[i])
		return items, true, nil
	})
	return found, err
}

func applyPatch(l *domain.Lead, p Patch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&l.Name, p.Name)
	set(&l.Email, p.Email)
	set(&l.Phone, p.Phone)
	set(&l.Business, p.Business)
	set(&l.Website, p.Website)
	set(&l.Message, p.Message)
	set(&l.Urgency, p.Urgency)
	if p.Status != nil {
		l.Status = *p.Status
	}
}

func indexOf(items []domain.Lead, id string) int {
	return slices.IndexFunc(items, func(l domain.Lead) bool { return l.ID == id })
}
