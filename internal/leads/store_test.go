package leads

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/store"
	"github.com/silahub/site/internal/store/memory"
)

type recordingDispatcher struct {
	mu    sync.Mutex
	leads []domain.Lead
}

func (r *recordingDispatcher) Dispatch(lead domain.Lead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, lead)
}

// fakeClock advances by one second on every read.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T) (*Store, *memory.Store, *recordingDispatcher) {
	t.Helper()
	kv := memory.New()
	d := &recordingDispatcher{}
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return New(kv, d, logger.NewNop(), WithClock(clock.Now)), kv, d
}

func janeDoe() Input {
	return Input{Name: "Jane Doe", Email: "jane@x.com", Phone: "555", Business: "Acme"}
}

func TestCreateOnEmptyStore(t *testing.T) {
	s, _, d := newTestStore(t)
	ctx := context.Background()

	lead, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.LeadNew, all[0].Status)
	assert.Equal(t, "Acme", all[0].Business)
	assert.Empty(t, all[0].Notes)
	assert.NotNil(t, all[0].Notes)
	assert.Nil(t, all[0].UpdatedAt)
	assert.Equal(t, lead, all[0])

	require.Len(t, d.leads, 1)
	assert.Equal(t, lead.ID, d.leads[0].ID)
}

func TestCreatePrependsWithUniqueIDs(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	var last domain.Lead
	for i := 0; i < 5; i++ {
		lead, err := s.Create(ctx, Input{Name: fmt.Sprintf("lead-%d", i)})
		require.NoError(t, err)
		assert.False(t, seen[lead.ID], "duplicate id %s", lead.ID)
		seen[lead.ID] = true
		last = lead
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, last.ID, all[0].ID)
	assert.Equal(t, "lead-0", all[4].Name)
}

func TestCreateStoresIncompleteLeads(t *testing.T) {
	s, _, _ := newTestStore(t)

	lead, err := s.Create(context.Background(), Input{})
	require.NoError(t, err)
	assert.Empty(t, lead.Name)
	assert.Equal(t, domain.LeadNew, lead.Status)
}

func TestUnknownIDLeavesCollectionUnchanged(t *testing.T) {
	s, kv, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)
	before, _, err := kv.Get(ctx, store.KeyLeads)
	require.NoError(t, err)

	status := domain.LeadClosed
	_, ok, err := s.Update(ctx, "missing", Patch{Status: &status})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.AddNote(ctx, "missing", "hello")
	require.NoError(t, err)
	assert.False(t, ok)

	after, _, err := kv.Get(ctx, store.KeyLeads)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUnknownIDOnEmptyStoreWritesNothing(t *testing.T) {
	s, kv, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err := kv.Get(ctx, store.KeyLeads)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateMergesPatch(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	lead, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	status := domain.LeadContacted
	phone := "+14035550100"
	updated, ok, err := s.Update(ctx, lead.ID, Patch{Status: &status, Phone: &phone})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, domain.LeadContacted, updated.Status)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, lead.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(lead.CreatedAt))

	got, ok, err := s.Get(ctx, lead.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, updated, got)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	lead, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	bogus := domain.LeadStatus("archived")
	_, _, err = s.Update(ctx, lead.ID, Patch{Status: &bogus})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))

	got, _, err := s.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadNew, got.Status)
}

func TestAddNoteAppends(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	lead, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)
	_, _, err = s.AddNote(ctx, lead.ID, "first")
	require.NoError(t, err)

	before, _, err := s.Get(ctx, lead.ID)
	require.NoError(t, err)

	note, ok, err := s.AddNote(ctx, lead.ID, "Called, left voicemail")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, note.ID)

	after, _, err := s.Get(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, after.Notes, len(before.Notes)+1)
	assert.Equal(t, "first", after.Notes[0].Text)
	assert.Equal(t, "Called, left voicemail", after.Notes[len(after.Notes)-1].Text)
	require.NotNil(t, after.UpdatedAt)
	assert.NotEqual(t, *before.UpdatedAt, *after.UpdatedAt)
}

func TestDeleteRemovesFromStatusBucket(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	keep, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)
	gone, err := s.Create(ctx, Input{Name: "John"})
	require.NoError(t, err)

	ok, err := s.Delete(ctx, gone.ID)
	require.NoError(t, err)
	require.True(t, ok)

	bucket, err := s.ByStatus(ctx, domain.LeadNew)
	require.NoError(t, err)
	require.Len(t, bucket, 1)
	assert.Equal(t, keep.ID, bucket[0].ID)
}

func TestByStatusEmpty(t *testing.T) {
	s, _, _ := newTestStore(t)

	bucket, err := s.ByStatus(context.Background(), domain.LeadClosed)
	require.NoError(t, err)
	assert.NotNil(t, bucket)
	assert.Empty(t, bucket)
}

func TestStatsTotalsMatch(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	statuses := []domain.LeadStatus{
		domain.LeadNew, domain.LeadContacted, domain.LeadContacted,
		domain.LeadQualified, domain.LeadClosed, domain.LeadNew,
	}
	for _, st := range statuses {
		lead, err := s.Create(ctx, janeDoe())
		require.NoError(t, err)
		st := st
		_, _, err = s.Update(ctx, lead.ID, Patch{Status: &st})
		require.NoError(t, err)
	}

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 6, New: 2, Contacted: 2, Qualified: 1, Closed: 1}, stats)
	assert.Equal(t, stats.Total, stats.New+stats.Contacted+stats.Qualified+stats.Closed)
}

func TestPersistedLeadRoundTrip(t *testing.T) {
	s, kv, _ := newTestStore(t)
	ctx := context.Background()

	in := janeDoe()
	in.Website = "https://acme.example"
	in.Services = "SEO, PPC"
	in.Budget = "$2,000-$5,000"
	created, err := s.Create(ctx, in)
	require.NoError(t, err)

	// A second store over the same backend decodes the stored record.
	reloaded := New(kv, nil, logger.NewNop())
	got, found, err := reloaded.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created, got)

	note, found, err := s.AddNote(ctx, created.ID, "called back")
	require.NoError(t, err)
	require.True(t, found)

	want := created
	want.Notes = []domain.Note{note}
	want.UpdatedAt = &note.CreatedAt

	got, found, err = reloaded.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
	require.NotNil(t, got.UpdatedAt)
}

func TestMalformedCollectionPropagates(t *testing.T) {
	s, kv, _ := newTestStore(t)
	ctx := context.Background()
	kv.Set(store.KeyLeads, []byte("{not json"))

	_, err := s.List(ctx)
	require.Error(t, err)

	_, err = s.Create(ctx, janeDoe())
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	acme, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)
	_, err = s.Create(ctx, Input{Name: "Bob", Email: "bob@plumbing.ca", Business: "Bob's Plumbing"})
	require.NoError(t, err)
	qualified := domain.LeadQualified
	_, _, err = s.Update(ctx, acme.ID, Patch{Status: &qualified})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: Filter{}, want: []string{"Bob", "Jane Doe"}},
		{name: "all status", filter: Filter{Status: StatusAll}, want: []string{"Bob", "Jane Doe"}},
		{name: "status only", filter: Filter{Status: "qualified"}, want: []string{"Jane Doe"}},
		{name: "query on business", filter: Filter{Query: "PLUMB"}, want: []string{"Bob"}},
		{name: "query on email", filter: Filter{Query: "jane@"}, want: []string{"Jane Doe"}},
		{name: "status and query", filter: Filter{Status: "new", Query: "acme"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, l := range got {
				names = append(names, l.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestWriteCSVEscapesFields(t *testing.T) {
	leads := []domain.Lead{{
		ID:        "1",
		Name:      `Doe, "Jane"`,
		Email:     "jane@x.com",
		Phone:     "555",
		Business:  "Acme, Inc.",
		Source:    "Contact Page",
		Status:    domain.LeadNew,
		CreatedAt: time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, leads))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{`Doe, "Jane"`, "jane@x.com", "555", "Acme, Inc.", "Contact Page", "new", "2024-03-01"}, records[1])
}

func TestConcurrentCreates(t *testing.T) {
	s, _, d := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, janeDoe())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
	assert.Len(t, d.leads, 20)
}
