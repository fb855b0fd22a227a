// Package blog manages the blog post collection and its public views.
package blog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/store"
)

// Seeder returns the posts written when the collection does not exist yet.
type Seeder func(now time.Time) ([]domain.BlogPost, error)

// Input carries the editor fields of a new post.
type Input struct {
	Title           string
	Excerpt         string
	Content         string
	Author          string
	Status          domain.PostStatus
	FeaturedImage   string
	Tags            []string
	MetaDescription string
	MetaKeywords    string
}

// Patch lists the post fields the editor may change. Nil fields are kept.
type Patch struct {
	Title           *string
	Excerpt         *string
	Content         *string
	Author          *string
	Status          *domain.PostStatus
	FeaturedImage   *string
	Tags            *[]string
	MetaDescription *string
	MetaKeywords    *string
}

// Store is the post collection persisted under store.KeyBlogPosts.
type Store struct {
	kv     store.Store
	seeder Seeder
	log    logger.Logger

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

// New creates a Store. A nil seeder seeds an empty collection.
func New(kv store.Store, seeder Seeder, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		seeder: seeder,
		log:    log.Named("blog"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new post at the head of the collection. Its slug is
// derived from the title and must not already be held by another post.
func (s *Store) Create(ctx context.Context, in Input) (domain.BlogPost, error) {
	status := in.Status
	if status == "" {
		status = domain.PostDraft
	}
	if !status.Valid() {
		return domain.BlogPost{}, fmt.Errorf("%w: post status %q", domain.ErrInvalidStatus, status)
	}

	slug := domain.Slugify(in.Title)
	if slug == "" {
		return domain.BlogPost{}, fmt.Errorf("%w: %q", domain.ErrEmptySlug, in.Title)
	}

	post := domain.BlogPost{
		ID:              s.newID(),
		Title:           in.Title,
		Slug:            slug,
		Excerpt:         in.Excerpt,
		Content:         in.Content,
		Author:          orDefault(in.Author, domain.DefaultAuthor),
		PublishedAt:     s.now().UTC(),
		Status:          status,
		FeaturedImage:   orDefault(in.FeaturedImage, domain.DefaultFeaturedImage),
		Tags:            domain.NormalizeTags(in.Tags),
		MetaDescription: in.MetaDescription,
		MetaKeywords:    in.MetaKeywords,
	}

	err := s.mutate(ctx, func(items []domain.BlogPost) ([]domain.BlogPost, bool, error) {
		if slugHeldByOther(items, post.Slug, "") {
			return nil, false, fmt.Errorf("%w: %q", domain.ErrSlugTaken, post.Slug)
		}
		return append([]domain.BlogPost{post}, items...), true, nil
	})
	if err != nil {
		return domain.BlogPost{}, fmt.Errorf("failed to create post: %w", err)
	}

	s.log.Info("post created",
		logger.String("id", post.ID),
		logger.String("slug", post.Slug),
		logger.String("status", string(post.Status)))
	return post, nil
}

// Update merges patch into the post with the given id. The slug is
// recomputed only when the patch carries a title.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (domain.BlogPost, bool, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return domain.BlogPost{}, false, fmt.Errorf("%w: post status %q", domain.ErrInvalidStatus, *patch.Status)
	}
	if patch.Title != nil && domain.Slugify(*patch.Title) == "" {
		return domain.BlogPost{}, false, fmt.Errorf("%w: %q", domain.ErrEmptySlug, *patch.Title)
	}

	var (
		updated domain.BlogPost
		found   bool
	)
	err := s.mutate(ctx, func(items []domain.BlogPost) ([]domain.BlogPost, bool, error) {
		found = false
		i := indexOf(items, id)
		if i < 0 {
			return nil, false, nil
		}
		found = true

		p := items[i]
		applyPatch(&p, patch)
		if patch.Title != nil {
			p.Slug = domain.Slugify(p.Title)
			if slugHeldByOther(items, p.Slug, p.ID) {
				return nil, false, fmt.Errorf("%w: %q", domain.ErrSlugTaken, p.Slug)
			}
		}
		now := s.now().UTC()
		p.UpdatedAt = &now

		items[i] = p
		updated = p
		return items, true, nil
	})
	if err != nil {
		return domain.BlogPost{}, false, fmt.Errorf("failed to update post %s: %w", id, err)
	}
	return updated, found, nil
}

// Delete removes the post with the given id.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.mutate(ctx, func(items []domain.BlogPost) ([]domain.BlogPost, bool, error) {
		removed = false
		i := indexOf(items, id)
		if i < 0 {
			return nil, false, nil
		}
		removed = true
		return slices.Delete(items, i, i+1), true, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return removed, nil
}

// List returns every post in store order, drafts included.
func (s *Store) List(ctx context.Context) ([]domain.BlogPost, error) {
	items, found, err := store.LoadCollection[domain.BlogPost](ctx, s.kv, store.KeyBlogPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if found {
		return items, nil
	}

	// First use: seed unless another writer got there first.
	err = s.mutate(ctx, func(current []domain.BlogPost) ([]domain.BlogPost, bool, error) {
		items = current
		return nil, false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return items, nil
}

// ByID returns the post with the given id whatever its status.
func (s *Store) ByID(ctx context.Context, id string) (domain.BlogPost, bool, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.BlogPost{}, false, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], true, nil
	}
	return domain.BlogPost{}, false, nil
}

// BySlug returns the first published post with the given slug. Drafts are
// never returned.
func (s *Store) BySlug(ctx context.Context, slug string) (domain.BlogPost, bool, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.BlogPost{}, false, err
	}
	for _, p := range items {
		if p.Slug == slug && p.IsPublished() {
			return p, true, nil
		}
	}
	return domain.BlogPost{}, false, nil
}

// Published returns the published posts, newest publication first.
func (s *Store) Published(ctx context.Context) ([]domain.BlogPost, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BlogPost, 0, len(items))
	for _, p := range items {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.BlogPost) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return out, nil
}

// mutate runs fn over the collection, seeding it first when the key is
// absent. The seed is written even when fn reports no change.
func (s *Store) mutate(ctx context.Context, fn func([]domain.BlogPost) ([]domain.BlogPost, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return store.MutateCollection(ctx, s.kv, store.KeyBlogPosts, func(items []domain.BlogPost, found bool) ([]domain.BlogPost, bool, error) {
		seeded := false
		if !found {
			seed, err := s.seed()
			if err != nil {
				return nil, false, err
			}
			items, seeded = seed, true
		}

		next, changed, err := fn(items)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return items, seeded, nil
		}
		return next, true, nil
	})
}

func (s *Store) seed() ([]domain.BlogPost, error) {
	if s.seeder == nil {
		return []domain.BlogPost{}, nil
	}
	posts, err := s.seeder(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build seed posts: %w", err)
	}
	s.log.Info("seeding blog", logger.Int("posts", len(posts)))
	return posts, nil
}

func applyPatch(p *domain.BlogPost, patch Patch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Title, patch.Title)
	set(&p.Excerpt, patch.Excerpt)
	set(&p.Content, patch.Content)
	set(&p.MetaDescription, patch.MetaDescription)
	set(&p.MetaKeywords, patch.MetaKeywords)
	if patch.Author != nil {
		p.Author = orDefault(*patch.Author, domain.DefaultAuthor)
	}
	if patch.FeaturedImage != nil {
		p.FeaturedImage = orDefault(*patch.FeaturedImage, domain.DefaultFeaturedImage)
	}
	if patch.Tags != nil {
		p.Tags = domain.NormalizeTags(*patch.Tags)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
}

func slugHeldByOther(items []domain.BlogPost, slug, selfID string) bool {
	return slices.ContainsFunc(items, func(p domain.BlogPost) bool {
		return p.Slug == slug && p.ID != selfID
	})
}

func indexOf(items []domain.BlogPost, id string) int {
	return slices.IndexFunc(items, func(p domain.BlogPost) bool { return p.ID == id })
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
