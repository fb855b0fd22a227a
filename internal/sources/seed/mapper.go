package seed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/silahub/site/internal/domain"
)

// Mapper converts seed file entries to domain.BlogPost values.
type Mapper struct {
	newID func() string
}

// NewMapper creates a mapper that assigns ids with newID.
func NewMapper(newID func() string) *Mapper {
	return &Mapper{newID: newID}
}

// MapPosts converts every entry of f, in file order. Seeded posts are
// published unless the entry says otherwise.
func (m *Mapper) MapPosts(f File, now time.Time) ([]domain.BlogPost, error) {
	if len(f.Posts) == 0 {
		return nil, errors.New("no posts found in seed file")
	}

	posts := make([]domain.BlogPost, 0, len(f.Posts))
	for i, props := range f.Posts {
		post, err := m.mapPost(props, now)
		if err != nil {
			return nil, fmt.Errorf("seed post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (m *Mapper) mapPost(p PostProps, now time.Time) (domain.BlogPost, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return domain.BlogPost{}, errors.New("missing title")
	}

	status := domain.PostPublished
	if p.Status != "" {
		s, err := domain.ParsePostStatus(p.Status)
		if err != nil {
			return domain.BlogPost{}, err
		}
		status = s
	}

	publishedAt := now
	if p.PublishedAgo != "" {
		ago, err := time.ParseDuration(p.PublishedAgo)
		if err != nil {
			return domain.BlogPost{}, fmt.Errorf("invalid publishedAgo %q: %w", p.PublishedAgo, err)
		}
		publishedAt = now.Add(-ago)
	}

	slug := p.Slug
	if slug == "" {
		slug = domain.Slugify(title)
	}

	return domain.BlogPost{
		ID:              m.newID(),
		Title:           title,
		Slug:            slug,
		Excerpt:         p.Excerpt,
		Content:         p.Content,
		Author:          orDefault(p.Author, domain.DefaultAuthor),
		PublishedAt:     publishedAt.UTC(),
		Status:          status,
		FeaturedImage:   orDefault(p.FeaturedImage, domain.DefaultFeaturedImage),
		Tags:            domain.NormalizeTags(p.Tags),
		MetaDescription: p.MetaDescription,
		MetaKeywords:    p.MetaKeywords,
	}, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
