package domain

import (
	"fmt"
	"time"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Valid reports whether s is draft or published.
func (s PostStatus) Valid() bool {
	return s == PostDraft || s == PostPublished
}

// ParsePostStatus converts raw text into a PostStatus.
func ParsePostStatus(raw string) (PostStatus, error) {
	s := PostStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: post status %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// BlogPost is one article of the site blog.
type BlogPost struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Slug is derived from Title and used by the public blog routes.
	Slug string `json:"slug"`

	Excerpt string `json:"excerpt"`

	// Content is the editor's HTML, stored verbatim.
	Content string `json:"content"`

	Author      string     `json:"author"`
	PublishedAt time.Time  `json:"publishedAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Status      PostStatus `json:"status"`

	FeaturedImage   string   `json:"featuredImage"`
	Tags            []string `json:"tags"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	MetaKeywords    string   `json:"metaKeywords,omitempty"`
}

// IsPublished reports whether the post is visible on the public blog.
func (p BlogPost) IsPublished() bool {
	return p.Status == PostPublished
}

const (
	// DefaultAuthor is used when the editor leaves the author empty.
	DefaultAuthor = "Silahub Team"

	// DefaultFeaturedImage is used when the editor leaves the image empty.
	DefaultFeaturedImage = "https://images.unsplash.com/photo-1460925895917-afdab827c52f?ixlib=rb-4.0.3&auto=format&fit=crop&w=2015&q=80"
)
