package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/silahub/site/internal/blog"
	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/httpserver/deps"
)

// tagList accepts tags either as a JSON array or as the editor's comma
// separated text field.
type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*t = domain.SplitTags(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

type postRequest struct {
	Title           string  `json:"title" validate:"required,max=300"`
	Excerpt         string  `json:"excerpt" validate:"max=1000"`
	Content         string  `json:"content"`
	Author          string  `json:"author" validate:"max=200"`
	Status          string  `json:"status" validate:"omitempty,oneof=draft published"`
	FeaturedImage   string  `json:"featuredImage" validate:"omitempty,url"`
	Tags            tagList `json:"tags"`
	MetaDescription string  `json:"metaDescription" validate:"max=500"`
	MetaKeywords    string  `json:"metaKeywords" validate:"max=500"`
}

type postPatchRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=1,max=300"`
	Excerpt         *string  `json:"excerpt" validate:"omitempty,max=1000"`
	Content         *string  `json:"content"`
	Author          *string  `json:"author" validate:"omitempty,max=200"`
	Status          *string  `json:"status" validate:"omitempty,oneof=draft published"`
	FeaturedImage   *string  `json:"featuredImage" validate:"omitempty,url"`
	Tags            *tagList `json:"tags"`
	MetaDescription *string  `json:"metaDescription" validate:"omitempty,max=500"`
	MetaKeywords    *string  `json:"metaKeywords" validate:"omitempty,max=500"`
}

// PublishedPosts lists the published posts, newest first.
func PublishedPosts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := d.Blog.Published(r.Context())
		if err != nil {
			storeFailure(w, r, d, "list published posts", err)
			return
		}
		Success(w, http.StatusOK, "", posts)
	}
}

// PostBySlug returns one published post.
func PostBySlug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok, err := d.Blog.BySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			storeFailure(w, r, d, "get post by slug", err)
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "post not found")
			return
		}
		Success(w, http.StatusOK, "", post)
	}
}

// ListPosts lists every post for the editor, drafts included.
func ListPosts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := d.Blog.List(r.Context())
		if err != nil {
			storeFailure(w, r, d, "list posts", err)
			return
		}
		Success(w, http.StatusOK, "", posts)
	}
}

// GetPost returns one post by id whatever its status.
func GetPost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok, err := d.Blog.ByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			storeFailure(w, r, d, "get post", err)
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "post not found")
			return
		}
		Success(w, http.StatusOK, "", post)
	}
}

// CreatePost stores a new post from the editor.
func CreatePost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postRequest
		if !decodeAndValidate(w, r, d, &req) {
			return
		}

		post, err := d.Blog.Create(r.Context(), blog.Input{
			Title:           req.Title,
			Excerpt:         req.Excerpt,
			Content:         req.Content,
			Author:          req.Author,
			Status:          domain.PostStatus(req.Status),
			FeaturedImage:   req.FeaturedImage,
			Tags:            req.Tags,
			MetaDescription: req.MetaDescription,
			MetaKeywords:    req.MetaKeywords,
		})
		if err != nil {
			storeFailure(w, r, d, "create post", err)
			return
		}
		countPostWrite(d, "create")
		Success(w, http.StatusCreated, "post created", post)
	}
}

// UpdatePost applies an editor patch.
func UpdatePost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postPatchRequest
		if !decodeAndValidate(w, r, d, &req) {
			return
		}

		patch := blog.Patch{
			Title:           req.Title,
			Excerpt:         req.Excerpt,
			Content:         req.Content,
			Author:          req.Author,
			FeaturedImage:   req.FeaturedImage,
			MetaDescription: req.MetaDescription,
			MetaKeywords:    req.MetaKeywords,
		}
		if req.Status != nil {
			status := domain.PostStatus(*req.Status)
			patch.Status = &status
		}
		if req.Tags != nil {
			tags := []string(*req.Tags)
			patch.Tags = &tags
		}

		post, ok, err := d.Blog.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			storeFailure(w, r, d, "update post", err)
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "post not found")
			return
		}
		countPostWrite(d, "update")
		Success(w, http.StatusOK, "post updated", post)
	}
}

// DeletePost removes a post.
func DeletePost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := d.Blog.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			storeFailure(w, r, d, "delete post", err)
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "post not found")
			return
		}
		countPostWrite(d, "delete")
		Success(w, http.StatusOK, "post deleted", nil)
	}
}

func countPostWrite(d deps.Deps, op string) {
	if d.Metrics != nil {
		d.Metrics.PostsWritten.WithLabelValues(op).Inc()
	}
}
