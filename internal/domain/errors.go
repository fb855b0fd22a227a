package domain

import "errors"

var (
	// ErrInvalidStatus is returned when a status value is outside its enumeration.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrSlugTaken is returned when a post title normalises to a slug
	// already held by another post.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrEmptySlug is returned when a post title has no letters or digits.
	ErrEmptySlug = errors.New("title must contain letters or digits")
)
