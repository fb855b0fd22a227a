package seed

// File is the top-level structure of a blog seed file.
type File struct {
	Posts []PostProps `yaml:"posts"`
}

// PostProps describes one seeded post. Only title is required.
type PostProps struct {
	Title           string   `yaml:"title"`
	Slug            string   `yaml:"slug,omitempty"`
	Excerpt         string   `yaml:"excerpt,omitempty"`
	Content         string   `yaml:"content,omitempty"`
	Author          string   `yaml:"author,omitempty"`
	Status          string   `yaml:"status,omitempty"`
	FeaturedImage   string   `yaml:"featuredImage,omitempty"`
	Tags            []string `yaml:"tags,omitempty"`
	MetaDescription string   `yaml:"metaDescription,omitempty"`
	MetaKeywords    string   `yaml:"metaKeywords,omitempty"`

	// PublishedAgo offsets the publication time back from seeding time.
	// Example: "24h"
	PublishedAgo string `yaml:"publishedAgo,omitempty"`
}
