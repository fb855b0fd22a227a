package store

const (
	// KeyLeads holds the lead collection, newest first.
	KeyLeads = "silahub_leads"
	// KeyBlogPosts holds the blog post collection, newest first.
	KeyBlogPosts = "silahub_blog_posts"
	// KeyAdminSession holds the admin session flag.
	KeyAdminSession = "silahub_admin_session"
)
