package seed

// Builtin is the seed used when no seed file is configured: two example
// articles, the second published a day before the first.
var Builtin = File{Posts: []PostProps{
	{
		Title:           "How to Dominate Local SEO in Calgary",
		Slug:            "how-to-dominate-local-seo-in-calgary",
		Excerpt:         "Learn the essential strategies to rank your home service business at the top of local search results in Calgary.",
		Content:         `<h2>Understanding Local SEO in Calgary</h2><p>Local SEO is crucial for home service businesses in Calgary. With the right strategies, you can dominate local search results and attract more customers.</p><h3>Key Local SEO Strategies</h3><ul><li>Optimize your Google My Business profile</li><li>Build local citations</li><li>Generate positive reviews</li><li>Create location-specific content</li></ul>`,
		Author:          "Silahub Team",
		Status:          "published",
		FeaturedImage:   "https://images.unsplash.com/photo-1460925895917-afdab827c52f?ixlib=rb-4.0.3&auto=format&fit=crop&w=2015&q=80",
		Tags:            []string{"SEO", "Local Marketing", "Calgary"},
		MetaDescription: "Learn essential local SEO strategies to dominate Calgary search results for your home service business.",
		MetaKeywords:    "local SEO Calgary, Calgary SEO, home service SEO",
	},
	{
		Title:           "Google Ads vs Facebook Ads: Which is Better for Home Services?",
		Slug:            "google-ads-vs-facebook-ads-for-home-services",
		Excerpt:         "Compare Google Ads and Facebook Ads to determine the best advertising platform for your home service business.",
		Content:         `<h2>Google Ads vs Facebook Ads</h2><p>Both platforms offer unique advantages for home service businesses. Let's explore which one might be better for your specific needs.</p><h3>Google Ads Advantages</h3><ul><li>High intent traffic</li><li>Local targeting</li><li>Immediate results</li></ul><h3>Facebook Ads Advantages</h3><ul><li>Detailed targeting options</li><li>Visual storytelling</li><li>Lower cost per click</li></ul>`,
		Author:          "Silahub Team",
		Status:          "published",
		FeaturedImage:   "https://images.unsplash.com/photo-1611224923853-80b023f02d71?ixlib=rb-4.0.3&auto=format&fit=crop&w=2039&q=80",
		Tags:            []string{"Google Ads", "Facebook Ads", "PPC Marketing"},
		MetaDescription: "Compare Google Ads and Facebook Ads to find the best advertising platform for your home service business.",
		MetaKeywords:    "Google Ads, Facebook Ads, home service advertising, PPC marketing",
		PublishedAgo:    "24h",
	},
}}
