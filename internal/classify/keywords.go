package classify

// Rule lists for the tech-news relevance filter. These are versioned
// configuration data: every component classifies against this single set,
// and changes here change product behavior. Keep entries lower-case.

// coreTechCategories strongly indicate tech content when reported as feed tags.
var coreTechCategories = []string{
	"tech", "ai", "apple", "google", "microsoft", "meta", "intel",
	"nvidia", "amd", "samsung", "hardware", "software", "gadgets",
}

// hardExcludeCategories mark articles we never want, unless a core tech
// category is also present on the same article.
var hardExcludeCategories = []string{
	"entertainment", "film", "tv shows", "streaming", "games review",
	"sports", "health", "medical", "climate", "environment", "culture",
	"food", "travel", "lifestyle", "speech",
}

// politicalCategories gate policy coverage: such articles pass only when the
// piece is anchored on both a core tech category and a named tech company.
var politicalCategories = []string{"politics", "policy"}

// techCompanyCategories name the companies whose policy coverage still counts
// as tech news.
var techCompanyCategories = []string{
	"apple", "google", "microsoft", "meta", "intel",
	"nvidia", "amd", "openai", "tesla", "amazon",
}

// excludeKeywords reject untagged articles from the keyword fallback.
var excludeKeywords = []string{
	"movie", "film", "tv show", "celebrity", "entertainment industry",
	"sports", "football", "basketball", "olympics", "game review",
	"climate change", "global warming", "health crisis",
}

// coreTechKeywords accept untagged articles: one match is enough.
var coreTechKeywords = []string{
	// Major tech companies
	"apple", "google", "microsoft", "meta", "amazon", "tesla", "nvidia",
	"intel", "amd", "openai", "anthropic", "samsung", "qualcomm",

	// Core technologies
	"artificial intelligence", "machine learning", "blockchain", "cryptocurrency",
	"quantum computing", "robotics", "automation", "cybersecurity",

	// Devices & hardware
	"smartphone", "iphone", "android", "laptop", "tablet", "processor",
	"chip", "semiconductor", "cpu", "gpu", "smartwatch", "drone",

	// Software & platforms
	"software development", "app store", "operating system", "cloud computing", "api",
}
