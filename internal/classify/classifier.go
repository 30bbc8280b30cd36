// Package classify decides whether a news item is on-topic tech news.
//
// The filter is tiered: feed-reported categories are the most reliable
// signal and decide first; articles without categories fall back to keyword
// scoring over title+description. Pure and deterministic, so it is tested
// with literal (title, description, categories) triples.
package classify

import "strings"

// IsRelevant reports whether an article qualifies as tech news.
// Matching is case-insensitive; categories may be empty but not decisive-nil.
func IsRelevant(title, description string, categories []string) bool {
	if len(categories) > 0 {
		if verdict, decided := categoryVerdict(categories); decided {
			return verdict
		}
	}
	return keywordVerdict(title, description)
}

// categoryVerdict applies the category tier. The second return is false when
// the tier reaches no decision and the keyword fallback should run.
func categoryVerdict(categories []string) (bool, bool) {
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = strings.ToLower(cat)
	}

	hasCoreTech := containsAnyExact(names, coreTechCategories)

	// Hard exclusions dominate, unless an explicit core tech category is
	// also present, in which case evaluation falls through.
	for _, name := range names {
		for _, excluded := range hardExcludeCategories {
			if strings.Contains(name, excluded) && !hasCoreTech {
				return false, true
			}
		}
	}

	// Policy coverage passes only when anchored on core tech AND a named
	// tech company.
	if containsAnyExact(names, politicalCategories) {
		return hasCoreTech && containsAnyExact(names, techCompanyCategories), true
	}

	if hasCoreTech {
		return true, true
	}

	// Gaming counts as tech industry coverage, not as entertainment reviews.
	if containsExact(names, "gaming") &&
		!containsExact(names, "games review") && !containsExact(names, "entertainment") {
		return true, true
	}

	return false, false
}

// keywordVerdict scores the concatenated title and description. Exclusion
// keywords veto first; otherwise a single core tech keyword qualifies.
func keywordVerdict(title, description string) bool {
	content := strings.ToLower(title + " " + description)

	for _, keyword := range excludeKeywords {
		if strings.Contains(content, keyword) {
			return false
		}
	}

	score := 0
	for _, keyword := range coreTechKeywords {
		if strings.Contains(content, keyword) {
			score++
		}
	}
	return score > 0
}

func containsExact(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsAnyExact(haystack, needles []string) bool {
	for _, needle := range needles {
		if containsExact(haystack, needle) {
			return true
		}
	}
	return false
}
