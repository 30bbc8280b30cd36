package feed

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/roaziy/gdg-news-bot/internal/domain"
)

// descriptionBudget caps the cleaned description length in runes.
const descriptionBudget = 300

const truncationMarker = "..."

var whitespaceExpr = regexp.MustCompile(`\s+`)

// Normalize converts one raw feed item into a canonical Article. It fails
// with *domain.MalformedEntryError when the item lacks a parseable publish
// timestamp or a title; callers skip the item and continue.
func Normalize(item *gofeed.Item, sourceName string, ref *time.Location) (domain.Article, error) {
	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published == nil {
		return domain.Article{}, &domain.MalformedEntryError{Link: item.Link, Reason: "no parseable publish timestamp"}
	}

	title := CleanText(item.Title)
	if title == "" {
		return domain.Article{}, &domain.MalformedEntryError{Link: item.Link, Reason: "empty title"}
	}

	description := CleanText(item.Description)
	if runes := []rune(description); len(runes) > descriptionBudget {
		description = string(runes[:descriptionBudget]) + truncationMarker
	}

	categories := make([]string, 0, len(item.Categories))
	for _, cat := range item.Categories {
		if c := strings.ToLower(strings.TrimSpace(cat)); c != "" {
			categories = append(categories, c)
		}
	}

	return domain.Article{
		Title:       title,
		Description: description,
		Link:        item.Link,
		Published:   published.In(ref),
		SourceName:  sourceName,
		Categories:  categories,
	}, nil
}

// CleanText strips HTML markup and collapses whitespace runs to single
// spaces. Idempotent on already-clean text.
func CleanText(raw string) string {
	text := raw
	if strings.ContainsAny(raw, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			text = doc.Text()
		}
	}
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}
