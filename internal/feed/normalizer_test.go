package feed

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/roaziy/gdg-news-bot/internal/domain"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	published := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)
	item := &gofeed.Item{
		Title:           "  Apple unveils   new chip ",
		Description:     "<p>The company <b>announced</b> a new\n\nprocessor.</p>",
		Link:            "https://example.com/a",
		PublishedParsed: &published,
		Categories:      []string{"Tech", " Apple "},
	}

	article, err := Normalize(item, "The Verge", time.UTC)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if article.Title != "Apple unveils new chip" {
		t.Fatalf("unexpected title: %q", article.Title)
	}
	if article.Description != "The company announced a new processor." {
		t.Fatalf("unexpected description: %q", article.Description)
	}
	if got := article.Categories; len(got) != 2 || got[0] != "tech" || got[1] != "apple" {
		t.Fatalf("unexpected categories: %v", got)
	}
	if !article.Published.Equal(published) {
		t.Fatalf("unexpected published: %v", article.Published)
	}
	if article.SourceName != "The Verge" {
		t.Fatalf("unexpected source: %q", article.SourceName)
	}
}

func TestNormalizeConvertsTimezone(t *testing.T) {
	t.Parallel()

	loc := mustLocation(t, "Asia/Ulaanbaatar")
	published := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		Title:           "Title",
		PublishedParsed: &published,
	}

	article, err := Normalize(item, "src", loc)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if article.Published.Location() != loc {
		t.Fatalf("expected %v location, got %v", loc, article.Published.Location())
	}
	// Same instant regardless of reference timezone, so cross-source sort
	// order stays correct.
	if !article.Published.Equal(published) {
		t.Fatalf("conversion changed the instant: %v", article.Published)
	}
}

func TestNormalizeTruncatesDescription(t *testing.T) {
	t.Parallel()

	published := time.Now().UTC()
	item := &gofeed.Item{
		Title:           "Title",
		Description:     strings.Repeat("ж", 450),
		PublishedParsed: &published,
	}

	article, err := Normalize(item, "src", time.UTC)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	runes := []rune(article.Description)
	if len(runes) != descriptionBudget+len([]rune(truncationMarker)) {
		t.Fatalf("unexpected truncated length: %d", len(runes))
	}
	if !strings.HasSuffix(article.Description, truncationMarker) {
		t.Fatalf("missing truncation marker: %q", article.Description[len(article.Description)-8:])
	}
}

func TestNormalizeMalformedEntries(t *testing.T) {
	t.Parallel()

	published := time.Now().UTC()
	cases := []struct {
		name string
		item *gofeed.Item
	}{
		{"missing timestamp", &gofeed.Item{Title: "Title", Link: "https://example.com/x"}},
		{"empty title", &gofeed.Item{Title: "  ", PublishedParsed: &published}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(tc.item, "src", time.UTC)
			var malformed *domain.MalformedEntryError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedEntryError, got %v", err)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain sentence already clean",
		"<p>tagged <em>content</em>  with   runs</p>",
		"  leading and trailing\t\twhitespace  ",
	}

	for _, input := range inputs {
		once := CleanText(input)
		if twice := CleanText(once); twice != once {
			t.Fatalf("CleanText not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}
