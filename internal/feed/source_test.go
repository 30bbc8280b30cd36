package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roaziy/gdg-news-bot/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rssDocument(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Feed</title>%s</channel></rss>`, items)
}

func rssItem(title, desc, link, pubDate, category string) string {
	cat := ""
	if category != "" {
		cat = "<category>" + category + "</category>"
	}
	date := ""
	if pubDate != "" {
		date = "<pubDate>" + pubDate + "</pubDate>"
	}
	return fmt.Sprintf(`<item><title>%s</title><description>%s</description><link>%s</link>%s%s</item>`,
		title, desc, link, date, cat)
}

func newTestSource(t *testing.T, body string, opts Options) *Source {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	src := NewSource(config.SourceConfig{Name: "The Verge", FeedURL: server.URL}, opts, discardLogger())
	src.now = func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	return src
}

func TestFetchArticlesWindowsAndFilters(t *testing.T) {
	t.Parallel()

	// Out-of-window entries come first to prove feed position does not
	// matter, only the publish timestamp.
	body := rssDocument(
		rssItem("Nvidia history lesson", "old story", "https://x/1", "Thu, 12 Jun 2025 09:00:00 GMT", "tech") +
			rssItem("Intel retrospective", "older", "https://x/2", "Fri, 13 Jun 2025 09:00:00 GMT", "tech") +
			rssItem("Archive piece on GPUs", "oldest", "https://x/3", "Tue, 10 Jun 2025 09:00:00 GMT", "tech") +
			rssItem("Apple unveils new chip", "fresh silicon", "https://x/4", "Sun, 15 Jun 2025 10:00:00 GMT", "tech") +
			rssItem("Nvidia earnings soar", "record quarter", "https://x/5", "Sun, 15 Jun 2025 08:00:00 GMT", "ai"),
	)

	src := newTestSource(t, body, Options{StrictFilter: true, Lookback: 24 * time.Hour})

	articles := src.FetchArticles(context.Background(), 0)
	if len(articles) != 2 {
		t.Fatalf("expected 2 in-window articles, got %d", len(articles))
	}
	if articles[0].Link != "https://x/4" || articles[1].Link != "https://x/5" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}

func TestFetchArticlesStrictFilter(t *testing.T) {
	t.Parallel()

	body := rssDocument(
		rssItem("Apple unveils new chip", "fresh silicon", "https://x/1", "Sun, 15 Jun 2025 10:00:00 GMT", "tech") +
			rssItem("Best pasta in town", "a food story", "https://x/2", "Sun, 15 Jun 2025 09:00:00 GMT", "food"),
	)

	strict := newTestSource(t, body, Options{StrictFilter: true, Lookback: 24 * time.Hour})
	if got := strict.FetchArticles(context.Background(), 0); len(got) != 1 {
		t.Fatalf("strict filter: expected 1 article, got %d", len(got))
	}

	relaxed := newTestSource(t, body, Options{StrictFilter: false, Lookback: 24 * time.Hour})
	if got := relaxed.FetchArticles(context.Background(), 0); len(got) != 2 {
		t.Fatalf("relaxed filter: expected 2 articles, got %d", len(got))
	}
}

func TestFetchArticlesSkipsMalformedAndCaps(t *testing.T) {
	t.Parallel()

	body := rssDocument(
		rssItem("No timestamp here", "tech chip story", "https://x/1", "", "tech") +
			rssItem("First good article", "chip", "https://x/2", "Sun, 15 Jun 2025 11:00:00 GMT", "tech") +
			rssItem("Second good article", "gpu", "https://x/3", "Sun, 15 Jun 2025 10:00:00 GMT", "tech") +
			rssItem("Third good article", "cpu", "https://x/4", "Sun, 15 Jun 2025 09:00:00 GMT", "tech"),
	)

	src := newTestSource(t, body, Options{StrictFilter: true, Lookback: 24 * time.Hour})

	articles := src.FetchArticles(context.Background(), 2)
	if len(articles) != 2 {
		t.Fatalf("expected per-source cap of 2, got %d", len(articles))
	}
	if articles[0].Title != "First good article" {
		t.Fatalf("unexpected first article: %q", articles[0].Title)
	}
}

func TestFetchArticlesDeadSource(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	src := NewSource(config.SourceConfig{Name: "dead", FeedURL: server.URL}, Options{}, discardLogger())
	if got := src.FetchArticles(context.Background(), 3); got != nil {
		t.Fatalf("expected nil from dead source, got %v", got)
	}
}
