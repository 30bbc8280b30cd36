// Package feed fetches, normalizes, filters, and merges RSS news items.
package feed

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/roaziy/gdg-news-bot/internal/classify"
	"github.com/roaziy/gdg-news-bot/internal/config"
	"github.com/roaziy/gdg-news-bot/internal/domain"
	"github.com/roaziy/gdg-news-bot/internal/ports"
)

const fetchTimeout = 15 * time.Second

// Options tune how every source windows and filters its feed.
type Options struct {
	// StrictFilter toggles the relevance classifier; when off, every
	// windowed entry passes.
	StrictFilter bool
	// Lookback is the time window behind "now"; older entries are skipped.
	Lookback time.Duration
	// ScanLimit bounds how many raw entries are inspected per fetch.
	ScanLimit int
	// Reference is the timezone all publish timestamps normalize to.
	Reference *time.Location
}

// Source polls one RSS feed and yields relevant, time-windowed Articles.
type Source struct {
	name   string
	url    string
	parser *gofeed.Parser
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.ArticleSource = (*Source)(nil)

// NewSource wires a gofeed parser for one configured feed.
func NewSource(cfg config.SourceConfig, opts Options, logger *slog.Logger) *Source {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: fetchTimeout}
	parser.UserAgent = "gdg-news-bot/2.0"

	if opts.ScanLimit <= 0 {
		opts.ScanLimit = 20
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 24 * time.Hour
	}
	if opts.Reference == nil {
		opts.Reference = time.UTC
	}

	return &Source{
		name:   cfg.Name,
		url:    cfg.FeedURL,
		parser: parser,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Name identifies the source for display and branding.
func (s *Source) Name() string {
	return s.name
}

// FetchArticles returns up to maxPerSource relevant articles published within
// the lookback window. It never fails: a dead or unparseable source logs the
// problem and yields nothing, so one broken feed cannot abort the whole run.
func (s *Source) FetchArticles(ctx context.Context, maxPerSource int) []domain.Article {
	parsed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		s.logger.Error("feed fetch failed", "source", s.name, "url", s.url, "error", err)
		return nil
	}
	if len(parsed.Items) == 0 {
		s.logger.Warn("feed returned no entries", "source", s.name)
		return nil
	}

	cutoff := s.now().Add(-s.opts.Lookback)

	items := parsed.Items
	if len(items) > s.opts.ScanLimit {
		items = items[:s.opts.ScanLimit]
	}

	var articles []domain.Article
	for _, item := range items {
		article, err := Normalize(item, s.name, s.opts.Reference)
		if err != nil {
			s.logger.Debug("skipping malformed entry", "source", s.name, "error", err)
			continue
		}

		if article.Published.Before(cutoff) {
			continue
		}

		if s.opts.StrictFilter && !classify.IsRelevant(article.Title, article.Description, article.Categories) {
			continue
		}

		articles = append(articles, article)
		if maxPerSource > 0 && len(articles) >= maxPerSource {
			break
		}
	}

	s.logger.Debug("source produced articles", "source", s.name, "count", len(articles))
	return articles
}
