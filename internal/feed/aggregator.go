package feed

import (
	"context"
	"log/slog"
	"sort"

	"github.com/roaziy/gdg-news-bot/internal/domain"
	"github.com/roaziy/gdg-news-bot/internal/ports"
)

// Aggregator merges every configured source into one recency-ranked list.
type Aggregator struct {
	sources []ports.ArticleSource
	logger  *slog.Logger
}

// NewAggregator wires the configured sources.
func NewAggregator(sources []ports.ArticleSource, logger *slog.Logger) *Aggregator {
	return &Aggregator{sources: sources, logger: logger}
}

// SourceNames lists the configured sources for the status command.
func (a *Aggregator) SourceNames() []string {
	names := make([]string, 0, len(a.sources))
	for _, src := range a.sources {
		names = append(names, src.Name())
	}
	return names
}

// Aggregate concatenates all sources' output, sorts it newest-first, and
// truncates to globalCap. The sort is stable so timestamp ties keep source
// order then feed order, which makes repeated runs deterministic.
func (a *Aggregator) Aggregate(ctx context.Context, maxPerSource, globalCap int) []domain.Article {
	var merged []domain.Article
	for _, src := range a.sources {
		merged = append(merged, src.FetchArticles(ctx, maxPerSource)...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Published.After(merged[j].Published)
	})

	if globalCap > 0 && len(merged) > globalCap {
		merged = merged[:globalCap]
	}

	a.logger.Debug("aggregation done", "sources", len(a.sources), "articles", len(merged))
	return merged
}
