package ports

import (
	"context"
	"time"

	"github.com/roaziy/gdg-news-bot/internal/domain"
)

// ArticleSource pulls fresh, already-filtered articles from one feed.
// Implementations never fail: a dead source yields an empty slice.
type ArticleSource interface {
	Name() string
	FetchArticles(ctx context.Context, maxPerSource int) []domain.Article
}

// Translator converts text into the configured target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Messenger is the chat-platform boundary consumed by the delivery pipeline.
// Send errors wrap domain.ErrForbidden / domain.ErrNotFound so the pipeline
// can isolate permission failures per channel.
type Messenger interface {
	ChannelCapabilities(channelID string) (domain.Capabilities, error)
	SendNews(ctx context.Context, channelID string, msg domain.Message, rich bool) error
}

// WatermarkStore persists the last successful delivery timestamp. A missing
// or corrupt backing file reads as absent, never as an error.
type WatermarkStore interface {
	Read() (time.Time, bool)
	Write(t time.Time) error
}
