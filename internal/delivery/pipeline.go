// Package delivery fans articles out to the configured channels with
// per-article and per-channel failure isolation.
package delivery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/roaziy/gdg-news-bot/internal/domain"
	"github.com/roaziy/gdg-news-bot/internal/ports"
)

// translationFailedPrefix marks article text the backend could not translate;
// the original text is delivered rather than dropping the article.
const translationFailedPrefix = "[Орчуулга амжилтгүй]"

const (
	defaultArticlePace = time.Second
	defaultTargetPause = 3 * time.Second
)

// Pipeline delivers aggregated articles to every target channel.
type Pipeline struct {
	messenger  ports.Messenger
	translator ports.Translator
	watermarks ports.WatermarkStore
	logger     *slog.Logger

	articlePace time.Duration
	targetPause time.Duration
	now         func() time.Time
}

// NewPipeline wires the chat gateway, translator, and watermark store.
func NewPipeline(messenger ports.Messenger, translator ports.Translator, watermarks ports.WatermarkStore, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		messenger:   messenger,
		translator:  translator,
		watermarks:  watermarks,
		logger:      logger,
		articlePace: defaultArticlePace,
		targetPause: defaultTargetPause,
		now:         time.Now,
	}
}

// Deliver posts articles to every target and advances the watermark iff at
// least one target completed with at least one successful send.
func (p *Pipeline) Deliver(ctx context.Context, articles []domain.Article, targets []string) domain.DeliveryReport {
	report := p.deliverTargets(ctx, articles, targets)

	if report.SuccessfulTargets > 0 {
		if err := p.watermarks.Write(p.now()); err != nil {
			p.logger.Error("cannot persist watermark", "error", err)
		} else {
			report.WatermarkAdvanced = true
		}
	}

	return report
}

// DeliverAdHoc posts articles to a single channel for an on-demand request.
// On-demand posts never advance the watermark: they must not suppress the
// next scheduled delivery.
func (p *Pipeline) DeliverAdHoc(ctx context.Context, articles []domain.Article, channelID string) domain.DeliveryReport {
	return p.deliverTargets(ctx, articles, []string{channelID})
}

func (p *Pipeline) deliverTargets(ctx context.Context, articles []domain.Article, targets []string) domain.DeliveryReport {
	report := domain.DeliveryReport{Targets: len(targets)}

	for i, channelID := range targets {
		if i > 0 && !p.pause(ctx, p.targetPause) {
			break
		}

		sent := p.deliverToTarget(ctx, articles, channelID)
		if sent > 0 {
			report.SuccessfulTargets++
			report.ArticlesSent += sent
		} else {
			report.SkippedTargets++
		}
	}

	p.logger.Info("delivery run finished",
		"targets", report.Targets,
		"successful", report.SuccessfulTargets,
		"skipped", report.SkippedTargets,
		"articles_sent", report.ArticlesSent)
	return report
}

// deliverToTarget runs one channel's article loop and returns the number of
// successful sends. Every failure is contained here: a missing permission
// skips the channel, a Forbidden mid-loop aborts only its remaining articles,
// anything else skips just the one article.
func (p *Pipeline) deliverToTarget(ctx context.Context, articles []domain.Article, channelID string) int {
	caps, err := p.messenger.ChannelCapabilities(channelID)
	if err != nil {
		p.logger.Error("cannot resolve channel capabilities", "channel", channelID, "error", err)
		return 0
	}
	if !caps.CanSendMessages {
		p.logger.Warn("no send permission, skipping channel", "channel", channelID)
		return 0
	}

	limiter := rate.NewLimiter(rate.Every(p.articlePace), 1)
	sent := 0

	for _, article := range articles {
		if err := limiter.Wait(ctx); err != nil {
			return sent
		}

		msg := p.render(ctx, article)
		if err := p.messenger.SendNews(ctx, channelID, msg, caps.CanEmbedLinks); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				p.logger.Error("permission revoked mid-delivery, aborting channel", "channel", channelID, "error", err)
				return sent
			}
			p.logger.Error("cannot post article", "channel", channelID, "link", article.Link, "error", err)
			continue
		}
		sent++
	}

	p.logger.Info("posted articles to channel", "channel", channelID, "count", sent)
	return sent
}

// render translates the article into a deliverable message. Translation is
// fallible: on failure the original text ships behind a visible marker.
func (p *Pipeline) render(ctx context.Context, article domain.Article) domain.Message {
	return domain.Message{
		Title:         p.translateOrMark(ctx, article.Title),
		Description:   p.translateOrMark(ctx, article.Description),
		OriginalTitle: article.Title,
		Link:          article.Link,
		SourceName:    article.SourceName,
		Published:     article.Published,
	}
}

func (p *Pipeline) translateOrMark(ctx context.Context, text string) string {
	out, err := p.translator.Translate(ctx, text)
	if err != nil {
		p.logger.Error("translation failed, delivering original text", "error", err)
		return translationFailedPrefix + " " + text
	}
	return out
}

// pause waits for d or until the context is done, reporting whether delivery
// should continue.
func (p *Pipeline) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
