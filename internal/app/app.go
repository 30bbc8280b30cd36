// Package app wires configuration to the bot, scheduler, and health server
// and owns their lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roaziy/gdg-news-bot/internal/config"
	"github.com/roaziy/gdg-news-bot/internal/delivery"
	"github.com/roaziy/gdg-news-bot/internal/discordbot"
	"github.com/roaziy/gdg-news-bot/internal/dispatch"
	"github.com/roaziy/gdg-news-bot/internal/feed"
	"github.com/roaziy/gdg-news-bot/internal/health"
	"github.com/roaziy/gdg-news-bot/internal/logging"
	"github.com/roaziy/gdg-news-bot/internal/ports"
	"github.com/roaziy/gdg-news-bot/internal/translate"
	"github.com/roaziy/gdg-news-bot/internal/watermark"
)

const shutdownGrace = 5 * time.Second

// Application holds the wired components of the news bot.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	bot        *discordbot.Bot
	dispatcher *dispatch.Dispatcher
	health     *health.Server
}

// New builds a runnable application from validated configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	watermarks := watermark.NewStore(cfg.News.WatermarkFile, baseLogger.With("component", "watermark"))

	opts := feed.Options{
		StrictFilter: cfg.News.StrictFilter,
		Lookback:     time.Duration(cfg.News.LookbackHours) * time.Hour,
		ScanLimit:    cfg.News.ScanLimit,
		Reference:    time.UTC,
	}
	sources := make([]ports.ArticleSource, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources = append(sources, feed.NewSource(src, opts, baseLogger.With("component", "source", "feed", src.Name)))
	}
	aggregator := feed.NewAggregator(sources, baseLogger.With("component", "aggregator"))

	translator := translate.NewGoogleClient(cfg.Translation.SourceLanguage, cfg.Translation.TargetLanguage)

	bot, err := discordbot.New(cfg.Discord.Token, baseLogger.With("component", "discord"))
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	pipeline := delivery.NewPipeline(bot, translator, watermarks, baseLogger.With("component", "delivery"))
	dispatcher := dispatch.NewDispatcher(aggregator, pipeline, watermarks, cfg, baseLogger.With("component", "dispatch"))
	bot.SetDispatcher(dispatcher)

	app := &Application{
		cfg:        cfg,
		logger:     baseLogger,
		bot:        bot,
		dispatcher: dispatcher,
	}
	app.health = health.NewServer(cfg.Health.Port, app, baseLogger)
	return app, nil
}

// Connected reports the gateway connection state for health probes.
func (a *Application) Connected() bool { return a.bot.Connected() }

// Status exposes the scheduler snapshot for health probes.
func (a *Application) Status() dispatch.Status { return a.dispatcher.Status() }

// Run starts every component and blocks until ctx is canceled or the health
// server fails. Components stop in reverse order of startup.
func (a *Application) Run(ctx context.Context) error {
	if err := a.bot.Start(ctx); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer func() {
		if err := a.bot.Stop(); err != nil {
			a.logger.Error("cannot close discord session", "error", err)
		}
	}()

	a.dispatcher.Start(ctx)

	healthErr := make(chan error, 1)
	go func() { healthErr <- a.health.Start() }()

	a.logger.Info("gdg-news-bot started",
		"channels", len(a.cfg.Discord.ChannelIDs),
		"sources", len(a.cfg.Sources),
		"health_port", a.cfg.Health.Port)

	select {
	case <-ctx.Done():
	case err := <-healthErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.health.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("health server shutdown failed", "error", err)
	}
	return nil
}
