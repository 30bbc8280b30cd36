// Package dispatch decides when a delivery run happens: on a recurring tick
// gated by the persisted watermark, or on explicit user request.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/roaziy/gdg-news-bot/internal/config"
	"github.com/roaziy/gdg-news-bot/internal/delivery"
	"github.com/roaziy/gdg-news-bot/internal/domain"
	"github.com/roaziy/gdg-news-bot/internal/feed"
	"github.com/roaziy/gdg-news-bot/internal/ports"
)

// ErrBusy is returned when a trigger arrives while a run is in flight.
// Runs never execute concurrently: that would race the watermark and
// double-post articles.
var ErrBusy = errors.New("a delivery run is already in progress")

const defaultTick = time.Hour

// Status is a snapshot for the status command and the health endpoint.
type Status struct {
	LastCheck    time.Time
	EverChecked  bool
	NextCheck    time.Time
	Sources      []string
	Channels     []string
	StrictFilter bool
}

// Dispatcher owns both trigger paths into the delivery pipeline.
type Dispatcher struct {
	aggregator *feed.Aggregator
	pipeline   *delivery.Pipeline
	watermarks ports.WatermarkStore
	logger     *slog.Logger

	channels      []string
	maxPerPost    int
	onDemandLimit int
	intervalHours int
	dailyHour     int
	dailyEnabled  bool
	strictFilter  bool

	tick  time.Duration
	now   func() time.Time
	runMu sync.Mutex
}

// NewDispatcher wires the schedule configuration to the pipeline.
func NewDispatcher(agg *feed.Aggregator, pipe *delivery.Pipeline, watermarks ports.WatermarkStore, cfg config.Config, logger *slog.Logger) *Dispatcher {
	dailyHour, dailyEnabled := cfg.Schedule.DailyHour()
	return &Dispatcher{
		aggregator:    agg,
		pipeline:      pipe,
		watermarks:    watermarks,
		logger:        logger,
		channels:      cfg.Discord.ChannelIDs,
		maxPerPost:    cfg.News.MaxPerPost,
		onDemandLimit: cfg.News.OnDemandLimit,
		intervalHours: cfg.Schedule.IntervalHours,
		dailyHour:     dailyHour,
		dailyEnabled:  dailyEnabled,
		strictFilter:  cfg.News.StrictFilter,
		tick:          defaultTick,
		now:           time.Now,
	}
}

// Start runs the recurring tick until the context is canceled. Every tick is
// cheap: it reads the watermark and only fetches when a run is actually due.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.tick)
		defer ticker.Stop()

		d.checkDue(ctx)
		for {
			select {
			case <-ticker.C:
				d.checkDue(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (d *Dispatcher) checkDue(ctx context.Context) {
	if !d.dueNow() {
		return
	}
	if err := d.RunScheduled(ctx); err != nil && !errors.Is(err, ErrBusy) {
		d.logger.Error("scheduled run failed", "error", err)
	}
}

// dueNow derives "already ran this period" from the watermark instead of
// wall-clock arithmetic scattered across call sites.
func (d *Dispatcher) dueNow() bool {
	now := d.now().UTC()
	last, ok := d.watermarks.Read()
	if !ok {
		// Never checked is a valid first-run state; a due tick triggers.
		return true
	}

	if d.dailyEnabled {
		due := time.Date(now.Year(), now.Month(), now.Day(), d.dailyHour, 0, 0, 0, time.UTC)
		return !now.Before(due) && last.UTC().Before(due)
	}

	return now.Sub(last) >= time.Duration(d.intervalHours)*time.Hour
}

// RunScheduled performs one full aggregate-and-deliver run to the configured
// channels. A run already in flight returns ErrBusy; failures never
// propagate past this boundary, the worst outcome is zero articles
// delivered, watermark unchanged, error logged.
func (d *Dispatcher) RunScheduled(ctx context.Context) error {
	if !d.runMu.TryLock() {
		return ErrBusy
	}
	defer d.runMu.Unlock()

	d.logger.Info("checking for new tech news")
	articles := d.aggregator.Aggregate(ctx, d.maxPerPost, d.maxPerPost)
	if len(articles) == 0 {
		d.logger.Info("no recent tech news found")
		return nil
	}

	report := d.pipeline.Deliver(ctx, articles, d.channels)
	d.logger.Info("scheduled delivery done",
		"articles", len(articles),
		"successful_channels", report.SuccessfulTargets,
		"watermark_advanced", report.WatermarkAdvanced)
	return nil
}

// Search aggregates a smaller batch for an on-demand request without
// delivering anywhere. The caller posts the results itself (usually to the
// requesting channel via the pipeline's ad hoc path).
func (d *Dispatcher) Search(ctx context.Context) ([]domain.Article, error) {
	if !d.runMu.TryLock() {
		return nil, ErrBusy
	}
	defer d.runMu.Unlock()

	return d.aggregator.Aggregate(ctx, d.onDemandLimit, d.onDemandLimit), nil
}

// DeliverAdHoc posts already-aggregated articles to one channel, still under
// the single-run guard so an on-demand post cannot overlap a scheduled run.
func (d *Dispatcher) DeliverAdHoc(ctx context.Context, articles []domain.Article, channelID string) (domain.DeliveryReport, error) {
	if !d.runMu.TryLock() {
		return domain.DeliveryReport{}, ErrBusy
	}
	defer d.runMu.Unlock()

	return d.pipeline.DeliverAdHoc(ctx, articles, channelID), nil
}

// Status reports schedule state for the status command and health endpoint.
func (d *Dispatcher) Status() Status {
	last, ok := d.watermarks.Read()
	status := Status{
		LastCheck:    last,
		EverChecked:  ok,
		Sources:      d.aggregator.SourceNames(),
		Channels:     d.channels,
		StrictFilter: d.strictFilter,
	}
	if ok {
		if d.dailyEnabled {
			next := time.Date(last.UTC().Year(), last.UTC().Month(), last.UTC().Day(), d.dailyHour, 0, 0, 0, time.UTC)
			if !next.After(last.UTC()) {
				next = next.Add(24 * time.Hour)
			}
			status.NextCheck = next
		} else {
			status.NextCheck = last.Add(time.Duration(d.intervalHours) * time.Hour)
		}
	}
	return status
}
