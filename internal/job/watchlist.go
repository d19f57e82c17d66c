package job

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"market-lens/internal/domain"
	"market-lens/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type TrendAnalyzer interface {
	AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error)
}

type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// WatchlistDigest analyzes every watchlist symbol on a cron schedule and
// posts a one-line-per-symbol summary. Without a notifier the digest is
// logged instead.
type WatchlistDigest struct {
	tracer   trace.Tracer
	analyzer TrendAnalyzer
	notifier Notifier
	chatID   int64
	symbols  []string
	metrics  *metrics.Metrics
	timeout  time.Duration
	now      func() time.Time
}

func NewWatchlistDigest(
	tracer trace.Tracer,
	analyzer TrendAnalyzer,
	notifier Notifier,
	chatID int64,
	symbols []string,
	m *metrics.Metrics,
) *WatchlistDigest {
	return &WatchlistDigest{
		tracer:   tracer,
		analyzer: analyzer,
		notifier: notifier,
		chatID:   chatID,
		symbols:  symbols,
		metrics:  m,
		timeout:  30 * time.Second,
		now:      time.Now,
	}
}

// Start runs the digest on spec until ctx is cancelled. It returns an error
// only when spec does not parse.
func (w *WatchlistDigest) Start(ctx context.Context, spec string) error {
	if len(w.symbols) == 0 {
		log.Println("Watchlist empty, digest job not scheduled")
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule watchlist digest %q: %w", spec, err)
	}
	c.Start()
	log.Printf("Watchlist digest scheduled (%s) for %d symbols", spec, len(w.symbols))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.Println("Watchlist digest stopped")
	}()
	return nil
}

// RunOnce builds and delivers one digest and returns its text.
func (w *WatchlistDigest) RunOnce(ctx context.Context) string {
	ctx, span := w.tracer.Start(ctx, "job.watchlist-digest")
	defer span.End()
	span.SetAttributes(attribute.Int("symbols", len(w.symbols)))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Watchlist digest %s\n", w.now().UTC().Format("2006-01-02"))
	for _, sym := range w.symbols {
		sb.WriteString(w.line(ctx, sym))
		sb.WriteByte('\n')
	}
	digest := strings.TrimRight(sb.String(), "\n")
	w.metrics.ObserveWatchlistRun()

	if w.notifier == nil || w.chatID == 0 {
		log.Printf("%s", digest)
		return digest
	}
	if err := w.notifier.Send(ctx, w.chatID, digest); err != nil {
		span.RecordError(err)
		log.Printf("watchlist digest delivery failed: %v", err)
	}
	return digest
}

func (w *WatchlistDigest) line(ctx context.Context, symbol string) string {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	res, err := w.analyzer.AnalyzeTrend(ctx, symbol, 0)
	if err != nil {
		log.Printf("watchlist trend for %s failed: %v", symbol, err)
		return fmt.Sprintf("%-8s unavailable: %v", symbol, err)
	}
	return fmt.Sprintf("%-8s %10.2f %+7.2f%%  %-7s %3.0f  %s",
		res.Symbol, res.CurrentPrice, res.PriceChangePercent, res.Trend, res.StrengthScore,
		strings.ToUpper(string(res.RecommendedAction)))
}
