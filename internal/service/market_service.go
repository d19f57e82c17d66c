package service

import (
	"context"
	"log"
	"strings"

	"market-lens/internal/analysis"
	"market-lens/internal/cache"
	"market-lens/internal/domain"
	"market-lens/internal/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultHistoryRange = "1y"

// MarketDataProvider is the upstream source of quotes, candles and symbol
// lookups. GetHistory returns a newest-first series.
type MarketDataProvider interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// MarketService validates lookups, fronts quotes with the cache and maps
// provider failures onto the error taxonomy.
type MarketService struct {
	tracer   trace.Tracer
	provider MarketDataProvider
	quotes   *cache.QuoteCache
	metrics  *metrics.Metrics
}

func NewMarketService(
	tracer trace.Tracer,
	provider MarketDataProvider,
	quotes *cache.QuoteCache,
	m *metrics.Metrics,
) *MarketService {
	return &MarketService{
		tracer:   tracer,
		provider: provider,
		quotes:   quotes,
		metrics:  m,
	}
}

// GetQuote returns the latest quote, serving from cache when fresh.
func (s *MarketService) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	const op = "market.GetQuote"
	ctx, span := s.tracer.Start(ctx, "market-service.get-quote")
	defer span.End()

	sym, err := normalizeSymbol(op, symbol)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("symbol", sym))

	cached, err := s.quotes.Get(ctx, sym)
	switch {
	case err != nil:
		log.Printf("quote cache read error for %s: %v", sym, err)
		s.metrics.ObserveQuoteCache("error")
	case cached != nil:
		s.metrics.ObserveQuoteCache("hit")
		return cached, nil
	default:
		s.metrics.ObserveQuoteCache("miss")
	}

	q, err := s.provider.GetQuote(ctx, sym)
	s.metrics.ObserveProvider("quote", err)
	if err != nil {
		span.RecordError(err)
		return nil, analysis.ProviderFailure(op, err)
	}
	if err := s.quotes.Set(ctx, q); err != nil {
		log.Printf("quote cache write error for %s: %v", sym, err)
	}
	return q, nil
}

// GetHistory returns a normalized newest-first series. Empty interval and
// range default to daily and one year.
func (s *MarketService) GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error) {
	const op = "market.GetHistory"
	ctx, span := s.tracer.Start(ctx, "market-service.get-history")
	defer span.End()

	sym, err := normalizeSymbol(op, symbol)
	if err != nil {
		return nil, err
	}
	if interval == "" {
		interval = domain.IntervalDaily
	}
	if !interval.IsValid() {
		return nil, analysis.InvalidParameter(op, "unsupported interval %q", interval)
	}
	if rng == "" {
		rng = defaultHistoryRange
	}
	if !domain.IsValidRange(rng) {
		return nil, analysis.InvalidParameter(op, "unsupported range %q", rng)
	}
	span.SetAttributes(
		attribute.String("symbol", sym),
		attribute.String("interval", string(interval)),
		attribute.String("range", rng),
	)

	candles, err := s.provider.GetHistory(ctx, sym, interval, rng)
	s.metrics.ObserveProvider("history", err)
	if err != nil {
		span.RecordError(err)
		return nil, analysis.ProviderFailure(op, err)
	}
	series := domain.NormalizeSeries(candles)
	span.SetAttributes(attribute.Int("candles", len(series)))
	return series, nil
}

// Search returns matching symbols; never nil on success.
func (s *MarketService) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	const op = "market.Search"
	ctx, span := s.tracer.Start(ctx, "market-service.search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, analysis.InvalidParameter(op, "query is required")
	}

	results, err := s.provider.Search(ctx, query)
	s.metrics.ObserveProvider("search", err)
	if err != nil {
		span.RecordError(err)
		return nil, analysis.ProviderFailure(op, err)
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

func normalizeSymbol(op, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", analysis.InvalidParameter(op, "symbol is required")
	}
	sym, ok := domain.NormalizeSymbol(raw)
	if !ok {
		return "", analysis.InvalidParameter(op, "invalid symbol %q", raw)
	}
	return sym, nil
}
