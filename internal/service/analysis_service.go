package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"market-lens/internal/analysis"
	"market-lens/internal/domain"
	"market-lens/internal/metrics"
	"market-lens/internal/ta"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTrendPeriod = 60
	MinTrendPeriod     = 10
	MaxTrendPeriod     = 365

	minAnalysisCandles   = 20
	volatilityWindow     = 30
	portfolioConcurrency = 8
	defaultEnrichTimeout = 20 * time.Second
)

// Enricher attaches narrative commentary to finished analyses.
type Enricher interface {
	EnrichTrend(ctx context.Context, res *domain.TrendAnalysis) (*domain.DeepAnalysis, error)
	EnrichTechnical(ctx context.Context, res *domain.TechnicalAnalysis) (*domain.DeepAnalysis, error)
}

// AnalysisService runs the four analyses over market data fetched through
// the market service.
type AnalysisService struct {
	tracer        trace.Tracer
	market        *MarketService
	metrics       *metrics.Metrics
	enricher      Enricher
	enrichTimeout time.Duration
	newRand       func() analysis.RandSource
}

type AnalysisOption func(*AnalysisService)

// WithEnricher enables deep analysis with its own timeout.
func WithEnricher(e Enricher, timeout time.Duration) AnalysisOption {
	return func(s *AnalysisService) {
		s.enricher = e
		if timeout > 0 {
			s.enrichTimeout = timeout
		}
	}
}

// WithSeed makes every prediction draw from a source seeded with seed.
func WithSeed(seed int64) AnalysisOption {
	return func(s *AnalysisService) {
		s.newRand = func() analysis.RandSource { return rand.New(rand.NewSource(seed)) }
	}
}

// WithRandSource overrides the prediction randomness.
func WithRandSource(fn func() analysis.RandSource) AnalysisOption {
	return func(s *AnalysisService) { s.newRand = fn }
}

func NewAnalysisService(tracer trace.Tracer, market *MarketService, m *metrics.Metrics, opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{
		tracer:        tracer,
		market:        market,
		metrics:       m,
		enrichTimeout: defaultEnrichTimeout,
		newRand: func() analysis.RandSource {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeTrend classifies the trend of symbol over its last period daily
// bars. Indicators read the whole fetched history so the 50 and 200 bar
// averages stay distinct at short periods; price change, volatility, volume
// and levels cover the period window only. Zero period means the default
// of 60.
func (s *AnalysisService) AnalyzeTrend(ctx context.Context, symbol string, period int) (res *domain.TrendAnalysis, err error) {
	const op = "analysis.AnalyzeTrend"
	ctx, span := s.tracer.Start(ctx, "analysis-service.analyze-trend")
	defer span.End()
	defer s.observe("trend", time.Now(), &err)

	if period == 0 {
		period = DefaultTrendPeriod
	}
	if period < MinTrendPeriod || period > MaxTrendPeriod {
		return nil, analysis.InvalidParameter(op, "period must be between %d and %d, got %d", MinTrendPeriod, MaxTrendPeriod, period)
	}
	sym, err := normalizeSymbol(op, symbol)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("symbol", sym), attribute.Int("period", period))

	res, err = s.trend(ctx, op, sym, period)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("trend", string(res.Trend)), attribute.Float64("strength", res.StrengthScore))

	if s.enricher != nil {
		res.DeepAnalysis = s.enrich(ctx, sym, func(ctx context.Context) (*domain.DeepAnalysis, error) {
			return s.enricher.EnrichTrend(ctx, res)
		})
	}
	return res, nil
}

// trend builds the trend analysis for an already validated symbol and
// period, without enrichment.
func (s *AnalysisService) trend(ctx context.Context, op, sym string, period int) (*domain.TrendAnalysis, error) {
	series, err := s.market.GetHistory(ctx, sym, domain.IntervalDaily, rangeForPeriod(period))
	if err != nil {
		return nil, err
	}
	if len(series) < minAnalysisCandles {
		return nil, analysis.InsufficientData(op, len(series), minAnalysisCandles)
	}
	window := series[:min(period, len(series))]

	set := analysis.ComputeIndicators(series)
	closes := domain.Closes(window)
	tr := analysis.ClassifyTrend(analysis.NewTrendInput(closes[0], set))
	support, resistance := analysis.SupportResistance(closes)

	oldest := closes[len(closes)-1]
	change := closes[0] - oldest
	changePct := 0.0
	if oldest != 0 {
		changePct = change / oldest * 100
	}

	return &domain.TrendAnalysis{
		Symbol:             sym,
		Period:             period,
		Trend:              tr.Trend,
		StrengthScore:      tr.Strength,
		CurrentPrice:       closes[0],
		PriceChange:        change,
		PriceChangePercent: changePct,
		Volatility:         ta.Volatility(closes, volatilityWindow),
		ConfidenceLevel:    tr.Confidence,
		Indicators:         set,
		SupportLevels:      support,
		ResistanceLevels:   resistance,
		VolumeAnalysis:     analysis.AnalyzeVolume(window),
		RecommendedAction:  tr.Action,
	}, nil
}

// AnalyzeTechnical evaluates indicators and signals on interval bars. A
// non-empty indicators list limits the indicator readings returned; signals
// are always computed from the full set.
func (s *AnalysisService) AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (res *domain.TechnicalAnalysis, err error) {
	const op = "analysis.AnalyzeTechnical"
	ctx, span := s.tracer.Start(ctx, "analysis-service.analyze-technical")
	defer span.End()
	defer s.observe("technical", time.Now(), &err)

	if interval == "" {
		interval = domain.IntervalDaily
	}
	if !interval.IsValid() {
		return nil, analysis.InvalidParameter(op, "unsupported interval %q", interval)
	}
	if err := validateIndicators(op, indicators); err != nil {
		return nil, err
	}
	sym, err := normalizeSymbol(op, symbol)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("symbol", sym), attribute.String("interval", string(interval)))

	series, err := s.market.GetHistory(ctx, sym, interval, rangeForInterval(interval))
	if err != nil {
		return nil, err
	}
	if len(series) < minAnalysisCandles {
		return nil, analysis.InsufficientData(op, len(series), minAnalysisCandles)
	}

	closes := domain.Closes(series)
	set := analysis.ComputeIndicators(series)
	tr := analysis.ClassifyTrend(analysis.NewTrendInput(closes[0], set))
	signals := analysis.GenerateSignals(analysis.NewSignalInput(series, set))
	support, resistance := analysis.SupportResistance(closes)

	res = &domain.TechnicalAnalysis{
		Symbol:           sym,
		Interval:         interval,
		CurrentPrice:     closes[0],
		Indicators:       analysis.FilterIndicators(set, indicators),
		Signals:          signals,
		Trend:            tr.Trend,
		StrengthScore:    tr.Strength,
		SupportLevels:    support,
		ResistanceLevels: resistance,
	}
	span.SetAttributes(attribute.String("overall", string(signals.Overall)))

	if s.enricher != nil {
		res.DeepAnalysis = s.enrich(ctx, sym, func(ctx context.Context) (*domain.DeepAnalysis, error) {
			return s.enricher.EnrichTechnical(ctx, res)
		})
	}
	return res, nil
}

// PredictPrice projects days daily closes with a trend-adjusted random walk
// fitted on historyRange of daily bars (default one year).
func (s *AnalysisService) PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (res *domain.PricePrediction, err error) {
	const op = "analysis.PredictPrice"
	ctx, span := s.tracer.Start(ctx, "analysis-service.predict-price")
	defer span.End()
	defer s.observe("predict", time.Now(), &err)

	if days < 1 || days > analysis.MaxPredictionDays {
		return nil, analysis.InvalidParameter(op, "days must be between 1 and %d, got %d", analysis.MaxPredictionDays, days)
	}
	if historyRange == "" {
		historyRange = defaultHistoryRange
	}
	if !domain.IsValidRange(historyRange) {
		return nil, analysis.InvalidParameter(op, "unsupported history period %q", historyRange)
	}
	sym, err := normalizeSymbol(op, symbol)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("symbol", sym), attribute.Int("days", days))

	series, err := s.market.GetHistory(ctx, sym, domain.IntervalDaily, historyRange)
	if err != nil {
		return nil, err
	}
	if len(series) < analysis.MinPredictionCandles {
		return nil, analysis.InsufficientData(op, len(series), analysis.MinPredictionCandles)
	}

	closes := domain.Closes(series)
	set := analysis.ComputeIndicators(series)
	tr := analysis.ClassifyTrend(analysis.NewTrendInput(closes[0], set))

	out, err := analysis.Predict(analysis.PredictionInput{
		Closes:   closes,
		LastDate: series[0].Date,
		Days:     days,
		Trend:    tr.Trend,
		Strength: tr.Strength,
	}, s.newRand())
	if err != nil {
		return nil, err
	}

	return &domain.PricePrediction{
		Symbol:          sym,
		CurrentPrice:    closes[0],
		Predictions:     out.Points,
		Trend:           tr.Trend,
		Volatility:      out.Volatility,
		Method:          analysis.MethodTrendAdjustedRandomWalk,
		ConfidenceScore: tr.Strength,
	}, nil
}

// AnalyzePortfolio values holdings at current quotes. Quotes are fetched
// concurrently; a holding whose quote fails is left out and reported in
// Errors. The call fails only when no quote could be fetched. Holding
// trends skip deep analysis.
func (s *AnalysisService) AnalyzePortfolio(ctx context.Context, holdings []domain.Holding) (res *domain.PortfolioPerformance, err error) {
	const op = "analysis.AnalyzePortfolio"
	ctx, span := s.tracer.Start(ctx, "analysis-service.analyze-portfolio")
	defer span.End()
	defer s.observe("portfolio", time.Now(), &err)

	if err := analysis.ValidateHoldings(holdings); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("holdings", len(holdings)))

	type outcome struct {
		priced   analysis.PricedHolding
		quoteErr error
		trendErr error
	}
	results := make([]outcome, len(holdings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(portfolioConcurrency)
	for i, h := range holdings {
		g.Go(func() error {
			sym, err := normalizeSymbol(op, h.Symbol)
			if err != nil {
				results[i].quoteErr = err
				return nil
			}
			h.Symbol = sym
			q, err := s.market.GetQuote(gctx, sym)
			if err != nil {
				results[i].quoteErr = err
				return nil
			}
			results[i].priced = analysis.PricedHolding{Holding: h, Price: q.Price}

			tr, err := s.trend(gctx, op, sym, DefaultTrendPeriod)
			if err != nil {
				results[i].trendErr = err
				return nil
			}
			results[i].priced.Trend = tr.Trend
			results[i].priced.Action = tr.RecommendedAction
			return nil
		})
	}
	_ = g.Wait()

	priced := make([]analysis.PricedHolding, 0, len(holdings))
	var errs []string
	var lastQuoteErr error
	for i, r := range results {
		if r.quoteErr != nil {
			lastQuoteErr = r.quoteErr
			errs = append(errs, fmt.Sprintf("%s: quote unavailable: %v", holdings[i].Symbol, r.quoteErr))
			continue
		}
		if r.trendErr != nil {
			log.Printf("portfolio trend for %s unavailable: %v", r.priced.Holding.Symbol, r.trendErr)
			errs = append(errs, fmt.Sprintf("%s: trend unavailable: %v", r.priced.Holding.Symbol, r.trendErr))
		}
		priced = append(priced, r.priced)
	}
	if len(priced) == 0 {
		return nil, &analysis.Error{Kind: analysis.ErrProvider, Op: op, Msg: "no quotes available for any holding", Err: lastQuoteErr}
	}

	perf := analysis.ScorePortfolio(priced)
	perf.Errors = errs
	span.SetAttributes(attribute.Float64("total_value", perf.TotalValue))
	return &perf, nil
}

// enrich runs the enricher under its own timeout. Failures are logged and
// leave the result without commentary.
func (s *AnalysisService) enrich(ctx context.Context, symbol string, fn func(context.Context) (*domain.DeepAnalysis, error)) *domain.DeepAnalysis {
	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	deep, err := fn(ctx)
	s.metrics.ObserveEnrichment(err)
	if err != nil {
		log.Printf("deep analysis for %s unavailable: %v", symbol, analysis.EnrichmentUnavailable("analysis.enrich", err))
		return nil
	}
	return deep
}

func (s *AnalysisService) observe(operation string, started time.Time, err *error) {
	s.metrics.ObserveAnalysis(operation, started, *err)
}

func validateIndicators(op string, names []string) error {
	for _, n := range names {
		known := false
		for _, supported := range domain.SupportedIndicators {
			if n == supported {
				known = true
				break
			}
		}
		if !known {
			return analysis.InvalidParameter(op, "unknown indicator %q", n)
		}
	}
	return nil
}

// rangeForPeriod picks a daily range holding period bars plus the 200 bar
// average. A year of trading is about 250 bars.
func rangeForPeriod(bars int) string {
	if bars <= 240 {
		return "1y"
	}
	return "2y"
}

func rangeForInterval(interval domain.Interval) string {
	switch interval {
	case domain.IntervalWeekly:
		return "5y"
	case domain.IntervalMonthly:
		return "10y"
	default:
		return "1y"
	}
}
