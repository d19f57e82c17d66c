// Package mcptools exposes the market lookups and analyses as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"market-lens/internal/analysis"
	"market-lens/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServerName        = "market-lens"
	defaultTimeout    = 30 * time.Second
	maxHistoryCandles = 500
)

type MarketLookup interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

type Analyzer interface {
	AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error)
	AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (*domain.TechnicalAnalysis, error)
	PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (*domain.PricePrediction, error)
	AnalyzePortfolio(ctx context.Context, holdings []domain.Holding) (*domain.PortfolioPerformance, error)
}

type QuoteInput struct {
	Symbol string `json:"symbol" jsonschema:"ticker symbol, e.g. AAPL or BRK-B"`
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"company name or partial ticker"`
}

type HistoryInput struct {
	Symbol   string `json:"symbol" jsonschema:"ticker symbol"`
	Interval string `json:"interval,omitempty" jsonschema:"daily, weekly or monthly (default daily)"`
	Range    string `json:"range,omitempty" jsonschema:"1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd or max (default 1y)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum candles returned, newest first (default 100, max 500)"`
}

type TrendInput struct {
	Symbol string `json:"symbol" jsonschema:"ticker symbol"`
	Period int    `json:"period,omitempty" jsonschema:"lookback in trading days, 10 to 365 (default 60)"`
}

type TechnicalInput struct {
	Symbol     string   `json:"symbol" jsonschema:"ticker symbol"`
	Interval   string   `json:"interval,omitempty" jsonschema:"daily, weekly or monthly (default daily)"`
	Indicators []string `json:"indicators,omitempty" jsonschema:"subset of sma, ema, rsi, macd, bollinger, stochastic, atr"`
}

type PredictInput struct {
	Symbol        string `json:"symbol" jsonschema:"ticker symbol"`
	Days          int    `json:"days,omitempty" jsonschema:"days to project, 1 to 30 (default 7)"`
	HistoryPeriod string `json:"history_period,omitempty" jsonschema:"history range used for fitting (default 1y)"`
}

type PortfolioInput struct {
	Holdings []domain.Holding `json:"holdings" jsonschema:"positions with symbol, quantity and optional purchase_price"`
}

// Tools adapts the services to MCP tool handlers. Each call runs under its
// own timeout.
type Tools struct {
	tracer   trace.Tracer
	market   MarketLookup
	analyzer Analyzer
	timeout  time.Duration
}

func New(tracer trace.Tracer, market MarketLookup, analyzer Analyzer, timeout time.Duration) *Tools {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Tools{tracer: tracer, market: market, analyzer: analyzer, timeout: timeout}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(t *Tools, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	t.Register(server)
	return server
}

func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_quote",
		Description: "Latest price, change and currency for a ticker symbol.",
	}, t.getQuote)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_symbols",
		Description: "Find ticker symbols matching a company name or partial symbol.",
	}, t.searchSymbols)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_history",
		Description: "Historical OHLCV candles, newest first.",
	}, t.getHistory)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_trend",
		Description: "Classify a symbol's trend as bullish, bearish or neutral with strength, indicators, support/resistance and a recommended action.",
	}, t.analyzeTrend)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_technical",
		Description: "Technical indicators plus six buy/sell/neutral signals and an overall verdict.",
	}, t.analyzeTechnical)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "predict_price",
		Description: "Project daily closes with a trend-adjusted random walk. Illustrative only, not investment advice.",
	}, t.predictPrice)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_portfolio",
		Description: "Value holdings at current prices with gains, weights, diversification score and concentration risk.",
	}, t.analyzePortfolio)
}

func (t *Tools) getQuote(ctx context.Context, _ *mcp.CallToolRequest, in QuoteInput) (*mcp.CallToolResult, any, error) {
	return t.run(ctx, "get_quote", in.Symbol, func(ctx context.Context) (any, error) {
		return t.market.GetQuote(ctx, in.Symbol)
	})
}

func (t *Tools) searchSymbols(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
	return t.run(ctx, "search_symbols", in.Query, func(ctx context.Context) (any, error) {
		results, err := t.market.Search(ctx, in.Query)
		if err != nil {
			return nil, err
		}
		return map[string]any{"query": in.Query, "results": results}, nil
	})
}

func (t *Tools) getHistory(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, any, error) {
	return t.run(ctx, "get_history", in.Symbol, func(ctx context.Context) (any, error) {
		candles, err := t.market.GetHistory(ctx, in.Symbol, domain.Interval(in.Interval), in.Range)
		if err != nil {
			return nil, err
		}
		limit := in.Limit
		if limit <= 0 {
			limit = 100
		}
		limit = min(limit, maxHistoryCandles)
		if len(candles) > limit {
			candles = candles[:limit]
		}
		return map[string]any{"symbol": in.Symbol, "candles": candles}, nil
	})
}

func (t *Tools) analyzeTrend(ctx context.Context, _ *mcp.CallToolRequest, in TrendInput) (*mcp.CallToolResult, any, error) {
	return t.run(ctx, "analyze_trend", in.Symbol, func(ctx context.Context) (any, error) {
		return t.analyzer.AnalyzeTrend(ctx, in.Symbol, in.Period)
	})
}

func (t *Tools) analyzeTechnical(ctx context.Context, _ *mcp.CallToolRequest, in TechnicalInput) (*mcp.CallToolResult, any, error) {
	return t.run(ctx, "analyze_technical", in.Symbol, func(ctx context.Context) (any, error) {
		return t.analyzer.AnalyzeTechnical(ctx, in.Symbol, domain.Interval(in.Interval), in.Indicators)
	})
}

func (t *Tools) predictPrice(ctx context.Context, _ *mcp.CallToolRequest, in PredictInput) (*mcp.CallToolResult, any, error) {
	days := in.Days
	if days == 0 {
		days = 7
	}
	return t.run(ctx, "predict_price", in.Symbol, func(ctx context.Context) (any, error) {
		return t.analyzer.PredictPrice(ctx, in.Symbol, days, in.HistoryPeriod)
	})
}

func (t *Tools) analyzePortfolio(ctx context.Context, _ *mcp.CallToolRequest, in PortfolioInput) (*mcp.CallToolResult, any, error) {
	return t.run(ctx, "analyze_portfolio", fmt.Sprintf("%d holdings", len(in.Holdings)), func(ctx context.Context) (any, error) {
		return t.analyzer.AnalyzePortfolio(ctx, in.Holdings)
	})
}

// run executes fn under the tool timeout and renders its value as JSON text.
// Analysis failures come back as tool errors, not protocol errors.
func (t *Tools) run(ctx context.Context, tool, subject string, fn func(context.Context) (any, error)) (*mcp.CallToolResult, any, error) {
	ctx, span := t.tracer.Start(ctx, "mcp."+tool)
	defer span.End()
	span.SetAttributes(attribute.String("subject", subject))

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		log.Printf("mcp tool %s(%s) failed: %v", tool, subject, err)
		return errorResult(err), nil, nil
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s result: %w", tool, err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func errorResult(err error) *mcp.CallToolResult {
	text := err.Error()
	switch analysis.KindOf(err) {
	case analysis.ErrInvalidParameter:
		text = "invalid parameter: " + text
	case analysis.ErrNotFound:
		text = "not found: " + text
	case analysis.ErrInsufficientData:
		text = "insufficient data: " + text
	case analysis.ErrProvider:
		text = "market data provider error: " + text
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
