package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"market-lens/internal/analysis"
	"market-lens/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type marketStub struct {
	candles []domain.Candle
	err     error
}

func (s *marketStub) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Quote{Symbol: symbol, Price: 101.5}, nil
}

func (s *marketStub) GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error) {
	return s.candles, s.err
}

func (s *marketStub) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return []domain.SearchResult{{Symbol: "AAPL", Name: "Apple Inc."}}, s.err
}

type analyzerStub struct {
	err      error
	block    bool
	lastDays int
}

func (s *analyzerStub) AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.TrendAnalysis{Symbol: symbol, Period: period, Trend: domain.TrendBearish}, nil
}

func (s *analyzerStub) AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (*domain.TechnicalAnalysis, error) {
	return &domain.TechnicalAnalysis{Symbol: symbol, Interval: interval}, s.err
}

func (s *analyzerStub) PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (*domain.PricePrediction, error) {
	s.lastDays = days
	return &domain.PricePrediction{Symbol: symbol}, s.err
}

func (s *analyzerStub) AnalyzePortfolio(ctx context.Context, holdings []domain.Holding) (*domain.PortfolioPerformance, error) {
	return &domain.PortfolioPerformance{TotalValue: float64(len(holdings))}, s.err
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %+v", res)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestAnalyzeTrendTool(t *testing.T) {
	tools := New(testTracer, &marketStub{}, &analyzerStub{}, time.Second)

	res, _, err := tools.analyzeTrend(context.Background(), nil, TrendInput{Symbol: "AAPL", Period: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatal("unexpected tool error")
	}
	var got domain.TrendAnalysis
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if got.Symbol != "AAPL" || got.Period != 30 || got.Trend != domain.TrendBearish {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestToolErrorsAreResults(t *testing.T) {
	cases := []struct {
		err    error
		prefix string
	}{
		{analysis.InvalidParameter("op", "period must be between 10 and 365"), "invalid parameter: "},
		{analysis.InsufficientData("op", 10, 20), "insufficient data: "},
		{analysis.NotFound("op", "symbol ZZZZ not found"), "not found: "},
		{analysis.ProviderFailure("op", errors.New("503")), "market data provider error: "},
	}
	for _, tc := range cases {
		tools := New(testTracer, &marketStub{}, &analyzerStub{err: tc.err}, time.Second)
		res, _, err := tools.analyzeTrend(context.Background(), nil, TrendInput{Symbol: "AAPL"})
		if err != nil {
			t.Fatalf("tool failures must not be protocol errors: %v", err)
		}
		if !res.IsError {
			t.Fatal("expected IsError")
		}
		if text := resultText(t, res); !strings.HasPrefix(text, tc.prefix) {
			t.Fatalf("expected prefix %q, got %q", tc.prefix, text)
		}
	}
}

func TestToolTimeout(t *testing.T) {
	tools := New(testTracer, &marketStub{}, &analyzerStub{block: true}, 10*time.Millisecond)
	res, _, err := tools.analyzeTrend(context.Background(), nil, TrendInput{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "deadline") {
		t.Fatalf("expected deadline tool error, got %+v", res)
	}
}

func TestPredictDefaultsDays(t *testing.T) {
	an := &analyzerStub{}
	tools := New(testTracer, &marketStub{}, an, time.Second)
	if _, _, err := tools.predictPrice(context.Background(), nil, PredictInput{Symbol: "AAPL"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if an.lastDays != 7 {
		t.Fatalf("expected 7 day default, got %d", an.lastDays)
	}
}

func TestGetHistoryLimit(t *testing.T) {
	candles := make([]domain.Candle, 700)
	tools := New(testTracer, &marketStub{candles: candles}, &analyzerStub{}, time.Second)

	res, _, _ := tools.getHistory(context.Background(), nil, HistoryInput{Symbol: "AAPL", Limit: 5})
	var body struct {
		Candles []domain.Candle `json:"candles"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.Candles) != 5 {
		t.Fatalf("expected 5 candles, got %d", len(body.Candles))
	}

	res, _, _ = tools.getHistory(context.Background(), nil, HistoryInput{Symbol: "AAPL", Limit: 10000})
	if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.Candles) != maxHistoryCandles {
		t.Fatalf("expected cap of %d, got %d", maxHistoryCandles, len(body.Candles))
	}
}

func TestServerListsAndCallsTools(t *testing.T) {
	ctx := context.Background()
	server := NewServer(New(testTracer, &marketStub{}, &analyzerStub{}, time.Second), "test")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	list, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range list.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"get_quote", "search_symbols", "get_history", "analyze_trend", "analyze_technical", "predict_price", "analyze_portfolio"} {
		if !names[want] {
			t.Fatalf("tool %s not registered", want)
		}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_quote",
		Arguments: map[string]any{"symbol": "MSFT"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError || !strings.Contains(resultText(t, res), "101.5") {
		t.Fatalf("unexpected quote result: %+v", res)
	}
}

func TestBearerAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := BearerAuth("s3cret", next)

	for _, tc := range []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer wrong", http.StatusUnauthorized},
		{"Basic s3cret", http.StatusUnauthorized},
		{"Bearer s3cret", http.StatusNoContent},
	} {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("header %q: expected %d, got %d", tc.header, tc.want, w.Code)
		}
	}
}
