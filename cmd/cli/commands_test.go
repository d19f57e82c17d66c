package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"market-lens/internal/analysis"
	"market-lens/internal/domain"
)

type marketStub struct{}

func (marketStub) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if symbol == "ZZZZ" {
		return nil, analysis.NotFound("op", "symbol ZZZZ not found")
	}
	return &domain.Quote{Symbol: symbol, Price: 190.25, Currency: "USD"}, nil
}

func (marketStub) GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error) {
	out := make([]domain.Candle, 50)
	for i := range out {
		out[i] = domain.Candle{Date: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i), Close: 100}
	}
	return out, nil
}

func (marketStub) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return []domain.SearchResult{{Symbol: "AAPL", Name: query, Exchange: "NASDAQ", Type: "equity"}}, nil
}

type analyzerStub struct {
	lastPeriod   int
	lastHoldings []domain.Holding
	lastIndics   []string
}

func (s *analyzerStub) AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error) {
	s.lastPeriod = period
	return &domain.TrendAnalysis{Symbol: symbol, Period: period, Trend: domain.TrendNeutral, RecommendedAction: domain.ActionHold}, nil
}

func (s *analyzerStub) AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (*domain.TechnicalAnalysis, error) {
	s.lastIndics = indicators
	return &domain.TechnicalAnalysis{Symbol: symbol, Interval: interval}, nil
}

func (s *analyzerStub) PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (*domain.PricePrediction, error) {
	return nil, analysis.InsufficientData("op", 12, 30)
}

func (s *analyzerStub) AnalyzePortfolio(ctx context.Context, holdings []domain.Holding) (*domain.PortfolioPerformance, error) {
	s.lastHoldings = holdings
	return &domain.PortfolioPerformance{
		TotalValue: 2000, TotalCost: 1500, TotalGain: 500, TotalGainPercent: 33.33,
		Holdings:  []domain.HoldingPerformance{{Symbol: "AAPL", Quantity: 10, CurrentPrice: 150, Value: 1500, Weight: 75}},
		RiskLevel: domain.RiskHigh, Errors: []string{"MSFT: trend unavailable: boom"},
	}, nil
}

func execute(t *testing.T, an *analyzerStub, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(marketStub{}, an, time.Second)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	out, err := execute(t, &analyzerStub{}, "quote", "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "190.25 USD") {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = execute(t, &analyzerStub{}, "quote", "AAPL", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var q domain.Quote
	if err := json.Unmarshal([]byte(out), &q); err != nil || q.Price != 190.25 {
		t.Fatalf("expected JSON quote, got %q", out)
	}

	if _, err := execute(t, &analyzerStub{}, "quote", "ZZZZ"); exitCode(err) != 3 {
		t.Fatalf("expected not found exit code, got %v", err)
	}
}

func TestHistoryLimit(t *testing.T) {
	out, err := execute(t, &analyzerStub{}, "history", "AAPL", "--limit", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d: %q", len(lines), out)
	}
}

func TestTrendAndTechnicalFlags(t *testing.T) {
	an := &analyzerStub{}
	if _, err := execute(t, an, "trend", "AAPL", "--period", "120"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if an.lastPeriod != 120 {
		t.Fatalf("expected period 120, got %d", an.lastPeriod)
	}
	if _, err := execute(t, an, "signals", "AAPL", "--indicators", "rsi,macd"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(an.lastIndics) != 2 || an.lastIndics[1] != "macd" {
		t.Fatalf("unexpected indicators: %v", an.lastIndics)
	}
}

func TestPredictErrorExitCode(t *testing.T) {
	_, err := execute(t, &analyzerStub{}, "predict", "AAPL", "--days", "5")
	if exitCode(err) != 4 {
		t.Fatalf("expected insufficient data exit code, got %v", err)
	}
}

func TestPortfolioCommand(t *testing.T) {
	an := &analyzerStub{}
	out, err := execute(t, an, "portfolio", "AAPL:10@150", "MSFT:2.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(an.lastHoldings) != 2 || *an.lastHoldings[0].PurchasePrice != 150 || an.lastHoldings[1].PurchasePrice != nil {
		t.Fatalf("unexpected holdings: %+v", an.lastHoldings)
	}
	for _, want := range []string{"Total: 2000.00", "Risk: high", "warning: MSFT"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %q", want, out)
		}
	}
}

func TestParseHoldings(t *testing.T) {
	for _, bad := range []string{"AAPL", "AAPL:ten", "AAPL:10@cheap"} {
		if _, err := parseHoldings([]string{bad}); !errors.Is(err, analysis.ErrInvalidParameter) {
			t.Fatalf("%q: expected invalid parameter, got %v", bad, err)
		}
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(errors.New("boom")) != 1 || exitCode(analysis.ProviderFailure("op", errors.New("x"))) != 5 {
		t.Fatal("unexpected exit codes")
	}
}
