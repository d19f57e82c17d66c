package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"market-lens/internal/analysis"
	"market-lens/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type marketStub struct {
	err error
}

func (s marketStub) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Quote{Symbol: strings.ToUpper(symbol), Name: "Apple Inc.", Price: 190.25, Change: 1.5, PercentChange: 0.79, Currency: "USD"}, nil
}

type analyzerStub struct {
	err        error
	lastPeriod int
	lastDays   int
	lastIntv   domain.Interval
}

func (s *analyzerStub) AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error) {
	s.lastPeriod = period
	if s.err != nil {
		return nil, s.err
	}
	rsi := 64.2
	return &domain.TrendAnalysis{
		Symbol: "AAPL", Period: 60, Trend: domain.TrendBullish, StrengthScore: 85,
		ConfidenceLevel: domain.ConfidenceHigh, CurrentPrice: 190, PriceChangePercent: 4.2,
		Indicators:    domain.IndicatorSet{RSI: &rsi},
		SupportLevels: []float64{180, 171}, ResistanceLevels: []float64{195, 204.75},
		RecommendedAction: domain.ActionBuy,
	}, nil
}

func (s *analyzerStub) AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (*domain.TechnicalAnalysis, error) {
	s.lastIntv = interval
	if s.err != nil {
		return nil, s.err
	}
	return &domain.TechnicalAnalysis{
		Symbol: "AAPL", Interval: domain.IntervalDaily, Trend: domain.TrendBullish, StrengthScore: 70,
		Signals: domain.SignalSet{
			Signals: []domain.Signal{
				{Source: domain.SourceMovingAverage, Verdict: domain.VerdictBuy, Strength: domain.StrengthNormal},
				{Source: domain.SourceGoldenCross, Verdict: domain.VerdictBuy, Strength: domain.StrengthStrong},
			},
			Overall: domain.VerdictBuy, BuyCount: 2,
		},
	}, nil
}

func (s *analyzerStub) PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (*domain.PricePrediction, error) {
	s.lastDays = days
	if s.err != nil {
		return nil, s.err
	}
	return &domain.PricePrediction{
		Symbol: "AAPL", CurrentPrice: 190, Trend: domain.TrendNeutral, Volatility: 0.015,
		Predictions: []domain.PredictionPoint{
			{Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Price: 191, RangeLow: 188.1, RangeHigh: 193.9},
		},
	}, nil
}

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	b, err := StartTelegramBot("", NewCommands(marketStub{}, &analyzerStub{}, 0))
	if err != nil || b != nil {
		t.Fatalf("expected no bot, got %v %v", b, err)
	}
	if err := b.Send(context.Background(), 1, "dropped"); err != nil {
		t.Fatalf("nil bot send should be a no-op: %v", err)
	}
	b.Stop()
}

func TestStartTelegramBotCreateError(t *testing.T) {
	orig := newTeleBot
	defer func() { newTeleBot = orig }()
	newTeleBot = func(tele.Settings) (*tele.Bot, error) { return nil, errors.New("bad token") }

	if _, err := StartTelegramBot("token", NewCommands(marketStub{}, &analyzerStub{}, 0)); err == nil {
		t.Fatal("expected error")
	}
}

func TestQuoteCommand(t *testing.T) {
	cmds := NewCommands(marketStub{}, &analyzerStub{}, time.Second)

	if got := cmds.Quote(context.Background(), nil); !strings.HasPrefix(got, "Usage") {
		t.Fatalf("expected usage, got %q", got)
	}
	got := cmds.Quote(context.Background(), []string{"aapl"})
	if !strings.Contains(got, "AAPL (Apple Inc.)") || !strings.Contains(got, "190.25 USD") || !strings.Contains(got, "+0.79%") {
		t.Fatalf("unexpected quote reply: %q", got)
	}

	failing := NewCommands(marketStub{err: analysis.NotFound("op", "symbol ZZZZ not found")}, &analyzerStub{}, time.Second)
	if got := failing.Quote(context.Background(), []string{"zzzz"}); !strings.Contains(got, "Error fetching quote for ZZZZ") {
		t.Fatalf("unexpected error reply: %q", got)
	}
}

func TestTrendCommand(t *testing.T) {
	an := &analyzerStub{}
	cmds := NewCommands(marketStub{}, an, time.Second)

	got := cmds.Trend(context.Background(), []string{"AAPL", "90"})
	if an.lastPeriod != 90 {
		t.Fatalf("expected period 90, got %d", an.lastPeriod)
	}
	for _, want := range []string{"bullish", "strength 85", "RSI: 64.2", "Support: 180.00", "Action: BUY"} {
		if !strings.Contains(got, want) {
			t.Fatalf("reply missing %q: %q", want, got)
		}
	}
	if got := cmds.Trend(context.Background(), []string{"AAPL", "ninety"}); !strings.Contains(got, "number of trading days") {
		t.Fatalf("expected period parse error, got %q", got)
	}
}

func TestSignalsCommand(t *testing.T) {
	an := &analyzerStub{}
	cmds := NewCommands(marketStub{}, an, time.Second)

	got := cmds.Signals(context.Background(), []string{"AAPL", "WEEKLY"})
	if an.lastIntv != domain.IntervalWeekly {
		t.Fatalf("expected weekly interval, got %s", an.lastIntv)
	}
	if !strings.Contains(got, "BUY (2 buy / 0 sell)") || !strings.Contains(got, "goldenCross: buy (strong)") {
		t.Fatalf("unexpected signals reply: %q", got)
	}
}

func TestPredictCommand(t *testing.T) {
	an := &analyzerStub{}
	cmds := NewCommands(marketStub{}, an, time.Second)

	got := cmds.Predict(context.Background(), []string{"AAPL"})
	if an.lastDays != 7 {
		t.Fatalf("expected default 7 days, got %d", an.lastDays)
	}
	if !strings.Contains(got, "2026-04-01  191.00  [188.10 - 193.90]") || !strings.Contains(got, "not investment advice") {
		t.Fatalf("unexpected prediction reply: %q", got)
	}

	an.err = analysis.InsufficientData("op", 12, 30)
	if got := cmds.Predict(context.Background(), []string{"AAPL", "5"}); !strings.Contains(got, "insufficient data") {
		t.Fatalf("expected error reply, got %q", got)
	}
}
