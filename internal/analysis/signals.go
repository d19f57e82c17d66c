package analysis

import (
	"fmt"
	"math"

	"market-lens/internal/domain"
	"market-lens/internal/ta"
)

const (
	crossProximity       = 0.02
	stochasticOversold   = 20.0
	stochasticOverbought = 80.0
)

// SignalInput holds the readings for the latest bar plus the previous
// stochastic reading used to detect band crossings.
type SignalInput struct {
	Price          float64
	SMA50          float64
	SMA200         float64
	RSI            float64
	MACD           domain.MACD
	Stochastic     domain.Stochastic
	PrevStochastic domain.Stochastic
	Bollinger      domain.BollingerBands
}

// NewSignalInput reads the signal inputs from a newest-first candle series.
func NewSignalInput(series []domain.Candle, set domain.IndicatorSet) SignalInput {
	in := SignalInput{SMA50: set.SMA[50], SMA200: set.SMA[200], RSI: 50}
	if len(series) > 0 {
		in.Price = series[0].Close
	}
	if set.RSI != nil {
		in.RSI = *set.RSI
	}
	if set.MACD != nil {
		in.MACD = *set.MACD
	}
	if set.Bollinger != nil {
		in.Bollinger = *set.Bollinger
	}
	highs, lows, closes := domain.Highs(series), domain.Lows(series), domain.Closes(series)
	in.Stochastic = ta.StochasticAt(highs, lows, closes, stochasticK, stochasticD, 0)
	in.PrevStochastic = ta.StochasticAt(highs, lows, closes, stochasticK, stochasticD, 1)
	return in
}

// GenerateSignals runs every check and tallies an overall verdict by
// majority. A buy/sell tie is neutral.
func GenerateSignals(in SignalInput) domain.SignalSet {
	signals := []domain.Signal{
		movingAverageSignal(in),
		crossSignal(in),
		rsiSignal(in),
		macdSignal(in),
		stochasticSignal(in),
		bollingerSignal(in),
	}

	set := domain.SignalSet{Signals: signals, Overall: domain.VerdictNeutral}
	for _, s := range signals {
		switch s.Verdict {
		case domain.VerdictBuy:
			set.BuyCount++
		case domain.VerdictSell:
			set.SellCount++
		}
	}
	switch {
	case set.BuyCount > set.SellCount:
		set.Overall = domain.VerdictBuy
	case set.SellCount > set.BuyCount:
		set.Overall = domain.VerdictSell
	}
	return set
}

func movingAverageSignal(in SignalInput) domain.Signal {
	s := domain.Signal{Source: domain.SourceMovingAverage, Verdict: domain.VerdictNeutral, Strength: domain.StrengthNormal}
	switch {
	case in.Price > in.SMA50 && in.SMA50 > in.SMA200:
		s.Verdict = domain.VerdictBuy
		s.Description = "Price above SMA50 and SMA200"
	case in.Price < in.SMA50 && in.SMA50 < in.SMA200:
		s.Verdict = domain.VerdictSell
		s.Description = "Price below SMA50 and SMA200"
	default:
		s.Description = "Moving averages mixed"
	}
	return s
}

func crossSignal(in SignalInput) domain.Signal {
	s := domain.Signal{Source: domain.SourceGoldenCross, Verdict: domain.VerdictNeutral, Strength: domain.StrengthNormal}
	if in.SMA200 == 0 {
		s.Description = "Not enough history for SMA200"
		return s
	}
	gap := math.Abs(in.SMA50-in.SMA200) / in.SMA200
	if gap > crossProximity || in.SMA50 == in.SMA200 {
		s.Description = "No moving-average cross nearby"
		return s
	}
	s.Strength = domain.StrengthStrong
	if in.SMA50 > in.SMA200 {
		s.Verdict = domain.VerdictBuy
		s.Description = fmt.Sprintf("Golden cross: SMA50 within %.1f%% above SMA200", gap*100)
	} else {
		s.Verdict = domain.VerdictSell
		s.Description = fmt.Sprintf("Death cross: SMA50 within %.1f%% below SMA200", gap*100)
	}
	return s
}

func rsiSignal(in SignalInput) domain.Signal {
	s := domain.Signal{Source: domain.SourceRSI, Verdict: domain.VerdictNeutral, Strength: domain.StrengthNormal}
	switch {
	case in.RSI < rsiOversold:
		s.Verdict = domain.VerdictBuy
		s.Description = fmt.Sprintf("RSI oversold at %.1f", in.RSI)
	case in.RSI > rsiOverbought:
		s.Verdict = domain.VerdictSell
		s.Description = fmt.Sprintf("RSI overbought at %.1f", in.RSI)
	default:
		s.Description = fmt.Sprintf("RSI neutral at %.1f", in.RSI)
	}
	return s
}

func macdSignal(in SignalInput) domain.Signal {
	s := domain.Signal{Source: domain.SourceMACD, Verdict: domain.VerdictNeutral, Strength: domain.StrengthNormal}
	switch {
	case in.MACD.Histogram > 0:
		s.Verdict = domain.VerdictBuy
		s.Description = "MACD above signal line"
	case in.MACD.Histogram < 0:
		s.Verdict = domain.VerdictSell
		s.Description = "MACD below signal line"
	default:
		s.Description = "MACD flat"
	}
	return s
}

// stochasticSignal fires on %K leaving an extreme band, or on %K crossing %D
// while inside one.
func stochasticSignal(in SignalInput) domain.Signal {
	s := domain.Signal{Source: domain.SourceStochastic, Verdict: domain.VerdictNeutral, Strength: domain.StrengthNormal}
	k, d, prevK := in.Stochastic.K, in.Stochastic.D, in.PrevStochastic.K
	switch {
	case prevK < stochasticOversold && k >= stochasticOversold:
		s.Verdict = domain.VerdictBuy
		s.Description = "%K crossed up out of oversold"
	case k < stochasticOversold && k > d:
		s.Verdict = domain.VerdictBuy
		s.Description = "%K crossed above %D while oversold"
	case prevK > stochasticOverbought && k <= stochasticOverbought:
		s.Verdict = domain.VerdictSell
		s.Description = "%K crossed down out of overbought"
	case k > stochasticOverbought && k < d:
		s.Verdict = domain.VerdictSell
		s.Description = "%K crossed below %D while overbought"
	default:
		s.Description = fmt.Sprintf("Stochastic %%K at %.1f", k)
	}
	return s
}

func bollingerSignal(in SignalInput) domain.Signal {
	s := domain.Signal{Source: domain.SourceBollinger, Verdict: domain.VerdictNeutral, Strength: domain.StrengthNormal}
	b := in.Bollinger
	switch {
	case b.Width > 0 && in.Price < b.Lower:
		s.Verdict = domain.VerdictBuy
		s.Description = "Price below lower Bollinger band"
	case b.Width > 0 && in.Price > b.Upper:
		s.Verdict = domain.VerdictSell
		s.Description = "Price above upper Bollinger band"
	default:
		s.Description = "Price inside Bollinger bands"
	}
	return s
}
