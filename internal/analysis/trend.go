package analysis

import (
	"math"

	"market-lens/internal/domain"
	"market-lens/internal/ta"
)

const (
	baseStrength     = 50.0
	maOrderWeight    = 20.0
	rsiExtremeWeight = 10.0
	macdWeight       = 15.0

	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// TrendInput carries the readings the classifier needs for the latest bar.
type TrendInput struct {
	Price         float64
	SMA50         float64
	SMA200        float64
	RSI           float64
	MACDHistogram float64
}

type TrendResult struct {
	Trend      domain.Trend
	Strength   float64
	Confidence domain.ConfidenceLevel
	Action     domain.Action
}

// NewTrendInput reads the classifier inputs from an indicator set.
func NewTrendInput(price float64, set domain.IndicatorSet) TrendInput {
	in := TrendInput{Price: price, SMA50: set.SMA[50], SMA200: set.SMA[200], RSI: 50}
	if set.RSI != nil {
		in.RSI = *set.RSI
	}
	if set.MACD != nil {
		in.MACDHistogram = set.MACD.Histogram
	}
	return in
}

// ClassifyTrend applies, in order: moving-average ordering, RSI extremes and
// MACD confirmation. Later rules may relabel the trend; strength adjustments
// accumulate from 50 and are clamped to [0,100] after every step.
func ClassifyTrend(in TrendInput) TrendResult {
	trend := domain.TrendNeutral
	strength := baseStrength

	switch {
	case in.Price > in.SMA50 && in.SMA50 > in.SMA200:
		trend = domain.TrendBullish
		strength = ta.Clamp(strength+maOrderWeight, 0, 100)
	case in.Price < in.SMA50 && in.SMA50 < in.SMA200:
		trend = domain.TrendBearish
		strength = ta.Clamp(strength-maOrderWeight, 0, 100)
	}

	switch {
	case in.RSI > rsiOverbought:
		trend = domain.TrendBearish
		strength = ta.Clamp(strength-rsiExtremeWeight, 0, 100)
	case in.RSI < rsiOversold:
		trend = domain.TrendBullish
		strength = ta.Clamp(strength+rsiExtremeWeight, 0, 100)
	}

	switch {
	case in.MACDHistogram > 0:
		strength = ta.Clamp(strength+macdWeight, 0, 100)
		if trend == domain.TrendNeutral {
			trend = domain.TrendBullish
		}
	case in.MACDHistogram < 0:
		strength = ta.Clamp(strength-macdWeight, 0, 100)
		if trend == domain.TrendNeutral {
			trend = domain.TrendBearish
		}
	}

	return TrendResult{
		Trend:      trend,
		Strength:   strength,
		Confidence: ConfidenceFor(strength),
		Action:     ActionFor(trend, strength),
	}
}

// ConfidenceFor maps distance from the neutral 50 to a confidence level.
func ConfidenceFor(strength float64) domain.ConfidenceLevel {
	d := math.Abs(strength - baseStrength)
	switch {
	case d > 30:
		return domain.ConfidenceHigh
	case d < 10:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}

func ActionFor(trend domain.Trend, strength float64) domain.Action {
	switch {
	case trend == domain.TrendBullish && strength > 70:
		return domain.ActionBuy
	case trend == domain.TrendBearish && strength < 30:
		return domain.ActionSell
	default:
		return domain.ActionHold
	}
}
