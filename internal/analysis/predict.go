package analysis

import (
	"time"

	"market-lens/internal/domain"
	"market-lens/internal/ta"
)

const (
	MinPredictionCandles = 30
	MaxPredictionDays    = 30
	predictionWindow     = 30

	MethodTrendAdjustedRandomWalk = "trend_adjusted_random_walk"
)

// RandSource supplies uniform draws in [0,1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

type PredictionInput struct {
	Closes   []float64 // newest-first
	LastDate time.Time
	Days     int
	Trend    domain.Trend
	Strength float64
}

type PredictionResult struct {
	Points     []domain.PredictionPoint
	Volatility float64
	AvgReturn  float64
}

// Predict walks the price forward one calendar day per step. Each step
// takes the mean recent return and adds a uniform draw in [0, vol) whose
// sign follows the trend; a neutral trend picks the sign with a second draw.
// Changes compound from the previous predicted price.
func Predict(in PredictionInput, rng RandSource) (PredictionResult, error) {
	const op = "analysis.Predict"
	if in.Days < 1 || in.Days > MaxPredictionDays {
		return PredictionResult{}, InvalidParameter(op, "days must be between 1 and %d, got %d", MaxPredictionDays, in.Days)
	}
	if len(in.Closes) < MinPredictionCandles {
		return PredictionResult{}, InsufficientData(op, len(in.Closes), MinPredictionCandles)
	}

	window := in.Closes[:min(len(in.Closes), predictionWindow)]
	returns := ta.Returns(window)
	avg, vol := ta.MeanStd(returns)

	confidence := pointConfidence(in.Strength)
	points := make([]domain.PredictionPoint, 0, in.Days)
	price := in.Closes[0]
	for step := 1; step <= in.Days; step++ {
		change := avg + drift(in.Trend, vol, rng)
		price = max(price*(1+change), 0)
		points = append(points, domain.PredictionPoint{
			Date:       in.LastDate.AddDate(0, 0, step),
			Price:      price,
			RangeLow:   max(price*(1-vol), 0),
			RangeHigh:  price * (1 + vol),
			Confidence: confidence,
		})
	}
	return PredictionResult{Points: points, Volatility: vol, AvgReturn: avg}, nil
}

func drift(trend domain.Trend, vol float64, rng RandSource) float64 {
	u := rng.Float64() * vol
	switch trend {
	case domain.TrendBullish:
		return u
	case domain.TrendBearish:
		return -u
	default:
		if rng.Float64() < 0.5 {
			return -u
		}
		return u
	}
}

func pointConfidence(strength float64) domain.ConfidenceLevel {
	switch {
	case strength > 80:
		return domain.ConfidenceHigh
	case strength < 40:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}
