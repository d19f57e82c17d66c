package ta

import (
	"math"

	"market-lens/internal/domain"
)

// Bollinger computes bands around the SMA of the most recent period samples
// using the population standard deviation. A series shorter than period
// collapses every band to the latest price with zero width.
func Bollinger(values []float64, period int, mult float64) domain.BollingerBands {
	if len(values) == 0 {
		return domain.BollingerBands{}
	}
	if period <= 0 || len(values) < period {
		last := values[0]
		return domain.BollingerBands{Upper: last, Middle: last, Lower: last}
	}

	middle, std := MeanStd(values[:period])
	upper := middle + mult*std
	lower := middle - mult*std
	width := 0.0
	if middle != 0 {
		width = math.Abs((upper - lower) / middle)
	}
	return domain.BollingerBands{
		Upper:             upper,
		Middle:            middle,
		Lower:             lower,
		Width:             width,
		StandardDeviation: std,
	}
}

// ATR is a simplified average true range: the mean true range over the most
// recent period bars. A single bar degrades to its high-low range.
func ATR(high, low, closes []float64, period int) float64 {
	n := min(len(high), len(low), len(closes))
	if n == 0 {
		return 0
	}
	if n == 1 {
		return high[0] - low[0]
	}
	count := n - 1
	if period > 0 && period < count {
		count = period
	}

	var sum float64
	for i := 0; i < count; i++ {
		prevClose := closes[i+1]
		tr := math.Max(high[i]-low[i], math.Max(math.Abs(high[i]-prevClose), math.Abs(low[i]-prevClose)))
		sum += tr
	}
	return sum / float64(count)
}
