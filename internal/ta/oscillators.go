package ta

import (
	"math"

	"market-lens/internal/domain"
)

const neutralOscillator = 50.0

// RSI computes the Wilder-smoothed relative strength index. It needs
// period+1 samples and returns 50 otherwise. A window with no losses is 100.
func RSI(values []float64, period int) float64 {
	n := len(values)
	if period <= 0 || n < period+1 {
		return neutralOscillator
	}

	// Walk oldest to newest: values[n-1] is the first sample.
	var gainSum, lossSum float64
	for i := n - 2; i >= n-1-period; i-- {
		delta := values[i] - values[i+1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	for i := n - 2 - period; i >= 0; i-- {
		delta := values[i] - values[i+1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	return Clamp(rsiFromAvg(avgGain, avgLoss), 0, 100)
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD returns the MACD line, its signal line and the histogram for the
// latest bar. The signal line is the EMA of the historical MACD line values.
// Series shorter than max(fast, slow)+signal yield an all-zero result.
func MACD(values []float64, fast, slow, signal int) domain.MACD {
	longest := max(fast, slow)
	if fast <= 0 || slow <= 0 || signal <= 0 || len(values) < longest+signal {
		return domain.MACD{}
	}

	fastSeries := EMASeries(values, fast)
	slowSeries := EMASeries(values, slow)
	line := make([]float64, len(values)-longest+1)
	for i := range line {
		line[i] = fastSeries[i] - slowSeries[i]
	}

	sig := EMA(line, signal)
	return domain.MACD{
		Line:      line[0],
		Signal:    sig,
		Histogram: line[0] - sig,
	}
}

// Stochastic computes %K and %D for the latest bar.
func Stochastic(high, low, closes []float64, kPeriod, dPeriod int) domain.Stochastic {
	return StochasticAt(high, low, closes, kPeriod, dPeriod, 0)
}

// StochasticAt computes %K and %D as of offset bars ago. A flat high/low range
// gives %K = 50; windows shorter than kPeriod use whatever history exists.
// %D falls back to %K when fewer than dPeriod %K values can be formed.
func StochasticAt(high, low, closes []float64, kPeriod, dPeriod, offset int) domain.Stochastic {
	n := min(len(high), len(low), len(closes))
	if offset < 0 || offset >= n {
		return domain.Stochastic{K: neutralOscillator, D: neutralOscillator}
	}
	if kPeriod <= 0 {
		kPeriod = 1
	}

	percentK := func(at int) float64 {
		end := min(at+kPeriod, n)
		highest, lowest := high[at], low[at]
		for i := at; i < end; i++ {
			highest = math.Max(highest, high[i])
			lowest = math.Min(lowest, low[i])
		}
		if highest == lowest {
			return neutralOscillator
		}
		return Clamp((closes[at]-lowest)/(highest-lowest)*100, 0, 100)
	}

	k := percentK(offset)
	if dPeriod <= 1 || n-offset < kPeriod+dPeriod-1 {
		return domain.Stochastic{K: k, D: k}
	}

	var sum float64
	for j := 0; j < dPeriod; j++ {
		sum += percentK(offset + j)
	}
	return domain.Stochastic{K: k, D: Clamp(sum/float64(dPeriod), 0, 100)}
}
