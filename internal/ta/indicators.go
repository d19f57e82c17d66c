// Package ta implements the technical indicators used by the analysis engine.
//
// Every function takes newest-first slices: values[0] is the most recent
// sample, matching the order of a domain candle series. Functions that return
// a series use the same order, so out[0] is always the latest window.
// Short or degenerate inputs never fail; each function documents the value it
// falls back to.
package ta

import "math"

// MeanStd returns the mean and population standard deviation of values.
func MeanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Returns computes r_i = (p_{i-1} - p_i) / p_i for each adjacent pair, so
// out[0] is the return of the latest bar. Pairs with a zero base are skipped.
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i] == 0 {
			continue
		}
		out = append(out, (values[i-1]-values[i])/values[i])
	}
	return out
}

// Volatility is the population standard deviation of the returns over the
// most recent window samples (all samples when window <= 0 or too large).
func Volatility(values []float64, window int) float64 {
	if window <= 0 || window > len(values) {
		window = len(values)
	}
	_, std := MeanStd(Returns(values[:window]))
	return std
}
