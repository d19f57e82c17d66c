package ta

// SMA is the mean of the most recent period samples. A series shorter than
// period degrades to the mean of the whole series; an empty series yields 0.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if period <= 0 || period > len(values) {
		period = len(values)
	}
	var sum float64
	for _, v := range values[:period] {
		sum += v
	}
	return sum / float64(period)
}

// EMA returns the latest exponential moving average. The average is seeded
// with the SMA of the oldest period samples and walks forward to the newest
// with k = 2/(period+1). A short series degrades to SMA over the full series.
func EMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return SMA(values, len(values))
	}
	return EMASeries(values, period)[0]
}

// EMASeries returns the EMA at every position from the seed window onwards,
// newest-first: out[i] is the EMA as of values[i]. The result has
// len(values)-period+1 entries, or nil when the series is too short.
func EMASeries(values []float64, period int) []float64 {
	n := len(values)
	if period <= 0 || n < period {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, n-period+1)

	ema := SMA(values[n-period:], period)
	out[n-period] = ema
	for i := n - period - 1; i >= 0; i-- {
		ema = values[i]*k + ema*(1-k)
		out[i] = ema
	}
	return out
}
