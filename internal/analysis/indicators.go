// Package analysis turns candle series into trend, signal, level, forecast
// and portfolio results. Everything here is pure; fetching data is the
// service layer's job.
package analysis

import (
	"market-lens/internal/domain"
	"market-lens/internal/ta"
)

const (
	rsiPeriod        = 14
	macdFast         = 12
	macdSlow         = 26
	macdSignalPeriod = 9
	bollingerPeriod  = 20
	bollingerStdDevs = 2.0
	stochasticK      = 14
	stochasticD      = 3
	atrPeriod        = 14
	volumeWindow     = 20
)

var (
	smaPeriods = []int{20, 50, 200}
	emaPeriods = []int{12, 26}
)

// ComputeIndicators evaluates the full indicator set for a newest-first
// candle series.
func ComputeIndicators(series []domain.Candle) domain.IndicatorSet {
	closes := domain.Closes(series)
	highs := domain.Highs(series)
	lows := domain.Lows(series)

	set := domain.IndicatorSet{
		SMA: make(map[int]float64, len(smaPeriods)),
		EMA: make(map[int]float64, len(emaPeriods)),
	}
	for _, p := range smaPeriods {
		set.SMA[p] = ta.SMA(closes, p)
	}
	for _, p := range emaPeriods {
		set.EMA[p] = ta.EMA(closes, p)
	}

	rsi := ta.RSI(closes, rsiPeriod)
	macd := ta.MACD(closes, macdFast, macdSlow, macdSignalPeriod)
	bands := ta.Bollinger(closes, bollingerPeriod, bollingerStdDevs)
	stoch := ta.Stochastic(highs, lows, closes, stochasticK, stochasticD)
	atr := ta.ATR(highs, lows, closes, atrPeriod)

	set.RSI = &rsi
	set.MACD = &macd
	set.Bollinger = &bands
	set.Stochastic = &stoch
	set.ATR = &atr
	return set
}

// FilterIndicators keeps only the named indicators. An empty filter keeps all.
func FilterIndicators(set domain.IndicatorSet, names []string) domain.IndicatorSet {
	if len(names) == 0 {
		return set
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var out domain.IndicatorSet
	if keep[domain.IndicatorSMA] {
		out.SMA = set.SMA
	}
	if keep[domain.IndicatorEMA] {
		out.EMA = set.EMA
	}
	if keep[domain.IndicatorRSI] {
		out.RSI = set.RSI
	}
	if keep[domain.IndicatorMACD] {
		out.MACD = set.MACD
	}
	if keep[domain.IndicatorBollinger] {
		out.Bollinger = set.Bollinger
	}
	if keep[domain.IndicatorStochastic] {
		out.Stochastic = set.Stochastic
	}
	if keep[domain.IndicatorATR] {
		out.ATR = set.ATR
	}
	return out
}

// AnalyzeVolume reports the average volume over the recent window and the
// latest bar's volume change against that average, in percent.
func AnalyzeVolume(series []domain.Candle) domain.VolumeAnalysis {
	volumes := domain.Volumes(series)
	if len(volumes) == 0 {
		return domain.VolumeAnalysis{}
	}
	avg := ta.SMA(volumes, volumeWindow)
	change := 0.0
	if avg > 0 {
		change = (volumes[0] - avg) / avg * 100
	}
	return domain.VolumeAnalysis{AverageVolume: avg, RecentVolumeChange: change}
}
