package domain

import (
	"sort"
	"time"
)

// Candle represents a single OHLCV bar for one trading period.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Quote represents the latest traded price for a symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percent_change"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// SearchResult is one match returned by a symbol search.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// Interval is the bucket size of a candle series.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// SupportedIntervals lists the intervals a provider must serve.
var SupportedIntervals = []Interval{IntervalDaily, IntervalWeekly, IntervalMonthly}

func (i Interval) IsValid() bool {
	for _, s := range SupportedIntervals {
		if i == s {
			return true
		}
	}
	return false
}

// SupportedRanges are the history ranges accepted by GetHistory.
var SupportedRanges = []string{"1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

func IsValidRange(rng string) bool {
	for _, r := range SupportedRanges {
		if rng == r {
			return true
		}
	}
	return false
}

// NormalizeSeries returns a copy of candles ordered newest-first with empty
// bars and duplicate dates removed. The first occurrence of a date wins.
func NormalizeSeries(candles []Candle) []Candle {
	out := make([]Candle, 0, len(candles))
	for _, c := range candles {
		if c.Close == 0 && c.Open == 0 && c.High == 0 && c.Low == 0 {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	deduped := out[:0]
	for i, c := range out {
		if i > 0 && sameDay(c.Date, deduped[len(deduped)-1].Date) {
			continue
		}
		deduped = append(deduped, c)
	}
	return deduped
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Closes extracts close prices, preserving the series order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts high prices, preserving the series order.
func Highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts low prices, preserving the series order.
func Lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

// Volumes extracts volumes as floats, preserving the series order.
func Volumes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = float64(c.Volume)
	}
	return out
}
