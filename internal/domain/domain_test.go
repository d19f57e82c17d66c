package domain

import (
	"testing"
	"time"
)

func TestNormalizeSeriesOrdersNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	in := []Candle{
		{Date: base, Close: 10},
		{Date: base.AddDate(0, 0, 2), Close: 12},
		{Date: base.AddDate(0, 0, 1), Close: 11},
	}

	out := NormalizeSeries(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(out))
	}
	if out[0].Close != 12 || out[1].Close != 11 || out[2].Close != 10 {
		t.Fatalf("unexpected order: %+v", out)
	}
	if in[0].Close != 10 {
		t.Fatal("input slice must not be reordered")
	}
}

func TestNormalizeSeriesDropsDuplicatesAndEmptyBars(t *testing.T) {
	base := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	in := []Candle{
		{Date: base, Close: 10},
		{Date: base.Add(time.Hour), Close: 99},
		{Date: base.AddDate(0, 0, -1)},
		{Date: base.AddDate(0, 0, -2), Close: 8},
	}

	out := NormalizeSeries(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 candles, got %d: %+v", len(out), out)
	}
	if out[0].Close != 99 || out[1].Close != 8 {
		t.Fatalf("unexpected candles: %+v", out)
	}
}

func TestExtractors(t *testing.T) {
	series := []Candle{
		{High: 3, Low: 1, Close: 2, Volume: 100},
		{High: 6, Low: 4, Close: 5, Volume: 200},
	}
	if got := Closes(series); got[0] != 2 || got[1] != 5 {
		t.Fatalf("unexpected closes: %v", got)
	}
	if got := Highs(series); got[0] != 3 || got[1] != 6 {
		t.Fatalf("unexpected highs: %v", got)
	}
	if got := Lows(series); got[0] != 1 || got[1] != 4 {
		t.Fatalf("unexpected lows: %v", got)
	}
	if got := Volumes(series); got[0] != 100 || got[1] != 200 {
		t.Fatalf("unexpected volumes: %v", got)
	}
}

func TestIntervalIsValid(t *testing.T) {
	if !IntervalWeekly.IsValid() {
		t.Fatal("weekly should be valid")
	}
	if Interval("hourly").IsValid() {
		t.Fatal("hourly should be invalid")
	}
	if !IsValidRange("1y") || IsValidRange("7y") {
		t.Fatal("unexpected range validation")
	}
}

func TestNormalizeSymbol(t *testing.T) {
	valid := map[string]string{
		" aapl ":   "AAPL",
		"brk.b":    "BRK.B",
		"^gspc":    "^GSPC",
		"eurusd=x": "EURUSD=X",
	}
	for in, want := range valid {
		got, ok := NormalizeSymbol(in)
		if !ok || got != want {
			t.Fatalf("NormalizeSymbol(%q) = %q, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "   ", "AA PL", "DROP;TABLE", "ABCDEFGHIJKLMNOPQ"} {
		if _, ok := NormalizeSymbol(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}
