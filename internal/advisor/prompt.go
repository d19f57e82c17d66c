package advisor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"market-lens/internal/domain"
)

const analystBrief = `You are an equity market analyst. You receive indicator readings that were already computed; interpret them, do not recompute them.

Return ONLY a JSON object, no markdown, with:
- summary: two or three sentences on what the indicators say together
- outlook: bullish, bearish or neutral
- risks: short phrases, at most three
- catalysts: short phrases, at most three
- confidence: number between 0 and 1

Rules:
- Reference the numbers you were given. Never invent prices, news or fundamentals.
- Say so when indicators conflict.
- No financial advice disclaimers.`

func BuildSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString(analystBrief)
	sb.WriteString("\n\nCurrent time: ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	return sb.String()
}

func FormatTrendContext(res *domain.TrendAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Trend analysis for %s over %d days\n", res.Symbol, res.Period)
	fmt.Fprintf(&sb, "Price: %.2f (change %+.2f, %+.2f%%)\n", res.CurrentPrice, res.PriceChange, res.PriceChangePercent)
	fmt.Fprintf(&sb, "Trend: %s, strength %.0f/100, confidence %s, action %s\n",
		res.Trend, res.StrengthScore, res.ConfidenceLevel, res.RecommendedAction)
	fmt.Fprintf(&sb, "Volatility (daily returns std): %.4f\n", res.Volatility)
	writeIndicators(&sb, res.Indicators)
	writeLevels(&sb, res.SupportLevels, res.ResistanceLevels)
	fmt.Fprintf(&sb, "Volume: avg %.0f, latest vs avg %+.1f%%\n",
		res.VolumeAnalysis.AverageVolume, res.VolumeAnalysis.RecentVolumeChange)
	return sb.String()
}

func FormatTechnicalContext(res *domain.TechnicalAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Technical analysis for %s (%s bars)\n", res.Symbol, res.Interval)
	fmt.Fprintf(&sb, "Price: %.2f, trend %s, strength %.0f/100\n", res.CurrentPrice, res.Trend, res.StrengthScore)
	writeIndicators(&sb, res.Indicators)
	writeLevels(&sb, res.SupportLevels, res.ResistanceLevels)

	sb.WriteString("Signals:\n")
	for _, s := range res.Signals.Signals {
		fmt.Fprintf(&sb, "  %s %s (%s): %s\n", s.Source, strings.ToUpper(string(s.Verdict)), s.Strength, s.Description)
	}
	fmt.Fprintf(&sb, "Overall: %s (buy=%d sell=%d)\n", res.Signals.Overall, res.Signals.BuyCount, res.Signals.SellCount)
	return sb.String()
}

func writeIndicators(sb *strings.Builder, set domain.IndicatorSet) {
	sb.WriteString("Indicators:\n")
	writePeriods(sb, "SMA", set.SMA)
	writePeriods(sb, "EMA", set.EMA)
	if set.RSI != nil {
		fmt.Fprintf(sb, "  RSI14: %.1f\n", *set.RSI)
	}
	if set.MACD != nil {
		fmt.Fprintf(sb, "  MACD: line %.3f signal %.3f hist %.3f\n", set.MACD.Line, set.MACD.Signal, set.MACD.Histogram)
	}
	if set.Bollinger != nil {
		fmt.Fprintf(sb, "  Bollinger: upper %.2f middle %.2f lower %.2f width %.3f\n",
			set.Bollinger.Upper, set.Bollinger.Middle, set.Bollinger.Lower, set.Bollinger.Width)
	}
	if set.Stochastic != nil {
		fmt.Fprintf(sb, "  Stochastic: %%K %.1f %%D %.1f\n", set.Stochastic.K, set.Stochastic.D)
	}
	if set.ATR != nil {
		fmt.Fprintf(sb, "  ATR14: %.2f\n", *set.ATR)
	}
}

func writePeriods(sb *strings.Builder, name string, values map[int]float64) {
	periods := make([]int, 0, len(values))
	for p := range values {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	for _, p := range periods {
		fmt.Fprintf(sb, "  %s%d: %.2f\n", name, p, values[p])
	}
}

func writeLevels(sb *strings.Builder, support, resistance []float64) {
	if len(support) > 0 {
		fmt.Fprintf(sb, "Support: %s\n", joinPrices(support))
	}
	if len(resistance) > 0 {
		fmt.Fprintf(sb, "Resistance: %s\n", joinPrices(resistance))
	}
}

func joinPrices(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.2f", v)
	}
	return strings.Join(parts, ", ")
}
