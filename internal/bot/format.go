package bot

import (
	"fmt"
	"strings"

	"market-lens/internal/domain"
)

func FormatQuote(q *domain.Quote) string {
	name := q.Symbol
	if q.Name != "" {
		name = fmt.Sprintf("%s (%s)", q.Symbol, q.Name)
	}
	return fmt.Sprintf("%s\nPrice: %.2f %s\nChange: %+.2f (%+.2f%%)",
		name, q.Price, q.Currency, q.Change, q.PercentChange)
}

func FormatTrend(t *domain.TrendAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d-day trend: %s (strength %.0f, %s confidence)\n",
		t.Symbol, t.Period, t.Trend, t.StrengthScore, t.ConfidenceLevel)
	fmt.Fprintf(&sb, "Price: %.2f (%+.2f%%)\n", t.CurrentPrice, t.PriceChangePercent)
	if t.Indicators.RSI != nil {
		fmt.Fprintf(&sb, "RSI: %.1f\n", *t.Indicators.RSI)
	}
	if len(t.SupportLevels) > 0 && len(t.ResistanceLevels) > 0 {
		fmt.Fprintf(&sb, "Support: %.2f  Resistance: %.2f\n", t.SupportLevels[0], t.ResistanceLevels[0])
	}
	fmt.Fprintf(&sb, "Action: %s", strings.ToUpper(string(t.RecommendedAction)))
	if t.DeepAnalysis != nil && t.DeepAnalysis.Summary != "" {
		fmt.Fprintf(&sb, "\n\n%s", t.DeepAnalysis.Summary)
	}
	return sb.String()
}

func FormatTechnical(t *domain.TechnicalAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s signals: %s (%d buy / %d sell)\n",
		t.Symbol, t.Interval, strings.ToUpper(string(t.Signals.Overall)), t.Signals.BuyCount, t.Signals.SellCount)
	for _, s := range t.Signals.Signals {
		marker := ""
		if s.Strength == domain.StrengthStrong {
			marker = " (strong)"
		}
		fmt.Fprintf(&sb, "- %s: %s%s\n", s.Source, s.Verdict, marker)
	}
	fmt.Fprintf(&sb, "Trend: %s (strength %.0f)", t.Trend, t.StrengthScore)
	return sb.String()
}

func FormatPrediction(p *domain.PricePrediction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s projection from %.2f (%s, volatility %.2f%%)\n",
		p.Symbol, p.CurrentPrice, p.Trend, p.Volatility*100)
	for _, pt := range p.Predictions {
		fmt.Fprintf(&sb, "%s  %.2f  [%.2f - %.2f]\n", pt.Date.Format("2006-01-02"), pt.Price, pt.RangeLow, pt.RangeHigh)
	}
	sb.WriteString("Illustrative only, not investment advice.")
	return sb.String()
}
