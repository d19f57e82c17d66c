package analysis

import (
	"strings"

	"github.com/shopspring/decimal"

	"market-lens/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// PricedHolding is a holding with its current quote and, when available,
// the trend read for its symbol.
type PricedHolding struct {
	Holding domain.Holding
	Price   float64
	Trend   domain.Trend
	Action  domain.Action
}

// ValidateHoldings rejects empty portfolios, blank symbols, non-positive
// quantities and negative purchase prices.
func ValidateHoldings(holdings []domain.Holding) error {
	const op = "analysis.ValidateHoldings"
	if len(holdings) == 0 {
		return InvalidParameter(op, "holdings must not be empty")
	}
	for i, h := range holdings {
		if strings.TrimSpace(h.Symbol) == "" {
			return InvalidParameter(op, "holding %d: symbol is required", i)
		}
		if h.Quantity <= 0 {
			return InvalidParameter(op, "holding %s: quantity must be positive", h.Symbol)
		}
		if h.PurchasePrice != nil && *h.PurchasePrice < 0 {
			return InvalidParameter(op, "holding %s: purchase price must not be negative", h.Symbol)
		}
	}
	return nil
}

// ScorePortfolio values each holding and the portfolio as a whole. Holdings
// without a purchase price are costed at current value, so they contribute
// no gain. Money arithmetic runs in decimal and is rounded to cents.
func ScorePortfolio(items []PricedHolding) domain.PortfolioPerformance {
	values := make([]decimal.Decimal, len(items))
	costs := make([]decimal.Decimal, len(items))
	totalValue, totalCost := decimal.Zero, decimal.Zero
	for i, it := range items {
		qty := decimal.NewFromFloat(it.Holding.Quantity)
		values[i] = qty.Mul(decimal.NewFromFloat(it.Price))
		costs[i] = values[i]
		if it.Holding.PurchasePrice != nil {
			costs[i] = qty.Mul(decimal.NewFromFloat(*it.Holding.PurchasePrice))
		}
		totalValue = totalValue.Add(values[i])
		totalCost = totalCost.Add(costs[i])
	}

	perf := domain.PortfolioPerformance{
		Holdings:  make([]domain.HoldingPerformance, 0, len(items)),
		RiskLevel: domain.RiskLow,
	}
	hhi := decimal.Zero
	maxWeight := decimal.Zero
	for i, it := range items {
		gain := values[i].Sub(costs[i])
		weight := decimal.Zero
		if totalValue.IsPositive() {
			weight = values[i].Div(totalValue)
		}
		hhi = hhi.Add(weight.Mul(weight))
		if weight.GreaterThan(maxWeight) {
			maxWeight = weight
		}

		perf.Holdings = append(perf.Holdings, domain.HoldingPerformance{
			Symbol:            it.Holding.Symbol,
			Quantity:          it.Holding.Quantity,
			CurrentPrice:      it.Price,
			Value:             values[i].Round(2).InexactFloat64(),
			Cost:              costs[i].Round(2).InexactFloat64(),
			Gain:              gain.Round(2).InexactFloat64(),
			GainPercent:       percentOf(gain, costs[i]),
			Weight:            weight.Mul(hundred).Round(2).InexactFloat64(),
			Trend:             it.Trend,
			RecommendedAction: it.Action,
		})
	}

	totalGain := totalValue.Sub(totalCost)
	perf.TotalValue = totalValue.Round(2).InexactFloat64()
	perf.TotalCost = totalCost.Round(2).InexactFloat64()
	perf.TotalGain = totalGain.Round(2).InexactFloat64()
	perf.TotalGainPercent = percentOf(totalGain, totalCost)
	if len(items) > 0 && totalValue.IsPositive() {
		perf.DiversificationScore = decimal.NewFromInt(1).Sub(hhi).Mul(hundred).Round(2).InexactFloat64()
	}
	perf.RiskLevel = riskFor(maxWeight.Mul(hundred).InexactFloat64())
	return perf
}

func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(hundred).Round(2).InexactFloat64()
}

// riskFor grades concentration by the largest holding weight, in percent.
func riskFor(maxWeight float64) domain.RiskLevel {
	switch {
	case maxWeight > 50:
		return domain.RiskHigh
	case maxWeight > 25:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
