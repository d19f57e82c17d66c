package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"market-lens/internal/analysis"
	"market-lens/internal/bot"
	"market-lens/internal/domain"

	"github.com/spf13/cobra"
)

type marketLookup interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

type analyzer interface {
	AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error)
	AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (*domain.TechnicalAnalysis, error)
	PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (*domain.PricePrediction, error)
	AnalyzePortfolio(ctx context.Context, holdings []domain.Holding) (*domain.PortfolioPerformance, error)
}

func newRootCmd(market marketLookup, an analyzer, timeout time.Duration) *cobra.Command {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	root := &cobra.Command{
		Use:           "market-lens",
		Short:         "Stock trend, signal, projection and portfolio analysis",
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("json", false, "print raw JSON")

	withTimeout := func(cmd *cobra.Command) (context.Context, context.CancelFunc) {
		return context.WithTimeout(cmd.Context(), timeout)
	}

	quote := &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Latest quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			q, err := market.GetQuote(ctx, args[0])
			if err != nil {
				return err
			}
			return render(cmd, q, func() string { return bot.FormatQuote(q) })
		},
	}

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Find ticker symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			results, err := market.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return render(cmd, results, func() string {
				var sb strings.Builder
				tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SYMBOL\tNAME\tEXCHANGE\tTYPE")
				for _, r := range results {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Symbol, r.Name, r.Exchange, r.Type)
				}
				tw.Flush()
				return strings.TrimRight(sb.String(), "\n")
			})
		},
	}

	history := &cobra.Command{
		Use:   "history <symbol>",
		Short: "Historical candles, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetString("interval")
			rng, _ := cmd.Flags().GetString("range")
			limit, _ := cmd.Flags().GetInt("limit")
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			candles, err := market.GetHistory(ctx, args[0], domain.Interval(interval), rng)
			if err != nil {
				return err
			}
			if limit > 0 && len(candles) > limit {
				candles = candles[:limit]
			}
			return render(cmd, candles, func() string {
				var sb strings.Builder
				tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(tw, "DATE\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME\t")
				for _, c := range candles {
					fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t\n",
						c.Date.Format("2006-01-02"), c.Open, c.High, c.Low, c.Close, c.Volume)
				}
				tw.Flush()
				return strings.TrimRight(sb.String(), "\n")
			})
		},
	}
	history.Flags().String("interval", "daily", "daily, weekly or monthly")
	history.Flags().String("range", "1y", "history range")
	history.Flags().Int("limit", 30, "maximum candles to print (0 for all)")

	trend := &cobra.Command{
		Use:   "trend <symbol>",
		Short: "Trend classification and recommended action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, _ := cmd.Flags().GetInt("period")
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			res, err := an.AnalyzeTrend(ctx, args[0], period)
			if err != nil {
				return err
			}
			return render(cmd, res, func() string { return bot.FormatTrend(res) })
		},
	}
	trend.Flags().Int("period", 60, "lookback in trading days (10-365)")

	technical := &cobra.Command{
		Use:     "technical <symbol>",
		Aliases: []string{"signals"},
		Short:   "Indicators and trading signals",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetString("interval")
			indicators, _ := cmd.Flags().GetStringSlice("indicators")
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			res, err := an.AnalyzeTechnical(ctx, args[0], domain.Interval(interval), indicators)
			if err != nil {
				return err
			}
			return render(cmd, res, func() string { return bot.FormatTechnical(res) })
		},
	}
	technical.Flags().String("interval", "daily", "daily, weekly or monthly")
	technical.Flags().StringSlice("indicators", nil, "indicator subset (sma,ema,rsi,macd,bollinger,stochastic,atr)")

	predict := &cobra.Command{
		Use:   "predict <symbol>",
		Short: "Illustrative price projection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			hist, _ := cmd.Flags().GetString("history")
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			res, err := an.PredictPrice(ctx, args[0], days, hist)
			if err != nil {
				return err
			}
			return render(cmd, res, func() string { return bot.FormatPrediction(res) })
		},
	}
	predict.Flags().Int("days", 7, "days to project (1-30)")
	predict.Flags().String("history", "1y", "history range used for fitting")

	portfolio := &cobra.Command{
		Use:     "portfolio <SYMBOL:QTY[@PRICE]>...",
		Short:   "Value and score holdings",
		Example: "  market-lens portfolio AAPL:10@150 MSFT:5 VOO:2.5@400",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			holdings, err := parseHoldings(args)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			res, err := an.AnalyzePortfolio(ctx, holdings)
			if err != nil {
				return err
			}
			return render(cmd, res, func() string { return formatPortfolio(res) })
		},
	}

	root.AddCommand(quote, search, history, trend, technical, predict, portfolio)
	return root
}

func render(cmd *cobra.Command, v any, text func() string) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text())
	return err
}

// parseHoldings reads SYMBOL:QTY or SYMBOL:QTY@PRICE arguments.
func parseHoldings(args []string) ([]domain.Holding, error) {
	holdings := make([]domain.Holding, 0, len(args))
	for _, arg := range args {
		sym, rest, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, analysis.InvalidParameter("cli.portfolio", "holding %q must look like SYMBOL:QTY[@PRICE]", arg)
		}
		qtyRaw, priceRaw, hasPrice := strings.Cut(rest, "@")
		qty, err := strconv.ParseFloat(qtyRaw, 64)
		if err != nil {
			return nil, analysis.InvalidParameter("cli.portfolio", "holding %q: bad quantity %q", arg, qtyRaw)
		}
		h := domain.Holding{Symbol: sym, Quantity: qty}
		if hasPrice {
			price, err := strconv.ParseFloat(priceRaw, 64)
			if err != nil {
				return nil, analysis.InvalidParameter("cli.portfolio", "holding %q: bad purchase price %q", arg, priceRaw)
			}
			h.PurchasePrice = &price
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func formatPortfolio(p *domain.PortfolioPerformance) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tQTY\tPRICE\tVALUE\tGAIN\tWEIGHT\tTREND")
	for _, h := range p.Holdings {
		fmt.Fprintf(tw, "%s\t%g\t%.2f\t%.2f\t%+.2f (%+.2f%%)\t%.2f%%\t%s\n",
			h.Symbol, h.Quantity, h.CurrentPrice, h.Value, h.Gain, h.GainPercent, h.Weight, h.Trend)
	}
	tw.Flush()
	fmt.Fprintf(&sb, "Total: %.2f  Cost: %.2f  Gain: %+.2f (%+.2f%%)\n",
		p.TotalValue, p.TotalCost, p.TotalGain, p.TotalGainPercent)
	fmt.Fprintf(&sb, "Diversification: %.1f  Risk: %s", p.DiversificationScore, p.RiskLevel)
	for _, e := range p.Errors {
		fmt.Fprintf(&sb, "\nwarning: %s", e)
	}
	return sb.String()
}

// exitCode follows the HTTP mapping so scripts can tell failures apart.
func exitCode(err error) int {
	switch {
	case errors.Is(err, analysis.ErrInvalidParameter):
		return 2
	case errors.Is(err, analysis.ErrNotFound):
		return 3
	case errors.Is(err, analysis.ErrInsufficientData):
		return 4
	case errors.Is(err, analysis.ErrProvider):
		return 5
	default:
		return 1
	}
}
