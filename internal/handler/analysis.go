package handler

import (
	"net/http"
	"strconv"
	"strings"

	"market-lens/internal/analysis"
	"market-lens/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// PortfolioRequest is the body of POST /api/analysis/portfolio.
type PortfolioRequest struct {
	Holdings []domain.Holding `json:"holdings"`
}

// AnalyzeTrend godoc
// @Summary      Classify the price trend of a symbol
// @Description  Trend label, strength, indicators, support/resistance and a recommended action over the last period trading days
// @Tags         analysis
// @Produce      json
// @Param        symbol  path   string  true   "Ticker symbol"
// @Param        period  query  int     false  "Lookback in trading days (10-365)"  default(60)
// @Success      200  {object}  domain.TrendAnalysis
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/trend/{symbol} [get]
func (h *Handler) AnalyzeTrend(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze-trend")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", c.Param("symbol")))

	period, ok := h.intQuery(c, "period", 0)
	if !ok {
		return
	}
	res, err := h.analyzer.AnalyzeTrend(ctx, c.Param("symbol"), period)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AnalyzeTechnical godoc
// @Summary      Technical indicators and trading signals
// @Description  Computes indicators and six signals with a majority verdict
// @Tags         analysis
// @Produce      json
// @Param        symbol      path   string  true   "Ticker symbol"
// @Param        interval    query  string  false  "Candle interval (daily, weekly, monthly)"  default(daily)
// @Param        indicators  query  string  false  "Comma separated subset (sma, ema, rsi, macd, bollinger, stochastic, atr)"
// @Success      200  {object}  domain.TechnicalAnalysis
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/technical/{symbol} [get]
func (h *Handler) AnalyzeTechnical(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze-technical")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", c.Param("symbol")))

	interval := domain.Interval(c.Query("interval"))
	res, err := h.analyzer.AnalyzeTechnical(ctx, c.Param("symbol"), interval, splitList(c.Query("indicators")))
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PredictPrice godoc
// @Summary      Project future closes
// @Description  Trend-adjusted random walk over the requested number of days. Not investment advice.
// @Tags         analysis
// @Produce      json
// @Param        symbol   path   string  true   "Ticker symbol"
// @Param        days     query  int     false  "Days to project (1-30)"  default(7)
// @Param        history  query  string  false  "History range used for fitting"  default(1y)
// @Success      200  {object}  domain.PricePrediction
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/predict/{symbol} [get]
func (h *Handler) PredictPrice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.predict-price")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", c.Param("symbol")))

	days, ok := h.intQuery(c, "days", 7)
	if !ok {
		return
	}
	res, err := h.analyzer.PredictPrice(ctx, c.Param("symbol"), days, c.Query("history"))
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AnalyzePortfolio godoc
// @Summary      Value and score a portfolio
// @Description  Prices each holding, reports gains, weights, diversification and concentration risk
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body  PortfolioRequest  true  "Holdings"
// @Success      200  {object}  domain.PortfolioPerformance
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/portfolio [post]
func (h *Handler) AnalyzePortfolio(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze-portfolio")
	defer span.End()

	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, analysis.InvalidParameter("handler.AnalyzePortfolio", "invalid request body: %v", err))
		return
	}
	span.SetAttributes(attribute.Int("holdings", len(req.Holdings)))

	res, err := h.analyzer.AnalyzePortfolio(ctx, req.Holdings)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(c, analysis.InvalidParameter("handler", "%s must be an integer, got %q", key, raw))
		return 0, false
	}
	return n, true
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
