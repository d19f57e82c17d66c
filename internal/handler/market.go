package handler

import (
	"net/http"

	"market-lens/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetQuote godoc
// @Summary      Get the latest quote for a symbol
// @Description  Returns price, change and currency, served from cache when fresh
// @Tags         market
// @Produce      json
// @Param        symbol  path  string  true  "Ticker symbol (e.g., AAPL, BRK-B, ^GSPC)"
// @Success      200  {object}  domain.Quote
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/quote/{symbol} [get]
func (h *Handler) GetQuote(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-quote")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", c.Param("symbol")))

	q, err := h.market.GetQuote(ctx, c.Param("symbol"))
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Search godoc
// @Summary      Search symbols
// @Description  Looks up tickers matching a company name or partial symbol
// @Tags         market
// @Produce      json
// @Param        q  query  string  true  "Search text"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/search [get]
func (h *Handler) Search(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.search")
	defer span.End()

	results, err := h.market.Search(ctx, c.Query("q"))
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": c.Query("q"), "results": results})
}

// GetHistory godoc
// @Summary      Get historical OHLCV candles
// @Description  Returns a newest-first candle series for the interval and range
// @Tags         market
// @Produce      json
// @Param        symbol    path   string  true   "Ticker symbol"
// @Param        interval  query  string  false  "Candle interval (daily, weekly, monthly)"  default(daily)
// @Param        range     query  string  false  "History range (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)"  default(1y)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/history/{symbol} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	interval := domain.Interval(c.DefaultQuery("interval", string(domain.IntervalDaily)))
	rng := c.DefaultQuery("range", "1y")
	span.SetAttributes(
		attribute.String("symbol", c.Param("symbol")),
		attribute.String("interval", string(interval)),
		attribute.String("range", rng),
	)

	candles, err := h.market.GetHistory(ctx, c.Param("symbol"), interval, rng)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":   c.Param("symbol"),
		"interval": interval,
		"range":    rng,
		"candles":  candles,
	})
}
