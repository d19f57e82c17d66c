package handler

import (
	"context"

	"market-lens/internal/domain"
	"market-lens/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// MarketLookup serves raw market data.
type MarketLookup interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Analyzer runs the analyses.
type Analyzer interface {
	AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error)
	AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (*domain.TechnicalAnalysis, error)
	PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (*domain.PricePrediction, error)
	AnalyzePortfolio(ctx context.Context, holdings []domain.Holding) (*domain.PortfolioPerformance, error)
}

type Handler struct {
	tracer   trace.Tracer
	market   MarketLookup
	analyzer Analyzer
	metrics  *metrics.Metrics
	checks   map[string]ReadinessCheck
}

func New(tracer trace.Tracer, market MarketLookup, analyzer Analyzer, m *metrics.Metrics) *Handler {
	return &Handler{
		tracer:   tracer,
		market:   market,
		analyzer: analyzer,
		metrics:  m,
	}
}

// RegisterRoutes mounts the API. Health and metrics stay open; everything
// under /api requires apiKey when one is configured.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.Use(RequestID(), h.Metrics())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.GET("/quote/:symbol", h.GetQuote)
	api.GET("/search", h.Search)
	api.GET("/history/:symbol", h.GetHistory)

	analysis := api.Group("/analysis")
	analysis.GET("/trend/:symbol", h.AnalyzeTrend)
	analysis.GET("/technical/:symbol", h.AnalyzeTechnical)
	analysis.GET("/predict/:symbol", h.PredictPrice)
	analysis.POST("/portfolio", h.AnalyzePortfolio)
}
