// Package app wires configuration into the services shared by every binary.
package app

import (
	"context"
	"log"
	"time"

	"market-lens/internal/advisor"
	"market-lens/internal/cache"
	"market-lens/internal/config"
	"market-lens/internal/metrics"
	"market-lens/internal/provider"
	"market-lens/internal/service"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

type App struct {
	Market   *service.MarketService
	Analysis *service.AnalysisService
	Metrics  *metrics.Metrics

	redis    *redis.Client
	provider service.MarketDataProvider
}

var (
	connectRedisFunc = cache.Connect
	newProviderFunc  = func(tracer trace.Tracer, cfg *config.Config) service.MarketDataProvider {
		return provider.NewYahooProvider(tracer, cfg.YahooRateLimitPerMin, cfg.RequestTimeout())
	}
	newLLMClientFunc = advisor.NewOpenAIClient
)

// New builds the services. A Redis failure only disables the quote cache.
func New(ctx context.Context, cfg *config.Config, tracer trace.Tracer) *App {
	a := &App{Metrics: metrics.New()}

	var quotes *cache.QuoteCache
	client, err := connectRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: %v, quote cache disabled", err)
	} else if client != nil {
		a.redis = client
		quotes = cache.NewQuoteCache(client, cache.DefaultQuoteTTL)
	}

	a.provider = newProviderFunc(tracer, cfg)
	a.Market = service.NewMarketService(tracer, a.provider, quotes, a.Metrics)

	var opts []service.AnalysisOption
	if cfg.DeepAnalysisEnabled {
		analyzer := advisor.NewDeepAnalyzer(tracer, newLLMClientFunc(cfg.OpenAIAPIKey), cfg.OpenAIModel)
		opts = append(opts, service.WithEnricher(analyzer, cfg.DeepAnalysisTimeout()))
		log.Printf("Deep analysis enabled with %s", cfg.OpenAIModel)
	}
	if cfg.PredictionSeed != nil {
		opts = append(opts, service.WithSeed(*cfg.PredictionSeed))
	}
	a.Analysis = service.NewAnalysisService(tracer, a.Market, a.Metrics, opts...)
	return a
}

// ReadinessChecks lists the dependencies the health endpoints report on.
// A disabled cache is not checked.
func (a *App) ReadinessChecks() map[string]func(context.Context) error {
	checks := make(map[string]func(context.Context) error)
	if a.redis != nil {
		checks["cache"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	if r, ok := a.provider.(interface{ Ready(context.Context) error }); ok {
		checks["provider"] = r.Ready
	}
	return checks
}

func (a *App) Close() {
	if a.redis == nil {
		return
	}
	if err := a.redis.Close(); err != nil {
		log.Printf("error closing redis: %v", err)
	}
}

// ShutdownTimeout bounds graceful shutdown in every binary.
const ShutdownTimeout = 5 * time.Second
