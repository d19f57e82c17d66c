package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"market-lens/internal/app"
	"market-lens/internal/bot"
	"market-lens/internal/config"
	"market-lens/internal/handler"
	"market-lens/internal/job"
	"market-lens/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "market-lens/docs"
)

const serviceName = "market-lens-api"

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initTracerFunc         = tracing.InitTracer
	newAppFunc             = app.New
	startTelegramBotFunc   = bot.StartTelegramBot
	startWatchlistFunc     = func(w *job.WatchlistDigest, ctx context.Context, spec string) error { return w.Start(ctx, spec) }
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Market Lens API
// @version         1.0
// @description     Stock trend, technical signal, price projection and portfolio analysis.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()
	if err := cfg.ResolveWatchlist(); err != nil {
		log.Printf("Warning: %v", err)
	}
	log.Printf("config: %s", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	a := newAppFunc(ctx, cfg, tracer)
	defer a.Close()

	// Telegram commands and the watchlist digest share one bot.
	cmds := bot.NewCommands(a.Market, a.Analysis, cfg.RequestTimeout())
	tg, err := startTelegramBotFunc(cfg.TelegramBotToken, cmds)
	if err != nil {
		log.Printf("Warning: %v, Telegram disabled", err)
	}
	var notifier job.Notifier
	if tg != nil {
		notifier = tg
		defer tg.Stop()
	}
	digest := job.NewWatchlistDigest(tracer, a.Analysis, notifier, cfg.TelegramChatID, cfg.Watchlist, a.Metrics)
	if err := startWatchlistFunc(digest, ctx, cfg.WatchlistCron); err != nil {
		log.Printf("Warning: %v", err)
	}

	h := handler.New(tracer, a.Market, a.Analysis, a.Metrics)
	for name, check := range a.ReadinessChecks() {
		h.AddReadinessCheck(name, check)
	}

	r := newRouterFunc()
	r.Use(otelgin.Middleware(serviceName))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
