package main

import (
	"context"
	"log"
	"os"

	"market-lens/internal/app"
	"market-lens/internal/config"
	"market-lens/pkg/tracing"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	log.SetOutput(os.Stderr)

	// Keep spans in process unless an exporter is asked for explicitly.
	if os.Getenv("TRACING_ENABLED") == "" {
		os.Setenv("TRACING_ENABLED", "false")
	}
	ctx := context.Background()
	tp, tracer, err := tracing.InitTracer(ctx, "market-lens-cli")
	if err != nil {
		log.Printf("failed to initialize tracer: %v", err)
		return 1
	}
	defer tp.Shutdown(ctx)

	cfg := config.Load()
	a := app.New(ctx, cfg, tracer)
	defer a.Close()

	root := newRootCmd(a.Market, a.Analysis, cfg.RequestTimeout())
	if err := root.ExecuteContext(ctx); err != nil {
		return exitCode(err)
	}
	return 0
}
