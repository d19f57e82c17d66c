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
	"market-lens/internal/config"
	"market-lens/internal/mcptools"
	"market-lens/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serviceName = "market-lens-mcp"
	version     = "1.0.0"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	newAppFunc     = app.New
	runStdioFunc   = func(ctx context.Context, server *mcp.Server) error {
		return server.Run(ctx, &mcp.StdioTransport{})
	}
	listenHTTPFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("mcp server: %v", err)
	}
}

func run() error {
	loadEnvFunc()
	// stdout carries the protocol in stdio mode.
	log.SetOutput(os.Stderr)

	cfg := loadConfigFunc()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	a := newAppFunc(ctx, cfg, tracer)
	defer a.Close()

	tools := mcptools.New(tracer, a.Market, a.Analysis, cfg.MCPRequestTimeout())
	server := mcptools.NewServer(tools, version)

	if cfg.MCPTransport != "http" {
		log.Println("MCP server listening on stdio")
		return runStdioFunc(ctx, server)
	}

	if cfg.MCPAuthToken == "" {
		log.Println("Warning: MCP_AUTH_TOKEN not set, MCP HTTP endpoint is unauthenticated")
	}
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcptools.HTTPHandler(server, cfg.MCPAuthToken))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("MCP HTTP shutdown: %v", err)
		}
	}()

	log.Printf("MCP server listening on http://%s/mcp", srv.Addr)
	if err := listenHTTPFunc(srv); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
