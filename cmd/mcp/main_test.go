package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"market-lens/internal/app"
	"market-lens/internal/config"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func stubDeps(t *testing.T, cfg *config.Config) {
	t.Helper()
	origEnv, origCfg, origTracer, origApp, origStdio, origHTTP :=
		loadEnvFunc, loadConfigFunc, initTracerFunc, newAppFunc, runStdioFunc, listenHTTPFunc
	t.Cleanup(func() {
		loadEnvFunc, loadConfigFunc, initTracerFunc, newAppFunc, runStdioFunc, listenHTTPFunc =
			origEnv, origCfg, origTracer, origApp, origStdio, origHTTP
	})

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config { return cfg }
	initTracerFunc = func(ctx context.Context, name string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newAppFunc = func(context.Context, *config.Config, trace.Tracer) *app.App { return &app.App{} }
}

func TestRunStdio(t *testing.T) {
	stubDeps(t, &config.Config{MCPTransport: "stdio", MCPRequestTimeoutSecs: 1})

	called := false
	runStdioFunc = func(ctx context.Context, server *mcp.Server) error {
		called = server != nil
		return nil
	}
	listenHTTPFunc = func(*http.Server) error {
		t.Fatal("http should not start in stdio mode")
		return nil
	}

	if err := run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected stdio transport to run")
	}
}

func TestRunHTTPRequiresToken(t *testing.T) {
	stubDeps(t, &config.Config{MCPTransport: "http", MCPHTTPBind: "127.0.0.1", MCPHTTPPort: 8090, MCPAuthToken: "tok"})

	listenHTTPFunc = func(srv *http.Server) error {
		if srv.Addr != "127.0.0.1:8090" {
			t.Fatalf("unexpected addr %s", srv.Addr)
		}
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", w.Code)
		}
		w = httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected open health check, got %d", w.Code)
		}
		return http.ErrServerClosed
	}

	if err := run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunHTTPListenError(t *testing.T) {
	stubDeps(t, &config.Config{MCPTransport: "http", MCPHTTPBind: "127.0.0.1", MCPHTTPPort: 8090})
	listenHTTPFunc = func(*http.Server) error { return errors.New("address in use") }

	if err := run(); err == nil {
		t.Fatal("expected listen error")
	}
}
