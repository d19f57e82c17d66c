package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

func getHealth(t *testing.T, h *Handler) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	h := &Handler{tracer: trace.NewNoopTracerProvider().Tracer("test")}

	resp := getHealth(t, h)
	if resp.Status != "healthy" || resp.Checks != nil {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestHealthReportsDependencies(t *testing.T) {
	h := &Handler{tracer: trace.NewNoopTracerProvider().Tracer("test")}
	h.AddReadinessCheck("cache", func(ctx context.Context) error { return nil })
	h.AddReadinessCheck("provider", func(ctx context.Context) error { return nil })

	resp := getHealth(t, h)
	if resp.Status != "healthy" || resp.Checks["cache"] != "ok" || resp.Checks["provider"] != "ok" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	h.AddReadinessCheck("cache", func(ctx context.Context) error { return errors.New("dial tcp: connection refused") })
	resp = getHealth(t, h)
	if resp.Status != "degraded" {
		t.Fatalf("expected degraded status, got %+v", resp)
	}
	if resp.Checks["cache"] != "dial tcp: connection refused" || resp.Checks["provider"] != "ok" {
		t.Fatalf("unexpected checks: %+v", resp.Checks)
	}
}
