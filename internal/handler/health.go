package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const healthCheckTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// AddReadinessCheck registers a dependency reported by /health.
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	if h.checks == nil {
		h.checks = make(map[string]ReadinessCheck)
	}
	h.checks[name] = check
}

// Health godoc
// @Summary      Health check
// @Description  Reports service status and the readiness of the quote cache and market data provider. A failing dependency marks the service degraded.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.health")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "healthy"}
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}
	span.SetAttributes(attribute.String("status", resp.Status))
	c.JSON(http.StatusOK, resp)
}
