package handler

import (
	"errors"
	"log"
	"net/http"

	"market-lens/internal/analysis"

	"github.com/gin-gonic/gin"
)

// StatusFor maps the analysis error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analysis.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	body := gin.H{"error": err.Error()}
	if kind := analysis.KindOf(err); kind != nil {
		body["kind"] = kindName(kind)
	}
	if id, ok := c.Get(requestIDKey); ok {
		body["request_id"] = id
	}
	c.JSON(status, body)
}

func kindName(kind error) string {
	switch kind {
	case analysis.ErrInvalidParameter:
		return "invalid_parameter"
	case analysis.ErrInsufficientData:
		return "insufficient_data"
	case analysis.ErrNotFound:
		return "not_found"
	case analysis.ErrProvider:
		return "provider_error"
	case analysis.ErrEnrichmentUnavailable:
		return "enrichment_unavailable"
	}
	return "internal"
}
