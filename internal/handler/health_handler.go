package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	model string
}

// NewHealthHandler creates a new HealthHandler. model is reported for diagnostics.
func NewHealthHandler(model string) *HealthHandler {
	return &HealthHandler{model: model}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": h.model})
}
