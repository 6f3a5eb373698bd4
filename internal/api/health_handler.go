package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sammenlign/pricefeed/internal/domain"
)

// HealthReader is the monitor's read surface.
type HealthReader interface {
	GetHealth(providerID string) (domain.ProviderHealth, bool)
	All() []domain.ProviderHealth
}

// HealthHandler serves per-provider health signals.
type HealthHandler struct {
	monitor HealthReader
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(monitor HealthReader) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// GetProviderHealth handles GET /api/v1/providers/:provider/health.
func (h *HealthHandler) GetProviderHealth(c *gin.Context) {
	providerID := c.Param("provider")

	health, ok := h.monitor.GetHealth(providerID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No health data for provider",
		})
		return
	}

	c.JSON(http.StatusOK, health)
}

// ListProviderHealth handles GET /api/v1/providers/health.
func (h *HealthHandler) ListProviderHealth(c *gin.Context) {
	all := h.monitor.All()
	c.JSON(http.StatusOK, gin.H{
		"providers": all,
		"count":     len(all),
	})
}
