package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sammenlign/pricefeed/internal/clicks"
	"github.com/sammenlign/pricefeed/internal/domain"
)

// ClicksHandler records affiliate clicks. The sink is fire-and-forget, so
// this handler always answers quickly and never surfaces sink failures.
type ClicksHandler struct {
	sink clicks.Sink
}

// NewClicksHandler creates a new clicks handler.
func NewClicksHandler(sink clicks.Sink) *ClicksHandler {
	return &ClicksHandler{sink: sink}
}

// clickRequest is the wire shape of a click event.
type clickRequest struct {
	ProviderID   string `json:"provider_id" binding:"required"`
	ProviderName string `json:"provider_name" binding:"required"`
	Category     string `json:"category"`
	TargetURL    string `json:"target_url" binding:"required"`
}

// LogClick handles POST /api/v1/clicks.
func (h *ClicksHandler) LogClick(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid click payload",
		})
		return
	}

	h.sink.Log(clicks.Click{
		ProviderID:   req.ProviderID,
		ProviderName: req.ProviderName,
		Category:     domain.Category(req.Category),
		TargetURL:    req.TargetURL,
		ClickedAt:    time.Now().UTC(),
	})

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
