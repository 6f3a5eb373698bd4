package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sammenlign/pricefeed/internal/urlcheck"
)

// maxBatchSize bounds one validation request.
const maxBatchSize = 100

// URLValidator validates a batch of URLs.
type URLValidator interface {
	ValidateAll(ctx context.Context, urls []string) []urlcheck.Result
}

// URLCheckHandler serves batch URL validation.
type URLCheckHandler struct {
	checker URLValidator
}

// NewURLCheckHandler creates a new URL check handler.
func NewURLCheckHandler(checker URLValidator) *URLCheckHandler {
	return &URLCheckHandler{checker: checker}
}

// urlCheckRequest is the wire shape of a validation batch.
type urlCheckRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// ValidateBatch handles POST /api/v1/urlcheck.
func (h *URLCheckHandler) ValidateBatch(c *gin.Context) {
	var req urlCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request payload",
		})
		return
	}
	if len(req.URLs) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Too many URLs in one batch",
		})
		return
	}

	results := h.checker.ValidateAll(c.Request.Context(), req.URLs)

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}
