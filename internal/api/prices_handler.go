package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sammenlign/pricefeed/internal/cache"
)

// PriceCache is the consumer-facing cache surface: a synchronous lookup
// that never errors.
type PriceCache interface {
	Get(providerID string) cache.CachedPrice
}

// PricesHandler serves price lookups from the freshness cache. This is
// the only interface the rendering layer depends on.
type PricesHandler struct {
	cache PriceCache
}

// NewPricesHandler creates a new prices handler.
func NewPricesHandler(c PriceCache) *PricesHandler {
	return &PricesHandler{cache: c}
}

// priceResponse is the wire shape of a price lookup.
type priceResponse struct {
	Provider    string  `json:"provider"`
	Price       float64 `json:"price"`
	IsStale     bool    `json:"is_stale"`
	LastUpdated string  `json:"last_updated,omitempty"`
}

// GetPrice handles GET /api/v1/prices/:provider. A provider with no data
// yet gets an empty stale result, never an error.
func (h *PricesHandler) GetPrice(c *gin.Context) {
	providerID := c.Param("provider")

	price := h.cache.Get(providerID)

	resp := priceResponse{
		Provider: providerID,
		Price:    price.Price,
		IsStale:  price.IsStale,
	}
	if price.Found {
		resp.LastUpdated = price.LastUpdated.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}
