package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sammenlign/pricefeed/internal/domain"
)

// OfferReader is the offer store's read surface.
type OfferReader interface {
	ListActive(ctx context.Context, category domain.Category) ([]*domain.ProviderOffer, error)
}

// OffersHandler serves active offers from the offer store.
type OffersHandler struct {
	offers OfferReader
}

// NewOffersHandler creates a new offers handler.
func NewOffersHandler(offers OfferReader) *OffersHandler {
	return &OffersHandler{offers: offers}
}

// ListOffers handles GET /api/v1/offers?category=. Offers come back
// ordered by ascending price.
func (h *OffersHandler) ListOffers(c *gin.Context) {
	category := domain.Category(c.Query("category"))
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown or missing category",
		})
		return
	}

	offers, err := h.offers.ListActive(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve offers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offers": offers,
		"count":  len(offers),
	})
}
