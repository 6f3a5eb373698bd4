// Package validate checks raw fetched offer data before it reaches
// storage. Malformed payloads are a normal, reported outcome.
package validate

import (
	"time"

	"github.com/google/uuid"

	"github.com/sammenlign/pricefeed/internal/domain"
)

// Validator validates raw fetched data against required-field and sanity
// rules.
type Validator struct{}

// New creates a new validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks raw against the required-field rules and, on success,
// builds the validated offer for the given provider and category. It
// returns a *domain.ValidationError naming every failing field.
func (v *Validator) Validate(
	providerName string,
	category domain.Category,
	raw *domain.RawOfferData,
) (*domain.ProviderOffer, error) {
	var fields []string

	if raw == nil {
		return nil, &domain.ValidationError{Provider: providerName, Fields: []string{"payload"}}
	}
	if raw.Name == "" {
		fields = append(fields, "name")
	}
	if raw.Price <= 0 {
		fields = append(fields, "price")
	}
	if raw.OfferURL == "" {
		fields = append(fields, "offerUrl")
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Provider: providerName, Fields: fields}
	}

	now := time.Now().UTC()
	return &domain.ProviderOffer{
		ID:           uuid.NewString(),
		ProviderName: providerName,
		Category:     category,
		MonthlyPrice: raw.Price,
		Features:     raw.Features,
		OfferURL:     raw.OfferURL,
		DataSource:   domain.SourceScraped,
		LastScraped:  &now,
		LastUpdated:  now,
		IsActive:     true,
	}, nil
}
