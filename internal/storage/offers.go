// Package storage provides the persistent stores for offers and jobs and
// the append-only error-log sink.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sammenlign/pricefeed/internal/domain"
)

// OfferRepository handles database operations for provider offers.
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository creates a new offer repository.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// offerRow is the database projection of a ProviderOffer. Features are
// stored as a JSONB column.
type offerRow struct {
	ID           string     `db:"id"`
	ProviderName string     `db:"provider_name"`
	Category     string     `db:"category"`
	MonthlyPrice float64    `db:"monthly_price"`
	Features     []byte     `db:"features"`
	OfferURL     string     `db:"offer_url"`
	DataSource   string     `db:"data_source"`
	LastScraped  *time.Time `db:"last_scraped"`
	LastUpdated  time.Time  `db:"last_updated"`
	IsActive     bool       `db:"is_active"`
}

func (r offerRow) toDomain() (*domain.ProviderOffer, error) {
	offer := &domain.ProviderOffer{
		ID:           r.ID,
		ProviderName: r.ProviderName,
		Category:     domain.Category(r.Category),
		MonthlyPrice: r.MonthlyPrice,
		OfferURL:     r.OfferURL,
		DataSource:   domain.DataSource(r.DataSource),
		LastScraped:  r.LastScraped,
		LastUpdated:  r.LastUpdated,
		IsActive:     r.IsActive,
	}
	if len(r.Features) > 0 {
		if err := json.Unmarshal(r.Features, &offer.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features: %w", err)
		}
	}
	return offer, nil
}

// Upsert inserts or updates an offer keyed by (provider_name, category).
// Existing rows are mutated in place; last_updated only moves forward.
func (r *OfferRepository) Upsert(ctx context.Context, offer *domain.ProviderOffer) error {
	features, err := json.Marshal(offer.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	if features == nil || string(features) == "null" {
		features = []byte("[]")
	}

	query := `
		INSERT INTO provider_offers (
			id, provider_name, category, monthly_price, features,
			offer_url, data_source, last_scraped, last_updated, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (provider_name, category) DO UPDATE SET
			monthly_price = EXCLUDED.monthly_price,
			features = EXCLUDED.features,
			offer_url = EXCLUDED.offer_url,
			data_source = EXCLUDED.data_source,
			last_scraped = EXCLUDED.last_scraped,
			last_updated = GREATEST(provider_offers.last_updated, EXCLUDED.last_updated),
			is_active = EXCLUDED.is_active
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		offer.ID,
		offer.ProviderName,
		string(offer.Category),
		offer.MonthlyPrice,
		features,
		offer.OfferURL,
		string(offer.DataSource),
		offer.LastScraped,
		offer.LastUpdated,
		offer.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert offer: %w", err)
	}

	return nil
}

// GetByProvider retrieves the offer for one provider/category pair.
func (r *OfferRepository) GetByProvider(
	ctx context.Context,
	providerName string,
	category domain.Category,
) (*domain.ProviderOffer, error) {
	var row offerRow
	query := `
		SELECT id, provider_name, category, monthly_price, features,
		       offer_url, data_source, last_scraped, last_updated, is_active
		FROM provider_offers
		WHERE provider_name = $1 AND category = $2
	`

	err := r.db.GetContext(ctx, &row, query, providerName, string(category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoData
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	return row.toDomain()
}

// ListActive retrieves all active offers in a category ordered by
// ascending price.
func (r *OfferRepository) ListActive(
	ctx context.Context,
	category domain.Category,
) ([]*domain.ProviderOffer, error) {
	var rows []offerRow
	query := `
		SELECT id, provider_name, category, monthly_price, features,
		       offer_url, data_source, last_scraped, last_updated, is_active
		FROM provider_offers
		WHERE category = $1 AND is_active
		ORDER BY monthly_price ASC
	`

	err := r.db.SelectContext(ctx, &rows, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	offers := make([]*domain.ProviderOffer, 0, len(rows))
	for _, row := range rows {
		offer, convErr := row.toDomain()
		if convErr != nil {
			return nil, convErr
		}
		offers = append(offers, offer)
	}

	return offers, nil
}

// Deactivate marks a provider's offer inactive. Offers are never deleted.
func (r *OfferRepository) Deactivate(
	ctx context.Context,
	providerName string,
	category domain.Category,
) error {
	query := `
		UPDATE provider_offers
		SET is_active = FALSE, last_updated = now()
		WHERE provider_name = $1 AND category = $2
	`

	result, err := r.db.ExecContext(ctx, query, providerName, string(category))
	if err != nil {
		return fmt.Errorf("failed to deactivate offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNoData
	}

	return nil
}
