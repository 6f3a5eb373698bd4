// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// Category identifies the product vertical an offer belongs to.
type Category string

const (
	// CategoryMobile is mobile phone subscriptions.
	CategoryMobile Category = "mobile"
	// CategoryElectricity is electricity contracts.
	CategoryElectricity Category = "electricity"
	// CategoryInsurance is insurance products.
	CategoryInsurance Category = "insurance"
	// CategoryLoan is consumer loans.
	CategoryLoan Category = "loan"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryMobile, CategoryElectricity, CategoryInsurance, CategoryLoan:
		return true
	default:
		return false
	}
}

// DataSource records how an offer's data was obtained.
type DataSource string

const (
	// SourceScraped means the offer came from a scraping fetch.
	SourceScraped DataSource = "scraped"
	// SourceAPI means the offer came from a provider API.
	SourceAPI DataSource = "api"
	// SourceManual means the offer was entered by hand.
	SourceManual DataSource = "manual"
	// SourceCached means the offer was copied forward from a prior
	// successful refresh cycle rather than produced by the current one.
	SourceCached DataSource = "cached"
)

// ProviderOffer is one priced product from one provider in one category.
// Offers are never deleted; a withdrawn provider's offer is deactivated
// instead.
type ProviderOffer struct {
	ID           string     `db:"id"            json:"id"`
	ProviderName string     `db:"provider_name" json:"provider_name"`
	Category     Category   `db:"category"      json:"category"`
	MonthlyPrice float64    `db:"monthly_price" json:"monthly_price"`
	Features     []Feature  `db:"-"             json:"features,omitempty"`
	OfferURL     string     `db:"offer_url"     json:"offer_url"`
	DataSource   DataSource `db:"data_source"   json:"data_source"`
	LastScraped  *time.Time `db:"last_scraped"  json:"last_scraped,omitempty"`
	LastUpdated  time.Time  `db:"last_updated"  json:"last_updated"`
	IsActive     bool       `db:"is_active"     json:"is_active"`
}

// Feature is a single key/value attribute of an offer. Order is preserved
// as delivered by the upstream.
type Feature struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
