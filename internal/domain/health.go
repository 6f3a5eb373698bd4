package domain

import (
	"time"
)

// ProviderHealth is the rolling health signal for one provider.
// ErrorCount counts consecutive failed refreshes; any success resets it
// to zero. IsHealthy is true exactly when ErrorCount is zero.
type ProviderHealth struct {
	ProviderID  string    `json:"provider_id"`
	IsHealthy   bool      `json:"is_healthy"`
	ErrorCount  int       `json:"error_count"`
	LastUpdated time.Time `json:"last_updated"`
}
