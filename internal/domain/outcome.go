package domain

import (
	"time"
)

// RefreshOutcome is the result of one refresh operation for one provider,
// covering all of its attempts.
type RefreshOutcome struct {
	Success       bool
	Offer         *ProviderOffer
	Attempts      int
	TotalDuration time.Duration
	LastErr       error
}
