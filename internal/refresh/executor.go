// Package refresh implements the retrying refresh pipeline: fetch,
// validate, persist, with bounded retries and jittered backoff. It never
// deletes previously persisted data; a failed refresh only prevents the
// stored value from improving.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sammenlign/pricefeed/internal/config/ingest"
	"github.com/sammenlign/pricefeed/internal/config/providers"
	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/fetch"
	"github.com/sammenlign/pricefeed/internal/logger"
	"github.com/sammenlign/pricefeed/internal/storage"
)

// Validator validates raw fetched data and builds the persisted offer.
type Validator interface {
	Validate(providerName string, category domain.Category, raw *domain.RawOfferData) (*domain.ProviderOffer, error)
}

// OfferStore persists validated offers.
type OfferStore interface {
	Upsert(ctx context.Context, offer *domain.ProviderOffer) error
}

// Executor wraps a single provider refresh with bounded retries and
// exponential backoff with jitter. Retries within one refresh are strictly
// sequential.
type Executor struct {
	adapters  *fetch.Registry
	validator Validator
	offers    OfferStore
	errlog    storage.ErrorLog
	log       logger.Interface
	cfg       *ingest.Config

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewExecutor creates a new retrying executor.
func NewExecutor(
	adapters *fetch.Registry,
	validator Validator,
	offers OfferStore,
	errlog storage.ErrorLog,
	cfg *ingest.Config,
	log logger.Interface,
) *Executor {
	return &Executor{
		adapters:  adapters,
		validator: validator,
		offers:    offers,
		errlog:    errlog,
		log:       log.WithComponent("refresh"),
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Refresh runs up to MaxAttempts fetch attempts for one provider. Before
// each attempt beyond the first it sleeps base*(failed attempts) plus a
// uniformly random jitter, staggering retries across concurrently failing
// providers. Every attempt outcome is logged. A successful attempt
// persists the validated offer before the outcome is returned.
func (e *Executor) Refresh(ctx context.Context, provider providers.Provider) domain.RefreshOutcome {
	start := time.Now()
	category := domain.Category(provider.Category)
	log := e.log.WithProvider(provider.ID)

	var lastErr error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if sleepErr := e.backoff(ctx, attempt-1); sleepErr != nil {
				// Cancelled mid-backoff. Report only the attempts that
				// actually ran; this is not exhaustion.
				return domain.RefreshOutcome{
					Success:       false,
					Attempts:      attempt - 1,
					TotalDuration: time.Since(start),
					LastErr:       sleepErr,
				}
			}
		}

		offer, err := e.attempt(ctx, provider, category, attempt)
		if err == nil {
			log.Info("Refresh succeeded",
				"attempt", attempt,
				"price", offer.MonthlyPrice)
			return domain.RefreshOutcome{
				Success:       true,
				Offer:         offer,
				Attempts:      attempt,
				TotalDuration: time.Since(start),
			}
		}

		lastErr = err
		log.Warn("Refresh attempt failed",
			"attempt", attempt,
			"error", err)
		e.errlog.Append(ctx, storage.ErrorEntry{
			Provider:  provider.Name,
			Category:  category,
			Message:   fmt.Sprintf("attempt %d failed", attempt),
			Detail:    err.Error(),
			Timestamp: time.Now().UTC(),
		})

		// Durability could not be confirmed for already-valid data.
		// Retrying the fetch cannot help, so fail the job now.
		var persistErr *domain.PersistenceError
		if errors.As(err, &persistErr) {
			return domain.RefreshOutcome{
				Success:       false,
				Attempts:      attempt,
				TotalDuration: time.Since(start),
				LastErr:       err,
			}
		}
	}

	return domain.RefreshOutcome{
		Success:       false,
		Attempts:      e.cfg.MaxAttempts,
		TotalDuration: time.Since(start),
		LastErr: &domain.ExhaustedRetriesError{
			Provider: provider.Name,
			Attempts: e.cfg.MaxAttempts,
			LastErr:  lastErr,
		},
	}
}

// attempt runs one fetch-validate-persist cycle.
func (e *Executor) attempt(
	ctx context.Context,
	provider providers.Provider,
	category domain.Category,
	attempt int,
) (*domain.ProviderOffer, error) {
	adapter, err := e.adapters.Lookup(provider.ID)
	if err != nil {
		return nil, &domain.FetchError{Provider: provider.Name, Err: err}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	raw, err := adapter.Fetch(fetchCtx, provider.ID, category)
	if err != nil {
		return nil, &domain.FetchError{Provider: provider.Name, Err: err}
	}

	offer, err := e.validator.Validate(provider.Name, category, raw)
	if err != nil {
		return nil, err
	}

	if upsertErr := e.offers.Upsert(ctx, offer); upsertErr != nil {
		return nil, &domain.PersistenceError{Provider: provider.Name, Err: upsertErr}
	}

	e.log.Debug("Attempt persisted offer",
		"provider", provider.ID,
		"attempt", attempt)

	return offer, nil
}

// backoff sleeps for base*failedAttempts plus uniform jitter, or returns
// early if ctx is cancelled.
func (e *Executor) backoff(ctx context.Context, failedAttempts int) error {
	delay := time.Duration(failedAttempts) * e.cfg.BackoffBase
	if e.cfg.BackoffJitter > 0 {
		e.rngMu.Lock()
		delay += time.Duration(e.rng.Int63n(int64(e.cfg.BackoffJitter)))
		e.rngMu.Unlock()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
