// Package testutils provides in-memory fakes for the pipeline's
// collaborators, used across package tests.
package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sammenlign/pricefeed/internal/domain"
)

// MemJobStore is an in-memory jobs.Store.
type MemJobStore struct {
	mu    sync.Mutex
	jobs  map[string]*domain.ScrapingJob
	order []string
}

// NewMemJobStore creates an empty in-memory job store.
func NewMemJobStore() *MemJobStore {
	return &MemJobStore{jobs: make(map[string]*domain.ScrapingJob)}
}

// Create inserts a job.
func (s *MemJobStore) Create(_ context.Context, job *domain.ScrapingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	s.jobs[job.ID] = &cp
	s.order = append(s.order, job.ID)
	return nil
}

// GetByID returns a copy of the job.
func (s *MemJobStore) GetByID(_ context.Context, id string) (*domain.ScrapingJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNoData
	}
	cp := *job
	return &cp, nil
}

// Update replaces the stored job.
func (s *MemJobStore) Update(_ context.Context, job *domain.ScrapingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; !ok {
		return domain.ErrNoData
	}
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

// ListRecent returns jobs newest first, ties broken by insertion order.
func (s *MemJobStore) ListRecent(
	_ context.Context,
	status domain.JobStatus,
	limit int,
) ([]*domain.ScrapingJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.ScrapingJob, 0, len(s.order))
	for _, id := range s.order {
		job := s.jobs[id]
		if status != "" && job.Status != status {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListStaleRunning returns running jobs older than the given age.
func (s *MemJobStore) ListStaleRunning(
	_ context.Context,
	olderThan time.Duration,
) ([]*domain.ScrapingJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var out []*domain.ScrapingJob
	for _, id := range s.order {
		job := s.jobs[id]
		if job.Status == domain.JobStatusRunning && job.StartedAt != nil && job.StartedAt.Before(cutoff) {
			cp := *job
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MemOfferStore is an in-memory offer store keyed by provider/category.
type MemOfferStore struct {
	mu     sync.Mutex
	offers map[string]*domain.ProviderOffer

	// FailUpserts makes Upsert return this error when non-nil.
	FailUpserts error
}

// NewMemOfferStore creates an empty in-memory offer store.
func NewMemOfferStore() *MemOfferStore {
	return &MemOfferStore{offers: make(map[string]*domain.ProviderOffer)}
}

func offerKey(providerName string, category domain.Category) string {
	return providerName + "/" + string(category)
}

// Upsert stores the offer keyed by (providerName, category).
func (s *MemOfferStore) Upsert(_ context.Context, offer *domain.ProviderOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpserts != nil {
		return s.FailUpserts
	}
	cp := *offer
	s.offers[offerKey(offer.ProviderName, offer.Category)] = &cp
	return nil
}

// GetByProvider returns the stored offer for one provider/category pair.
func (s *MemOfferStore) GetByProvider(
	_ context.Context,
	providerName string,
	category domain.Category,
) (*domain.ProviderOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.offers[offerKey(providerName, category)]
	if !ok {
		return nil, domain.ErrNoData
	}
	cp := *offer
	return &cp, nil
}

// ListActive returns active offers in a category, cheapest first.
func (s *MemOfferStore) ListActive(
	_ context.Context,
	category domain.Category,
) ([]*domain.ProviderOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.ProviderOffer
	for _, offer := range s.offers {
		if offer.Category == category && offer.IsActive {
			cp := *offer
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MonthlyPrice < out[j].MonthlyPrice
	})
	return out, nil
}
