package refresh

import (
	"context"
	"fmt"

	"github.com/sammenlign/pricefeed/internal/config/providers"
	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/logger"
)

// JobTracker records the lifecycle of refresh jobs.
type JobTracker interface {
	Enqueue(ctx context.Context, providerName string, category domain.Category) (*domain.ScrapingJob, error)
	Start(ctx context.Context, jobID string) error
	Finish(ctx context.Context, jobID string, outcome domain.RefreshOutcome) error
}

// HealthRecorder receives per-provider refresh outcomes.
type HealthRecorder interface {
	RecordOutcome(providerID string, success bool)
}

// Coordinator drives one full refresh operation: job bookkeeping around
// the executor, plus the health signal. All refresh errors are converted
// into job and health state; none propagate past the returned outcome.
type Coordinator struct {
	catalogue *providers.Config
	executor  *Executor
	tracker   JobTracker
	health    HealthRecorder
	log       logger.Interface
	sem       chan struct{}
}

// NewCoordinator creates a new refresh coordinator. concurrency bounds how
// many providers refresh at once; refreshes past the bound queue.
func NewCoordinator(
	catalogue *providers.Config,
	executor *Executor,
	tracker JobTracker,
	health HealthRecorder,
	concurrency int,
	log logger.Interface,
) *Coordinator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Coordinator{
		catalogue: catalogue,
		executor:  executor,
		tracker:   tracker,
		health:    health,
		log:       log.WithComponent("coordinator"),
		sem:       make(chan struct{}, concurrency),
	}
}

// Refresh runs a tracked refresh for the given provider and returns its
// outcome.
func (c *Coordinator) Refresh(ctx context.Context, providerID string) domain.RefreshOutcome {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return domain.RefreshOutcome{Success: false, LastErr: ctx.Err()}
	}
	defer func() { <-c.sem }()

	provider := c.catalogue.ByID(providerID)
	if provider == nil {
		return domain.RefreshOutcome{
			Success: false,
			LastErr: fmt.Errorf("unknown provider: %s", providerID),
		}
	}

	category := domain.Category(provider.Category)

	job, err := c.tracker.Enqueue(ctx, provider.Name, category)
	if err != nil {
		// Job bookkeeping failed before any fetch happened; the refresh
		// itself is still attempted so the cache can be updated.
		c.log.Error("Failed to enqueue job",
			"provider", providerID,
			"error", err)
		outcome := c.executor.Refresh(ctx, *provider)
		c.health.RecordOutcome(providerID, outcome.Success)
		return outcome
	}

	if startErr := c.tracker.Start(ctx, job.ID); startErr != nil {
		c.log.Error("Failed to start job",
			"job_id", job.ID,
			"error", startErr)
	}

	outcome := c.executor.Refresh(ctx, *provider)

	if finishErr := c.tracker.Finish(ctx, job.ID, outcome); finishErr != nil {
		c.log.Error("Failed to finish job",
			"job_id", job.ID,
			"error", finishErr)
	}

	c.health.RecordOutcome(providerID, outcome.Success)

	return outcome
}

// RefreshOffer adapts Refresh to the cache's refresh contract: it returns
// the new offer on success and the terminal error otherwise.
func (c *Coordinator) RefreshOffer(ctx context.Context, providerID string) (*domain.ProviderOffer, error) {
	outcome := c.Refresh(ctx, providerID)
	if !outcome.Success {
		return nil, outcome.LastErr
	}
	return outcome.Offer, nil
}
