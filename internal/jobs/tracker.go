// Package jobs records the lifecycle of refresh jobs: an append-only
// history with a pending → running → {completed, failed} state machine.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/logger"
)

// DefaultRecentLimit bounds most-recent-first job reads.
const DefaultRecentLimit = 50

// Store is the persistence surface the tracker writes jobs to.
type Store interface {
	Create(ctx context.Context, job *domain.ScrapingJob) error
	GetByID(ctx context.Context, id string) (*domain.ScrapingJob, error)
	Update(ctx context.Context, job *domain.ScrapingJob) error
	ListRecent(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.ScrapingJob, error)
	ListStaleRunning(ctx context.Context, olderThan time.Duration) ([]*domain.ScrapingJob, error)
}

// Tracker owns ScrapingJob records and enforces their state machine.
type Tracker struct {
	store Store
	log   logger.Interface
	now   func() time.Time
}

// NewTracker creates a new job tracker.
func NewTracker(store Store, log logger.Interface) *Tracker {
	return &Tracker{
		store: store,
		log:   log.WithComponent("jobs"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue creates a job in pending state.
func (t *Tracker) Enqueue(
	ctx context.Context,
	providerName string,
	category domain.Category,
) (*domain.ScrapingJob, error) {
	job := &domain.ScrapingJob{
		ID:           uuid.NewString(),
		ProviderName: providerName,
		Category:     category,
		Status:       domain.JobStatusPending,
		CreatedAt:    t.now(),
	}

	if err := t.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	t.log.Debug("Job enqueued",
		"job_id", job.ID,
		"provider", providerName,
		"category", string(category))

	return job, nil
}

// Start transitions a job from pending to running. Calling Start on a job
// that is not pending is a logged no-op.
func (t *Tracker) Start(ctx context.Context, jobID string) error {
	job, err := t.store.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	if job.Status != domain.JobStatusPending {
		t.log.Warn("Start called on job not in pending state",
			"job_id", jobID,
			"status", string(job.Status))
		return nil
	}

	startedAt := t.now()
	job.Status = domain.JobStatusRunning
	job.StartedAt = &startedAt

	if err := t.store.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to start job: %w", err)
	}

	return nil
}

// Finish transitions a running job to completed or failed depending on the
// outcome, and records duration, result count, and error message.
func (t *Tracker) Finish(ctx context.Context, jobID string, outcome domain.RefreshOutcome) error {
	job, err := t.store.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	if job.Status != domain.JobStatusRunning {
		t.log.Warn("Finish called on job not in running state",
			"job_id", jobID,
			"status", string(job.Status))
		return nil
	}

	completedAt := t.now()
	job.CompletedAt = &completedAt
	if job.StartedAt != nil {
		job.ExecutionTimeMs = completedAt.Sub(*job.StartedAt).Milliseconds()
	}

	if outcome.Success {
		job.Status = domain.JobStatusCompleted
		job.ResultsCount = 1
	} else {
		job.Status = domain.JobStatusFailed
		if outcome.LastErr != nil {
			msg := outcome.LastErr.Error()
			job.ErrorMessage = &msg
		}
	}

	if err := t.store.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to finish job: %w", err)
	}

	t.log.Info("Job finished",
		"job_id", jobID,
		"status", string(job.Status),
		"attempts", outcome.Attempts,
		"duration_ms", job.ExecutionTimeMs)

	return nil
}

// Recent returns the most recent jobs, newest first. A non-positive limit
// falls back to DefaultRecentLimit.
func (t *Tracker) Recent(
	ctx context.Context,
	status domain.JobStatus,
	limit int,
) ([]*domain.ScrapingJob, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return t.store.ListRecent(ctx, status, limit)
}

// StaleRunning returns jobs stuck in running state for longer than
// olderThan. Detection only; reconciliation is an external concern.
func (t *Tracker) StaleRunning(
	ctx context.Context,
	olderThan time.Duration,
) ([]*domain.ScrapingJob, error) {
	return t.store.ListStaleRunning(ctx, olderThan)
}
