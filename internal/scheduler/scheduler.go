// Package scheduler runs the periodic background refresh loop across the
// configured provider catalogue.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sammenlign/pricefeed/internal/config/providers"
	"github.com/sammenlign/pricefeed/internal/logger"
)

// RefreshTrigger starts a background refresh for one provider key unless
// one is already in flight. The cache provides this.
type RefreshTrigger interface {
	TriggerRefresh(providerID string)
}

// Scheduler triggers a refresh sweep across all providers on a fixed
// interval. Per-key deduplication and the concurrency bound live in the
// cache and coordinator; the scheduler only fires triggers.
type Scheduler struct {
	catalogue *providers.Config
	trigger   RefreshTrigger
	interval  time.Duration
	cron      *cron.Cron
	log       logger.Interface
}

// New creates a scheduler.
func New(
	catalogue *providers.Config,
	trigger RefreshTrigger,
	interval time.Duration,
	log logger.Interface,
) *Scheduler {
	return &Scheduler{
		catalogue: catalogue,
		trigger:   trigger,
		interval:  interval,
		cron:      cron.New(),
		log:       log.WithComponent("scheduler"),
	}
}

// Start begins the refresh loop and runs one immediate sweep so the cache
// is warm before the first interval elapses.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.sweep(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule refresh sweep: %w", err)
	}

	s.cron.Start()
	s.log.Info("Scheduler started",
		"interval", s.interval.String(),
		"providers", len(s.catalogue.Providers))

	go s.sweep(ctx)

	return nil
}

// Stop halts the cron loop. Already-triggered refreshes are bounded by
// their own contexts.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Scheduler stopped")
}

// sweep fires a refresh trigger for every configured provider.
func (s *Scheduler) sweep(ctx context.Context) {
	for i := range s.catalogue.Providers {
		if ctx.Err() != nil {
			return
		}
		s.trigger.TriggerRefresh(s.catalogue.Providers[i].ID)
	}
}
