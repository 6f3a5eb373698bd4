// Package cache implements the staleness-aware price cache. Reads are
// synchronous map lookups that never block on network I/O and never return
// an error; refresh happens in the background with at most one in-flight
// refresh per provider key.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/logger"
)

// Default freshness windows.
const (
	DefaultStaleAfter  = 5 * time.Minute
	DefaultExpireAfter = 30 * time.Minute
)

// RefreshFunc performs a full tracked refresh for one provider and returns
// the new offer, or an error when all attempts failed.
type RefreshFunc func(ctx context.Context, providerID string) (*domain.ProviderOffer, error)

// CachedPrice is what consumers get back from Get. When Found is false no
// value exists yet; IsStale is then always true.
type CachedPrice struct {
	Price       float64   `json:"price"`
	Found       bool      `json:"found"`
	IsStale     bool      `json:"is_stale"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

// entry is the cache's unit of storage. refreshInFlight is the per-key
// mutual-exclusion flag: at most one background refresh runs per key.
type entry struct {
	offer           *domain.ProviderOffer
	fetchedAt       time.Time
	refreshInFlight bool
}

// Cache is the staleness-aware value cache in front of the refresh
// pipeline.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	staleAfter  time.Duration
	expireAfter time.Duration

	refresh RefreshFunc
	log     logger.Interface

	baseCtx context.Context
	wg      sync.WaitGroup
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithNow overrides the cache's clock. Used in tests.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache. baseCtx bounds the lifetime of background
// refreshes: when it is cancelled, in-flight refreshes are abandoned and
// their in-flight flags released.
func New(
	baseCtx context.Context,
	staleAfter, expireAfter time.Duration,
	refresh RefreshFunc,
	log logger.Interface,
	opts ...Option,
) *Cache {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if expireAfter <= 0 {
		expireAfter = DefaultExpireAfter
	}

	c := &Cache{
		entries:     make(map[string]*entry),
		staleAfter:  staleAfter,
		expireAfter: expireAfter,
		refresh:     refresh,
		log:         log.WithComponent("cache"),
		baseCtx:     baseCtx,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached price for a provider. It never blocks on network
// I/O and never returns an error. A missing or expired entry yields an
// empty stale result and triggers a background refresh; an entry inside
// the stale window is returned as-is while at most one background refresh
// is started for it.
func (c *Cache) Get(providerID string) CachedPrice {
	now := c.now()

	c.mu.Lock()
	e, ok := c.entries[providerID]

	if ok && e.offer != nil && now.Sub(e.fetchedAt) >= c.expireAfter {
		// Evicted. Keep the entry so the in-flight flag survives, but
		// drop the value.
		e.offer = nil
	}

	if !ok || e.offer == nil {
		if !ok {
			e = &entry{}
			c.entries[providerID] = e
		}
		triggered := c.triggerLocked(providerID, e)
		c.mu.Unlock()
		if triggered {
			c.log.Debug("Cache miss triggered refresh", "provider", providerID)
		}
		return CachedPrice{Found: false, IsStale: true}
	}

	age := now.Sub(e.fetchedAt)
	result := CachedPrice{
		Price:       e.offer.MonthlyPrice,
		Found:       true,
		IsStale:     age >= c.staleAfter,
		LastUpdated: e.offer.LastUpdated,
	}

	if result.IsStale {
		c.triggerLocked(providerID, e)
	}
	c.mu.Unlock()

	return result
}

// TriggerRefresh starts a background refresh for a provider unless one is
// already in flight. Used by the scheduler's periodic sweep.
func (c *Cache) TriggerRefresh(providerID string) {
	c.mu.Lock()
	e, ok := c.entries[providerID]
	if !ok {
		e = &entry{}
		c.entries[providerID] = e
	}
	c.triggerLocked(providerID, e)
	c.mu.Unlock()
}

// triggerLocked sets the in-flight flag and spawns the refresh goroutine.
// Callers must hold c.mu. Returns false when a refresh was already in
// flight for the key.
func (c *Cache) triggerLocked(providerID string, e *entry) bool {
	if e.refreshInFlight {
		return false
	}
	e.refreshInFlight = true

	c.wg.Add(1)
	go c.runRefresh(providerID)
	return true
}

// runRefresh executes one background refresh. The deferred release is the
// only place the in-flight flag is cleared, so each refresh releases the
// flag exactly once and an abandoned refresh cannot leave the entry
// permanently "refreshing".
func (c *Cache) runRefresh(providerID string) {
	defer c.wg.Done()
	defer c.release(providerID)

	offer, err := c.refresh(c.baseCtx, providerID)
	if err != nil {
		// The existing cached value stays untouched: a failing upstream
		// never degrades what the consumer already has.
		c.log.Warn("Background refresh failed",
			"provider", providerID,
			"error", err)
		return
	}
	if offer == nil {
		return
	}

	c.Set(providerID, offer)
}

// Set replaces the cached value for a provider and resets its freshness
// windows. Invoked by the refresh pipeline's success path. The in-flight
// flag is left alone; the refresh goroutine clears it when it exits.
func (c *Cache) Set(providerID string, offer *domain.ProviderOffer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[providerID]
	if !ok {
		e = &entry{}
		c.entries[providerID] = e
	}
	e.offer = offer
	e.fetchedAt = c.now()
}

// release clears the in-flight flag. An entry left with no value has
// nothing worth keeping once its refresh is done, so it is dropped; this
// keeps lookups for unknown provider IDs from growing the map forever.
func (c *Cache) release(providerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[providerID]
	if !ok {
		return
	}
	e.refreshInFlight = false
	if e.offer == nil {
		delete(c.entries, providerID)
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Wait blocks until all background refreshes have finished. Used during
// shutdown and in tests.
func (c *Cache) Wait() {
	c.wg.Wait()
}
