// Package health aggregates per-provider refresh outcomes into a coarse
// health signal. The signal is deliberately binary and memoryless beyond
// the consecutive-failure counter: consumers only need to decide whether
// to trust the live value or fall back to cache.
package health

import (
	"sync"
	"time"

	"github.com/sammenlign/pricefeed/internal/domain"
)

// Monitor tracks rolling health per provider. Records are created lazily
// on the first recorded outcome and never removed.
type Monitor struct {
	mu        sync.RWMutex
	providers map[string]*domain.ProviderHealth
	now       func() time.Time
}

// NewMonitor creates a new health monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		providers: make(map[string]*domain.ProviderHealth),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecordOutcome updates a provider's health from one refresh outcome.
// Success resets errorCount to zero; failure increments it by one. Any
// failure immediately flips the provider unhealthy.
func (m *Monitor) RecordOutcome(providerID string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.providers[providerID]
	if !ok {
		h = &domain.ProviderHealth{ProviderID: providerID}
		m.providers[providerID] = h
	}

	if success {
		h.ErrorCount = 0
	} else {
		h.ErrorCount++
	}
	h.IsHealthy = h.ErrorCount == 0
	h.LastUpdated = m.now()
}

// GetHealth returns a provider's health. The second return value is false
// if no refresh has ever been recorded for the provider.
func (m *Monitor) GetHealth(providerID string) (domain.ProviderHealth, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.providers[providerID]
	if !ok {
		return domain.ProviderHealth{}, false
	}
	return *h, true
}

// All returns a snapshot of every tracked provider's health.
func (m *Monitor) All() []domain.ProviderHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ProviderHealth, 0, len(m.providers))
	for _, h := range m.providers {
		out = append(out, *h)
	}
	return out
}
