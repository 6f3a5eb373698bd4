// Package fetch defines the adapter contract for pulling raw pricing data
// from upstream sources and a registry of per-provider implementations.
// The core treats every adapter as untrusted and validates its output.
package fetch

import (
	"context"
	"fmt"

	"github.com/sammenlign/pricefeed/internal/domain"
)

// Adapter performs the actual upstream fetch for one provider. It is
// expected to complete or fail within the deadline on ctx.
type Adapter interface {
	Fetch(ctx context.Context, providerID string, category domain.Category) (*domain.RawOfferData, error)
}

// Registry maps provider identifiers to adapters, with an optional
// fallback used for providers without a dedicated implementation.
type Registry struct {
	adapters map[string]Adapter
	fallback Adapter
}

// NewRegistry creates a registry with the given fallback adapter.
func NewRegistry(fallback Adapter) *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
		fallback: fallback,
	}
}

// Register installs a provider-specific adapter.
func (r *Registry) Register(providerID string, a Adapter) {
	r.adapters[providerID] = a
}

// Lookup returns the adapter for the given provider.
func (r *Registry) Lookup(providerID string) (Adapter, error) {
	if a, ok := r.adapters[providerID]; ok {
		return a, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no fetch adapter for provider %s", providerID)
}
