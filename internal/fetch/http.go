package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sammenlign/pricefeed/internal/config/providers"
	"github.com/sammenlign/pricefeed/internal/domain"
)

// maxResponseBodyBytes limits the size of fetched pricing responses.
const maxResponseBodyBytes = 1 * 1024 * 1024 // 1 MB

// HTTPAdapter fetches pricing payloads from provider JSON endpoints
// configured in the provider catalogue.
type HTTPAdapter struct {
	catalogue *providers.Config
	client    *http.Client
	userAgent string
}

// NewHTTPAdapter creates an HTTP fetch adapter. The per-attempt timeout is
// enforced by the caller through ctx.
func NewHTTPAdapter(catalogue *providers.Config, client *http.Client, userAgent string) *HTTPAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPAdapter{
		catalogue: catalogue,
		client:    client,
		userAgent: userAgent,
	}
}

// Fetch retrieves and decodes the pricing payload for the given provider.
func (a *HTTPAdapter) Fetch(
	ctx context.Context,
	providerID string,
	_ domain.Category,
) (*domain.RawOfferData, error) {
	provider := a.catalogue.ByID(providerID)
	if provider == nil {
		return nil, fmt.Errorf("unknown provider: %s", providerID)
	}
	if provider.Endpoint == "" {
		return nil, fmt.Errorf("provider %s has no endpoint configured", providerID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.Endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, provider.Endpoint)
	}

	body := io.LimitReader(resp.Body, maxResponseBodyBytes)
	var raw domain.RawOfferData
	if decodeErr := json.NewDecoder(body).Decode(&raw); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", decodeErr)
	}

	return &raw, nil
}
