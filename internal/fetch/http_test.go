package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammenlign/pricefeed/internal/config/providers"
	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/fetch"
)

func TestHTTPAdapter_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "pricefeed/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Smart 10GB",
			"price": 299,
			"offer_url": "https://telenor.example/offer",
			"features": [{"key": "data", "value": "10GB"}]
		}`))
	}))
	defer srv.Close()

	catalogue := &providers.Config{Providers: []providers.Provider{
		{ID: "telenor", Name: "Telenor", Category: "mobile", Endpoint: srv.URL},
	}}

	adapter := fetch.NewHTTPAdapter(catalogue, srv.Client(), "pricefeed/1.0")
	raw, err := adapter.Fetch(context.Background(), "telenor", domain.CategoryMobile)
	require.NoError(t, err)

	assert.Equal(t, "Smart 10GB", raw.Name)
	assert.InDelta(t, 299.0, raw.Price, 0.001)
	assert.Equal(t, "https://telenor.example/offer", raw.OfferURL)
	require.Len(t, raw.Features, 1)
	assert.Equal(t, "data", raw.Features[0].Key)
}

func TestHTTPAdapter_FetchNonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	catalogue := &providers.Config{Providers: []providers.Provider{
		{ID: "telenor", Name: "Telenor", Category: "mobile", Endpoint: srv.URL},
	}}

	adapter := fetch.NewHTTPAdapter(catalogue, srv.Client(), "")
	_, err := adapter.Fetch(context.Background(), "telenor", domain.CategoryMobile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPAdapter_FetchUnknownProvider(t *testing.T) {
	t.Parallel()

	adapter := fetch.NewHTTPAdapter(&providers.Config{}, nil, "")
	_, err := adapter.Fetch(context.Background(), "nope", domain.CategoryMobile)
	require.Error(t, err)
}

func TestHTTPAdapter_FetchMalformedPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	catalogue := &providers.Config{Providers: []providers.Provider{
		{ID: "tibber", Name: "Tibber", Category: "electricity", Endpoint: srv.URL},
	}}

	adapter := fetch.NewHTTPAdapter(catalogue, srv.Client(), "")
	_, err := adapter.Fetch(context.Background(), "tibber", domain.CategoryElectricity)
	require.Error(t, err)
}

type stubAdapter struct {
	raw *domain.RawOfferData
}

func (s *stubAdapter) Fetch(context.Context, string, domain.Category) (*domain.RawOfferData, error) {
	if s.raw == nil {
		return nil, errors.New("no data")
	}
	return s.raw, nil
}

func TestRegistry_LookupPrefersSpecificAdapter(t *testing.T) {
	t.Parallel()

	fallback := &stubAdapter{raw: &domain.RawOfferData{Name: "fallback"}}
	specific := &stubAdapter{raw: &domain.RawOfferData{Name: "specific"}}

	registry := fetch.NewRegistry(fallback)
	registry.Register("tibber", specific)

	got, err := registry.Lookup("tibber")
	require.NoError(t, err)
	assert.Same(t, specific, got)

	got, err = registry.Lookup("telenor")
	require.NoError(t, err)
	assert.Same(t, fallback, got)
}

func TestRegistry_LookupWithoutFallback(t *testing.T) {
	t.Parallel()

	registry := fetch.NewRegistry(nil)
	_, err := registry.Lookup("telenor")
	require.Error(t, err)
}
