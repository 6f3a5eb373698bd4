package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sammenlign/pricefeed/internal/api"
	"github.com/sammenlign/pricefeed/internal/cache"
	"github.com/sammenlign/pricefeed/internal/clicks"
	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/urlcheck"
)

type mockPriceCache struct {
	prices map[string]cache.CachedPrice
}

func (m *mockPriceCache) Get(providerID string) cache.CachedPrice {
	p, ok := m.prices[providerID]
	if !ok {
		// Mirror the real cache's contract: a miss is Found=false, IsStale=true.
		return cache.CachedPrice{Found: false, IsStale: true}
	}
	return p
}

func setupPricesRouter(t *testing.T, handler *api.PricesHandler) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/prices/:provider", handler.GetPrice)

	return router
}

func TestPricesHandler_GetPrice_Fresh(t *testing.T) {
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &mockPriceCache{prices: map[string]cache.CachedPrice{
		"tibber": {Price: 39, Found: true, IsStale: false, LastUpdated: updated},
	}}

	router := setupPricesRouter(t, api.NewPricesHandler(c))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/prices/tibber", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Provider    string  `json:"provider"`
		Price       float64 `json:"price"`
		IsStale     bool    `json:"is_stale"`
		LastUpdated string  `json:"last_updated"`
	}
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}

	if resp.Provider != "tibber" {
		t.Errorf("provider = %q, want %q", resp.Provider, "tibber")
	}
	if resp.Price != 39 {
		t.Errorf("price = %v, want 39", resp.Price)
	}
	if resp.IsStale {
		t.Error("expected is_stale=false")
	}
	if resp.LastUpdated != "2026-03-01T12:00:00Z" {
		t.Errorf("last_updated = %q", resp.LastUpdated)
	}
}

func TestPricesHandler_GetPrice_NoDataIsNotAnError(t *testing.T) {
	c := &mockPriceCache{prices: map[string]cache.CachedPrice{}}
	router := setupPricesRouter(t, api.NewPricesHandler(c))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/prices/unknown", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Price       float64 `json:"price"`
		IsStale     bool    `json:"is_stale"`
		LastUpdated string  `json:"last_updated"`
	}
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}

	if resp.Price != 0 {
		t.Errorf("price = %v, want 0", resp.Price)
	}
	if !resp.IsStale {
		t.Error("expected is_stale=true for missing provider")
	}
	if resp.LastUpdated != "" {
		t.Errorf("last_updated = %q, want empty", resp.LastUpdated)
	}
}

type mockOfferReader struct {
	offers []*domain.ProviderOffer
	err    error
}

func (m *mockOfferReader) ListActive(_ context.Context, _ domain.Category) ([]*domain.ProviderOffer, error) {
	return m.offers, m.err
}

func setupOffersRouter(t *testing.T, handler *api.OffersHandler) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/offers", handler.ListOffers)

	return router
}

func TestOffersHandler_ListOffers(t *testing.T) {
	reader := &mockOfferReader{offers: []*domain.ProviderOffer{
		{ID: "o1", ProviderName: "Talkmore", Category: domain.CategoryMobile, MonthlyPrice: 199},
		{ID: "o2", ProviderName: "Telenor", Category: domain.CategoryMobile, MonthlyPrice: 299},
	}}

	router := setupOffersRouter(t, api.NewOffersHandler(reader))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/offers?category=mobile", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Offers []domain.ProviderOffer `json:"offers"`
		Count  int                    `json:"count"`
	}
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}

	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if resp.Offers[0].ProviderName != "Talkmore" {
		t.Errorf("first offer = %q, want Talkmore", resp.Offers[0].ProviderName)
	}
}

func TestOffersHandler_ListOffers_InvalidCategory(t *testing.T) {
	router := setupOffersRouter(t, api.NewOffersHandler(&mockOfferReader{}))

	for _, path := range []string{"/api/v1/offers", "/api/v1/offers?category=pets"} {
		w := httptest.NewRecorder()
		req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, path, http.NoBody)
		if reqErr != nil {
			t.Fatalf("failed to create request: %v", reqErr)
		}

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want %d", path, w.Code, http.StatusBadRequest)
		}
	}
}

type mockJobHistory struct {
	recent       []*domain.ScrapingJob
	staleRunning []*domain.ScrapingJob
	err          error

	gotStatus domain.JobStatus
	gotLimit  int
}

func (m *mockJobHistory) Recent(_ context.Context, status domain.JobStatus, limit int) ([]*domain.ScrapingJob, error) {
	m.gotStatus = status
	m.gotLimit = limit
	return m.recent, m.err
}

func (m *mockJobHistory) StaleRunning(_ context.Context, _ time.Duration) ([]*domain.ScrapingJob, error) {
	return m.staleRunning, m.err
}

func setupJobsRouter(t *testing.T, handler *api.JobsHandler) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/jobs", handler.ListJobs)
	v1.GET("/jobs/stale-running", handler.ListStaleRunning)

	return router
}

func TestJobsHandler_ListJobs_PassesFilters(t *testing.T) {
	history := &mockJobHistory{recent: []*domain.ScrapingJob{
		{ID: "job-1", ProviderName: "Tibber", Status: domain.JobStatusFailed},
	}}

	router := setupJobsRouter(t, api.NewJobsHandler(history, 10*time.Minute))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/jobs?status=failed&limit=5", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if history.gotStatus != domain.JobStatusFailed {
		t.Errorf("status filter = %q, want failed", history.gotStatus)
	}
	if history.gotLimit != 5 {
		t.Errorf("limit = %d, want 5", history.gotLimit)
	}
}

func TestJobsHandler_ListJobs_BadLimitFallsBack(t *testing.T) {
	history := &mockJobHistory{}
	router := setupJobsRouter(t, api.NewJobsHandler(history, 10*time.Minute))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/jobs?limit=bogus", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if history.gotLimit != 50 {
		t.Errorf("limit = %d, want default 50", history.gotLimit)
	}
}

func TestJobsHandler_ListJobs_StoreError(t *testing.T) {
	history := &mockJobHistory{err: errors.New("db down")}
	router := setupJobsRouter(t, api.NewJobsHandler(history, 10*time.Minute))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/jobs", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestJobsHandler_ListStaleRunning(t *testing.T) {
	started := time.Now().UTC().Add(-time.Hour)
	history := &mockJobHistory{staleRunning: []*domain.ScrapingJob{
		{ID: "job-1", ProviderName: "Tibber", Status: domain.JobStatusRunning, StartedAt: &started},
	}}

	router := setupJobsRouter(t, api.NewJobsHandler(history, 10*time.Minute))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/jobs/stale-running", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
}

type mockHealthReader struct {
	health map[string]domain.ProviderHealth
}

func (m *mockHealthReader) GetHealth(providerID string) (domain.ProviderHealth, bool) {
	h, ok := m.health[providerID]
	return h, ok
}

func (m *mockHealthReader) All() []domain.ProviderHealth {
	out := make([]domain.ProviderHealth, 0, len(m.health))
	for _, h := range m.health {
		out = append(out, h)
	}
	return out
}

func setupHealthRouter(t *testing.T, handler *api.HealthHandler) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/providers/:provider/health", handler.GetProviderHealth)
	v1.GET("/providers/health", handler.ListProviderHealth)

	return router
}

func TestHealthHandler_GetProviderHealth(t *testing.T) {
	reader := &mockHealthReader{health: map[string]domain.ProviderHealth{
		"telenor": {ProviderID: "telenor", IsHealthy: false, ErrorCount: 2},
	}}

	router := setupHealthRouter(t, api.NewHealthHandler(reader))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/providers/telenor/health", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp domain.ProviderHealth
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if resp.IsHealthy {
		t.Error("expected unhealthy provider")
	}
	if resp.ErrorCount != 2 {
		t.Errorf("error count = %d, want 2", resp.ErrorCount)
	}
}

func TestHealthHandler_GetProviderHealth_Unknown(t *testing.T) {
	router := setupHealthRouter(t, api.NewHealthHandler(&mockHealthReader{}))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "/api/v1/providers/nope/health", http.NoBody)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

type recordingSink struct {
	clicks []clicks.Click
}

func (s *recordingSink) Log(click clicks.Click) {
	s.clicks = append(s.clicks, click)
}

func setupClicksRouter(t *testing.T, handler *api.ClicksHandler) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/clicks", handler.LogClick)

	return router
}

func TestClicksHandler_LogClick(t *testing.T) {
	sink := &recordingSink{}
	router := setupClicksRouter(t, api.NewClicksHandler(sink))

	body := `{"provider_id":"telenor","provider_name":"Telenor","category":"mobile","target_url":"https://telenor.example/offer"}`
	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodPost, "/api/v1/clicks", strings.NewReader(body))
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d, body: %s", w.Code, http.StatusAccepted, w.Body.String())
	}
	if len(sink.clicks) != 1 {
		t.Fatalf("expected 1 recorded click, got %d", len(sink.clicks))
	}
	if sink.clicks[0].ProviderID != "telenor" {
		t.Errorf("provider_id = %q, want telenor", sink.clicks[0].ProviderID)
	}
	if sink.clicks[0].ClickedAt.IsZero() {
		t.Error("expected clicked_at to be stamped")
	}
}

func TestClicksHandler_LogClick_MissingFields(t *testing.T) {
	sink := &recordingSink{}
	router := setupClicksRouter(t, api.NewClicksHandler(sink))

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodPost, "/api/v1/clicks", strings.NewReader(`{"provider_id":"x"}`))
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(sink.clicks) != 0 {
		t.Errorf("expected no recorded clicks, got %d", len(sink.clicks))
	}
}

type mockURLValidator struct {
	gotURLs []string
}

func (m *mockURLValidator) ValidateAll(_ context.Context, urls []string) []urlcheck.Result {
	m.gotURLs = urls
	out := make([]urlcheck.Result, len(urls))
	for i, u := range urls {
		out[i] = urlcheck.Result{URL: u, Valid: true, StatusCode: http.StatusOK}
	}
	return out
}

func setupURLCheckRouter(t *testing.T, handler *api.URLCheckHandler) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/urlcheck", handler.ValidateBatch)

	return router
}

func TestURLCheckHandler_ValidateBatch(t *testing.T) {
	validator := &mockURLValidator{}
	router := setupURLCheckRouter(t, api.NewURLCheckHandler(validator))

	body := `{"urls":["https://a.example","https://b.example"]}`
	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodPost, "/api/v1/urlcheck", strings.NewReader(body))
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Results []urlcheck.Result `json:"results"`
		Count   int               `json:"count"`
	}
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if len(validator.gotURLs) != 2 {
		t.Errorf("validator received %d urls, want 2", len(validator.gotURLs))
	}
}

func TestURLCheckHandler_ValidateBatch_TooMany(t *testing.T) {
	validator := &mockURLValidator{}
	router := setupURLCheckRouter(t, api.NewURLCheckHandler(validator))

	urls := make([]string, 101)
	for i := range urls {
		urls[i] = "https://a.example"
	}
	payload, marshalErr := json.Marshal(map[string][]string{"urls": urls})
	if marshalErr != nil {
		t.Fatalf("failed to marshal payload: %v", marshalErr)
	}

	w := httptest.NewRecorder()
	req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodPost, "/api/v1/urlcheck", strings.NewReader(string(payload)))
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if validator.gotURLs != nil {
		t.Error("validator must not run for oversized batches")
	}
}
