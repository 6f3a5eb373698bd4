// Package urlcheck HEAD-checks batches of offer URLs with bounded
// concurrency. It reports per-URL validity, status, and redirects without
// ever aborting the batch.
package urlcheck

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sammenlign/pricefeed/internal/logger"
)

// Defaults for the checker.
const (
	DefaultConcurrency    = 5
	DefaultRequestTimeout = 10 * time.Second
)

// Result is the outcome of checking one URL.
type Result struct {
	URL          string `json:"url"`
	Valid        bool   `json:"valid"`
	StatusCode   int    `json:"status_code,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Checker validates batches of URLs. External hosts are not hammered:
// concurrency is bounded by a semaphore.
type Checker struct {
	client      *http.Client
	concurrency int
	log         logger.Interface
}

// NewChecker creates a URL checker. A nil client gets a default one with
// DefaultRequestTimeout.
func NewChecker(client *http.Client, concurrency int, log logger.Interface) *Checker {
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Checker{
		client:      client,
		concurrency: concurrency,
		log:         log.WithComponent("urlcheck"),
	}
}

// ValidateAll checks every URL independently and concurrently. The result
// slice is order-preserving with exactly one entry per input URL;
// duplicates keep their positions. A network failure for one URL marks
// that entry invalid and does not affect the others.
func (c *Checker) ValidateAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, url := range urls {
		// Acquire before spawning so the goroutine count is bounded too,
		// not just the HTTP parallelism.
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = c.check(ctx, target)
		}(i, url)
	}

	wg.Wait()
	return results
}

// check performs one HEAD request.
func (c *Checker) check(ctx context.Context, url string) Result {
	result := Result{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}

	resp, err := c.client.Do(req)
	if err != nil {
		result.ErrorMessage = err.Error()
		c.log.Debug("URL check failed", "url", url, "error", err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Valid = resp.StatusCode < http.StatusBadRequest

	// resp.Request reflects the final hop after redirects.
	if final := resp.Request.URL.String(); final != url {
		result.RedirectURL = final
	}

	return result
}
