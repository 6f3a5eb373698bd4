package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is returned by stores when no record exists for the given key.
var ErrNoData = errors.New("no data available")

// ValidationError reports a malformed upstream payload. It names the
// fields that failed validation. Malformation is a normal, reported
// outcome, never a fatal condition.
type ValidationError struct {
	Provider string
	Fields   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid offer data for %s: %s", e.Provider, strings.Join(e.Fields, ", "))
}

// FetchError reports a network-level fetch failure, including timeouts.
type FetchError struct {
	Provider string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed write to the offer store after a
// successful fetch. The job is marked failed because durability could
// not be confirmed, even though the data itself was valid.
type PersistenceError struct {
	Provider string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist failed for %s: %v", e.Provider, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ExhaustedRetriesError is the terminal per-job error after all refresh
// attempts have failed. LastErr retains the error from the final attempt.
type ExhaustedRetriesError struct {
	Provider string
	Attempts int
	LastErr  error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("refresh for %s exhausted %d attempts: %v", e.Provider, e.Attempts, e.LastErr)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.LastErr
}
