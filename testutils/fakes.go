package testutils

import (
	"context"
	"sync"

	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/storage"
)

// ScriptedAdapter replays a fixed sequence of fetch results: each call
// consumes the next step. When the script is exhausted the last step
// repeats.
type ScriptedAdapter struct {
	mu    sync.Mutex
	steps []ScriptStep
	calls int
}

// ScriptStep is one scripted fetch result.
type ScriptStep struct {
	Raw *domain.RawOfferData
	Err error
}

// NewScriptedAdapter creates an adapter that replays steps in order.
func NewScriptedAdapter(steps ...ScriptStep) *ScriptedAdapter {
	return &ScriptedAdapter{steps: steps}
}

// Fetch returns the next scripted result.
func (a *ScriptedAdapter) Fetch(
	_ context.Context,
	_ string,
	_ domain.Category,
) (*domain.RawOfferData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.calls
	if idx >= len(a.steps) {
		idx = len(a.steps) - 1
	}
	a.calls++

	step := a.steps[idx]
	return step.Raw, step.Err
}

// Calls reports how many times Fetch was invoked.
func (a *ScriptedAdapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// RecordingErrorLog captures appended entries for assertions.
type RecordingErrorLog struct {
	mu      sync.Mutex
	entries []storage.ErrorEntry
}

// NewRecordingErrorLog creates an empty recording error log.
func NewRecordingErrorLog() *RecordingErrorLog {
	return &RecordingErrorLog{}
}

// Append records the entry.
func (l *RecordingErrorLog) Append(_ context.Context, entry storage.ErrorEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a snapshot of the recorded entries.
func (l *RecordingErrorLog) Entries() []storage.ErrorEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]storage.ErrorEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
