package health_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammenlign/pricefeed/internal/health"
)

func TestMonitor_ConsecutiveFailuresCount(t *testing.T) {
	t.Parallel()

	m := health.NewMonitor()

	for i := 1; i <= 5; i++ {
		m.RecordOutcome("tibber", false)

		h, ok := m.GetHealth("tibber")
		require.True(t, ok)
		assert.Equal(t, i, h.ErrorCount)
		assert.False(t, h.IsHealthy)
	}
}

func TestMonitor_SuccessResetsRegardlessOfHistory(t *testing.T) {
	t.Parallel()

	m := health.NewMonitor()

	for i := 0; i < 7; i++ {
		m.RecordOutcome("telenor", false)
	}
	m.RecordOutcome("telenor", true)

	h, ok := m.GetHealth("telenor")
	require.True(t, ok)
	assert.Equal(t, 0, h.ErrorCount)
	assert.True(t, h.IsHealthy)
	assert.False(t, h.LastUpdated.IsZero())
}

func TestMonitor_UnknownProvider(t *testing.T) {
	t.Parallel()

	m := health.NewMonitor()

	_, ok := m.GetHealth("nobody")
	assert.False(t, ok)
	assert.Empty(t, m.All())
}

func TestMonitor_LazyCreationOnFirstOutcome(t *testing.T) {
	t.Parallel()

	m := health.NewMonitor()
	m.RecordOutcome("fortum", true)

	h, ok := m.GetHealth("fortum")
	require.True(t, ok)
	assert.True(t, h.IsHealthy)
	assert.Len(t, m.All(), 1)
}
