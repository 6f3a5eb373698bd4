package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammenlign/pricefeed/internal/config/providers"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := providers.Config{Providers: []providers.Provider{
		{ID: "tibber", Name: "Tibber", Category: "electricity"},
		{ID: "telenor", Name: "Telenor", Category: "mobile"},
	}}
	require.NoError(t, valid.Validate())

	missing := providers.Config{Providers: []providers.Provider{
		{ID: "", Name: "Tibber"},
	}}
	assert.Error(t, missing.Validate())

	duplicate := providers.Config{Providers: []providers.Provider{
		{ID: "tibber", Name: "Tibber"},
		{ID: "tibber", Name: "Tibber Again"},
	}}
	assert.Error(t, duplicate.Validate())
}

func TestConfig_ByID(t *testing.T) {
	t.Parallel()

	cfg := providers.Config{Providers: []providers.Provider{
		{ID: "tibber", Name: "Tibber", Category: "electricity"},
	}}

	got := cfg.ByID("tibber")
	require.NotNil(t, got)
	assert.Equal(t, "Tibber", got.Name)

	assert.Nil(t, cfg.ByID("nope"))
}
