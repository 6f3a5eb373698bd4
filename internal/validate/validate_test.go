package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/validate"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		raw        *domain.RawOfferData
		wantErr    bool
		wantFields []string
	}{
		{
			name: "valid offer",
			raw: &domain.RawOfferData{
				Name:     "Smart 10GB",
				Price:    249,
				OfferURL: "https://telenor.example/smart",
			},
			wantErr: false,
		},
		{
			name: "missing name",
			raw: &domain.RawOfferData{
				Price:    249,
				OfferURL: "https://telenor.example/smart",
			},
			wantErr:    true,
			wantFields: []string{"name"},
		},
		{
			name: "zero price",
			raw: &domain.RawOfferData{
				Name:     "Smart 10GB",
				Price:    0,
				OfferURL: "https://telenor.example/smart",
			},
			wantErr:    true,
			wantFields: []string{"price"},
		},
		{
			name: "negative price",
			raw: &domain.RawOfferData{
				Name:     "Smart 10GB",
				Price:    -39,
				OfferURL: "https://telenor.example/smart",
			},
			wantErr:    true,
			wantFields: []string{"price"},
		},
		{
			name: "missing url",
			raw: &domain.RawOfferData{
				Name:  "Smart 10GB",
				Price: 249,
			},
			wantErr:    true,
			wantFields: []string{"offerUrl"},
		},
		{
			name:       "everything missing",
			raw:        &domain.RawOfferData{},
			wantErr:    true,
			wantFields: []string{"name", "price", "offerUrl"},
		},
		{
			name:       "nil payload",
			raw:        nil,
			wantErr:    true,
			wantFields: []string{"payload"},
		},
	}

	v := validate.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			offer, err := v.Validate("Telenor", domain.CategoryMobile, tt.raw)

			if !tt.wantErr {
				require.NoError(t, err)
				require.NotNil(t, offer)
				assert.Equal(t, "Telenor", offer.ProviderName)
				assert.Equal(t, domain.CategoryMobile, offer.Category)
				assert.Equal(t, tt.raw.Price, offer.MonthlyPrice)
				assert.True(t, offer.IsActive)
				assert.Equal(t, domain.SourceScraped, offer.DataSource)
				assert.NotEmpty(t, offer.ID)
				assert.NotNil(t, offer.LastScraped)
				return
			}

			require.Error(t, err)
			assert.Nil(t, offer)

			var valErr *domain.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, "Telenor", valErr.Provider)
			assert.Equal(t, tt.wantFields, valErr.Fields)
		})
	}
}
