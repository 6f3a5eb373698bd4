package domain

// RawOfferData is the untrusted payload a fetch adapter returns. It is
// always validated before it reaches storage.
type RawOfferData struct {
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	OfferURL string    `json:"offer_url"`
	Features []Feature `json:"features,omitempty"`
}
