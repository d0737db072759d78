package pricing

import "time"

// QuoteValidity is how long a computed quote may be bound to a policy.
const QuoteValidity = 24 * time.Hour

// CatalogInput rates a device sourced from the catalog. ReleaseYear is zero
// when the catalog does not know it.
type CatalogInput struct {
	CatalogID      string       `json:"catalogId,omitempty"`
	MarketPrice    float64      `json:"marketPrice"`
	DeviceCategory string       `json:"deviceCategory"`
	ReleaseYear    int          `json:"releaseYear,omitempty"`
	CoverageType   CoverageType `json:"coverageType"`
	TermYears      int          `json:"termYears,omitempty"`
}

// Quote is an Output stamped with catalog context and an expiry. Nothing
// here enforces the expiry; whoever binds a quote to a policy must check
// Expired first.
type Quote struct {
	Output
	CatalogID      string       `json:"catalogId,omitempty"`
	MarketPrice    float64      `json:"marketPrice"`
	DeviceCategory string       `json:"deviceCategory"`
	CoverageType   CoverageType `json:"coverageType"`
	ValidUntil     time.Time    `json:"validUntil"`
}

// Expired reports whether the quote can no longer be bound at t.
func (q Quote) Expired(t time.Time) bool {
	return t.After(q.ValidUntil)
}

// CalculateFromCatalog derives the device age from its release year, rates it
// and stamps the result valid for QuoteValidity from now.
func CalculateFromCatalog(in CatalogInput, now time.Time) Quote {
	out := CalculatePremium(Input{
		DeclaredValue:     in.MarketPrice,
		DeviceCategory:    in.DeviceCategory,
		PurchaseAgeMonths: AgeFromReleaseYear(in.ReleaseYear, now),
		CoverageType:      in.CoverageType,
		TermYears:         in.TermYears,
	})
	return Quote{
		Output:         out,
		CatalogID:      in.CatalogID,
		MarketPrice:    in.MarketPrice,
		DeviceCategory: in.DeviceCategory,
		CoverageType:   in.CoverageType,
		ValidUntil:     now.Add(QuoteValidity),
	}
}

// CalculateAllQuotes rates a catalog device once per coverage type.
func CalculateAllQuotes(catalogID string, marketPrice float64, category string, releaseYear int, now time.Time) map[CoverageType]Quote {
	quotes := make(map[CoverageType]Quote, len(CoverageTypes))
	for _, c := range CoverageTypes {
		quotes[c] = CalculateFromCatalog(CatalogInput{
			CatalogID:      catalogID,
			MarketPrice:    marketPrice,
			DeviceCategory: category,
			ReleaseYear:    releaseYear,
			CoverageType:   c,
		}, now)
	}
	return quotes
}
