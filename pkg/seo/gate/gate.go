// Package gate decides, per entity, whether its page is published to
// search engines.
//
// Rules are evaluated in a fixed order with the first match winning, and
// every decision carries a machine-readable reason and a confidence
// score for the content-quality report. Thresholds are configuration,
// not magic numbers; callers override them via the Thresholds struct.
package gate

import (
	"fmt"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
)

// Reason is the machine-readable ground for an indexability decision.
type Reason string

// Decision reasons.
const (
	ReasonHasSufficientData  Reason = "has_sufficient_data"
	ReasonThinContent        Reason = "thin_content"
	ReasonHasActiveOffers    Reason = "has_active_offers"
	ReasonHistoricalPricing  Reason = "historical_pricing"
	ReasonNoOffers           Reason = "no_offers"
	ReasonPharmacyDensity    Reason = "pharmacy_density"
	ReasonLowPharmacyDensity Reason = "low_pharmacy_density"
	ReasonCuratedFacet       Reason = "curated_facet"
	ReasonUncuratedFacet     Reason = "uncurated_facet"
	ReasonHasProducts        Reason = "has_products"
	ReasonNoProducts         Reason = "no_products"
	ReasonAlwaysIndexable    Reason = "always_indexable"
)

// Result is one indexability decision.
type Result struct {
	ShouldIndex bool     `json:"shouldIndex"`
	Reason      Reason   `json:"reason"`
	Confidence  int      `json:"confidence"` // 0–100
	Notes       []string `json:"notes,omitempty"`

	// CanonicalTo is set when the page should canonicalize elsewhere
	// instead of indexing (uncurated facets point at their category).
	CanonicalTo string `json:"canonicalTo,omitempty"`
}

// Thresholds holds the overridable decision constants.
type Thresholds struct {
	// MinCityPharmacies is the pharmacy count at which a city page
	// indexes regardless of offer volume.
	MinCityPharmacies int `toml:"min_city_pharmacies"`

	// MinCityActiveOffers is the active-offer count at which a city
	// page indexes regardless of pharmacy count.
	MinCityActiveOffers int `toml:"min_city_active_offers"`

	// MinPriceSamples is the historical sample size that keeps a
	// product indexable (at reduced confidence) without active offers.
	MinPriceSamples int `toml:"min_price_samples"`

	// MinBrandProducts is the product count for brand indexability.
	MinBrandProducts int `toml:"min_brand_products"`

	// MinBrandProductsForLink is the stricter editorial threshold hub
	// listings apply before linking to a brand. It is deliberately not
	// the indexability threshold.
	MinBrandProductsForLink int `toml:"min_brand_products_for_link"`
}

// Defaults returns the production threshold set.
func Defaults() Thresholds {
	return Thresholds{
		MinCityPharmacies:       3,
		MinCityActiveOffers:     10,
		MinPriceSamples:         5,
		MinBrandProducts:        1,
		MinBrandProductsForLink: 3,
	}
}

// Strain indexes when any signal is present: potency data, at least one
// linked product, or a lineage edge.
func (t Thresholds) Strain(s *catalog.Strain) Result {
	if s.THC != nil || s.CBD != nil {
		return Result{ShouldIndex: true, Reason: ReasonHasSufficientData, Confidence: 100,
			Notes: []string{"potency data present"}}
	}
	if len(s.ProductIDs) >= 1 {
		return Result{ShouldIndex: true, Reason: ReasonHasSufficientData, Confidence: 100,
			Notes: []string{fmt.Sprintf("%d linked products", len(s.ProductIDs))}}
	}
	if len(s.ParentIDs) >= 1 || len(s.ChildIDs) >= 1 {
		return Result{ShouldIndex: true, Reason: ReasonHasSufficientData, Confidence: 90,
			Notes: []string{"lineage present"}}
	}
	return Result{ShouldIndex: false, Reason: ReasonThinContent, Confidence: 100}
}

// Product indexes on at least one active offer; without one it stays
// indexable at reduced confidence when enough historical price samples
// exist.
func (t Thresholds) Product(g *catalog.Graph, p *catalog.Product) Result {
	if active := g.ActiveOffersByProduct(p.ID); len(active) >= 1 {
		return Result{ShouldIndex: true, Reason: ReasonHasActiveOffers, Confidence: 100,
			Notes: []string{fmt.Sprintf("%d active offers", len(active))}}
	}
	if p.PriceStats.SampleSize >= t.MinPriceSamples {
		return Result{ShouldIndex: true, Reason: ReasonHistoricalPricing, Confidence: 75,
			Notes: []string{fmt.Sprintf("%d historical price samples", p.PriceStats.SampleSize)}}
	}
	return Result{ShouldIndex: false, Reason: ReasonNoOffers, Confidence: 100}
}

// City indexes on pharmacy density or active-offer volume.
func (t Thresholds) City(g *catalog.Graph, c *catalog.City) Result {
	if c.PharmacyCount >= t.MinCityPharmacies {
		return Result{ShouldIndex: true, Reason: ReasonPharmacyDensity, Confidence: 100,
			Notes: []string{fmt.Sprintf("%d pharmacies", c.PharmacyCount)}}
	}
	if active := g.ActiveOfferCountByCity(c.ID); active >= t.MinCityActiveOffers {
		return Result{ShouldIndex: true, Reason: ReasonPharmacyDensity, Confidence: 90,
			Notes: []string{fmt.Sprintf("%d active offers", active)}}
	}
	return Result{ShouldIndex: false, Reason: ReasonLowPharmacyDensity, Confidence: 100}
}

// Brand indexes with at least one product. Hub listings apply the
// stricter MinBrandProductsForLink before linking, which is an editorial
// rule, not this one.
func (t Thresholds) Brand(b *catalog.Brand) Result {
	if b.ProductCount >= t.MinBrandProducts {
		return Result{ShouldIndex: true, Reason: ReasonHasProducts, Confidence: 100,
			Notes: []string{fmt.Sprintf("%d products", b.ProductCount)}}
	}
	return Result{ShouldIndex: false, Reason: ReasonNoProducts, Confidence: 100}
}

// Facet indexes only curated facets; everything else canonicalizes to
// the parent category page. This is a de-duplication policy.
func (t Thresholds) Facet(cat *catalog.Category, facet string) Result {
	if cat.IsCuratedFacet(facet) {
		return Result{ShouldIndex: true, Reason: ReasonCuratedFacet, Confidence: 100}
	}
	return Result{
		ShouldIndex: false,
		Reason:      ReasonUncuratedFacet,
		Confidence:  100,
		CanonicalTo: urls.Path(catalog.KindCategory, cat.Slug),
	}
}

// Pharmacy pages are indexed unconditionally by policy.
func (t Thresholds) Pharmacy(ph *catalog.Pharmacy) Result {
	return Result{ShouldIndex: true, Reason: ReasonAlwaysIndexable, Confidence: 100}
}

// Terpene pages are indexed unconditionally by policy.
func (t Thresholds) Terpene(tp *catalog.Terpene) Result {
	return Result{ShouldIndex: true, Reason: ReasonAlwaysIndexable, Confidence: 100}
}

// Category root pages are indexed unconditionally by policy.
func (t Thresholds) Category(cat *catalog.Category) Result {
	return Result{ShouldIndex: true, Reason: ReasonAlwaysIndexable, Confidence: 100}
}

// Hub covers the per-kind listing pages ("/sorten"); always indexable.
func (t Thresholds) Hub(kind catalog.Kind) Result {
	return Result{ShouldIndex: true, Reason: ReasonAlwaysIndexable, Confidence: 100}
}
