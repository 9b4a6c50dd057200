// Package meta produces per-page SEO metadata.
//
// Every builder assembles an ordered list of semantic parts (name,
// classification, key metric, availability, price), joins them with a
// fixed separator and truncates the result to its character budget with
// word-boundary awareness. Robots directives always allow following;
// the index flag is taken verbatim from the indexability gate.
package meta

import (
	"fmt"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/money"
	"github.com/blattwerk/blattwerk/pkg/seo/gate"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
)

// Separator joins the semantic parts of titles and descriptions.
const Separator = " – "

// Robots is the per-page crawler directive. Follow is always true.
type Robots struct {
	Index  bool `json:"index"`
	Follow bool `json:"follow"`
}

// OpenGraph is the social-preview block.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	SiteName    string `json:"siteName"`
	Locale      string `json:"locale"`
}

// Twitter is the Twitter card block.
type Twitter struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Meta is the complete metadata block of one page.
type Meta struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Canonical   string    `json:"canonical"`
	Robots      Robots    `json:"robots"`
	OpenGraph   OpenGraph `json:"openGraph"`
	Twitter     Twitter   `json:"twitter"`
}

// Config carries the site-level inputs for metadata.
type Config struct {
	BaseURL  string
	SiteName string
	Locale   string
}

// Builder produces Meta blocks against a frozen graph.
type Builder struct {
	graph  *catalog.Graph
	config Config
}

// New creates a meta builder.
func New(g *catalog.Graph, config Config) *Builder {
	if config.Locale == "" {
		config.Locale = "de_DE"
	}
	return &Builder{graph: g, config: config}
}

// assemble joins parts and applies every budget, filling the shared
// blocks of a Meta.
func (b *Builder) assemble(titleParts, descParts []string, canonical string, idx gate.Result) Meta {
	title := joinParts(titleParts, Separator)
	desc := joinParts(descParts, Separator)

	return Meta{
		Title:       Truncate(title, MaxTitle),
		Description: Truncate(desc, MaxDescription),
		Canonical:   canonical,
		Robots:      Robots{Index: idx.ShouldIndex, Follow: true},
		OpenGraph: OpenGraph{
			Title:       Truncate(title, MaxSocialTitle),
			Description: Truncate(desc, MaxSocialDescription),
			URL:         canonical,
			Type:        "website",
			SiteName:    b.config.SiteName,
			Locale:      b.config.Locale,
		},
		Twitter: Twitter{
			Card:        "summary",
			Title:       Truncate(title, MaxSocialTitle),
			Description: Truncate(desc, MaxSocialDescription),
		},
	}
}

// Strain builds the metadata of a strain page.
// Parts: name, genetic classification, THC metric, availability, price.
func (b *Builder) Strain(s *catalog.Strain, idx gate.Result) Meta {
	classification := geneticLabel(s.Genetics.Type)

	var metric string
	if s.THC != nil {
		metric = fmt.Sprintf("THC %s", rangeLabel(*s.THC))
	} else if s.CBD != nil {
		metric = fmt.Sprintf("CBD %s", rangeLabel(*s.CBD))
	}

	var availability string
	if s.PharmacyCount > 0 {
		availability = fmt.Sprintf("bei %d Apotheken", s.PharmacyCount)
	}

	var price string
	if s.PriceStats.SampleSize > 0 {
		price = "ab " + money.FormatEUR(s.PriceStats.MinCents)
	}

	titleParts := []string{s.Name, classification, metric}
	descParts := []string{
		fmt.Sprintf("%s Cannabis Sorte", s.Name),
		classification, metric, availability, price,
	}

	canonical := urls.Canonical(b.config.BaseURL, catalog.KindStrain, s.Slug)
	return b.assemble(titleParts, descParts, canonical, idx)
}

// Product builds the metadata of a product page.
func (b *Builder) Product(p *catalog.Product, idx gate.Result) Meta {
	var brand string
	if br := b.graph.BrandByID(p.BrandID); br != nil {
		brand = br.Name
	}

	var metric string
	if p.THCPercent != nil {
		metric = fmt.Sprintf("THC %s%%", trimFloat(*p.THCPercent))
	}

	active := b.graph.ActiveOffersByProduct(p.ID)
	var availability string
	if len(active) > 0 {
		availability = fmt.Sprintf("bei %d Apotheken verfügbar", len(active))
	}

	var price string
	if p.PriceStats.SampleSize > 0 {
		price = "ab " + money.FormatEUR(p.PriceStats.MinCents)
	}

	titleParts := []string{p.Name, brand, metric}
	descParts := []string{
		fmt.Sprintf("%s kaufen", p.Name),
		brand, metric, availability, price,
	}

	canonical := urls.Canonical(b.config.BaseURL, catalog.KindProduct, p.Slug)
	return b.assemble(titleParts, descParts, canonical, idx)
}

// Pharmacy builds the metadata of a pharmacy page. Pharmacies are
// indexed unconditionally by policy.
func (b *Builder) Pharmacy(ph *catalog.Pharmacy, idx gate.Result) Meta {
	var location string
	if ph.Address.City != "" {
		location = fmt.Sprintf("Cannabis Apotheke in %s", ph.Address.City)
	}

	var availability string
	if ph.ProductCount > 0 {
		availability = fmt.Sprintf("%d Produkte", ph.ProductCount)
	}

	var delivery string
	if ph.Delivery.Shipping {
		delivery = "Versand möglich"
	}

	titleParts := []string{ph.Name, location}
	descParts := []string{ph.Name, location, availability, delivery}

	canonical := urls.Canonical(b.config.BaseURL, catalog.KindPharmacy, ph.Slug)
	return b.assemble(titleParts, descParts, canonical, idx)
}

// City builds the metadata of a city page.
func (b *Builder) City(c *catalog.City, idx gate.Result) Meta {
	var availability string
	if c.PharmacyCount > 0 {
		availability = fmt.Sprintf("%d Apotheken", c.PharmacyCount)
	}

	var price string
	if c.PriceMinCents > 0 {
		price = "ab " + money.FormatEUR(c.PriceMinCents)
	}

	titleParts := []string{fmt.Sprintf("Cannabis Apotheken %s", c.Name), availability}
	descParts := []string{
		fmt.Sprintf("Cannabis Apotheken in %s", c.Name),
		c.State, availability, price,
	}

	canonical := urls.Canonical(b.config.BaseURL, catalog.KindCity, c.Slug)
	return b.assemble(titleParts, descParts, canonical, idx)
}

// Brand builds the metadata of a brand page.
func (b *Builder) Brand(br *catalog.Brand, idx gate.Result) Meta {
	var availability string
	if br.ProductCount > 0 {
		availability = fmt.Sprintf("%d Produkte", br.ProductCount)
	}

	titleParts := []string{br.Name, "Cannabis Marke"}
	descParts := []string{fmt.Sprintf("%s Produkte", br.Name), availability}

	canonical := urls.Canonical(b.config.BaseURL, catalog.KindBrand, br.Slug)
	return b.assemble(titleParts, descParts, canonical, idx)
}

// Terpene builds the metadata of a terpene page.
func (b *Builder) Terpene(tp *catalog.Terpene, idx gate.Result) Meta {
	var aroma string
	if tp.Aroma != "" {
		aroma = fmt.Sprintf("Aroma: %s", tp.Aroma)
	}

	var availability string
	if tp.StrainCount > 0 {
		availability = fmt.Sprintf("in %d Sorten", tp.StrainCount)
	}

	titleParts := []string{tp.Name(), "Terpen"}
	descParts := []string{fmt.Sprintf("%s Terpen", tp.Name()), aroma, availability}

	canonical := urls.Canonical(b.config.BaseURL, catalog.KindTerpene, tp.Slug)
	return b.assemble(titleParts, descParts, canonical, idx)
}

// Category builds the metadata of a category page.
func (b *Builder) Category(cat *catalog.Category, idx gate.Result) Meta {
	var availability string
	if cat.ProductCount > 0 {
		availability = fmt.Sprintf("%d Produkte", cat.ProductCount)
	}

	var price string
	if cat.PriceMinCents > 0 {
		price = "ab " + money.FormatEUR(cat.PriceMinCents)
	}

	titleParts := []string{cat.Name, availability}
	descParts := []string{fmt.Sprintf("%s im Überblick", cat.Name), availability, price}

	canonical := urls.Canonical(b.config.BaseURL, catalog.KindCategory, cat.Slug)
	return b.assemble(titleParts, descParts, canonical, idx)
}

// Facet builds the metadata of a category facet view. Uncurated facets
// canonicalize to the parent category page instead of indexing.
func (b *Builder) Facet(cat *catalog.Category, facet string, idx gate.Result) Meta {
	canonical := urls.Absolute(b.config.BaseURL, urls.FacetPath(cat.Slug, facet))
	if idx.CanonicalTo != "" {
		canonical = urls.Absolute(b.config.BaseURL, idx.CanonicalTo)
	}

	titleParts := []string{cat.Name, facetLabel(facet)}
	descParts := []string{fmt.Sprintf("%s gefiltert nach %s", cat.Name, facetLabel(facet))}

	return b.assemble(titleParts, descParts, canonical, idx)
}

// =============================================================================
// Formatting Helpers
// =============================================================================

func geneticLabel(t catalog.GeneticType) string {
	switch t {
	case catalog.GeneticIndica:
		return "Indica"
	case catalog.GeneticSativa:
		return "Sativa"
	case catalog.GeneticHybrid:
		return "Hybrid"
	}
	return ""
}

// rangeLabel renders "17–24%" or "18%" for a degenerate range.
func rangeLabel(r catalog.Range) string {
	if r.Min == r.Max {
		return trimFloat(r.Min) + "%"
	}
	return trimFloat(r.Min) + "–" + trimFloat(r.Max) + "%"
}

// trimFloat renders without trailing zeros: 22 → "22", 0.5 → "0.5".
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	if s[len(s)-1] == '0' {
		return s[:len(s)-2]
	}
	return s
}

// facetLabel turns a facet slug into display text ("hoher-thc-gehalt" →
// "hoher thc gehalt").
func facetLabel(facet string) string {
	out := []byte(facet)
	for i := range out {
		if out[i] == '-' {
			out[i] = ' '
		}
	}
	return string(out)
}
