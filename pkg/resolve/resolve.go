// Package resolve assembles complete page-data records.
//
// A Resolver is a pure function of the frozen graph and its config: for
// a given entity type and slug it runs the indexability gate, the link
// builder, the meta builder and the schema builder in sequence and
// returns one immutable page payload. Unknown slugs resolve to nil,
// which the consuming layer presents as a not-found page.
package resolve

import (
	"sort"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/money"
	"github.com/blattwerk/blattwerk/pkg/seo/gate"
	"github.com/blattwerk/blattwerk/pkg/seo/links"
	"github.com/blattwerk/blattwerk/pkg/seo/meta"
	"github.com/blattwerk/blattwerk/pkg/seo/schema"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
)

// Config carries everything a resolution run needs beside the graph.
type Config struct {
	BaseURL       string
	SiteName      string
	DefaultLocale string

	Thresholds       gate.Thresholds
	LinkLimits       links.Limits
	MinBrandProducts int
}

// SEO is the per-page search block: metadata, breadcrumb path and the
// combined structured-data payload.
type SEO struct {
	Meta        meta.Meta      `json:"meta"`
	Breadcrumbs []schema.Crumb `json:"breadcrumbs"`
	Schema      any            `json:"schema,omitempty"`
}

// OfferLink is one outbound partner URL of a product page.
type OfferLink struct {
	PharmacyName string      `json:"pharmacyName"`
	PharmacySlug string      `json:"pharmacySlug"`
	URL          string      `json:"url"`
	PriceCents   money.Cents `json:"priceCents"`
	Status       string      `json:"status"`
}

// External groups everything that leaves the site.
type External struct {
	Offers []OfferLink `json:"offers,omitempty"`
}

// Resolver resolves pages against one immutable graph snapshot.
type Resolver struct {
	graph  *catalog.Graph
	config Config
	gate   gate.Thresholds
	links  *links.Builder
	meta   *meta.Builder
}

// New creates a resolver. Zero-valued thresholds and link limits fall
// back to the defaults.
func New(g *catalog.Graph, config Config) *Resolver {
	if config.Thresholds == (gate.Thresholds{}) {
		config.Thresholds = gate.Defaults()
	}
	if config.LinkLimits == nil {
		config.LinkLimits = links.DefaultLimits()
	}
	if config.MinBrandProducts <= 0 {
		config.MinBrandProducts = config.Thresholds.MinBrandProductsForLink
	}
	return &Resolver{
		graph:  g,
		config: config,
		gate:   config.Thresholds,
		links:  links.New(g, config.LinkLimits, config.MinBrandProducts),
		meta: meta.New(g, meta.Config{
			BaseURL:  config.BaseURL,
			SiteName: config.SiteName,
			Locale:   config.DefaultLocale,
		}),
	}
}

// Graph exposes the underlying snapshot for callers that report on it.
func (r *Resolver) Graph() *catalog.Graph { return r.graph }

// =============================================================================
// Page Types
// =============================================================================

// StrainPage is the resolved payload of a strain detail page.
type StrainPage struct {
	Strain       *catalog.Strain `json:"strain"`
	Links        links.Sections  `json:"links"`
	SEO          SEO             `json:"seo"`
	Indexability gate.Result     `json:"indexability"`
}

// ProductPage is the resolved payload of a product detail page.
type ProductPage struct {
	Product      *catalog.Product `json:"product"`
	Brand        *catalog.Brand   `json:"brand,omitempty"`
	Strain       *catalog.Strain  `json:"strain,omitempty"`
	Links        links.Sections   `json:"links"`
	External     External         `json:"external"`
	SEO          SEO              `json:"seo"`
	Indexability gate.Result      `json:"indexability"`
}

// PharmacyPage is the resolved payload of a pharmacy detail page.
type PharmacyPage struct {
	Pharmacy     *catalog.Pharmacy `json:"pharmacy"`
	City         *catalog.City     `json:"city,omitempty"`
	Links        links.Sections    `json:"links"`
	SEO          SEO               `json:"seo"`
	Indexability gate.Result       `json:"indexability"`
}

// CityStats aggregates offer availability for a city page.
type CityStats struct {
	PharmacyCount    int `json:"pharmacyCount"`
	ActiveOfferCount int `json:"activeOfferCount"`
}

// CityPage is the resolved payload of a city page.
type CityPage struct {
	City         *catalog.City  `json:"city"`
	Stats        CityStats      `json:"stats"`
	Links        links.Sections `json:"links"`
	SEO          SEO            `json:"seo"`
	Indexability gate.Result    `json:"indexability"`
}

// BrandPage is the resolved payload of a brand page.
type BrandPage struct {
	Brand        *catalog.Brand `json:"brand"`
	Links        links.Sections `json:"links"`
	SEO          SEO            `json:"seo"`
	Indexability gate.Result    `json:"indexability"`
}

// TerpenePage is the resolved payload of a terpene page.
type TerpenePage struct {
	Terpene      *catalog.Terpene `json:"terpene"`
	Links        links.Sections   `json:"links"`
	SEO          SEO              `json:"seo"`
	Indexability gate.Result      `json:"indexability"`
}

// CategoryPage is the resolved payload of a category page.
type CategoryPage struct {
	Category     *catalog.Category `json:"category"`
	Links        links.Sections    `json:"links"`
	SEO          SEO               `json:"seo"`
	Indexability gate.Result       `json:"indexability"`
}

// FacetPage is the resolved payload of a category facet page. Uncurated
// facets still resolve, but carry a canonical pointing at the category.
type FacetPage struct {
	Category     *catalog.Category `json:"category"`
	Facet        string            `json:"facet"`
	Links        links.Sections    `json:"links"`
	SEO          SEO               `json:"seo"`
	Indexability gate.Result       `json:"indexability"`
}

// =============================================================================
// Resolvers
// =============================================================================

// Strain resolves a strain page by slug, nil when absent.
func (r *Resolver) Strain(slug string) *StrainPage {
	s := r.graph.StrainBySlug(slug)
	if s == nil {
		return nil
	}
	idx := r.gate.Strain(s)
	crumbs := r.crumbs(catalog.KindStrain, s.Name, s.Slug)

	var objects []schema.Object
	objects = append(objects, schema.Breadcrumbs(r.config.BaseURL, crumbs))
	if list := r.productList(r.graph.ProductsByStrain(s.ID), "Produkte mit "+s.Name); list != nil {
		objects = append(objects, *list)
	}

	return &StrainPage{
		Strain: s,
		Links:  r.links.ForStrain(s),
		SEO: SEO{
			Meta:        r.meta.Strain(s, idx),
			Breadcrumbs: crumbs,
			Schema:      schema.Combine(objects),
		},
		Indexability: idx,
	}
}

// Product resolves a product page by slug, nil when absent. The
// external block lists outbound pharmacy offer URLs in offer-id order.
func (r *Resolver) Product(slug string) *ProductPage {
	p := r.graph.ProductBySlug(slug)
	if p == nil {
		return nil
	}
	idx := r.gate.Product(r.graph, p)
	crumbs := r.crumbs(catalog.KindProduct, p.Name, p.Slug)

	objects := []schema.Object{
		schema.Breadcrumbs(r.config.BaseURL, crumbs),
		schema.Product(r.graph, p),
	}

	return &ProductPage{
		Product:  p,
		Brand:    r.graph.BrandByID(p.BrandID),
		Strain:   r.graph.StrainByID(p.StrainID),
		Links:    r.links.ForProduct(p),
		External: External{Offers: r.offerLinks(p)},
		SEO: SEO{
			Meta:        r.meta.Product(p, idx),
			Breadcrumbs: crumbs,
			Schema:      schema.Combine(objects),
		},
		Indexability: idx,
	}
}

// Pharmacy resolves a pharmacy page by slug, nil when absent.
func (r *Resolver) Pharmacy(slug string) *PharmacyPage {
	ph := r.graph.PharmacyBySlug(slug)
	if ph == nil {
		return nil
	}
	idx := r.gate.Pharmacy(ph)
	crumbs := r.crumbs(catalog.KindPharmacy, ph.Name, ph.Slug)

	objects := []schema.Object{
		schema.Breadcrumbs(r.config.BaseURL, crumbs),
		schema.LocalBusiness(ph),
	}

	return &PharmacyPage{
		Pharmacy: ph,
		City:     r.graph.CityByID(ph.CityID),
		Links:    r.links.ForPharmacy(ph),
		SEO: SEO{
			Meta:        r.meta.Pharmacy(ph, idx),
			Breadcrumbs: crumbs,
			Schema:      schema.Combine(objects),
		},
		Indexability: idx,
	}
}

// City resolves a city page by slug, nil when absent.
func (r *Resolver) City(slug string) *CityPage {
	c := r.graph.CityBySlug(slug)
	if c == nil {
		return nil
	}
	idx := r.gate.City(r.graph, c)
	crumbs := r.crumbs(catalog.KindCity, c.Name, c.Slug)

	pharmacies := r.graph.PharmaciesByCity(c.ID)
	entries := make([]schema.Entry, 0, len(pharmacies))
	for _, ph := range pharmacies {
		entries = append(entries, schema.Entry{
			Name: ph.Name,
			Path: urls.Path(catalog.KindPharmacy, ph.Slug),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	objects := []schema.Object{schema.Breadcrumbs(r.config.BaseURL, crumbs)}
	if len(entries) > 0 {
		objects = append(objects, schema.ItemList(r.config.BaseURL, "Cannabis Apotheken in "+c.Name, entries))
	}

	return &CityPage{
		City: c,
		Stats: CityStats{
			PharmacyCount:    c.PharmacyCount,
			ActiveOfferCount: r.graph.ActiveOfferCountByCity(c.ID),
		},
		Links: r.links.ForCity(c),
		SEO: SEO{
			Meta:        r.meta.City(c, idx),
			Breadcrumbs: crumbs,
			Schema:      schema.Combine(objects),
		},
		Indexability: idx,
	}
}

// Brand resolves a brand page by slug, nil when absent.
func (r *Resolver) Brand(slug string) *BrandPage {
	br := r.graph.BrandBySlug(slug)
	if br == nil {
		return nil
	}
	idx := r.gate.Brand(br)
	crumbs := r.crumbs(catalog.KindBrand, br.Name, br.Slug)

	objects := []schema.Object{schema.Breadcrumbs(r.config.BaseURL, crumbs)}
	if list := r.productList(r.graph.ProductsByBrand(br.ID), "Produkte von "+br.Name); list != nil {
		objects = append(objects, *list)
	}

	return &BrandPage{
		Brand: br,
		Links: r.links.ForBrand(br),
		SEO: SEO{
			Meta:        r.meta.Brand(br, idx),
			Breadcrumbs: crumbs,
			Schema:      schema.Combine(objects),
		},
		Indexability: idx,
	}
}

// Terpene resolves a terpene page by slug, nil when absent.
func (r *Resolver) Terpene(slug string) *TerpenePage {
	tp := r.graph.TerpeneBySlug(slug)
	if tp == nil {
		return nil
	}
	idx := r.gate.Terpene(tp)
	crumbs := r.crumbs(catalog.KindTerpene, tp.Name(), tp.Slug)

	strains := r.graph.StrainsByTerpene(tp.ID)
	entries := make([]schema.Entry, 0, len(strains))
	for _, s := range strains {
		entries = append(entries, schema.Entry{
			Name: s.Name,
			Path: urls.Path(catalog.KindStrain, s.Slug),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	objects := []schema.Object{schema.Breadcrumbs(r.config.BaseURL, crumbs)}
	if len(entries) > 0 {
		objects = append(objects, schema.ItemList(r.config.BaseURL, "Sorten mit "+tp.Name(), entries))
	}

	return &TerpenePage{
		Terpene: tp,
		Links:   r.links.ForTerpene(tp),
		SEO: SEO{
			Meta:        r.meta.Terpene(tp, idx),
			Breadcrumbs: crumbs,
			Schema:      schema.Combine(objects),
		},
		Indexability: idx,
	}
}

// Category resolves a category page by slug, nil when absent.
func (r *Resolver) Category(slug string) *CategoryPage {
	cat := r.graph.CategoryBySlug(slug)
	if cat == nil {
		return nil
	}
	idx := r.gate.Category(cat)
	crumbs := r.crumbs(catalog.KindCategory, cat.Name, cat.Slug)

	objects := []schema.Object{schema.Breadcrumbs(r.config.BaseURL, crumbs)}
	if list := r.productList(r.categoryProducts(cat), cat.Name); list != nil {
		objects = append(objects, *list)
	}

	return &CategoryPage{
		Category: cat,
		Links:    r.links.ForCategory(cat),
		SEO: SEO{
			Meta:        r.meta.Category(cat, idx),
			Breadcrumbs: crumbs,
			Schema:      schema.Combine(objects),
		},
		Indexability: idx,
	}
}

// Facet resolves a category facet page. The page exists for any facet
// slug under a known category; only curated facets index, everything
// else canonicalizes to the category.
func (r *Resolver) Facet(categorySlug, facet string) *FacetPage {
	cat := r.graph.CategoryBySlug(categorySlug)
	if cat == nil {
		return nil
	}
	idx := r.gate.Facet(cat, facet)
	crumbs := append(r.crumbs(catalog.KindCategory, cat.Name, cat.Slug), schema.Crumb{
		Name: facet,
		Path: urls.FacetPath(cat.Slug, facet),
	})

	objects := []schema.Object{schema.Breadcrumbs(r.config.BaseURL, crumbs)}

	return &FacetPage{
		Category: cat,
		Facet:    facet,
		Links:    r.links.ForCategory(cat),
		SEO: SEO{
			Meta:        r.meta.Facet(cat, facet, idx),
			Breadcrumbs: crumbs,
			Schema:      schema.Combine(objects),
		},
		Indexability: idx,
	}
}

// Resolve dispatches by entity kind. The switch is exhaustive over the
// closed kind set; unknown kinds return nil.
func (r *Resolver) Resolve(kind catalog.Kind, slug string) any {
	switch kind {
	case catalog.KindStrain:
		if page := r.Strain(slug); page != nil {
			return page
		}
	case catalog.KindProduct:
		if page := r.Product(slug); page != nil {
			return page
		}
	case catalog.KindPharmacy:
		if page := r.Pharmacy(slug); page != nil {
			return page
		}
	case catalog.KindCity:
		if page := r.City(slug); page != nil {
			return page
		}
	case catalog.KindBrand:
		if page := r.Brand(slug); page != nil {
			return page
		}
	case catalog.KindTerpene:
		if page := r.Terpene(slug); page != nil {
			return page
		}
	case catalog.KindCategory:
		if page := r.Category(slug); page != nil {
			return page
		}
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// hubTitles names the per-kind hub pages in breadcrumbs.
var hubTitles = map[catalog.Kind]string{
	catalog.KindStrain:   "Sorten",
	catalog.KindProduct:  "Produkte",
	catalog.KindPharmacy: "Apotheken",
	catalog.KindCity:     "Städte",
	catalog.KindBrand:    "Marken",
	catalog.KindTerpene:  "Terpene",
	catalog.KindCategory: "Kategorien",
}

// crumbs builds the standard three-step path: home, hub, entity.
func (r *Resolver) crumbs(kind catalog.Kind, name, slug string) []schema.Crumb {
	return []schema.Crumb{
		{Name: "Startseite", Path: "/"},
		{Name: hubTitles[kind], Path: urls.HubPath(kind)},
		{Name: name, Path: urls.Path(kind, slug)},
	}
}

// offerLinks lists a product's outbound pharmacy URLs, active offers
// only, ordered by offer id.
func (r *Resolver) offerLinks(p *catalog.Product) []OfferLink {
	offers := append([]*catalog.Offer(nil), r.graph.ActiveOffersByProduct(p.ID)...)
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
	var out []OfferLink
	for _, o := range offers {
		if o.URL == "" {
			continue
		}
		ph := r.graph.PharmacyByID(o.PharmacyID)
		if ph == nil {
			continue
		}
		out = append(out, OfferLink{
			PharmacyName: ph.Name,
			PharmacySlug: ph.Slug,
			URL:          o.URL,
			PriceCents:   o.PriceCents,
			Status:       string(o.Status),
		})
	}
	return out
}

// productList builds an item-list object over products ranked for
// prominence (in-stock and potent first), or nil when empty.
func (r *Resolver) productList(products []*catalog.Product, name string) *schema.ItemListObject {
	if len(products) == 0 {
		return nil
	}
	ranked := make([]*catalog.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		ai := len(r.graph.ActiveOffersByProduct(ranked[i].ID))
		aj := len(r.graph.ActiveOffersByProduct(ranked[j].ID))
		if ai != aj {
			return ai > aj
		}
		return ranked[i].Slug < ranked[j].Slug
	})
	entries := make([]schema.Entry, 0, len(ranked))
	for _, p := range ranked {
		entries = append(entries, schema.Entry{
			Name: p.Name,
			Path: urls.Path(catalog.KindProduct, p.Slug),
		})
	}
	list := schema.ItemList(r.config.BaseURL, name, entries)
	return &list
}

// categoryProducts resolves a category's product references, skipping
// dangling ids.
func (r *Resolver) categoryProducts(cat *catalog.Category) []*catalog.Product {
	var out []*catalog.Product
	for _, id := range cat.ProductIDs {
		if p := r.graph.ProductByID(id); p != nil {
			out = append(out, p)
		}
	}
	return out
}
