// Package links derives the ranked internal-link graph per page.
//
// For a given entity the builder resolves its relations into links
// grouped by named sections. Each section has a hard cardinality cap and
// a configured priority; the builder never exceeds the cap and stamps
// the priority onto every link it emits. Anchor text is never empty, and
// title attributes disambiguate the target (a product link's title
// carries the brand name).
package links

import (
	"fmt"
	"math"
	"sort"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
)

// Link is one internal cross-entity link.
type Link struct {
	TargetKind catalog.Kind `json:"targetKind"`
	TargetID   string       `json:"targetId"`
	TargetSlug string       `json:"targetSlug"`
	URL        string       `json:"url"` // site-relative path
	Anchor     string       `json:"anchor"`
	Title      string       `json:"title"`
	Priority   int          `json:"priority"`
}

// Sections is the full link map of one page, keyed by section name.
type Sections map[Section][]Link

// Builder resolves entity relations into sectioned link lists against a
// frozen graph. The zero value is not usable; construct with New.
type Builder struct {
	graph  *catalog.Graph
	limits Limits

	// minBrandProducts is the editorial hub-linking threshold: brands
	// below it are not linked from listing contexts even though their
	// pages may index.
	minBrandProducts int
}

// New creates a builder. Nil limits fall back to DefaultLimits.
func New(g *catalog.Graph, limits Limits, minBrandProducts int) *Builder {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Builder{graph: g, limits: limits, minBrandProducts: minBrandProducts}
}

// emit appends links into a section, enforcing the cap and stamping the
// section priority. Links with resolvable targets only; the inputs are
// already dangling-free because the graph dropped unknown references.
func (b *Builder) emit(sections Sections, section Section, links []Link) {
	limit, ok := b.limits[section]
	if !ok || limit.Max <= 0 || len(links) == 0 {
		return
	}
	if len(links) > limit.Max {
		links = links[:limit.Max]
	}
	out := make([]Link, len(links))
	for i, l := range links {
		l.Priority = limit.Priority
		out[i] = l
	}
	sections[section] = out
}

// =============================================================================
// Per-Entity Builders
// =============================================================================

// ForStrain builds the link map of a strain page: lineage, similarity-
// ranked siblings, ordered terpenes and a limited set of carrying
// products.
func (b *Builder) ForStrain(s *catalog.Strain) Sections {
	sections := Sections{}
	b.emit(sections, SectionBreadcrumb, b.breadcrumb(catalog.KindStrain, s.Slug, s.Name))

	b.emit(sections, SectionParentStrains, b.strainLinks(s.ParentIDs))
	b.emit(sections, SectionChildStrains, b.strainLinks(s.ChildIDs))

	similar := make([]catalog.SimilarStrain, len(s.Similar))
	copy(similar, s.Similar)
	sort.SliceStable(similar, func(i, j int) bool { return similar[i].Weight > similar[j].Weight })
	var related []Link
	for _, sim := range similar {
		if target := b.graph.StrainByID(sim.StrainID); target != nil {
			related = append(related, b.strainLink(target))
		}
	}
	b.emit(sections, SectionRelatedStrains, related)

	var terpenes []Link
	for _, tid := range s.TerpeneIDs { // prevalence order
		if tp := b.graph.TerpeneByID(tid); tp != nil {
			terpenes = append(terpenes, b.terpeneLink(tp))
		}
	}
	b.emit(sections, SectionTerpenes, terpenes)

	b.emit(sections, SectionProducts, b.productLinks(b.rankProducts(b.graph.ProductsByStrain(s.ID))))
	b.emit(sections, SectionFooter, b.footerLinks())
	return sections
}

// ForProduct builds the link map of a product page: its strain, brand
// and category, pharmacies from active offers only, and capped
// alternatives.
func (b *Builder) ForProduct(p *catalog.Product) Sections {
	sections := Sections{}
	b.emit(sections, SectionBreadcrumb, b.breadcrumb(catalog.KindProduct, p.Slug, p.Name))

	if s := b.graph.StrainByID(p.StrainID); s != nil {
		b.emit(sections, SectionRelatedStrains, []Link{b.strainLink(s)})
	}
	if br := b.graph.BrandByID(p.BrandID); br != nil {
		b.emit(sections, SectionBrand, []Link{b.brandLink(br)})
	}
	if cat := b.categoryForForm(p.Form); cat != nil {
		b.emit(sections, SectionCategory, []Link{b.categoryLink(cat)})
	}

	var pharmacies []Link
	seen := map[string]struct{}{}
	for _, o := range b.graph.ActiveOffersByProduct(p.ID) {
		if _, dup := seen[o.PharmacyID]; dup {
			continue
		}
		seen[o.PharmacyID] = struct{}{}
		if ph := b.graph.PharmacyByID(o.PharmacyID); ph != nil {
			pharmacies = append(pharmacies, b.pharmacyLink(ph))
		}
	}
	b.emit(sections, SectionPharmacies, pharmacies)

	var alternatives []Link
	for _, alt := range p.Alternatives {
		if target := b.graph.ProductByID(alt.ProductID); target != nil {
			alternatives = append(alternatives, b.productLink(target))
		}
	}
	b.emit(sections, SectionAlternatives, alternatives)
	b.emit(sections, SectionFooter, b.footerLinks())
	return sections
}

// ForPharmacy builds the link map of a pharmacy page: its city and the
// geographically nearest other pharmacies.
func (b *Builder) ForPharmacy(ph *catalog.Pharmacy) Sections {
	sections := Sections{}
	b.emit(sections, SectionBreadcrumb, b.breadcrumb(catalog.KindPharmacy, ph.Slug, ph.Name))

	if c := b.graph.CityByID(ph.CityID); c != nil {
		b.emit(sections, SectionCity, []Link{b.cityLink(c)})
	}

	b.emit(sections, SectionNearby, b.nearestPharmacies(ph))
	b.emit(sections, SectionFooter, b.footerLinks())
	return sections
}

// ForCity builds the link map of a city page: its pharmacies sorted by
// product count and the nearest sibling cities.
func (b *Builder) ForCity(c *catalog.City) Sections {
	sections := Sections{}
	b.emit(sections, SectionBreadcrumb, b.breadcrumb(catalog.KindCity, c.Slug, c.Name))

	pharmacies := make([]*catalog.Pharmacy, 0, len(c.PharmacyIDs))
	for _, id := range c.PharmacyIDs {
		if ph := b.graph.PharmacyByID(id); ph != nil {
			pharmacies = append(pharmacies, ph)
		}
	}
	sort.SliceStable(pharmacies, func(i, j int) bool {
		if pharmacies[i].ProductCount != pharmacies[j].ProductCount {
			return pharmacies[i].ProductCount > pharmacies[j].ProductCount
		}
		return pharmacies[i].Slug < pharmacies[j].Slug
	})
	var phLinks []Link
	for _, ph := range pharmacies {
		phLinks = append(phLinks, b.pharmacyLink(ph))
	}
	b.emit(sections, SectionPharmacies, phLinks)

	var nearby []Link
	for _, id := range c.NearbyCityIDs {
		if sibling := b.graph.CityByID(id); sibling != nil {
			nearby = append(nearby, b.cityLink(sibling))
		}
	}
	b.emit(sections, SectionNearby, nearby)
	b.emit(sections, SectionFooter, b.footerLinks())
	return sections
}

// ForBrand builds the link map of a brand page.
func (b *Builder) ForBrand(br *catalog.Brand) Sections {
	sections := Sections{}
	b.emit(sections, SectionBreadcrumb, b.breadcrumb(catalog.KindBrand, br.Slug, br.Name))
	b.emit(sections, SectionProducts, b.productLinks(b.rankProducts(b.graph.ProductsByBrand(br.ID))))
	b.emit(sections, SectionFooter, b.footerLinks())
	return sections
}

// ForTerpene builds the link map of a terpene page.
func (b *Builder) ForTerpene(tp *catalog.Terpene) Sections {
	sections := Sections{}
	b.emit(sections, SectionBreadcrumb, b.breadcrumb(catalog.KindTerpene, tp.Slug, tp.Name()))

	strains := b.graph.StrainsByTerpene(tp.ID)
	ranked := make([]*catalog.Strain, len(strains))
	copy(ranked, strains)
	sort.SliceStable(ranked, func(i, j int) bool {
		if len(ranked[i].ProductIDs) != len(ranked[j].ProductIDs) {
			return len(ranked[i].ProductIDs) > len(ranked[j].ProductIDs)
		}
		return ranked[i].Slug < ranked[j].Slug
	})
	var strainLinks []Link
	for _, s := range ranked {
		strainLinks = append(strainLinks, b.strainLink(s))
	}
	b.emit(sections, SectionRelatedStrains, strainLinks)
	b.emit(sections, SectionFooter, b.footerLinks())
	return sections
}

// ForCategory builds the link map of a category page. Brand links apply
// the editorial hub-linking threshold, not the indexability one.
func (b *Builder) ForCategory(cat *catalog.Category) Sections {
	sections := Sections{}
	b.emit(sections, SectionBreadcrumb, b.breadcrumb(catalog.KindCategory, cat.Slug, cat.Name))

	products := make([]*catalog.Product, 0, len(cat.ProductIDs))
	for _, id := range cat.ProductIDs {
		if p := b.graph.ProductByID(id); p != nil {
			products = append(products, p)
		}
	}
	b.emit(sections, SectionProducts, b.productLinks(b.rankProducts(products)))

	brandSet := map[string]*catalog.Brand{}
	for _, p := range products {
		if br := b.graph.BrandByID(p.BrandID); br != nil && br.ProductCount >= b.minBrandProducts {
			brandSet[br.ID] = br
		}
	}
	brands := make([]*catalog.Brand, 0, len(brandSet))
	for _, br := range brandSet {
		brands = append(brands, br)
	}
	sort.SliceStable(brands, func(i, j int) bool {
		if brands[i].ProductCount != brands[j].ProductCount {
			return brands[i].ProductCount > brands[j].ProductCount
		}
		return brands[i].Slug < brands[j].Slug
	})
	var brandLinks []Link
	for _, br := range brands {
		brandLinks = append(brandLinks, b.brandLink(br))
	}
	b.emit(sections, SectionBrand, brandLinks)
	b.emit(sections, SectionFooter, b.footerLinks())
	return sections
}

// =============================================================================
// Link Construction
// =============================================================================

func anchorOr(name, slug string) string {
	if name != "" {
		return name
	}
	return slug
}

func (b *Builder) strainLink(s *catalog.Strain) Link {
	title := fmt.Sprintf("%s – Cannabis Sorte", anchorOr(s.Name, s.Slug))
	if s.Genetics.Type != "" {
		title = fmt.Sprintf("%s – %s Sorte", anchorOr(s.Name, s.Slug), s.Genetics.Type)
	}
	return Link{
		TargetKind: catalog.KindStrain, TargetID: s.ID, TargetSlug: s.Slug,
		URL: urls.Path(catalog.KindStrain, s.Slug), Anchor: anchorOr(s.Name, s.Slug), Title: title,
	}
}

func (b *Builder) strainLinks(ids []string) []Link {
	var out []Link
	for _, id := range ids {
		if s := b.graph.StrainByID(id); s != nil {
			out = append(out, b.strainLink(s))
		}
	}
	return out
}

func (b *Builder) productLink(p *catalog.Product) Link {
	title := anchorOr(p.Name, p.Slug)
	if br := b.graph.BrandByID(p.BrandID); br != nil {
		title = fmt.Sprintf("%s von %s", anchorOr(p.Name, p.Slug), br.Name)
	}
	return Link{
		TargetKind: catalog.KindProduct, TargetID: p.ID, TargetSlug: p.Slug,
		URL: urls.Path(catalog.KindProduct, p.Slug), Anchor: anchorOr(p.Name, p.Slug), Title: title,
	}
}

func (b *Builder) productLinks(products []*catalog.Product) []Link {
	var out []Link
	for _, p := range products {
		out = append(out, b.productLink(p))
	}
	return out
}

func (b *Builder) pharmacyLink(ph *catalog.Pharmacy) Link {
	title := anchorOr(ph.Name, ph.Slug)
	if ph.Address.City != "" {
		title = fmt.Sprintf("%s in %s", anchorOr(ph.Name, ph.Slug), ph.Address.City)
	}
	return Link{
		TargetKind: catalog.KindPharmacy, TargetID: ph.ID, TargetSlug: ph.Slug,
		URL: urls.Path(catalog.KindPharmacy, ph.Slug), Anchor: anchorOr(ph.Name, ph.Slug), Title: title,
	}
}

func (b *Builder) cityLink(c *catalog.City) Link {
	return Link{
		TargetKind: catalog.KindCity, TargetID: c.ID, TargetSlug: c.Slug,
		URL:    urls.Path(catalog.KindCity, c.Slug),
		Anchor: anchorOr(c.Name, c.Slug),
		Title:  fmt.Sprintf("Cannabis Apotheken in %s", anchorOr(c.Name, c.Slug)),
	}
}

func (b *Builder) brandLink(br *catalog.Brand) Link {
	return Link{
		TargetKind: catalog.KindBrand, TargetID: br.ID, TargetSlug: br.Slug,
		URL:    urls.Path(catalog.KindBrand, br.Slug),
		Anchor: anchorOr(br.Name, br.Slug),
		Title:  fmt.Sprintf("%s – Produkte der Marke", anchorOr(br.Name, br.Slug)),
	}
}

func (b *Builder) terpeneLink(tp *catalog.Terpene) Link {
	return Link{
		TargetKind: catalog.KindTerpene, TargetID: tp.ID, TargetSlug: tp.Slug,
		URL:    urls.Path(catalog.KindTerpene, tp.Slug),
		Anchor: anchorOr(tp.Name(), tp.Slug),
		Title:  fmt.Sprintf("%s – Terpen", anchorOr(tp.Name(), tp.Slug)),
	}
}

func (b *Builder) categoryLink(cat *catalog.Category) Link {
	return Link{
		TargetKind: catalog.KindCategory, TargetID: cat.ID, TargetSlug: cat.Slug,
		URL:    urls.Path(catalog.KindCategory, cat.Slug),
		Anchor: anchorOr(cat.Name, cat.Slug),
		Title:  fmt.Sprintf("%s – Kategorie", anchorOr(cat.Name, cat.Slug)),
	}
}

// breadcrumb emits the navigation trail: start page, kind hub, entity.
func (b *Builder) breadcrumb(kind catalog.Kind, slug, name string) []Link {
	hubName := hubNames[kind]
	return []Link{
		{TargetKind: kind, TargetSlug: "", URL: "/", Anchor: "Startseite", Title: "Startseite"},
		{TargetKind: kind, TargetSlug: "", URL: urls.HubPath(kind), Anchor: hubName, Title: hubName},
		{TargetKind: kind, TargetSlug: slug, URL: urls.Path(kind, slug), Anchor: anchorOr(name, slug), Title: anchorOr(name, slug)},
	}
}

var hubNames = map[catalog.Kind]string{
	catalog.KindStrain:   "Sorten",
	catalog.KindProduct:  "Produkte",
	catalog.KindPharmacy: "Apotheken",
	catalog.KindCity:     "Städte",
	catalog.KindBrand:    "Marken",
	catalog.KindTerpene:  "Terpene",
	catalog.KindCategory: "Kategorien",
}

// footerLinks links every kind hub.
func (b *Builder) footerLinks() []Link {
	var out []Link
	for _, kind := range catalog.Kinds {
		name := hubNames[kind]
		out = append(out, Link{
			TargetKind: kind, URL: urls.HubPath(kind), Anchor: name, Title: name,
		})
	}
	return out
}

// =============================================================================
// Ranking Helpers
// =============================================================================

// categoryForForm finds the category carrying a product form. Categories
// are scanned in ID order so the mapping is stable across runs.
func (b *Builder) categoryForForm(form catalog.ProductForm) *catalog.Category {
	for _, cat := range b.graph.Categories() {
		for _, f := range cat.Forms {
			if f == form {
				return cat
			}
		}
	}
	return nil
}

// rankProducts orders carrying products by active-offer count, then
// name, without mutating the input index slice.
func (b *Builder) rankProducts(products []*catalog.Product) []*catalog.Product {
	ranked := make([]*catalog.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		ai := len(b.graph.ActiveOffersByProduct(ranked[i].ID))
		aj := len(b.graph.ActiveOffersByProduct(ranked[j].ID))
		if ai != aj {
			return ai > aj
		}
		return ranked[i].Slug < ranked[j].Slug
	})
	return ranked
}

// nearestPharmacies ranks other pharmacies by great-circle distance.
// Pharmacies without coordinates cannot be ranked and are skipped.
func (b *Builder) nearestPharmacies(from *catalog.Pharmacy) []Link {
	if from.Geo == nil {
		return nil
	}
	type candidate struct {
		ph   *catalog.Pharmacy
		dist float64
	}
	var candidates []candidate
	for _, other := range b.graph.Pharmacies() {
		if other.ID == from.ID || other.Geo == nil {
			continue
		}
		candidates = append(candidates, candidate{other, haversineKM(*from.Geo, *other.Geo)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].ph.Slug < candidates[j].ph.Slug
	})
	var out []Link
	for _, c := range candidates {
		out = append(out, b.pharmacyLink(c.ph))
	}
	return out
}

// haversineKM is the great-circle distance between two coordinates.
func haversineKM(a, b catalog.Geo) float64 {
	const earthRadiusKM = 6371.0
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
