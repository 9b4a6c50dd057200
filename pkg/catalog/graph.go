package catalog

import (
	"fmt"
	"sort"

	"github.com/blattwerk/blattwerk/pkg/money"
)

// =============================================================================
// Report - Referential Integrity Warnings
// =============================================================================

// Warning records one non-fatal data problem found during Build.
type Warning struct {
	Kind     Kind   `json:"kind"`
	EntityID string `json:"entityId"`
	Field    string `json:"field"`
	RefID    string `json:"refId,omitempty"`
	Message  string `json:"message"`
}

// Report summarizes graph construction.
type Report struct {
	Warnings []Warning `json:"warnings,omitempty"`
}

func (r *Report) warn(kind Kind, entityID, field, refID, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:     kind,
		EntityID: entityID,
		Field:    field,
		RefID:    refID,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Stats holds aggregate totals computed once at construction.
type Stats struct {
	Strains      int `json:"strains"`
	Products     int `json:"products"`
	Pharmacies   int `json:"pharmacies"`
	Cities       int `json:"cities"`
	Brands       int `json:"brands"`
	Terpenes     int `json:"terpenes"`
	Categories   int `json:"categories"`
	Offers       int `json:"offers"`
	ActiveOffers int `json:"activeOffers"`
}

// =============================================================================
// Graph - Frozen Entity Snapshot
// =============================================================================

// Graph is the read-only entity snapshot for one generation run.
// All maps and indices are populated by Build and never mutated after.
type Graph struct {
	strains    map[string]*Strain
	products   map[string]*Product
	pharmacies map[string]*Pharmacy
	cities     map[string]*City
	brands     map[string]*Brand
	terpenes   map[string]*Terpene
	categories map[string]*Category
	offers     map[string]*Offer

	strainSlugs   map[string]*Strain
	productSlugs  map[string]*Product
	pharmacySlugs map[string]*Pharmacy
	citySlugs     map[string]*City
	brandSlugs    map[string]*Brand
	terpeneSlugs  map[string]*Terpene
	categorySlugs map[string]*Category

	productsByStrain map[string][]*Product
	productsByBrand  map[string][]*Product
	productsByForm   map[ProductForm][]*Product
	offersByProduct  map[string][]*Offer
	offersByPharmacy map[string][]*Offer
	pharmaciesByCity map[string][]*Pharmacy
	strainsByTerpene map[string][]*Strain

	stats Stats
}

// Build constructs a frozen graph from a raw snapshot. Input records are
// copied; the caller's slice may be discarded afterwards. The returned
// report lists dangling references and reconciliation warnings.
func Build(records Records) (*Graph, *Report) {
	report := &Report{}
	g := &Graph{
		strains:    make(map[string]*Strain, len(records.Strains)),
		products:   make(map[string]*Product, len(records.Products)),
		pharmacies: make(map[string]*Pharmacy, len(records.Pharmacies)),
		cities:     make(map[string]*City, len(records.Cities)),
		brands:     make(map[string]*Brand, len(records.Brands)),
		terpenes:   make(map[string]*Terpene, len(records.Terpenes)),
		categories: make(map[string]*Category, len(records.Categories)),
		offers:     make(map[string]*Offer, len(records.Offers)),

		strainSlugs:   make(map[string]*Strain, len(records.Strains)),
		productSlugs:  make(map[string]*Product, len(records.Products)),
		pharmacySlugs: make(map[string]*Pharmacy, len(records.Pharmacies)),
		citySlugs:     make(map[string]*City, len(records.Cities)),
		brandSlugs:    make(map[string]*Brand, len(records.Brands)),
		terpeneSlugs:  make(map[string]*Terpene, len(records.Terpenes)),
		categorySlugs: make(map[string]*Category, len(records.Categories)),

		productsByStrain: make(map[string][]*Product),
		productsByBrand:  make(map[string][]*Product),
		productsByForm:   make(map[ProductForm][]*Product),
		offersByProduct:  make(map[string][]*Offer),
		offersByPharmacy: make(map[string][]*Offer),
		pharmaciesByCity: make(map[string][]*Pharmacy),
		strainsByTerpene: make(map[string][]*Strain),
	}

	g.register(records, report)
	g.reconcileBackRefs(report)
	g.buildIndices(report)
	g.computeAggregates()
	g.computeStats()

	return g, report
}

// register copies entities into the ID and slug maps, warning on
// duplicates. The later duplicate wins the slug slot so lookups stay
// deterministic under input order.
func (g *Graph) register(records Records, report *Report) {
	for i := range records.Strains {
		s := records.Strains[i]
		if _, dup := g.strains[s.ID]; dup {
			report.warn(KindStrain, s.ID, "id", "", "duplicate strain id")
		}
		g.strains[s.ID] = &s
		g.strainSlugs[s.Slug] = g.strains[s.ID]
	}
	for i := range records.Products {
		p := records.Products[i]
		if _, dup := g.products[p.ID]; dup {
			report.warn(KindProduct, p.ID, "id", "", "duplicate product id")
		}
		g.products[p.ID] = &p
		g.productSlugs[p.Slug] = g.products[p.ID]
	}
	for i := range records.Pharmacies {
		ph := records.Pharmacies[i]
		if _, dup := g.pharmacies[ph.ID]; dup {
			report.warn(KindPharmacy, ph.ID, "id", "", "duplicate pharmacy id")
		}
		g.pharmacies[ph.ID] = &ph
		g.pharmacySlugs[ph.Slug] = g.pharmacies[ph.ID]
	}
	for i := range records.Cities {
		c := records.Cities[i]
		if _, dup := g.cities[c.ID]; dup {
			report.warn(KindCity, c.ID, "id", "", "duplicate city id")
		}
		g.cities[c.ID] = &c
		g.citySlugs[c.Slug] = g.cities[c.ID]
	}
	for i := range records.Brands {
		b := records.Brands[i]
		if _, dup := g.brands[b.ID]; dup {
			report.warn(KindBrand, b.ID, "id", "", "duplicate brand id")
		}
		g.brands[b.ID] = &b
		g.brandSlugs[b.Slug] = g.brands[b.ID]
	}
	for i := range records.Terpenes {
		tp := records.Terpenes[i]
		if _, dup := g.terpenes[tp.ID]; dup {
			report.warn(KindTerpene, tp.ID, "id", "", "duplicate terpene id")
		}
		g.terpenes[tp.ID] = &tp
		g.terpeneSlugs[tp.Slug] = g.terpenes[tp.ID]
	}
	for i := range records.Categories {
		cat := records.Categories[i]
		if _, dup := g.categories[cat.ID]; dup {
			report.warn(KindCategory, cat.ID, "id", "", "duplicate category id")
		}
		g.categories[cat.ID] = &cat
		g.categorySlugs[cat.Slug] = g.categories[cat.ID]
	}
	for i := range records.Offers {
		o := records.Offers[i]
		if _, dup := g.offers[o.ID]; dup {
			report.warn(KindOffer, o.ID, "id", "", "duplicate offer id")
		}
		g.offers[o.ID] = &o
	}
}

// reconcileBackRefs makes Strain.ProductIDs ↔ Product.StrainID (and the
// analogous brand, pharmacy, city and terpene pairs) mutually consistent.
// The forward reference on the child entity is the source of truth; the
// parent's list is rebuilt as the union, with a warning when the stored
// list disagreed.
func (g *Graph) reconcileBackRefs(report *Report) {
	strainProducts := make(map[string][]string)
	brandProducts := make(map[string][]string)
	for _, id := range sortedKeys(g.products) {
		p := g.products[id]
		if p.StrainID != "" {
			strainProducts[p.StrainID] = append(strainProducts[p.StrainID], p.ID)
		}
		if p.BrandID != "" {
			brandProducts[p.BrandID] = append(brandProducts[p.BrandID], p.ID)
		}
	}

	for _, id := range sortedKeys(g.strains) {
		s := g.strains[id]
		merged := unionOrdered(s.ProductIDs, strainProducts[s.ID])
		if len(merged) != len(s.ProductIDs) {
			report.warn(KindStrain, s.ID, "productIds", "", "product list reconciled with product.strainId back-references")
		}
		s.ProductIDs = merged
	}
	for _, id := range sortedKeys(g.brands) {
		b := g.brands[id]
		merged := unionOrdered(b.ProductIDs, brandProducts[b.ID])
		if len(merged) != len(b.ProductIDs) {
			report.warn(KindBrand, b.ID, "productIds", "", "product list reconciled with product.brandId back-references")
		}
		b.ProductIDs = merged
	}

	pharmacyOffers := make(map[string][]string)
	productOffers := make(map[string][]string)
	for _, id := range sortedKeys(g.offers) {
		o := g.offers[id]
		if o.PharmacyID != "" {
			pharmacyOffers[o.PharmacyID] = append(pharmacyOffers[o.PharmacyID], o.ID)
		}
		if o.ProductID != "" {
			productOffers[o.ProductID] = append(productOffers[o.ProductID], o.ID)
		}
	}
	for _, id := range sortedKeys(g.pharmacies) {
		ph := g.pharmacies[id]
		ph.OfferIDs = unionOrdered(ph.OfferIDs, pharmacyOffers[ph.ID])
	}
	for _, id := range sortedKeys(g.products) {
		p := g.products[id]
		p.OfferIDs = unionOrdered(p.OfferIDs, productOffers[p.ID])
	}

	cityPharmacies := make(map[string][]string)
	for _, id := range sortedKeys(g.pharmacies) {
		ph := g.pharmacies[id]
		if ph.CityID != "" {
			cityPharmacies[ph.CityID] = append(cityPharmacies[ph.CityID], ph.ID)
		}
	}
	for _, id := range sortedKeys(g.cities) {
		c := g.cities[id]
		c.PharmacyIDs = unionOrdered(c.PharmacyIDs, cityPharmacies[c.ID])
	}

	terpeneStrains := make(map[string][]string)
	for _, id := range sortedKeys(g.strains) {
		s := g.strains[id]
		for _, tid := range s.TerpeneIDs {
			terpeneStrains[tid] = append(terpeneStrains[tid], s.ID)
		}
	}
	for _, id := range sortedKeys(g.terpenes) {
		tp := g.terpenes[id]
		tp.StrainIDs = unionOrdered(tp.StrainIDs, terpeneStrains[tp.ID])
	}

	// Category product lists derive from the included forms.
	for _, id := range sortedKeys(g.categories) {
		cat := g.categories[id]
		var ids []string
		for _, pid := range sortedKeys(g.products) {
			p := g.products[pid]
			for _, f := range cat.Forms {
				if p.Form == f {
					ids = append(ids, p.ID)
					break
				}
			}
		}
		cat.ProductIDs = unionOrdered(cat.ProductIDs, ids)
	}
}

// buildIndices wires the reverse lookups, dropping dangling references
// with a warning. After this pass every reference list on an entity only
// contains IDs that resolve.
func (g *Graph) buildIndices(report *Report) {
	for _, id := range sortedKeys(g.products) {
		p := g.products[id]
		if p.StrainID != "" {
			if _, ok := g.strains[p.StrainID]; !ok {
				report.warn(KindProduct, p.ID, "strainId", p.StrainID, "references unknown strain")
				p.StrainID = ""
			}
		}
		if p.BrandID != "" {
			if _, ok := g.brands[p.BrandID]; !ok {
				report.warn(KindProduct, p.ID, "brandId", p.BrandID, "references unknown brand")
				p.BrandID = ""
			}
		}
		p.OfferIDs = g.keepOffers(KindProduct, p.ID, "offerIds", p.OfferIDs, report)
		p.Alternatives = g.keepAlternatives(p, report)
		if p.StrainID != "" {
			g.productsByStrain[p.StrainID] = append(g.productsByStrain[p.StrainID], p)
		}
		if p.BrandID != "" {
			g.productsByBrand[p.BrandID] = append(g.productsByBrand[p.BrandID], p)
		}
		g.productsByForm[p.Form] = append(g.productsByForm[p.Form], p)
	}

	for _, id := range sortedKeys(g.offers) {
		o := g.offers[id]
		if _, ok := g.products[o.ProductID]; ok {
			g.offersByProduct[o.ProductID] = append(g.offersByProduct[o.ProductID], o)
		}
		if _, ok := g.pharmacies[o.PharmacyID]; ok {
			g.offersByPharmacy[o.PharmacyID] = append(g.offersByPharmacy[o.PharmacyID], o)
		} else if o.PharmacyID != "" {
			report.warn(KindProduct, o.ID, "pharmacyId", o.PharmacyID, "offer references unknown pharmacy")
		}
	}

	for _, id := range sortedKeys(g.strains) {
		s := g.strains[id]
		s.ProductIDs = g.keepProducts(KindStrain, s.ID, "productIds", s.ProductIDs, report)
		s.ParentIDs = g.keepStrains(KindStrain, s.ID, "parentIds", s.ParentIDs, report)
		s.ChildIDs = g.keepStrains(KindStrain, s.ID, "childIds", s.ChildIDs, report)
		s.TerpeneIDs = g.keepTerpenes(s.ID, s.TerpeneIDs, report)
		s.Similar = g.keepSimilar(s, report)
		for _, tid := range s.TerpeneIDs {
			g.strainsByTerpene[tid] = append(g.strainsByTerpene[tid], s)
		}
	}

	for _, id := range sortedKeys(g.pharmacies) {
		ph := g.pharmacies[id]
		if ph.CityID != "" {
			if _, ok := g.cities[ph.CityID]; !ok {
				report.warn(KindPharmacy, ph.ID, "cityId", ph.CityID, "references unknown city")
				ph.CityID = ""
			}
		}
		ph.OfferIDs = g.keepOffers(KindPharmacy, ph.ID, "offerIds", ph.OfferIDs, report)
		if ph.CityID != "" {
			g.pharmaciesByCity[ph.CityID] = append(g.pharmaciesByCity[ph.CityID], ph)
		}
	}

	for _, id := range sortedKeys(g.cities) {
		c := g.cities[id]
		c.PharmacyIDs = g.keepPharmacies(KindCity, c.ID, "pharmacyIds", c.PharmacyIDs, report)
		c.NearbyCityIDs = g.keepCities(c.ID, c.NearbyCityIDs, report)
	}

	for _, id := range sortedKeys(g.brands) {
		b := g.brands[id]
		b.ProductIDs = g.keepProducts(KindBrand, b.ID, "productIds", b.ProductIDs, report)
	}

	for _, id := range sortedKeys(g.terpenes) {
		tp := g.terpenes[id]
		tp.StrainIDs = g.keepStrains(KindTerpene, tp.ID, "strainIds", tp.StrainIDs, report)
	}

	for _, id := range sortedKeys(g.categories) {
		cat := g.categories[id]
		cat.ProductIDs = g.keepProducts(KindCategory, cat.ID, "productIds", cat.ProductIDs, report)
	}
}

// computeAggregates recomputes every derived field from the surviving
// reference lists. This runs after index construction, so dangling
// references can no longer skew any count.
func (g *Graph) computeAggregates() {
	for _, p := range g.products {
		p.PriceStats = money.ComputeStats(g.productPrices(p))
		p.StockVolatility = stockVolatility(g.offersByProduct[p.ID])
	}

	for _, s := range g.strains {
		pharmacies := make(map[string]struct{})
		var prices []money.Cents
		for _, pid := range s.ProductIDs {
			for _, o := range g.offersByProduct[pid] {
				pharmacies[o.PharmacyID] = struct{}{}
				prices = append(prices, o.PriceCents)
			}
		}
		s.PharmacyCount = len(pharmacies)
		s.PriceStats = money.ComputeStats(prices)
	}

	// Global median price per gram, baseline for competitiveness scores.
	var globalPerGram []money.Cents
	for _, id := range sortedKeys(g.offers) {
		if o := g.offers[id]; o.Active && o.PricePerGramCents > 0 {
			globalPerGram = append(globalPerGram, o.PricePerGramCents)
		}
	}
	globalStats := money.ComputeStats(globalPerGram)

	for _, ph := range g.pharmacies {
		products := make(map[string]struct{})
		var perGram []money.Cents
		for _, o := range g.offersByPharmacy[ph.ID] {
			products[o.ProductID] = struct{}{}
			if o.Active && o.PricePerGramCents > 0 {
				perGram = append(perGram, o.PricePerGramCents)
			}
		}
		ph.ProductCount = len(products)
		ph.PriceCompetitiveness = competitiveness(money.ComputeStats(perGram), globalStats)
	}

	for _, c := range g.cities {
		c.PharmacyCount = len(c.PharmacyIDs)
		offerCount := 0
		var prices []money.Cents
		for _, phID := range c.PharmacyIDs {
			for _, o := range g.offersByPharmacy[phID] {
				offerCount++
				prices = append(prices, o.PriceCents)
			}
		}
		c.OfferCount = offerCount
		stats := money.ComputeStats(prices)
		c.PriceMinCents = stats.MinCents
		c.PriceMaxCents = stats.MaxCents
	}

	for _, b := range g.brands {
		b.ProductCount = len(b.ProductIDs)
	}

	for _, tp := range g.terpenes {
		tp.StrainCount = len(tp.StrainIDs)
	}

	for _, cat := range g.categories {
		cat.ProductCount = len(cat.ProductIDs)
		var prices []money.Cents
		for _, pid := range cat.ProductIDs {
			for _, o := range g.offersByProduct[pid] {
				prices = append(prices, o.PriceCents)
			}
		}
		stats := money.ComputeStats(prices)
		cat.PriceMinCents = stats.MinCents
		cat.PriceMaxCents = stats.MaxCents
	}
}

// productPrices collects the price sample for one product: current offer
// prices plus every historical price point. Historical points keep the
// gate meaningful for products that are temporarily unlisted.
func (g *Graph) productPrices(p *Product) []money.Cents {
	var prices []money.Cents
	for _, o := range g.offersByProduct[p.ID] {
		prices = append(prices, o.PriceCents)
		for _, h := range o.History {
			prices = append(prices, h.PriceCents)
		}
	}
	return prices
}

// stockVolatility measures how often a product's prices moved:
// the share of consecutive history pairs that changed, averaged over
// offers. 0 means fully stable, 1 means every sample moved.
func stockVolatility(offers []*Offer) float64 {
	sum := 0.0
	counted := 0
	for _, o := range offers {
		if len(o.History) < 2 {
			continue
		}
		changes := 0
		for i := 1; i < len(o.History); i++ {
			if o.History[i].PriceCents != o.History[i-1].PriceCents {
				changes++
			}
		}
		sum += float64(changes) / float64(len(o.History)-1)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

// competitiveness scores a pharmacy's median price per gram against the
// global median on a 0–100 scale: 50 at parity, higher when cheaper,
// clamped at ±50 for a ±50% deviation.
func competitiveness(local, global money.Stats) float64 {
	if local.SampleSize == 0 || global.SampleSize == 0 || global.MedianCents == 0 {
		return 50
	}
	deviation := float64(global.MedianCents-local.MedianCents) / float64(global.MedianCents)
	score := 50 + deviation*100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (g *Graph) computeStats() {
	active := 0
	for _, o := range g.offers {
		if o.Active {
			active++
		}
	}
	g.stats = Stats{
		Strains:      len(g.strains),
		Products:     len(g.products),
		Pharmacies:   len(g.pharmacies),
		Cities:       len(g.cities),
		Brands:       len(g.brands),
		Terpenes:     len(g.terpenes),
		Categories:   len(g.categories),
		Offers:       len(g.offers),
		ActiveOffers: active,
	}
}

// =============================================================================
// Reference Filtering Helpers
// =============================================================================

func (g *Graph) keepProducts(kind Kind, entityID, field string, ids []string, report *Report) []string {
	return keepExisting(ids, func(id string) bool { _, ok := g.products[id]; return ok },
		func(id string) { report.warn(kind, entityID, field, id, "references unknown product") })
}

func (g *Graph) keepStrains(kind Kind, entityID, field string, ids []string, report *Report) []string {
	return keepExisting(ids, func(id string) bool { _, ok := g.strains[id]; return ok },
		func(id string) { report.warn(kind, entityID, field, id, "references unknown strain") })
}

func (g *Graph) keepOffers(kind Kind, entityID, field string, ids []string, report *Report) []string {
	return keepExisting(ids, func(id string) bool { _, ok := g.offers[id]; return ok },
		func(id string) { report.warn(kind, entityID, field, id, "references unknown offer") })
}

func (g *Graph) keepPharmacies(kind Kind, entityID, field string, ids []string, report *Report) []string {
	return keepExisting(ids, func(id string) bool { _, ok := g.pharmacies[id]; return ok },
		func(id string) { report.warn(kind, entityID, field, id, "references unknown pharmacy") })
}

func (g *Graph) keepCities(entityID string, ids []string, report *Report) []string {
	return keepExisting(ids, func(id string) bool { _, ok := g.cities[id]; return ok },
		func(id string) { report.warn(KindCity, entityID, "nearbyCityIds", id, "references unknown city") })
}

func (g *Graph) keepTerpenes(entityID string, ids []string, report *Report) []string {
	return keepExisting(ids, func(id string) bool { _, ok := g.terpenes[id]; return ok },
		func(id string) { report.warn(KindStrain, entityID, "terpeneIds", id, "references unknown terpene") })
}

func (g *Graph) keepSimilar(s *Strain, report *Report) []SimilarStrain {
	var kept []SimilarStrain
	for _, sim := range s.Similar {
		if _, ok := g.strains[sim.StrainID]; !ok {
			report.warn(KindStrain, s.ID, "similar", sim.StrainID, "references unknown strain")
			continue
		}
		kept = append(kept, sim)
	}
	return kept
}

func (g *Graph) keepAlternatives(p *Product, report *Report) []Alternative {
	var kept []Alternative
	for _, alt := range p.Alternatives {
		if _, ok := g.products[alt.ProductID]; !ok {
			report.warn(KindProduct, p.ID, "alternatives", alt.ProductID, "references unknown product")
			continue
		}
		kept = append(kept, alt)
	}
	return kept
}

func keepExisting(ids []string, exists func(string) bool, onMissing func(string)) []string {
	var kept []string
	for _, id := range ids {
		if exists(id) {
			kept = append(kept, id)
		} else {
			onMissing(id)
		}
	}
	return kept
}

// unionOrdered merges two ID lists preserving first-seen order and
// dropping duplicates.
func unionOrdered(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// sortedKeys returns map keys in ascending order for deterministic passes.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
