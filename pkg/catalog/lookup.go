package catalog

// =============================================================================
// Lookups - O(1) ID and Slug Access
// =============================================================================

// StrainByID returns the strain with the given ID, or nil.
func (g *Graph) StrainByID(id string) *Strain { return g.strains[id] }

// StrainBySlug returns the strain with the given slug, or nil.
func (g *Graph) StrainBySlug(slug string) *Strain { return g.strainSlugs[slug] }

// ProductByID returns the product with the given ID, or nil.
func (g *Graph) ProductByID(id string) *Product { return g.products[id] }

// ProductBySlug returns the product with the given slug, or nil.
func (g *Graph) ProductBySlug(slug string) *Product { return g.productSlugs[slug] }

// PharmacyByID returns the pharmacy with the given ID, or nil.
func (g *Graph) PharmacyByID(id string) *Pharmacy { return g.pharmacies[id] }

// PharmacyBySlug returns the pharmacy with the given slug, or nil.
func (g *Graph) PharmacyBySlug(slug string) *Pharmacy { return g.pharmacySlugs[slug] }

// CityByID returns the city with the given ID, or nil.
func (g *Graph) CityByID(id string) *City { return g.cities[id] }

// CityBySlug returns the city with the given slug, or nil.
func (g *Graph) CityBySlug(slug string) *City { return g.citySlugs[slug] }

// BrandByID returns the brand with the given ID, or nil.
func (g *Graph) BrandByID(id string) *Brand { return g.brands[id] }

// BrandBySlug returns the brand with the given slug, or nil.
func (g *Graph) BrandBySlug(slug string) *Brand { return g.brandSlugs[slug] }

// TerpeneByID returns the terpene with the given ID, or nil.
func (g *Graph) TerpeneByID(id string) *Terpene { return g.terpenes[id] }

// TerpeneBySlug returns the terpene with the given slug, or nil.
func (g *Graph) TerpeneBySlug(slug string) *Terpene { return g.terpeneSlugs[slug] }

// CategoryByID returns the category with the given ID, or nil.
func (g *Graph) CategoryByID(id string) *Category { return g.categories[id] }

// CategoryBySlug returns the category with the given slug, or nil.
func (g *Graph) CategoryBySlug(slug string) *Category { return g.categorySlugs[slug] }

// OfferByID returns the offer with the given ID, or nil.
func (g *Graph) OfferByID(id string) *Offer { return g.offers[id] }

// =============================================================================
// Iteration - Deterministic Order
// =============================================================================

// Strains returns all strains ordered by ID.
func (g *Graph) Strains() []*Strain {
	out := make([]*Strain, 0, len(g.strains))
	for _, id := range sortedKeys(g.strains) {
		out = append(out, g.strains[id])
	}
	return out
}

// Products returns all products ordered by ID.
func (g *Graph) Products() []*Product {
	out := make([]*Product, 0, len(g.products))
	for _, id := range sortedKeys(g.products) {
		out = append(out, g.products[id])
	}
	return out
}

// Pharmacies returns all pharmacies ordered by ID.
func (g *Graph) Pharmacies() []*Pharmacy {
	out := make([]*Pharmacy, 0, len(g.pharmacies))
	for _, id := range sortedKeys(g.pharmacies) {
		out = append(out, g.pharmacies[id])
	}
	return out
}

// Cities returns all cities ordered by ID.
func (g *Graph) Cities() []*City {
	out := make([]*City, 0, len(g.cities))
	for _, id := range sortedKeys(g.cities) {
		out = append(out, g.cities[id])
	}
	return out
}

// Brands returns all brands ordered by ID.
func (g *Graph) Brands() []*Brand {
	out := make([]*Brand, 0, len(g.brands))
	for _, id := range sortedKeys(g.brands) {
		out = append(out, g.brands[id])
	}
	return out
}

// Terpenes returns all terpenes ordered by ID.
func (g *Graph) Terpenes() []*Terpene {
	out := make([]*Terpene, 0, len(g.terpenes))
	for _, id := range sortedKeys(g.terpenes) {
		out = append(out, g.terpenes[id])
	}
	return out
}

// Categories returns all categories ordered by ID.
func (g *Graph) Categories() []*Category {
	out := make([]*Category, 0, len(g.categories))
	for _, id := range sortedKeys(g.categories) {
		out = append(out, g.categories[id])
	}
	return out
}

// Offers returns all offers ordered by ID.
func (g *Graph) Offers() []*Offer {
	out := make([]*Offer, 0, len(g.offers))
	for _, id := range sortedKeys(g.offers) {
		out = append(out, g.offers[id])
	}
	return out
}

// =============================================================================
// Reverse Indices
// =============================================================================

// ProductsByStrain returns the products linked to a strain ID.
func (g *Graph) ProductsByStrain(strainID string) []*Product { return g.productsByStrain[strainID] }

// ProductsByBrand returns the products linked to a brand ID.
func (g *Graph) ProductsByBrand(brandID string) []*Product { return g.productsByBrand[brandID] }

// ProductsByForm returns the products of one dosage form.
func (g *Graph) ProductsByForm(form ProductForm) []*Product { return g.productsByForm[form] }

// OffersByProduct returns the offers for a product ID.
func (g *Graph) OffersByProduct(productID string) []*Offer { return g.offersByProduct[productID] }

// OffersByPharmacy returns the offers placed by a pharmacy ID.
func (g *Graph) OffersByPharmacy(pharmacyID string) []*Offer { return g.offersByPharmacy[pharmacyID] }

// PharmaciesByCity returns the pharmacies located in a city ID.
func (g *Graph) PharmaciesByCity(cityID string) []*Pharmacy { return g.pharmaciesByCity[cityID] }

// StrainsByTerpene returns the strains carrying a terpene ID.
func (g *Graph) StrainsByTerpene(terpeneID string) []*Strain { return g.strainsByTerpene[terpeneID] }

// ActiveOffersByProduct returns only the active offers for a product.
func (g *Graph) ActiveOffersByProduct(productID string) []*Offer {
	var out []*Offer
	for _, o := range g.offersByProduct[productID] {
		if o.Active {
			out = append(out, o)
		}
	}
	return out
}

// ActiveOfferCountByCity counts active offers across a city's pharmacies.
func (g *Graph) ActiveOfferCountByCity(cityID string) int {
	c := g.cities[cityID]
	if c == nil {
		return 0
	}
	count := 0
	for _, phID := range c.PharmacyIDs {
		for _, o := range g.offersByPharmacy[phID] {
			if o.Active {
				count++
			}
		}
	}
	return count
}

// Stats returns the aggregate totals computed at construction.
func (g *Graph) Stats() Stats { return g.stats }
