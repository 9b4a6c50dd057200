package catalog

import (
	"github.com/blattwerk/blattwerk/pkg/money"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Kind identifies one of the closed set of entity types.
// Builders switch exhaustively over Kind; adding a type is a
// compile-time-visible change.
type Kind string

// Entity kinds.
const (
	KindStrain   Kind = "strain"
	KindProduct  Kind = "product"
	KindPharmacy Kind = "pharmacy"
	KindCity     Kind = "city"
	KindBrand    Kind = "brand"
	KindTerpene  Kind = "terpene"
	KindCategory Kind = "category"

	// KindOffer tags warnings about offer records. Offers have no
	// pages of their own, so it is absent from Kinds.
	KindOffer Kind = "offer"
)

// Kinds lists all entity kinds in canonical order.
var Kinds = []Kind{
	KindStrain, KindProduct, KindPharmacy, KindCity,
	KindBrand, KindTerpene, KindCategory,
}

// GeneticType classifies a strain's genetics.
type GeneticType string

// Genetic types.
const (
	GeneticIndica GeneticType = "indica"
	GeneticSativa GeneticType = "sativa"
	GeneticHybrid GeneticType = "hybrid"
)

// ProductForm is the dosage form of a product.
type ProductForm string

// Product forms.
const (
	FormFlower  ProductForm = "flower"
	FormExtract ProductForm = "extract"
	FormVape    ProductForm = "vape"
	FormRosin   ProductForm = "rosin"
	FormOil     ProductForm = "oil"
	FormCapsule ProductForm = "capsule"
)

// OfferStatus is the stock status of a pharmacy offer.
type OfferStatus string

// Offer statuses.
const (
	StatusInStock    OfferStatus = "in_stock"
	StatusLowStock   OfferStatus = "low_stock"
	StatusOutOfStock OfferStatus = "out_of_stock"
	StatusPreOrder   OfferStatus = "pre_order"
)

// SimilarityReason explains a weighted strain↔strain similarity edge.
type SimilarityReason string

// Similarity reasons.
const (
	SimSharedTerpene   SimilarityReason = "shared_terpene"
	SimSharedParent    SimilarityReason = "shared_parent"
	SimSameBreeder     SimilarityReason = "same_breeder"
	SimSimilarEffects  SimilarityReason = "similar_effects"
	SimSimilarTHC      SimilarityReason = "similar_thc_range"
	SimSameGeneticType SimilarityReason = "same_genetic_type"
)

// AlternativeReason explains a product→product alternative edge.
type AlternativeReason string

// Alternative reasons.
const (
	AltSameStrain      AlternativeReason = "same_strain"
	AltSimilarPotency  AlternativeReason = "similar_thc_cbd"
	AltSameBrand       AlternativeReason = "same_brand"
	AltSameForm        AlternativeReason = "same_form"
	AltComparablePrice AlternativeReason = "comparable_price"
)

// =============================================================================
// Shared Value Types
// =============================================================================

// Range is a numeric percentage interval; entities carry THC/CBD ranges
// constrained to [0,100] with Min <= Max.
type Range struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Genetics describes a strain's breeding background.
type Genetics struct {
	Type      GeneticType `json:"type" bson:"type"`
	Dominance string      `json:"dominance,omitempty" bson:"dominance,omitempty"`
	Breeder   string      `json:"breeder,omitempty" bson:"breeder,omitempty"`
	Lineage   []string    `json:"lineage,omitempty" bson:"lineage,omitempty"` // ancestor names, oldest first
}

// SimilarStrain is a weighted similarity edge to another strain.
type SimilarStrain struct {
	StrainID string             `json:"strainId" bson:"strain_id"`
	Weight   float64            `json:"weight" bson:"weight"`
	Reasons  []SimilarityReason `json:"reasons,omitempty" bson:"reasons,omitempty"`
}

// Alternative is a typed product→product alternative edge.
type Alternative struct {
	ProductID string            `json:"productId" bson:"product_id"`
	Reason    AlternativeReason `json:"reason" bson:"reason"`
}

// PricePoint is one entry in an offer's price history.
type PricePoint struct {
	Date       string      `json:"date" bson:"date"` // ISO date, e.g. "2026-07-01"
	PriceCents money.Cents `json:"priceCents" bson:"price_cents"`
}

// Address is a pharmacy's postal address.
type Address struct {
	Street     string `json:"street" bson:"street"`
	PostalCode string `json:"postalCode" bson:"postal_code"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
}

// Contact holds pharmacy contact channels.
type Contact struct {
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
	Website string `json:"website,omitempty" bson:"website,omitempty"`
}

// Delivery describes a pharmacy's fulfilment options.
type Delivery struct {
	Courier  bool   `json:"courier" bson:"courier"`
	Shipping bool   `json:"shipping" bson:"shipping"`
	Note     string `json:"note,omitempty" bson:"note,omitempty"`
}

// Geo is a WGS84 coordinate pair.
type Geo struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Rating is an aggregate review score.
type Rating struct {
	Value float64 `json:"value" bson:"value"`
	Count int     `json:"count" bson:"count"`
}

// =============================================================================
// Entities
// =============================================================================

// Strain is a cannabis cultivar.
//
// PharmacyCount and PriceStats are derived during Build and always equal
// a deterministic function of the strain's product/offer references.
type Strain struct {
	ID       string   `json:"id" bson:"id"`
	Slug     string   `json:"slug" bson:"slug"`
	Name     string   `json:"name" bson:"name"`
	Synonyms []string `json:"synonyms,omitempty" bson:"synonyms,omitempty"`

	THC *Range `json:"thc,omitempty" bson:"thc,omitempty"`
	CBD *Range `json:"cbd,omitempty" bson:"cbd,omitempty"`

	Genetics  Genetics        `json:"genetics" bson:"genetics"`
	ParentIDs []string        `json:"parentIds,omitempty" bson:"parent_ids,omitempty"`
	ChildIDs  []string        `json:"childIds,omitempty" bson:"child_ids,omitempty"`
	Similar   []SimilarStrain `json:"similar,omitempty" bson:"similar,omitempty"`

	TerpeneIDs []string `json:"terpeneIds,omitempty" bson:"terpene_ids,omitempty"` // ordered by prevalence
	Effects    []string `json:"effects,omitempty" bson:"effects,omitempty"`
	Flavors    []string `json:"flavors,omitempty" bson:"flavors,omitempty"`

	ProductIDs []string `json:"productIds,omitempty" bson:"product_ids,omitempty"`

	PharmacyCount int         `json:"pharmacyCount" bson:"pharmacy_count"` // derived
	PriceStats    money.Stats `json:"priceStats" bson:"price_stats"`       // derived
}

// Product is a purchasable catalog item (one PZN).
type Product struct {
	ID   string `json:"id" bson:"id"`
	Slug string `json:"slug" bson:"slug"`
	Name string `json:"name" bson:"name"`

	BrandID  string      `json:"brandId,omitempty" bson:"brand_id,omitempty"`
	StrainID string      `json:"strainId,omitempty" bson:"strain_id,omitempty"`
	Form     ProductForm `json:"form" bson:"form"`

	THCPercent *float64 `json:"thcPercent,omitempty" bson:"thc_percent,omitempty"`
	CBDPercent *float64 `json:"cbdPercent,omitempty" bson:"cbd_percent,omitempty"`

	PZN string `json:"pzn,omitempty" bson:"pzn,omitempty"` // pharmacy product number

	OfferIDs     []string      `json:"offerIds,omitempty" bson:"offer_ids,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty" bson:"alternatives,omitempty"`

	PriceStats      money.Stats `json:"priceStats" bson:"price_stats"`           // derived
	StockVolatility float64     `json:"stockVolatility" bson:"stock_volatility"` // derived, 0..1
}

// Offer is a product+pharmacy pair with a current price and history.
type Offer struct {
	ID         string `json:"id" bson:"id"`
	ProductID  string `json:"productId" bson:"product_id"`
	PharmacyID string `json:"pharmacyId" bson:"pharmacy_id"`

	PriceCents        money.Cents `json:"priceCents" bson:"price_cents"`
	PricePerGramCents money.Cents `json:"pricePerGramCents,omitempty" bson:"price_per_gram_cents,omitempty"`

	Status OfferStatus `json:"status" bson:"status"`
	Active bool        `json:"active" bson:"active"`

	History []PricePoint `json:"history,omitempty" bson:"history,omitempty"`

	URL string `json:"url,omitempty" bson:"url,omitempty"` // outbound partner URL
}

// Pharmacy is a dispensing pharmacy.
type Pharmacy struct {
	ID   string `json:"id" bson:"id"`
	Slug string `json:"slug" bson:"slug"`
	Name string `json:"name" bson:"name"`

	Address  Address  `json:"address" bson:"address"`
	Contact  Contact  `json:"contact" bson:"contact"`
	Delivery Delivery `json:"delivery" bson:"delivery"`

	Geo          *Geo              `json:"geo,omitempty" bson:"geo,omitempty"`
	OpeningHours map[string]string `json:"openingHours,omitempty" bson:"opening_hours,omitempty"` // day → "HH:MM-HH:MM"
	Rating       *Rating           `json:"rating,omitempty" bson:"rating,omitempty"`

	CityID   string   `json:"cityId,omitempty" bson:"city_id,omitempty"`
	OfferIDs []string `json:"offerIds,omitempty" bson:"offer_ids,omitempty"`

	ProductCount         int     `json:"productCount" bson:"product_count"`                 // derived
	PriceCompetitiveness float64 `json:"priceCompetitiveness" bson:"price_competitiveness"` // derived, 0..100
}

// City groups pharmacies geographically.
type City struct {
	ID    string `json:"id" bson:"id"`
	Slug  string `json:"slug" bson:"slug"`
	Name  string `json:"name" bson:"name"`
	State string `json:"state,omitempty" bson:"state,omitempty"`

	PharmacyIDs   []string `json:"pharmacyIds,omitempty" bson:"pharmacy_ids,omitempty"`
	NearbyCityIDs []string `json:"nearbyCityIds,omitempty" bson:"nearby_city_ids,omitempty"`

	PharmacyCount int         `json:"pharmacyCount" bson:"pharmacy_count"`  // derived
	OfferCount    int         `json:"offerCount" bson:"offer_count"`        // derived
	PriceMinCents money.Cents `json:"priceMinCents" bson:"price_min_cents"` // derived
	PriceMaxCents money.Cents `json:"priceMaxCents" bson:"price_max_cents"` // derived
}

// Brand is a product manufacturer or importer.
type Brand struct {
	ID   string `json:"id" bson:"id"`
	Slug string `json:"slug" bson:"slug"`
	Name string `json:"name" bson:"name"`

	ProductIDs []string `json:"productIds,omitempty" bson:"product_ids,omitempty"`

	ProductCount int `json:"productCount" bson:"product_count"` // derived
}

// Terpene is an aromatic compound linked to strains.
type Terpene struct {
	ID     string `json:"id" bson:"id"`
	Slug   string `json:"slug" bson:"slug"`
	NameDE string `json:"nameDe" bson:"name_de"`
	NameEN string `json:"nameEn,omitempty" bson:"name_en,omitempty"`

	Aroma   string   `json:"aroma,omitempty" bson:"aroma,omitempty"`
	Effects []string `json:"effects,omitempty" bson:"effects,omitempty"`

	StrainIDs []string `json:"strainIds,omitempty" bson:"strain_ids,omitempty"`

	StrainCount int `json:"strainCount" bson:"strain_count"` // derived
}

// Name returns the terpene's display name, preferring the German one.
func (t *Terpene) Name() string {
	if t.NameDE != "" {
		return t.NameDE
	}
	return t.NameEN
}

// Category is a product grouping over one or more forms. A facet (a
// filtered view of the category) is only indexable when its slug appears
// in CuratedFacets; everything else canonicalizes to the category page.
type Category struct {
	ID   string `json:"id" bson:"id"`
	Slug string `json:"slug" bson:"slug"`
	Name string `json:"name" bson:"name"`

	Forms         []ProductForm `json:"forms,omitempty" bson:"forms,omitempty"`
	ProductIDs    []string      `json:"productIds,omitempty" bson:"product_ids,omitempty"`
	CuratedFacets []string      `json:"curatedFacets,omitempty" bson:"curated_facets,omitempty"`

	ProductCount  int         `json:"productCount" bson:"product_count"`    // derived
	PriceMinCents money.Cents `json:"priceMinCents" bson:"price_min_cents"` // derived
	PriceMaxCents money.Cents `json:"priceMaxCents" bson:"price_max_cents"` // derived
}

// IsCuratedFacet reports whether facet is in the curated list.
func (c *Category) IsCuratedFacet(facet string) bool {
	for _, f := range c.CuratedFacets {
		if f == facet {
			return true
		}
	}
	return false
}

// =============================================================================
// Records - Raw Snapshot Input
// =============================================================================

// Records is the raw entity set handed to Build by a snapshot source.
// Derived fields on the records are ignored; Build recomputes every
// aggregate from the reference lists.
type Records struct {
	Strains    []Strain   `json:"strains" bson:"strains"`
	Products   []Product  `json:"products" bson:"products"`
	Pharmacies []Pharmacy `json:"pharmacies" bson:"pharmacies"`
	Cities     []City     `json:"cities" bson:"cities"`
	Brands     []Brand    `json:"brands" bson:"brands"`
	Terpenes   []Terpene  `json:"terpenes" bson:"terpenes"`
	Categories []Category `json:"categories" bson:"categories"`
	Offers     []Offer    `json:"offers" bson:"offers"`
}
