// Package schema produces schema.org structured-data objects per page.
//
// Every page's object list starts with a breadcrumb list; entity-
// specific objects follow (product offers, local business, item lists).
// Multiple objects can be combined into one @graph payload, where each
// embedded object loses its individual @context marker.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/money"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
)

// Context is the schema.org vocabulary marker.
const Context = "https://schema.org"

// Object is one structured-data object. Implementations are the closed
// set of schema types this engine emits.
type Object interface {
	// withoutContext returns a copy with the @context marker cleared,
	// used when embedding into a @graph.
	withoutContext() Object
}

// =============================================================================
// Breadcrumbs
// =============================================================================

// Crumb is one step of a page's breadcrumb path.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"` // site-relative
}

// ListItem is a positioned entry of a BreadcrumbList or ItemList.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// BreadcrumbList is the navigation trail object, always first on a page.
type BreadcrumbList struct {
	ContextURL string     `json:"@context,omitempty"`
	Type       string     `json:"@type"`
	Elements   []ListItem `json:"itemListElement"`
}

func (b BreadcrumbList) withoutContext() Object {
	b.ContextURL = ""
	return b
}

// Breadcrumbs builds a BreadcrumbList from an ordered path. Positions
// are sequential starting at 1 regardless of path length.
func Breadcrumbs(baseURL string, path []Crumb) BreadcrumbList {
	elements := make([]ListItem, len(path))
	for i, c := range path {
		elements[i] = ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     urls.Absolute(baseURL, c.Path),
		}
	}
	return BreadcrumbList{ContextURL: Context, Type: "BreadcrumbList", Elements: elements}
}

// =============================================================================
// Product
// =============================================================================

// BrandRef is the nested brand of a product object.
type BrandRef struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OfferObject is one pharmacy offer under a product object.
type OfferObject struct {
	Type          string `json:"@type"`
	Price         string `json:"price"` // decimal currency string
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability"`
	URL           string `json:"url,omitempty"`
	Seller        *Org   `json:"seller,omitempty"`
}

// Org is a nested organization reference.
type Org struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// ProductObject is the product structured-data object.
type ProductObject struct {
	ContextURL  string        `json:"@context,omitempty"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Brand       *BrandRef     `json:"brand,omitempty"`
	SKU         string        `json:"sku,omitempty"`
	GTIN        string        `json:"gtin,omitempty"`
	Offers      []OfferObject `json:"offers,omitempty"`
}

func (p ProductObject) withoutContext() Object {
	p.ContextURL = ""
	return p
}

// availability maps offer status to the schema.org item-availability
// vocabulary. The mapping table is fixed.
var availability = map[catalog.OfferStatus]string{
	catalog.StatusInStock:    Context + "/InStock",
	catalog.StatusLowStock:   Context + "/LimitedAvailability",
	catalog.StatusOutOfStock: Context + "/OutOfStock",
	catalog.StatusPreOrder:   Context + "/PreOrder",
}

// Availability returns the schema.org availability URL for a status.
// Unknown statuses fall back to OutOfStock.
func Availability(status catalog.OfferStatus) string {
	if v, ok := availability[status]; ok {
		return v
	}
	return Context + "/OutOfStock"
}

// Product builds the product object with its offer sub-objects. The
// SKU/GTIN come from the pharmacy product number when present, and the
// description is derived from the product's specs.
func Product(g *catalog.Graph, p *catalog.Product) ProductObject {
	obj := ProductObject{
		ContextURL:  Context,
		Type:        "Product",
		Name:        p.Name,
		Description: productDescription(g, p),
		SKU:         p.PZN,
		GTIN:        p.PZN,
	}
	if br := g.BrandByID(p.BrandID); br != nil {
		obj.Brand = &BrandRef{Type: "Brand", Name: br.Name}
	}
	for _, o := range g.OffersByProduct(p.ID) {
		offer := OfferObject{
			Type:          "Offer",
			Price:         money.FormatDecimal(o.PriceCents),
			PriceCurrency: "EUR",
			Availability:  Availability(o.Status),
			URL:           o.URL,
		}
		if ph := g.PharmacyByID(o.PharmacyID); ph != nil {
			offer.Seller = &Org{Type: "Pharmacy", Name: ph.Name}
		}
		obj.Offers = append(obj.Offers, offer)
	}
	return obj
}

// productDescription derives a short spec line: form, potency, strain.
func productDescription(g *catalog.Graph, p *catalog.Product) string {
	var parts []string
	if label := formLabel(p.Form); label != "" {
		parts = append(parts, label)
	}
	if p.THCPercent != nil {
		parts = append(parts, fmt.Sprintf("THC %.1f%%", *p.THCPercent))
	}
	if p.CBDPercent != nil {
		parts = append(parts, fmt.Sprintf("CBD %.1f%%", *p.CBDPercent))
	}
	if s := g.StrainByID(p.StrainID); s != nil {
		parts = append(parts, "Sorte "+s.Name)
	}
	return strings.Join(parts, ", ")
}

func formLabel(form catalog.ProductForm) string {
	switch form {
	case catalog.FormFlower:
		return "Cannabisblüte"
	case catalog.FormExtract:
		return "Extrakt"
	case catalog.FormVape:
		return "Vape"
	case catalog.FormRosin:
		return "Rosin"
	case catalog.FormOil:
		return "Öl"
	case catalog.FormCapsule:
		return "Kapsel"
	}
	return ""
}

// =============================================================================
// Local Business (Pharmacy)
// =============================================================================

// PostalAddress is the nested address of a local-business object.
type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

// GeoCoordinates is the nested coordinate pair.
type GeoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OpeningHoursSpec is one parsed day entry.
type OpeningHoursSpec struct {
	Type      string `json:"@type"`
	DayOfWeek string `json:"dayOfWeek"`
	Opens     string `json:"opens"`
	Closes    string `json:"closes"`
}

// AggregateRating is the nested review aggregate.
type AggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
}

// LocalBusinessObject is the pharmacy structured-data object.
type LocalBusinessObject struct {
	ContextURL   string             `json:"@context,omitempty"`
	Type         string             `json:"@type"`
	Name         string             `json:"name"`
	Address      PostalAddress      `json:"address"`
	Geo          *GeoCoordinates    `json:"geo,omitempty"`
	Telephone    string             `json:"telephone,omitempty"`
	URL          string             `json:"url,omitempty"`
	OpeningHours []OpeningHoursSpec `json:"openingHoursSpecification,omitempty"`
	Rating       *AggregateRating   `json:"aggregateRating,omitempty"`
}

func (l LocalBusinessObject) withoutContext() Object {
	l.ContextURL = ""
	return l
}

// weekdays maps lowercase day keys to schema.org day names, in week
// order for deterministic output.
var weekdays = []struct{ key, name string }{
	{"monday", "Monday"},
	{"tuesday", "Tuesday"},
	{"wednesday", "Wednesday"},
	{"thursday", "Thursday"},
	{"friday", "Friday"},
	{"saturday", "Saturday"},
	{"sunday", "Sunday"},
}

// LocalBusiness builds the pharmacy object. Days with missing or
// malformed opening ranges are skipped.
func LocalBusiness(ph *catalog.Pharmacy) LocalBusinessObject {
	obj := LocalBusinessObject{
		ContextURL: Context,
		Type:       "Pharmacy",
		Name:       ph.Name,
		Address: PostalAddress{
			Type:            "PostalAddress",
			StreetAddress:   ph.Address.Street,
			PostalCode:      ph.Address.PostalCode,
			AddressLocality: ph.Address.City,
			AddressRegion:   ph.Address.State,
			AddressCountry:  "DE",
		},
		Telephone: ph.Contact.Phone,
		URL:       ph.Contact.Website,
	}
	if ph.Geo != nil {
		obj.Geo = &GeoCoordinates{Type: "GeoCoordinates", Latitude: ph.Geo.Lat, Longitude: ph.Geo.Lng}
	}
	for _, day := range weekdays {
		raw, ok := ph.OpeningHours[day.key]
		if !ok {
			continue
		}
		opens, closes, valid := parseHours(raw)
		if !valid {
			continue
		}
		obj.OpeningHours = append(obj.OpeningHours, OpeningHoursSpec{
			Type: "OpeningHoursSpecification", DayOfWeek: day.name, Opens: opens, Closes: closes,
		})
	}
	if ph.Rating != nil && ph.Rating.Count > 0 {
		obj.Rating = &AggregateRating{Type: "AggregateRating", RatingValue: ph.Rating.Value, ReviewCount: ph.Rating.Count}
	}
	return obj
}

// parseHours splits "HH:MM-HH:MM" and validates both clock values.
func parseHours(raw string) (opens, closes string, ok bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return "", "", false
	}
	if !validClock(parts[0]) || !validClock(parts[1]) {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	return h < 24 && m < 60
}

// =============================================================================
// Item List
// =============================================================================

// MaxItemListEntries caps item-list objects.
const MaxItemListEntries = 20

// ItemListObject enumerates a page's top associated entities.
type ItemListObject struct {
	ContextURL string     `json:"@context,omitempty"`
	Type       string     `json:"@type"`
	Name       string     `json:"name,omitempty"`
	Elements   []ListItem `json:"itemListElement"`
}

func (l ItemListObject) withoutContext() Object {
	l.ContextURL = ""
	return l
}

// Entry is one input row of an item list, in pre-sorted order.
type Entry struct {
	Name string
	Path string // site-relative
}

// ItemList builds an item-list object over at most MaxItemListEntries
// entries, preserving input order as position.
func ItemList(baseURL, name string, entries []Entry) ItemListObject {
	if len(entries) > MaxItemListEntries {
		entries = entries[:MaxItemListEntries]
	}
	elements := make([]ListItem, len(entries))
	for i, e := range entries {
		elements[i] = ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     e.Name,
			Item:     urls.Absolute(baseURL, e.Path),
		}
	}
	return ItemListObject{ContextURL: Context, Type: "ItemList", Name: name, Elements: elements}
}

// =============================================================================
// Graph Combining
// =============================================================================

// GraphPayload wraps multiple objects into one @graph document.
type GraphPayload struct {
	ContextURL string   `json:"@context"`
	Graph      []Object `json:"@graph"`
}

// Combine merges a page's objects into a single embeddable payload.
// One object is returned as-is with its own context; several become a
// @graph whose members carry no individual context marker.
func Combine(objects []Object) any {
	switch len(objects) {
	case 0:
		return nil
	case 1:
		return objects[0]
	}
	stripped := make([]Object, len(objects))
	for i, o := range objects {
		stripped[i] = o.withoutContext()
	}
	return GraphPayload{ContextURL: Context, Graph: stripped}
}

// SortedDayKeys exposes the canonical weekday key order, used by
// callers that render opening hours outside structured data.
func SortedDayKeys(hours map[string]string) []string {
	var keys []string
	for _, day := range weekdays {
		if _, ok := hours[day.key]; ok {
			keys = append(keys, day.key)
		}
	}
	// Unknown keys trail in lexical order so nothing silently vanishes.
	var extra []string
	for k := range hours {
		known := false
		for _, day := range weekdays {
			if day.key == k {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
