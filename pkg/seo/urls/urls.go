// Package urls maps entities to their canonical routes.
//
// The site uses German path segments ("/sorten/blue-dream"). Canonical
// URLs are always absolute; relative paths only appear in internal link
// payloads where the rendering layer controls the host.
package urls

import (
	"strings"

	"github.com/blattwerk/blattwerk/pkg/catalog"
)

// Path segments per entity kind.
const (
	SegmentStrains    = "sorten"
	SegmentProducts   = "produkte"
	SegmentPharmacies = "apotheken"
	SegmentCities     = "staedte"
	SegmentBrands     = "marken"
	SegmentTerpenes   = "terpene"
	SegmentCategories = "kategorien"
)

// segments maps each kind to its route segment. Exhaustive over the
// closed entity set; an unknown kind yields the empty string.
var segments = map[catalog.Kind]string{
	catalog.KindStrain:   SegmentStrains,
	catalog.KindProduct:  SegmentProducts,
	catalog.KindPharmacy: SegmentPharmacies,
	catalog.KindCity:     SegmentCities,
	catalog.KindBrand:    SegmentBrands,
	catalog.KindTerpene:  SegmentTerpenes,
	catalog.KindCategory: SegmentCategories,
}

// Segment returns the route segment for a kind ("sorten" for strains).
func Segment(kind catalog.Kind) string { return segments[kind] }

// Path returns the site-relative path for an entity page, e.g.
// "/sorten/blue-dream".
func Path(kind catalog.Kind, slug string) string {
	return "/" + segments[kind] + "/" + slug
}

// HubPath returns the site-relative path for a kind's hub listing,
// e.g. "/sorten".
func HubPath(kind catalog.Kind) string {
	return "/" + segments[kind]
}

// FacetPath returns the path of a category facet view,
// e.g. "/kategorien/blueten/hoher-thc-gehalt".
func FacetPath(categorySlug, facetSlug string) string {
	return "/" + SegmentCategories + "/" + categorySlug + "/" + facetSlug
}

// Absolute joins a base URL and a site-relative path. Trailing slashes
// on the base are tolerated.
func Absolute(baseURL, path string) string {
	return strings.TrimSuffix(baseURL, "/") + path
}

// Canonical returns the absolute canonical URL of an entity page.
func Canonical(baseURL string, kind catalog.Kind, slug string) string {
	return Absolute(baseURL, Path(kind, slug))
}
