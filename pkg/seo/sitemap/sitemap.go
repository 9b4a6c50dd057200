// Package sitemap shards indexable page URLs into size-bounded XML
// sitemap files, plus a sitemap index and a robots directive document.
//
// Per entity type the URLs are collected in a stable policy order
// (content-rich pages first), then split into chunks of at most
// MaxPerFile entries. A single chunk keeps the plain file name; several
// chunks get numeric suffixes in emission order.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/seo/gate"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
)

// DefaultMaxPerFile is the URL cap per sitemap file.
const DefaultMaxPerFile = 10000

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is one sitemap entry.
type URL struct {
	Loc        string `xml:"loc" json:"loc"`
	LastMod    string `xml:"lastmod,omitempty" json:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty" json:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty" json:"priority,omitempty"`
}

// File is one rendered sitemap shard.
type File struct {
	Name string `json:"name"`
	URLs []URL  `json:"urls"`
}

// Set is the full sitemap output of one generation run.
type Set struct {
	Files  []File `json:"files"`
	Index  File   `json:"-"`
	Robots string `json:"-"`

	IndexXML []byte `json:"-"`
}

// FileByName returns the shard with the given file name, or nil.
func (s *Set) FileByName(name string) *File {
	for i := range s.Files {
		if s.Files[i].Name == name {
			return &s.Files[i]
		}
	}
	return nil
}

// ShardPath returns the site-relative path a named shard is served
// from. The index references shards through this path, so writers and
// servers must place them accordingly.
func ShardPath(name string) string {
	return "/sitemaps/" + name
}

// Options configures a Generator. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	MaxPerFile int
	Thresholds gate.Thresholds
	Now        func() time.Time
}

// Generator produces the sitemap set for one immutable graph snapshot.
type Generator struct {
	graph      *catalog.Graph
	gate       gate.Thresholds
	baseURL    string
	maxPerFile int
	now        func() time.Time
}

// New builds a Generator. Now is injectable so lastmod values are
// deterministic under test.
func New(g *catalog.Graph, opts Options) *Generator {
	if opts.MaxPerFile <= 0 {
		opts.MaxPerFile = DefaultMaxPerFile
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Thresholds == (gate.Thresholds{}) {
		opts.Thresholds = gate.Defaults()
	}
	return &Generator{
		graph:      g,
		gate:       opts.Thresholds,
		baseURL:    opts.BaseURL,
		maxPerFile: opts.MaxPerFile,
		now:        opts.Now,
	}
}

// =============================================================================
// Generation
// =============================================================================

// Generate collects all indexable URLs per entity type, shards them,
// and renders the index plus robots document.
func (gen *Generator) Generate() (*Set, error) {
	lastmod := gen.now().UTC().Format("2006-01-02")

	groups := []struct {
		name string
		urls []URL
	}{
		{"seiten", gen.staticPages(lastmod)},
		{urls.Segment(catalog.KindStrain), gen.strainURLs(lastmod)},
		{urls.Segment(catalog.KindProduct), gen.productURLs(lastmod)},
		{urls.Segment(catalog.KindCity), gen.cityURLs(lastmod)},
		{urls.Segment(catalog.KindPharmacy), gen.pharmacyURLs(lastmod)},
		{urls.Segment(catalog.KindBrand), gen.brandURLs(lastmod)},
		{urls.Segment(catalog.KindTerpene), gen.terpeneURLs(lastmod)},
		{urls.Segment(catalog.KindCategory), gen.categoryURLs(lastmod)},
	}

	set := &Set{}
	for _, grp := range groups {
		if len(grp.urls) == 0 {
			continue
		}
		set.Files = append(set.Files, chunk(grp.name, grp.urls, gen.maxPerFile)...)
	}

	set.Index = File{Name: "sitemap.xml"}
	index := siteindex{Xmlns: xmlns}
	for _, f := range set.Files {
		// Shards live under /sitemaps/, matching where the artifact
		// writer and the preview server place them.
		index.Sitemaps = append(index.Sitemaps, indexEntry{
			Loc:     urls.Absolute(gen.baseURL, ShardPath(f.Name)),
			LastMod: lastmod,
		})
	}
	raw, err := renderXML(index)
	if err != nil {
		return nil, err
	}
	set.IndexXML = raw
	set.Robots = gen.robots()
	return set, nil
}

// chunk splits urls into files of at most max entries. One chunk keeps
// the plain name; several get -1, -2, ... suffixes.
func chunk(name string, entries []URL, max int) []File {
	if len(entries) <= max {
		return []File{{Name: fmt.Sprintf("sitemap-%s.xml", name), URLs: entries}}
	}
	var files []File
	for i := 0; i < len(entries); i += max {
		end := i + max
		if end > len(entries) {
			end = len(entries)
		}
		files = append(files, File{
			Name: fmt.Sprintf("sitemap-%s-%d.xml", name, len(files)+1),
			URLs: entries[i:end],
		})
	}
	return files
}

// =============================================================================
// Per-Type Collection
// =============================================================================

func (gen *Generator) staticPages(lastmod string) []URL {
	out := []URL{{
		Loc: urls.Absolute(gen.baseURL, "/"), LastMod: lastmod,
		ChangeFreq: "daily", Priority: "1.0",
	}}
	for _, kind := range catalog.Kinds {
		out = append(out, URL{
			Loc: urls.Absolute(gen.baseURL, urls.HubPath(kind)), LastMod: lastmod,
			ChangeFreq: "daily", Priority: "0.8",
		})
	}
	return out
}

func (gen *Generator) strainURLs(lastmod string) []URL {
	strains := gen.graph.Strains()
	sort.SliceStable(strains, func(i, j int) bool {
		pi, pj := len(strains[i].ProductIDs), len(strains[j].ProductIDs)
		if pi != pj {
			return pi > pj
		}
		return strains[i].Slug < strains[j].Slug
	})
	var out []URL
	for _, s := range strains {
		if !gen.gate.Strain(s).ShouldIndex {
			continue
		}
		out = append(out, URL{
			Loc:        urls.Canonical(gen.baseURL, catalog.KindStrain, s.Slug),
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   richness(len(s.ProductIDs)),
		})
	}
	return out
}

func (gen *Generator) productURLs(lastmod string) []URL {
	products := gen.graph.Products()
	inStock := func(p *catalog.Product) bool {
		return len(gen.graph.ActiveOffersByProduct(p.ID)) > 0
	}
	sort.SliceStable(products, func(i, j int) bool {
		si, sj := inStock(products[i]), inStock(products[j])
		if si != sj {
			return si
		}
		return products[i].Slug < products[j].Slug
	})
	var out []URL
	for _, p := range products {
		if !gen.gate.Product(gen.graph, p).ShouldIndex {
			continue
		}
		freq, prio := "weekly", "0.6"
		if inStock(p) {
			freq, prio = "daily", "0.8"
		}
		out = append(out, URL{
			Loc:        urls.Canonical(gen.baseURL, catalog.KindProduct, p.Slug),
			LastMod:    lastmod,
			ChangeFreq: freq,
			Priority:   prio,
		})
	}
	return out
}

func (gen *Generator) cityURLs(lastmod string) []URL {
	cities := gen.graph.Cities()
	sort.SliceStable(cities, func(i, j int) bool {
		pi, pj := cities[i].PharmacyCount, cities[j].PharmacyCount
		if pi != pj {
			return pi > pj
		}
		return cities[i].Slug < cities[j].Slug
	})
	var out []URL
	for _, c := range cities {
		if !gen.gate.City(gen.graph, c).ShouldIndex {
			continue
		}
		out = append(out, URL{
			Loc:        urls.Canonical(gen.baseURL, catalog.KindCity, c.Slug),
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   richness(c.PharmacyCount),
		})
	}
	return out
}

func (gen *Generator) pharmacyURLs(lastmod string) []URL {
	pharmacies := gen.graph.Pharmacies()
	sort.SliceStable(pharmacies, func(i, j int) bool {
		pi, pj := pharmacies[i].ProductCount, pharmacies[j].ProductCount
		if pi != pj {
			return pi > pj
		}
		return pharmacies[i].Slug < pharmacies[j].Slug
	})
	var out []URL
	for _, ph := range pharmacies {
		if !gen.gate.Pharmacy(ph).ShouldIndex {
			continue
		}
		out = append(out, URL{
			Loc:        urls.Canonical(gen.baseURL, catalog.KindPharmacy, ph.Slug),
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   richness(ph.ProductCount),
		})
	}
	return out
}

// brandURLs lists brands with enough products to warrant a sitemap
// entry, richest first.
func (gen *Generator) brandURLs(lastmod string) []URL {
	brands := gen.graph.Brands()
	sort.SliceStable(brands, func(i, j int) bool {
		pi, pj := len(brands[i].ProductIDs), len(brands[j].ProductIDs)
		if pi != pj {
			return pi > pj
		}
		return brands[i].Slug < brands[j].Slug
	})
	var out []URL
	for _, br := range brands {
		if len(br.ProductIDs) < gen.gate.MinBrandProductsForLink {
			continue
		}
		if !gen.gate.Brand(br).ShouldIndex {
			continue
		}
		out = append(out, URL{
			Loc:        urls.Canonical(gen.baseURL, catalog.KindBrand, br.Slug),
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   richness(len(br.ProductIDs)),
		})
	}
	return out
}

func (gen *Generator) terpeneURLs(lastmod string) []URL {
	var out []URL
	for _, tp := range gen.graph.Terpenes() {
		if !gen.gate.Terpene(tp).ShouldIndex {
			continue
		}
		out = append(out, URL{
			Loc:        urls.Canonical(gen.baseURL, catalog.KindTerpene, tp.Slug),
			LastMod:    lastmod,
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}
	return out
}

// categoryURLs covers category pages and their curated facet pages.
// Uncurated facets canonicalize to the category and never appear here.
func (gen *Generator) categoryURLs(lastmod string) []URL {
	var out []URL
	for _, cat := range gen.graph.Categories() {
		if !gen.gate.Category(cat).ShouldIndex {
			continue
		}
		out = append(out, URL{
			Loc:        urls.Canonical(gen.baseURL, catalog.KindCategory, cat.Slug),
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   richness(len(cat.ProductIDs)),
		})
		for _, facet := range cat.CuratedFacets {
			out = append(out, URL{
				Loc:        urls.Absolute(gen.baseURL, urls.FacetPath(cat.Slug, facet)),
				LastMod:    lastmod,
				ChangeFreq: "weekly",
				Priority:   "0.6",
			})
		}
	}
	return out
}

// richness maps a content count to a priority between 0.5 and 0.9,
// one decimal place.
func richness(count int) string {
	if count > 4 {
		count = 4
	}
	if count < 0 {
		count = 0
	}
	return fmt.Sprintf("0.%d", 5+count)
}

// =============================================================================
// Rendering
// =============================================================================

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type indexEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type siteindex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []indexEntry `xml:"sitemap"`
}

// XML renders the shard as a standalone urlset document.
func (f File) XML() ([]byte, error) {
	return renderXML(urlset{Xmlns: xmlns, URLs: f.URLs})
}

func renderXML(v any) ([]byte, error) {
	raw, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(raw, '\n')...), nil
}

// robots lists crawl rules and points at the sitemap index.
func (gen *Generator) robots() string {
	return fmt.Sprintf(`User-agent: *
Allow: /
Disallow: /api/
Disallow: /suche

Sitemap: %s
`, urls.Absolute(gen.baseURL, "/sitemap.xml"))
}
