package meta

import (
	"strings"
	"testing"

	"github.com/blattwerk/blattwerk/pkg/catalog/catalogtest"
	"github.com/blattwerk/blattwerk/pkg/seo/gate"
)

func testConfig() Config {
	return Config{
		BaseURL:  "https://blattwerk.example",
		SiteName: "Blattwerk",
		Locale:   "de_DE",
	}
}

func indexed() gate.Result {
	return gate.Result{ShouldIndex: true, Reason: gate.ReasonHasSufficientData, Confidence: 100}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"within limit", "short", 60, "short"},
		{"exact limit", strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{
			"word boundary cut",
			"Blue Dream Hybrid Sorte mit vielen Worten die den Rahmen sprengen",
			40,
			"Blue Dream Hybrid Sorte mit vielen…",
		},
		{
			"hard cut without late whitespace",
			"Donaudampfschifffahrtsgesellschaftskapitaenswitwenrente extra",
			40,
			"Donaudampfschifffahrtsgesellschaftskapi…",
		},
		{"tiny limit", "hello world", 1, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.limit)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
			if n := len([]rune(got)); n > tt.limit {
				t.Errorf("result length %d exceeds limit %d", n, tt.limit)
			}
		})
	}
}

func TestTruncateIdempotent(t *testing.T) {
	inputs := []string{
		"Blue Dream Hybrid Sorte mit vielen Worten die den Rahmen sprengen",
		strings.Repeat("lang ", 50),
		"kurz",
	}
	for _, in := range inputs {
		once := Truncate(in, MaxTitle)
		twice := Truncate(once, MaxTitle)
		if once != twice {
			t.Errorf("Truncate not idempotent: %q → %q", once, twice)
		}
	}
}

func TestStrainMeta(t *testing.T) {
	g := catalogtest.FixtureGraph()
	b := New(g, testConfig())

	m := b.Strain(g.StrainBySlug("blue-dream"), indexed())

	if !strings.HasPrefix(m.Title, "Blue Dream") {
		t.Errorf("Title = %q", m.Title)
	}
	if !strings.Contains(m.Title, "Hybrid") {
		t.Errorf("Title missing classification: %q", m.Title)
	}
	if len([]rune(m.Title)) > MaxTitle {
		t.Errorf("Title over budget: %d", len([]rune(m.Title)))
	}
	if len([]rune(m.Description)) > MaxDescription {
		t.Errorf("Description over budget: %d", len([]rune(m.Description)))
	}
	if m.Canonical != "https://blattwerk.example/sorten/blue-dream" {
		t.Errorf("Canonical = %q", m.Canonical)
	}
	if !m.Robots.Index || !m.Robots.Follow {
		t.Errorf("Robots = %+v", m.Robots)
	}
	if !strings.Contains(m.Description, "ab 9,00 €") {
		t.Errorf("Description missing price: %q", m.Description)
	}
	if m.OpenGraph.SiteName != "Blattwerk" || m.OpenGraph.Locale != "de_DE" {
		t.Errorf("OpenGraph = %+v", m.OpenGraph)
	}
}

func TestRobotsFollowAlwaysTrue(t *testing.T) {
	g := catalogtest.FixtureGraph()
	b := New(g, testConfig())

	noIndex := gate.Result{ShouldIndex: false, Reason: gate.ReasonNoOffers, Confidence: 100}
	m := b.Product(g.ProductBySlug("cannamedical-og"), noIndex)

	if m.Robots.Index {
		t.Error("Robots.Index should mirror the gate result")
	}
	if !m.Robots.Follow {
		t.Error("Robots.Follow must always be true")
	}
}

func TestProductMetaParts(t *testing.T) {
	g := catalogtest.FixtureGraph()
	b := New(g, testConfig())

	m := b.Product(g.ProductBySlug("pedanios-22-1"), indexed())

	if !strings.Contains(m.Title, "Pedanios 22/1") {
		t.Errorf("Title = %q", m.Title)
	}
	if !strings.Contains(m.Description, "bei 3 Apotheken verfügbar") {
		t.Errorf("Description = %q", m.Description)
	}
	if !strings.Contains(m.Description, "ab 9,00 €") {
		t.Errorf("Description missing price: %q", m.Description)
	}
}

func TestFacetCanonicalization(t *testing.T) {
	g := catalogtest.FixtureGraph()
	b := New(g, testConfig())
	cat := g.CategoryBySlug("blueten")
	th := gate.Defaults()

	// Curated facet keeps its own canonical.
	m := b.Facet(cat, "hoher-thc-gehalt", th.Facet(cat, "hoher-thc-gehalt"))
	if m.Canonical != "https://blattwerk.example/kategorien/blueten/hoher-thc-gehalt" {
		t.Errorf("curated canonical = %q", m.Canonical)
	}

	// Uncurated facet canonicalizes to the category page.
	m = b.Facet(cat, "wilder-filter", th.Facet(cat, "wilder-filter"))
	if m.Canonical != "https://blattwerk.example/kategorien/blueten" {
		t.Errorf("uncurated canonical = %q", m.Canonical)
	}
	if m.Robots.Index {
		t.Error("uncurated facet must not index")
	}
}

func TestAllBudgetsEnforced(t *testing.T) {
	g := catalogtest.FixtureGraph()
	b := New(g, testConfig())

	metas := []Meta{
		b.Strain(g.StrainBySlug("blue-dream"), indexed()),
		b.Product(g.ProductBySlug("pedanios-22-1"), indexed()),
		b.Pharmacy(g.PharmacyBySlug("gruenhorn-apotheke"), indexed()),
		b.City(g.CityBySlug("berlin"), indexed()),
		b.Brand(g.BrandBySlug("pedanios"), indexed()),
		b.Terpene(g.TerpeneBySlug("myrcen"), indexed()),
		b.Category(g.CategoryBySlug("blueten"), indexed()),
	}

	for i, m := range metas {
		if n := len([]rune(m.Title)); n > MaxTitle {
			t.Errorf("meta %d title over budget: %d", i, n)
		}
		if n := len([]rune(m.Description)); n > MaxDescription {
			t.Errorf("meta %d description over budget: %d", i, n)
		}
		if n := len([]rune(m.OpenGraph.Title)); n > MaxSocialTitle {
			t.Errorf("meta %d og title over budget: %d", i, n)
		}
		if n := len([]rune(m.OpenGraph.Description)); n > MaxSocialDescription {
			t.Errorf("meta %d og description over budget: %d", i, n)
		}
		if m.Title == "" || m.Canonical == "" {
			t.Errorf("meta %d incomplete: %+v", i, m)
		}
	}
}
