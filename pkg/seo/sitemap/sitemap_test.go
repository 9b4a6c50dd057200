package sitemap

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blattwerk/blattwerk/pkg/catalog/catalogtest"
)

const base = "https://www.blattwerk.de"

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestChunkingProducesCeilFiles(t *testing.T) {
	entries := make([]URL, 25000)
	for i := range entries {
		entries[i] = URL{Loc: fmt.Sprintf("%s/produkte/p-%d", base, i)}
	}
	files := chunk("produkte", entries, 10000)

	if len(files) != 3 {
		t.Fatalf("files = %d, want 3", len(files))
	}
	wantSizes := []int{10000, 10000, 5000}
	wantNames := []string{"sitemap-produkte-1.xml", "sitemap-produkte-2.xml", "sitemap-produkte-3.xml"}
	seen := make(map[string]bool, len(entries))
	for i, f := range files {
		if len(f.URLs) != wantSizes[i] {
			t.Errorf("file %d size = %d, want %d", i, len(f.URLs), wantSizes[i])
		}
		if f.Name != wantNames[i] {
			t.Errorf("file %d name = %q, want %q", i, f.Name, wantNames[i])
		}
		for _, u := range f.URLs {
			if seen[u.Loc] {
				t.Fatalf("duplicate url %q across shards", u.Loc)
			}
			seen[u.Loc] = true
		}
	}
	if len(seen) != len(entries) {
		t.Errorf("shard union = %d urls, want %d", len(seen), len(entries))
	}
}

func TestSingleChunkOmitsSuffix(t *testing.T) {
	files := chunk("sorten", make([]URL, 50), 10000)
	if len(files) != 1 {
		t.Fatalf("files = %d, want 1", len(files))
	}
	if files[0].Name != "sitemap-sorten.xml" {
		t.Errorf("name = %q", files[0].Name)
	}
}

func TestRichnessScale(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0.5"}, {1, "0.6"}, {2, "0.7"}, {3, "0.8"}, {4, "0.9"}, {40, "0.9"},
	}
	for _, tt := range tests {
		if got := richness(tt.count); got != tt.want {
			t.Errorf("richness(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestGenerateFixture(t *testing.T) {
	g := catalogtest.FixtureGraph()
	gen := New(g, Options{BaseURL: base, Now: fixedNow})
	set, err := gen.Generate()
	if err != nil {
		t.Fatal(err)
	}

	all := make(map[string]URL)
	for _, f := range set.Files {
		for _, u := range f.URLs {
			if _, dup := all[u.Loc]; dup {
				t.Errorf("duplicate url %q", u.Loc)
			}
			all[u.Loc] = u
		}
	}

	// Indexable entity pages are present with lastmod from the clock.
	for _, loc := range []string{
		base + "/",
		base + "/sorten/blue-dream",
		base + "/produkte/pedanios-22-1",
		base + "/apotheken/gruenhorn-apotheke",
		base + "/staedte/berlin",
		base + "/kategorien/blueten",
		base + "/kategorien/blueten/hoher-thc-gehalt",
	} {
		u, ok := all[loc]
		if !ok {
			t.Errorf("missing %q", loc)
			continue
		}
		if u.LastMod != "2025-03-01" {
			t.Errorf("%q lastmod = %q", loc, u.LastMod)
		}
	}

	// No brand in the fixture reaches the three-product bar, and only
	// curated facets appear.
	for loc := range all {
		if strings.Contains(loc, "/marken/") {
			t.Errorf("unexpected brand url %q", loc)
		}
	}
	if _, ok := all[base+"/kategorien/blueten/sativa"]; ok {
		t.Error("uncurated facet must not be listed")
	}

	// In-stock products churn daily with a higher priority.
	if u := all[base+"/produkte/pedanios-22-1"]; u.ChangeFreq != "daily" || u.Priority != "0.8" {
		t.Errorf("in-stock product entry = %+v", u)
	}
}

func TestIndexAndRobots(t *testing.T) {
	g := catalogtest.FixtureGraph()
	set, err := New(g, Options{BaseURL: base, Now: fixedNow}).Generate()
	if err != nil {
		t.Fatal(err)
	}

	index := string(set.IndexXML)
	if !strings.Contains(index, "<sitemapindex") {
		t.Fatalf("index root element missing: %s", index)
	}
	for _, f := range set.Files {
		if !strings.Contains(index, base+ShardPath(f.Name)) {
			t.Errorf("index missing %q at its serving path", f.Name)
		}
	}
	// Shards are never served from the site root.
	if strings.Contains(index, base+"/sitemap-") {
		t.Errorf("index advertises shards at the site root:\n%s", index)
	}

	if !strings.Contains(set.Robots, "Sitemap: "+base+"/sitemap.xml") {
		t.Errorf("robots missing sitemap line:\n%s", set.Robots)
	}
	if !strings.Contains(set.Robots, "User-agent: *") {
		t.Errorf("robots missing user-agent line:\n%s", set.Robots)
	}
}

func TestFileXML(t *testing.T) {
	f := File{Name: "sitemap-sorten.xml", URLs: []URL{
		{Loc: base + "/sorten/blue-dream", LastMod: "2025-03-01", ChangeFreq: "weekly", Priority: "0.8"},
	}}
	raw, err := f.XML()
	if err != nil {
		t.Fatal(err)
	}
	out := string(raw)
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		"<loc>" + base + "/sorten/blue-dream</loc>",
		"<priority>0.8</priority>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
