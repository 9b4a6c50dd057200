package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/blattwerk/blattwerk/pkg/cache"
	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/catalog/catalogtest"
	"github.com/blattwerk/blattwerk/pkg/config"
)

// memorySource serves fixture records without touching disk.
type memorySource struct {
	records catalog.Records
}

func (s *memorySource) Load(ctx context.Context) (catalog.Records, error) {
	return s.records, nil
}

func (s *memorySource) Name() string { return "memory" }

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func fixtureRun(t *testing.T, c cache.Cache, opts Options) *Result {
	t.Helper()
	runner := NewRunner(c, nil, quietLogger())
	result, err := runner.Execute(context.Background(),
		&memorySource{records: catalogtest.Fixture()}, config.Default(), opts)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestExecuteResolvesEveryPage(t *testing.T) {
	result := fixtureRun(t, cache.NewNullCache(), Options{})

	// 3 strains, 3 products, 4 pharmacies, 2 cities, 3 brands,
	// 2 terpenes, 2 categories and 2 curated facets.
	if result.Stats.PageCount != 21 {
		t.Errorf("pages = %d, want 21", result.Stats.PageCount)
	}
	if result.RunID == "" {
		t.Error("run id missing")
	}
	if len(result.SnapshotHash) != 64 {
		t.Errorf("snapshot hash = %q", result.SnapshotHash)
	}
	if result.Stats.IndexablePages == 0 || result.Stats.IndexablePages >= result.Stats.PageCount {
		t.Errorf("indexable pages = %d of %d", result.Stats.IndexablePages, result.Stats.PageCount)
	}
	if result.Stats.SitemapFiles == 0 {
		t.Error("no sitemap files")
	}

	byKind := 0
	for _, n := range result.Stats.IndexableByKind {
		byKind += n
	}
	if byKind != result.Stats.IndexablePages {
		t.Errorf("per-kind tallies sum to %d, want %d", byKind, result.Stats.IndexablePages)
	}
	if result.Stats.IndexableByKind["strain"] == 0 {
		t.Error("no indexable strain pages")
	}
	if result.Sitemaps.Robots == "" {
		t.Error("robots document missing")
	}

	for _, path := range []string{
		"/sorten/blue-dream",
		"/produkte/pedanios-22-1",
		"/apotheken/gruenhorn-apotheke",
		"/staedte/berlin",
		"/kategorien/blueten/indica",
	} {
		if _, ok := result.Pages[path]; !ok {
			t.Errorf("missing page %q", path)
		}
	}
}

func TestExecuteUsesCacheOnRerun(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	first := fixtureRun(t, c, Options{})
	if first.CacheInfo.PageHits != 0 {
		t.Errorf("first run page hits = %d", first.CacheInfo.PageHits)
	}

	second := fixtureRun(t, c, Options{})
	if second.CacheInfo.PageHits != second.Stats.PageCount {
		t.Errorf("second run page hits = %d of %d", second.CacheInfo.PageHits, second.Stats.PageCount)
	}
	if !second.CacheInfo.SitemapHit {
		t.Error("second run should hit the sitemap cache")
	}
	if second.SnapshotHash != first.SnapshotHash {
		t.Error("snapshot hash changed between identical runs")
	}

	refreshed := fixtureRun(t, c, Options{Refresh: true})
	if refreshed.CacheInfo.PageHits != 0 || refreshed.CacheInfo.SitemapHit {
		t.Errorf("refresh must bypass cache reads: %+v", refreshed.CacheInfo)
	}
}

func TestExecuteWorkerBounds(t *testing.T) {
	result := fixtureRun(t, cache.NewNullCache(), Options{Workers: 1})
	if result.Stats.PageCount != 21 {
		t.Errorf("pages = %d, want 21", result.Stats.PageCount)
	}
}
