// Package pipeline orchestrates a full generation run.
//
// A run is staged: load records, build the graph, validate, resolve
// every page concurrently, then generate the sitemap set. Resolved
// pages and sitemaps are cached under keys derived from the snapshot
// hash, so reruns over unchanged data are cache reads.
package pipeline

import (
	"context"
	"encoding/json"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/blattwerk/blattwerk/pkg/cache"
	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/config"
	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/observability"
	"github.com/blattwerk/blattwerk/pkg/resolve"
	"github.com/blattwerk/blattwerk/pkg/seo/sitemap"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
	"github.com/blattwerk/blattwerk/pkg/source"
)

// Options tunes one Execute call.
type Options struct {
	// Refresh bypasses cache reads (results are still written back).
	Refresh bool

	// Workers bounds concurrent page resolution. Zero means NumCPU.
	Workers int

	// Now is injectable for deterministic sitemap lastmod values.
	Now func() time.Time
}

// Stats carries per-stage timings and output totals.
type Stats struct {
	LoadTime     time.Duration `json:"loadTime"`
	BuildTime    time.Duration `json:"buildTime"`
	ValidateTime time.Duration `json:"validateTime"`
	ResolveTime  time.Duration `json:"resolveTime"`
	SitemapTime  time.Duration `json:"sitemapTime"`

	PageCount      int `json:"pageCount"`
	IndexablePages int `json:"indexablePages"`
	SitemapFiles   int `json:"sitemapFiles"`

	// IndexableByKind tallies indexable pages per entity kind. Facet
	// pages count under their category kind.
	IndexableByKind map[string]int `json:"indexableByKind"`
}

// CacheInfo reports which artifacts came from cache.
type CacheInfo struct {
	PageHits   int  `json:"pageHits"`
	SitemapHit bool `json:"sitemapHit"`
}

// Result is the complete output of one run.
type Result struct {
	RunID        string `json:"runId"`
	SnapshotHash string `json:"snapshotHash"`

	Graph      *catalog.Graph           `json:"-"`
	Build      *catalog.Report          `json:"build"`
	Validation catalog.ValidationReport `json:"validation"`

	// Pages maps site-relative paths to resolved payloads.
	Pages map[string]json.RawMessage `json:"-"`

	Sitemaps *sitemap.Set `json:"-"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cacheInfo"`
}

// Runner executes generation runs with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// keyer selects the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → build → validate → resolve →
// sitemap pipeline.
func (r *Runner) Execute(ctx context.Context, src source.Source, cfg config.Config, opts Options) (*Result, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	result := &Result{
		RunID: uuid.NewString(),
		Pages: make(map[string]json.RawMessage),
	}
	result.Stats.IndexableByKind = make(map[string]int)

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, src.Name())
	records, err := src.Load(ctx)
	observability.Pipeline().OnLoadComplete(ctx, src.Name(), time.Since(loadStart), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "loading records from %s", src.Name())
	}
	result.Stats.LoadTime = time.Since(loadStart)

	raw, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hashing snapshot")
	}
	result.SnapshotHash = cache.Hash(raw)

	r.Logger.Info("loaded records",
		"source", src.Name(),
		"snapshot", result.SnapshotHash[:12],
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	g, report := catalog.Build(records)
	result.Graph = g
	result.Build = report
	result.Stats.BuildTime = time.Since(buildStart)

	stats := g.Stats()
	entityTotal := stats.Strains + stats.Products + stats.Pharmacies + stats.Cities +
		stats.Brands + stats.Terpenes + stats.Categories + stats.Offers
	observability.Pipeline().OnBuildComplete(ctx, entityTotal, len(report.Warnings), result.Stats.BuildTime)

	r.Logger.Info("built graph",
		"strains", stats.Strains,
		"products", stats.Products,
		"pharmacies", stats.Pharmacies,
		"offers", stats.Offers,
		"warnings", len(report.Warnings),
		"duration", result.Stats.BuildTime)

	// Stage 3: Validate
	validateStart := time.Now()
	result.Validation = *catalog.Validate(g)
	result.Stats.ValidateTime = time.Since(validateStart)

	if result.Validation.ErrorCount > 0 {
		r.Logger.Warn("validation found invalid entities",
			"errors", result.Validation.ErrorCount,
			"warnings", result.Validation.WarningCount)
	}

	// Stage 4: Resolve
	resolveStart := time.Now()
	err = r.resolveAll(ctx, g, cfg, opts, result)
	observability.Pipeline().OnResolveComplete(ctx, len(result.Pages), result.CacheInfo.PageHits, time.Since(resolveStart), err)
	if err != nil {
		return nil, err
	}
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.PageCount = len(result.Pages)

	r.Logger.Info("resolved pages",
		"pages", result.Stats.PageCount,
		"indexable", result.Stats.IndexablePages,
		"cache_hits", result.CacheInfo.PageHits,
		"duration", result.Stats.ResolveTime)

	// Stage 5: Sitemap
	sitemapStart := time.Now()
	set, hit, err := r.generateSitemaps(ctx, g, cfg, opts, result.SnapshotHash)
	fileCount := 0
	if set != nil {
		fileCount = len(set.Files)
	}
	observability.Pipeline().OnSitemapComplete(ctx, fileCount, time.Since(sitemapStart), err)
	if err != nil {
		return nil, err
	}
	result.Sitemaps = set
	result.CacheInfo.SitemapHit = hit
	result.Stats.SitemapTime = time.Since(sitemapStart)
	result.Stats.SitemapFiles = len(set.Files)

	r.Logger.Info("generated sitemaps",
		"files", result.Stats.SitemapFiles,
		"cache_hit", hit,
		"duration", result.Stats.SitemapTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Page Resolution
// =============================================================================

// pageJob names one page to resolve.
type pageJob struct {
	kind  catalog.Kind
	slug  string
	path  string
	facet string
}

// resolveAll resolves every page of the site over a bounded worker
// pool. Resolution is a pure function of the frozen graph, so workers
// share the resolver without locking.
func (r *Runner) resolveAll(ctx context.Context, g *catalog.Graph, cfg config.Config, opts Options, result *Result) error {
	resolver := resolve.New(g, resolve.Config{
		BaseURL:       cfg.Site.BaseURL,
		SiteName:      cfg.Site.Name,
		DefaultLocale: cfg.Site.Locale,
		Thresholds:    cfg.Gate,
		LinkLimits:    cfg.Links,
	})

	jobs := collectJobs(g)
	observability.Pipeline().OnResolveStart(ctx, len(jobs))

	var mu sync.Mutex
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(opts.Workers)

	for _, job := range jobs {
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}

			key := r.Keyer.PageKey(result.SnapshotHash, string(job.kind), job.path)
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(grpCtx, key); err == nil && hit {
					observability.Cache().OnCacheHit(grpCtx, "page")
					mu.Lock()
					result.Pages[job.path] = data
					result.CacheInfo.PageHits++
					if pageIndexable(data) {
						result.Stats.IndexablePages++
						result.Stats.IndexableByKind[string(job.kind)]++
					}
					mu.Unlock()
					return nil
				}
				observability.Cache().OnCacheMiss(grpCtx, "page")
			}

			page := resolvePage(resolver, job)
			if page == nil {
				return errors.New(errors.ErrCodeEntityNotFound, "page %s vanished during resolution", job.path)
			}
			data, err := json.Marshal(page)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encoding page %s", job.path)
			}
			_ = r.Cache.Set(grpCtx, key, data, cache.TTLPage)
			observability.Cache().OnCacheSet(grpCtx, "page", len(data))

			mu.Lock()
			result.Pages[job.path] = data
			if pageIndexable(data) {
				result.Stats.IndexablePages++
				result.Stats.IndexableByKind[string(job.kind)]++
			}
			mu.Unlock()
			return nil
		})
	}
	return grp.Wait()
}

// collectJobs enumerates every page of the site in deterministic order:
// all entity detail pages plus curated facet pages.
func collectJobs(g *catalog.Graph) []pageJob {
	var jobs []pageJob
	add := func(kind catalog.Kind, slug string) {
		jobs = append(jobs, pageJob{kind: kind, slug: slug, path: urls.Path(kind, slug)})
	}

	for _, s := range g.Strains() {
		add(catalog.KindStrain, s.Slug)
	}
	for _, p := range g.Products() {
		add(catalog.KindProduct, p.Slug)
	}
	for _, ph := range g.Pharmacies() {
		add(catalog.KindPharmacy, ph.Slug)
	}
	for _, c := range g.Cities() {
		add(catalog.KindCity, c.Slug)
	}
	for _, br := range g.Brands() {
		add(catalog.KindBrand, br.Slug)
	}
	for _, tp := range g.Terpenes() {
		add(catalog.KindTerpene, tp.Slug)
	}
	for _, cat := range g.Categories() {
		add(catalog.KindCategory, cat.Slug)
		for _, facet := range cat.CuratedFacets {
			jobs = append(jobs, pageJob{
				kind:  catalog.KindCategory,
				slug:  cat.Slug,
				path:  urls.FacetPath(cat.Slug, facet),
				facet: facet,
			})
		}
	}
	return jobs
}

// resolvePage dispatches one job to the resolver.
func resolvePage(r *resolve.Resolver, job pageJob) any {
	if job.facet != "" {
		if page := r.Facet(job.slug, job.facet); page != nil {
			return page
		}
		return nil
	}
	return r.Resolve(job.kind, job.slug)
}

// pageIndexable peeks at a resolved payload's indexability block.
func pageIndexable(data []byte) bool {
	var probe struct {
		Indexability struct {
			ShouldIndex bool `json:"shouldIndex"`
		} `json:"indexability"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Indexability.ShouldIndex
}

// =============================================================================
// Sitemaps
// =============================================================================

// sitemapEnvelope is the cacheable form of a sitemap set.
type sitemapEnvelope struct {
	Files    []sitemap.File `json:"files"`
	IndexXML []byte         `json:"indexXml"`
	Robots   string         `json:"robots"`
}

func (r *Runner) generateSitemaps(ctx context.Context, g *catalog.Graph, cfg config.Config, opts Options, snapshotHash string) (*sitemap.Set, bool, error) {
	key := r.Keyer.SitemapKey(snapshotHash, cfg.Sitemap.MaxPerFile)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var env sitemapEnvelope
			if err := json.Unmarshal(data, &env); err == nil {
				return &sitemap.Set{
					Files:    env.Files,
					Index:    sitemap.File{Name: "sitemap.xml"},
					IndexXML: env.IndexXML,
					Robots:   env.Robots,
				}, true, nil
			}
		}
	}

	set, err := sitemap.New(g, sitemap.Options{
		BaseURL:    cfg.Site.BaseURL,
		MaxPerFile: cfg.Sitemap.MaxPerFile,
		Thresholds: cfg.Gate,
		Now:        opts.Now,
	}).Generate()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "generating sitemaps")
	}

	if data, err := json.Marshal(sitemapEnvelope{
		Files:    set.Files,
		IndexXML: set.IndexXML,
		Robots:   set.Robots,
	}); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLSitemap)
	}
	return set, false, nil
}
