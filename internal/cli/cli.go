// Package cli implements the blattwerk command-line interface.
//
// This package provides commands for running the page generation
// pipeline, resolving individual pages, generating sitemaps, browsing
// the page inventory, and serving the generated artifacts over HTTP.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Run the full pipeline and write artifacts to disk
//   - resolve: Resolve a single page and print its payload
//   - sitemap: Generate the sitemap set only
//   - pages: Browse the resolved page inventory interactively
//   - linkgraph: Visualize a page's internal links as DOT or SVG
//   - serve: Serve generated artifacts over HTTP
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/blattwerk/blattwerk/pkg/cache"
	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/config"
	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/pipeline"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
	"github.com/blattwerk/blattwerk/pkg/source"
	"github.com/blattwerk/blattwerk/pkg/source/local"
	"github.com/blattwerk/blattwerk/pkg/source/mongo"
)

// appName is the application name used for directories and display.
const appName = "blattwerk"

// =============================================================================
// Config
// =============================================================================

// loadConfig reads the config file at path, or the default search path
// when path is empty.
func loadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

// =============================================================================
// Cache and Source Wiring
// =============================================================================

// newCacheBackend builds the artifact cache selected by cfg. Unknown
// kinds are an error; "none" disables caching.
func newCacheBackend(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Kind {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case "file", "":
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache kind %q", cfg.Kind)
}

// newSource builds the record source selected by cfg. The returned
// close func releases source connections and is safe to call on a
// source without any.
func newSource(cfg config.Source) (source.Source, func(context.Context) error, error) {
	switch cfg.Kind {
	case "local", "":
		return local.New(cfg.Path), func(context.Context) error { return nil }, nil
	case "mongo":
		store := mongo.New(cfg.URI, cfg.Database)
		return store, store.Close, nil
	}
	return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", cfg.Kind)
}

// newRunner wires cache and logger into a pipeline runner for CLI use.
func newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	c, err := newCacheBackend(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, nil, loggerFromContext(ctx)), nil
}

// runPipeline executes the full pipeline against the configured source
// and returns the result. The runner's cache is closed before return.
func runPipeline(ctx context.Context, cfg config.Config, opts pipeline.Options) (*pipeline.Result, error) {
	src, closeSource, err := newSource(cfg.Source)
	if err != nil {
		return nil, err
	}
	defer closeSource(ctx)

	runner, err := newRunner(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	return runner.Execute(ctx, src, cfg, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/blattwerk/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Page References
// =============================================================================

// pageRef identifies one page by route segments.
type pageRef struct {
	Kind  catalog.Kind
	Slug  string
	Facet string // set for category facet pages
}

// parsePageRef parses a site-relative path like "sorten/amnesia-haze"
// or "kategorien/blueten/indica" into a page reference. A leading
// slash is optional.
func parsePageRef(arg string) (pageRef, error) {
	parts := strings.Split(strings.Trim(arg, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return pageRef{}, errors.New(errors.ErrCodeInvalidInput, "page path must be <hub>/<slug>, got %q", arg)
	}

	kind, ok := kindForSegment(parts[0])
	if !ok {
		return pageRef{}, errors.New(errors.ErrCodeInvalidInput, "unknown hub segment %q", parts[0])
	}

	switch {
	case len(parts) == 2:
		return pageRef{Kind: kind, Slug: parts[1]}, nil
	case len(parts) == 3 && kind == catalog.KindCategory:
		return pageRef{Kind: kind, Slug: parts[1], Facet: parts[2]}, nil
	}
	return pageRef{}, errors.New(errors.ErrCodeInvalidInput, "page path has too many segments: %q", arg)
}

// kindForSegment inverts the route segment mapping.
func kindForSegment(segment string) (catalog.Kind, bool) {
	for _, kind := range catalog.Kinds {
		if urls.Segment(kind) == segment {
			return kind, true
		}
	}
	return "", false
}

// =============================================================================
// Output
// =============================================================================

// writeOutput writes data to path, creating parent directories, or to
// stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
