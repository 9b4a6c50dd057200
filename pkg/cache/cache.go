// Package cache provides artifact caching for generation runs.
//
// Resolved page payloads and sitemap sets are cached under keys derived
// from the snapshot hash, so a rebuild over unchanged data is a pure
// cache read. Backends: file (default for CLI usage), redis (shared
// across processes) and null (disabled).
package cache

import (
	"context"
	"time"
)

// TTLs per artifact class.
const (
	TTLPage    = 24 * time.Hour
	TTLSitemap = 24 * time.Hour
	TTLReport  = 24 * time.Hour
)

// Cache stores opaque byte blobs under string keys.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for the artifact classes of a run. All keys
// incorporate the snapshot hash so a data change invalidates everything
// at once.
type Keyer interface {
	// PageKey keys one resolved page payload.
	PageKey(snapshotHash, kind, slug string) string

	// SitemapKey keys the full sitemap set.
	SitemapKey(snapshotHash string, maxPerFile int) string

	// ReportKey keys the content-quality report.
	ReportKey(snapshotHash string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PageKey generates a key for one resolved page.
func (k *DefaultKeyer) PageKey(snapshotHash, kind, slug string) string {
	return hashKey("page", snapshotHash, kind, slug)
}

// SitemapKey generates a key for the sitemap set.
func (k *DefaultKeyer) SitemapKey(snapshotHash string, maxPerFile int) string {
	return hashKey("sitemap", snapshotHash, maxPerFile)
}

// ReportKey generates a key for the quality report.
func (k *DefaultKeyer) ReportKey(snapshotHash string) string {
	return hashKey("report", snapshotHash)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces
// when several sites share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer whose keys all carry prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PageKey generates a prefixed page key.
func (k *ScopedKeyer) PageKey(snapshotHash, kind, slug string) string {
	return k.prefix + k.inner.PageKey(snapshotHash, kind, slug)
}

// SitemapKey generates a prefixed sitemap key.
func (k *ScopedKeyer) SitemapKey(snapshotHash string, maxPerFile int) string {
	return k.prefix + k.inner.SitemapKey(snapshotHash, maxPerFile)
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(snapshotHash string) string {
	return k.prefix + k.inner.ReportKey(snapshotHash)
}
