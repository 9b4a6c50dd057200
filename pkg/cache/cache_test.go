package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundtrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "page-key"); hit {
		t.Error("expected miss before Set")
	}

	payload := []byte(`{"strain":"blue-dream"}`)
	if err := c.Set(ctx, "page-key", payload, time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "page-key")
	if err != nil {
		t.Fatal(err)
	}
	if !hit || string(data) != string(payload) {
		t.Errorf("Get = (%q, %v)", data, hit)
	}

	if err := c.Delete(ctx, "page-key"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "page-key"); hit {
		t.Error("expected miss after Delete")
	}
	// Deleting again is fine.
	if err := c.Delete(ctx, "page-key"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short-lived", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short-lived"); hit {
		t.Error("expired entry must miss")
	}

	// Zero ttl means no expiry.
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl must not expire")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("blue-dream"))
	h2 := Hash([]byte("blue-dream"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h3 := Hash([]byte("amnesia-haze")); h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestKeyerDeterminism(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.PageKey("hash1", "strain", "blue-dream")
	b := k.PageKey("hash1", "strain", "blue-dream")
	if a != b {
		t.Error("PageKey should be deterministic")
	}
	if a == k.PageKey("hash2", "strain", "blue-dream") {
		t.Error("snapshot hash must change the key")
	}
	if a == k.PageKey("hash1", "product", "blue-dream") {
		t.Error("kind must change the key")
	}
	if k.SitemapKey("hash1", 10000) == k.SitemapKey("hash1", 500) {
		t.Error("shard size must change the sitemap key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	key := scoped.PageKey("hash1", "strain", "blue-dream")
	if key != "staging:"+inner.PageKey("hash1", "strain", "blue-dream") {
		t.Errorf("key = %q", key)
	}
	if got := scoped.ReportKey("hash1"); got != "staging:"+inner.ReportKey("hash1") {
		t.Errorf("report key = %q", got)
	}
}
