package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "local:data/snapshot.json")
	p.OnLoadComplete(ctx, "local:data/snapshot.json", time.Second, nil)
	p.OnBuildComplete(ctx, 1200, 3, time.Second)
	p.OnResolveStart(ctx, 1200)
	p.OnResolveComplete(ctx, 1200, 600, time.Second, nil)
	p.OnSitemapComplete(ctx, 4, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "page")
	c.OnCacheMiss(ctx, "sitemap")
	c.OnCacheSet(ctx, "page", 1024)

	// Server hooks
	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/pages/strain/blue-dream")
	s.OnResponse(ctx, "GET", "/pages/strain/blue-dream", 200, time.Millisecond)
}

type testPipelineHooks struct {
	NoopPipelineHooks
	resolves int
}

func (h *testPipelineHooks) OnResolveStart(ctx context.Context, pageCount int) {
	h.resolves++
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *testCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}
	Pipeline().OnResolveStart(context.Background(), 10)
	if customPipeline.resolves != 1 {
		t.Errorf("resolve events = %d, want 1", customPipeline.resolves)
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	Cache().OnCacheHit(context.Background(), "page")
	if customCache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", customCache.hits)
	}

	// Nil registrations are ignored.
	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("nil registration must not clear hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore noop hooks")
	}
}
