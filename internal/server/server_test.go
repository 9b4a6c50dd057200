package server

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/blattwerk/blattwerk/pkg/cache"
	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/catalog/catalogtest"
	"github.com/blattwerk/blattwerk/pkg/config"
	"github.com/blattwerk/blattwerk/pkg/pipeline"
)

type memorySource struct {
	records catalog.Records
}

func (s *memorySource) Load(ctx context.Context) (catalog.Records, error) {
	return s.records, nil
}

func (s *memorySource) Name() string { return "memory" }

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	result, err := runner.Execute(context.Background(),
		&memorySource{records: catalogtest.Fixture()}, config.Default(), pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(New(result, log.New(io.Discard)).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["status"] != "ok" || payload["runId"] == "" {
		t.Errorf("payload = %v", payload)
	}
}

func TestPageEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := get(t, ts, "/pages/sorten/blue-dream")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var page struct {
		Strain struct {
			Slug string `json:"slug"`
		} `json:"strain"`
		Indexability struct {
			ShouldIndex bool `json:"shouldIndex"`
		} `json:"indexability"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatal(err)
	}
	if page.Strain.Slug != "blue-dream" || !page.Indexability.ShouldIndex {
		t.Errorf("page = %+v", page)
	}

	resp, _ = get(t, ts, "/pages/sorten/unknown")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown page status = %d", resp.StatusCode)
	}
}

func TestSitemapEndpoints(t *testing.T) {
	ts := testServer(t)

	resp, body := get(t, ts, "/sitemap.xml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "<sitemapindex") {
		t.Errorf("index body:\n%s", body)
	}

	resp, body = get(t, ts, "/sitemaps/sitemap-sorten.xml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shard status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "/sorten/blue-dream") {
		t.Errorf("shard body:\n%s", body)
	}

	resp, _ = get(t, ts, "/sitemaps/sitemap-unbekannt.xml")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown shard status = %d", resp.StatusCode)
	}
}

// Every shard location advertised by the index must resolve on the
// same server that serves the index.
func TestSitemapIndexLocsResolve(t *testing.T) {
	ts := testServer(t)

	_, body := get(t, ts, "/sitemap.xml")
	var index struct {
		Sitemaps []struct {
			Loc string `xml:"loc"`
		} `xml:"sitemap"`
	}
	if err := xml.Unmarshal(body, &index); err != nil {
		t.Fatal(err)
	}
	if len(index.Sitemaps) == 0 {
		t.Fatalf("index has no entries:\n%s", body)
	}
	for _, entry := range index.Sitemaps {
		loc, err := url.Parse(entry.Loc)
		if err != nil {
			t.Fatal(err)
		}
		resp, _ := get(t, ts, loc.Path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("advertised shard %q status = %d", entry.Loc, resp.StatusCode)
		}
	}
}

func TestRobotsEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts, "/robots.txt")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(string(body), "Sitemap:") {
		t.Errorf("body:\n%s", body)
	}
}

func TestReportEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts, "/report")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var report struct {
		SnapshotHash string `json:"snapshotHash"`
		Stats        struct {
			PageCount int `json:"pageCount"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatal(err)
	}
	if len(report.SnapshotHash) != 64 || report.Stats.PageCount == 0 {
		t.Errorf("report = %+v", report)
	}
}
