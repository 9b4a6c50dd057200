package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/seo/links"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blattwerk.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingDefaultPathFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Site.Name != "Blattwerk" || cfg.Sitemap.MaxPerFile != 10000 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[site]
base_url = "https://staging.blattwerk.de"

[gate]
min_city_pharmacies = 5

[sitemap]
max_per_file = 500

[links.products]
max = 4
priority = 90
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Site.BaseURL != "https://staging.blattwerk.de" {
		t.Errorf("base_url = %q", cfg.Site.BaseURL)
	}
	if cfg.Site.Name != "Blattwerk" {
		t.Errorf("untouched default lost: name = %q", cfg.Site.Name)
	}
	if cfg.Gate.MinCityPharmacies != 5 {
		t.Errorf("min_city_pharmacies = %d", cfg.Gate.MinCityPharmacies)
	}
	if cfg.Gate.MinCityActiveOffers != 10 {
		t.Errorf("untouched threshold lost: %d", cfg.Gate.MinCityActiveOffers)
	}
	if cfg.Sitemap.MaxPerFile != 500 {
		t.Errorf("max_per_file = %d", cfg.Sitemap.MaxPerFile)
	}
	if got := cfg.Links[links.SectionProducts]; got.Max != 4 || got.Priority != 90 {
		t.Errorf("products limit = %+v", got)
	}
	if got := cfg.Links[links.SectionBreadcrumb]; got.Max != 5 {
		t.Errorf("untouched section lost: %+v", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty base url", "[site]\nbase_url = \"\"\n"},
		{"bad shard size", "[sitemap]\nmax_per_file = 0\n"},
		{"bad source kind", "[source]\nkind = \"carrier-pigeon\"\n"},
		{"bad cache kind", "[cache]\nkind = \"floppy\"\n"},
		{"negative link cap", "[links.products]\nmax = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v", err)
			}
		})
	}
}
