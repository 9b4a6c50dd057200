// Package config loads the generation run configuration.
//
// Configuration lives in a TOML file (blattwerk.toml by default).
// Every section is optional; missing values fall back to the built-in
// production defaults, so an empty or absent file yields a fully
// usable config.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/seo/gate"
	"github.com/blattwerk/blattwerk/pkg/seo/links"
)

// DefaultPath is probed when no config path is given.
const DefaultPath = "blattwerk.toml"

// Site carries the public-facing site identity.
type Site struct {
	BaseURL string `toml:"base_url"`
	Name    string `toml:"name"`
	Locale  string `toml:"locale"`
}

// Sitemap configures sharding.
type Sitemap struct {
	MaxPerFile int `toml:"max_per_file"`
}

// Source selects where entity records come from.
type Source struct {
	Kind string `toml:"kind"` // "local" or "mongo"
	Path string `toml:"path"` // local: JSON snapshot file

	URI      string `toml:"uri"` // mongo connection string
	Database string `toml:"database"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Kind string `toml:"kind"` // "file", "redis" or "none"
	Dir  string `toml:"dir"`  // file backend directory

	Addr     string `toml:"addr"` // redis address
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTLHours int    `toml:"ttl_hours"`
}

// Server configures the preview HTTP server.
type Server struct {
	Addr string `toml:"addr"`
}

// Config is the full run configuration.
type Config struct {
	Site    Site            `toml:"site"`
	Gate    gate.Thresholds `toml:"gate"`
	Links   links.Limits    `toml:"links"`
	Sitemap Sitemap         `toml:"sitemap"`
	Source  Source          `toml:"source"`
	Cache   Cache           `toml:"cache"`
	Server  Server          `toml:"server"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		Site: Site{
			BaseURL: "https://www.blattwerk.de",
			Name:    "Blattwerk",
			Locale:  "de_DE",
		},
		Gate:    gate.Defaults(),
		Links:   links.DefaultLimits(),
		Sitemap: Sitemap{MaxPerFile: 10000},
		Source:  Source{Kind: "local", Path: "data/snapshot.json"},
		Cache:   Cache{Kind: "file", Dir: ".blattwerk-cache", TTLHours: 24},
		Server:  Server{Addr: ":8080"},
	}
}

// Load reads the config at path, overlaying the defaults. An empty
// path probes DefaultPath; a missing file at the default path is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	probed := path == ""
	if probed {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err != nil {
		if probed && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Site.BaseURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "site.base_url must not be empty")
	}
	if c.Sitemap.MaxPerFile <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "sitemap.max_per_file must be positive, got %d", c.Sitemap.MaxPerFile)
	}
	switch c.Source.Kind {
	case "local", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", c.Source.Kind)
	}
	switch c.Cache.Kind {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache kind %q", c.Cache.Kind)
	}
	for section, limit := range c.Links {
		if limit.Max < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "links.%s.max must not be negative", section)
		}
	}
	return nil
}
