package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides. A double underscore descends
// into a nested key: SIDENAV_STORE__DRIVER -> store.driver.
const EnvPrefix = "SIDENAV_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SIDENAV_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// A configured variant list replaces the default one instead of merging into it.
	if k.Exists("variants") {
		cfg.Variants = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validFormats = map[TOCFormat]bool{
	FormatHTML:     true,
	FormatMarkdown: true,
}

var validDrivers = map[StoreDriver]bool{
	StoreMemory: true,
	StoreSQLite: true,
	StoreRedis:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if len(c.Variants) == 0 {
		return fmt.Errorf("at least one variant is required")
	}

	seen := make(map[string]bool)
	for i, v := range c.Variants {
		if v.Name == "" {
			return fmt.Errorf("variants[%d]: name is required", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("variants[%d]: duplicate name %q", i, v.Name)
		}
		seen[v.Name] = true

		if v.TOC == "" {
			return fmt.Errorf("variant %q: toc is required", v.Name)
		}
		if v.Format != "" && !validFormats[v.Format] {
			return fmt.Errorf("variant %q: invalid format %q: must be one of html, markdown", v.Name, v.Format)
		}
		for _, pattern := range v.Match {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("variant %q: invalid match pattern %q", v.Name, pattern)
			}
		}
	}

	if c.ScrollKey == "" {
		return fmt.Errorf("scroll_key is required")
	}
	if c.IndexDocument == "" || strings.Contains(c.IndexDocument, "/") {
		return fmt.Errorf("index_document must be a file name, got %q", c.IndexDocument)
	}
	if !strings.Contains(c.ElementName, "-") {
		return fmt.Errorf("element_name %q must contain a hyphen", c.ElementName)
	}

	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid store.driver %q: must be one of memory, sqlite, redis", c.Store.Driver)
	}
	if c.Store.Driver == StoreSQLite && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for the sqlite driver")
	}
	if c.Store.Driver == StoreRedis && c.Store.RedisURL == "" {
		return fmt.Errorf("store.redis_url is required for the redis driver")
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store.ttl must be non-negative")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	return nil
}
