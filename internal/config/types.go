package config

import "time"

// TOCFormat identifies how a variant's table of contents is serialised.
type TOCFormat string

const (
	FormatHTML     TOCFormat = "html"
	FormatMarkdown TOCFormat = "markdown"
)

// StoreDriver selects the scroll store backend.
type StoreDriver string

const (
	StoreMemory StoreDriver = "memory"
	StoreSQLite StoreDriver = "sqlite"
	StoreRedis  StoreDriver = "redis"
)

// Config is the top-level sidenav configuration, corresponding to .sidenav.yml.
type Config struct {
	Variants      []VariantConfig `yaml:"variants" koanf:"variants"`
	ScrollKey     string          `yaml:"scroll_key" koanf:"scroll_key"`
	IndexDocument string          `yaml:"index_document" koanf:"index_document"`
	ElementName   string          `yaml:"element_name" koanf:"element_name"`
	OutputDir     string          `yaml:"output_dir" koanf:"output_dir"`
	LogLevel      string          `yaml:"log_level" koanf:"log_level"`
	Store         StoreConfig     `yaml:"store" koanf:"store"`
	Server        ServerConfig    `yaml:"server" koanf:"server"`
}

// VariantConfig describes one documentation build whose sidebar sidenav serves.
type VariantConfig struct {
	Name   string    `yaml:"name" koanf:"name"`
	TOC    string    `yaml:"toc" koanf:"toc"`
	Format TOCFormat `yaml:"format,omitempty" koanf:"format"`
	Fold   bool      `yaml:"fold,omitempty" koanf:"fold"`
	Match  []string  `yaml:"match,omitempty" koanf:"match"`
}

// StoreConfig holds scroll store settings.
type StoreConfig struct {
	Driver   StoreDriver   `yaml:"driver" koanf:"driver"`
	Path     string        `yaml:"path,omitempty" koanf:"path"`
	RedisURL string        `yaml:"redis_url,omitempty" koanf:"redis_url"`
	TTL      time.Duration `yaml:"ttl" koanf:"ttl"`
}

// ServerConfig holds headless navigator service settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
