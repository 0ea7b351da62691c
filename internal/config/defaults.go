package config

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultElementName is the custom element the generated script registers.
const DefaultElementName = "mdbook-sidebar-scrollbox"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Variants: []VariantConfig{
			{Name: "docs", TOC: "book/toc.html", Format: FormatHTML},
		},
		ScrollKey:     "sidebar-scroll",
		IndexDocument: "index.html",
		ElementName:   DefaultElementName,
		OutputDir:     "site",
		LogLevel:      "info",
		Store: StoreConfig{
			Driver: StoreMemory,
			Path:   ".sidenav/sessions.db",
			TTL:    30 * time.Minute,
		},
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: true,
		},
	}
}

// FormatFor returns the variant's format, inferring it from the TOC file extension
// when unset.
func (v VariantConfig) FormatFor() TOCFormat {
	if v.Format != "" {
		return v.Format
	}
	switch strings.ToLower(filepath.Ext(v.TOC)) {
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatHTML
}
