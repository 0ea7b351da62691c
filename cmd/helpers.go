package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/sidenav/internal/config"
	"github.com/ziadkadry99/sidenav/internal/logging"
	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/scrollstore"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `sidenav init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout stays free for command output and MCP traffic.
func newLogger(cfg *config.Config) *log.Logger {
	return logging.New(os.Stderr, logging.Level(cfg.LogLevel, verbose))
}

// openStore opens the configured scroll store.
func openStore(cfg *config.Config) (scrollstore.Store, func() error, error) {
	return scrollstore.Open(scrollstore.Options{
		Driver:   scrollstore.Driver(cfg.Store.Driver),
		Path:     cfg.Store.Path,
		RedisURL: cfg.Store.RedisURL,
		TTL:      cfg.Store.TTL,
	})
}

// loadRegistry parses every variant's table of contents. Relative TOC paths are taken
// from the config file's directory.
func loadRegistry(cfg *config.Config, store scrollstore.Store, logger *log.Logger) (*variant.Registry, error) {
	return variant.Load(cfg, filepath.Dir(cfgFile), store, sidebar.WithLogger(logger))
}

func scriptOptions(cfg *config.Config) script.Options {
	return script.Options{
		ElementName:   cfg.ElementName,
		ScrollKey:     cfg.ScrollKey,
		IndexDocument: cfg.IndexDocument,
	}
}
