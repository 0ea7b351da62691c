package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// tocCandidates are the places a built or source book usually keeps its table of contents.
var tocCandidates = []string{
	"book/toc.html",
	"src/SUMMARY.md",
	"SUMMARY.md",
	"docs/book/toc.html",
	"docs/src/SUMMARY.md",
}

// detectTOC returns the first table of contents found in the current directory.
func detectTOC() string {
	for _, candidate := range tocCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return tocCandidates[0]
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to sidenav! Let's configure your sidebar.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Variant name.
	namePrompt := promptui.Prompt{
		Label:   "Variant name",
		Default: cfg.Variants[0].Name,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("variant name: %w", err)
	}

	// 2. Table of contents.
	toc := detectTOC()
	tocPrompt := promptui.Prompt{
		Label:   "Table of contents (toc.html or SUMMARY.md)",
		Default: toc,
	}
	toc, err = tocPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("toc path: %w", err)
	}
	variant := VariantConfig{Name: strings.TrimSpace(name), TOC: strings.TrimSpace(toc)}
	variant.Format = variant.FormatFor()
	if variant.Format == FormatMarkdown {
		variant.Fold = true
	}
	cfg.Variants = []VariantConfig{variant}

	// 3. Scroll store.
	storePrompt := promptui.Select{
		Label: "Where should sidebar scroll offsets be kept",
		Items: []string{
			"memory  (single process, lost on restart)",
			"sqlite  (local file)",
			"redis   (shared between instances)",
		},
	}
	storeIdx, _, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("store selection: %w", err)
	}
	drivers := []StoreDriver{StoreMemory, StoreSQLite, StoreRedis}
	cfg.Store.Driver = drivers[storeIdx]

	if cfg.Store.Driver == StoreRedis {
		redisPrompt := promptui.Prompt{
			Label:   "Redis URL",
			Default: "redis://localhost:6379/0",
		}
		cfg.Store.RedisURL, err = redisPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
	}

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			if _, err := strconv.Atoi(s); err != nil {
				return fmt.Errorf("not a number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(variant.TOC); err != nil {
		fmt.Printf("\nNote: %s does not exist yet. Build the book before running sidenav.\n", variant.TOC)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
