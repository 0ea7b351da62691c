package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sidenav/internal/prerender"
	"github.com/ziadkadry99/sidenav/internal/progress"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

var (
	prerenderOut     string
	prerenderVariant string
)

var prerenderCmd = &cobra.Command{
	Use:   "prerender",
	Short: "Write static sidebar snapshots for every page",
	Long: `Resolves the sidebar for every page each variant links to and writes one HTML
snapshot per page, plus the variant's browser script, below the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		registry, err := loadRegistry(cfg, nil, newLogger(cfg))
		if err != nil {
			return err
		}

		variants := registry.Variants()
		if prerenderVariant != "" {
			v, err := registry.Get(prerenderVariant)
			if err != nil {
				return err
			}
			variants = []*variant.Variant{v}
		}

		outDir := cfg.OutputDir
		if prerenderOut != "" {
			outDir = prerenderOut
		}

		start := time.Now()
		gen := prerender.NewGenerator(outDir, scriptOptions(cfg), progress.NewReporter("Pre-rendering sidebars"))
		n, err := gen.Generate(cmd.Context(), variants)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Wrote %d sidebar snapshots for %d variant(s) to %s in %s\n",
			n, len(variants), outDir, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	prerenderCmd.Flags().StringVar(&prerenderOut, "out", "", "output directory (default: output_dir from config)")
	prerenderCmd.Flags().StringVar(&prerenderVariant, "variant", "", "only pre-render this variant")
	rootCmd.AddCommand(prerenderCmd)
}
