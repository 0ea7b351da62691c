package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sidenav/internal/config"
	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

var scriptOutput string

var scriptCmd = &cobra.Command{
	Use:   "script <variant>",
	Short: "Write the browser script for one variant",
	Long: `Writes the script that defines the sidebar element for a variant. Include it on
every page of that variant; it embeds the table of contents and handles active link
marking, section expansion and scroll persistence in the browser.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		registry, err := loadRegistry(cfg, nil, newLogger(cfg))
		if err != nil {
			return err
		}
		v, err := registry.Get(args[0])
		if err != nil {
			return err
		}

		if scriptOutput == "" || scriptOutput == "-" {
			return writeScript(cmd.OutOrStdout(), v, cfg)
		}

		f, err := os.Create(scriptOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", scriptOutput, err)
		}
		if err := writeScript(f, v, cfg); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", scriptOutput)
		return nil
	},
}

func writeScript(w io.Writer, v *variant.Variant, cfg *config.Config) error {
	if err := script.Write(w, v.Name, v.Tree(), scriptOptions(cfg)); err != nil {
		return fmt.Errorf("rendering script: %w", err)
	}
	return nil
}

func init() {
	scriptCmd.Flags().StringVarP(&scriptOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(scriptCmd)
}
