package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

var (
	resolveVariant    string
	resolvePathToRoot string
	resolveFormat     string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <location>",
	Short: "Show the sidebar as a page would see it",
	Long: `Resolves the sidebar for one page: rewrites relative links against the page's
path to root, marks the active entry and expands the sections leading to it.
The location is a root-relative document path (guide/setup.html) or an absolute URL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		registry, err := loadRegistry(cfg, nil, logger)
		if err != nil {
			return err
		}

		location := args[0]
		var v *variant.Variant
		if resolveVariant != "" {
			if v, err = registry.Get(resolveVariant); err != nil {
				return err
			}
		} else {
			v = registry.ForLocation(location)
		}

		pathToRoot := nav.PathToRoot(location)
		if cmd.Flags().Changed("path-to-root") {
			pathToRoot = resolvePathToRoot
		}

		view := v.Detached().Insert(cmd.Context(), sidebar.Page{
			Location:   location,
			PathToRoot: pathToRoot,
		})

		out := cmd.OutOrStdout()
		switch resolveFormat {
		case "html":
			fmt.Fprintln(out, view.HTML())
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(view.Snapshot())
		case "outline":
			if a := view.Activation.Active; a != nil {
				fmt.Fprintf(out, "Active: %s %s -> %s\n\n", a.ID, a.Label, a.Href)
			} else {
				fmt.Fprintf(out, "Active: none\n\n")
			}
			fmt.Fprint(out, view.Outline())
		default:
			return fmt.Errorf("unknown format %q (want outline, html or json)", resolveFormat)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveVariant, "variant", "", "variant to resolve against (default: chosen from the location)")
	resolveCmd.Flags().StringVar(&resolvePathToRoot, "path-to-root", "", "relative prefix from the page to the site root (default: derived from the location)")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "outline", "output format: outline, html or json")
	rootCmd.AddCommand(resolveCmd)
}
