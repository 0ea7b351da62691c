package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sidenav",
	Short: "Table of contents sidebar for static documentation sites",
	Long: `sidenav serves the navigation sidebar of statically generated documentation.
It resolves which entry is active for a page, expands the sections leading to it,
keeps the sidebar's scroll position across page loads, and emits the browser
script that embeds each documentation variant's table of contents once.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".sidenav.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
