package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/sidenav/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing sidebar resolution tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		registry, err := loadRegistry(cfg, nil, newLogger(cfg))
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "sidenav MCP server started on stdio (variants=%v)\n", registry.Names())

		srv := mcpserver.NewServer(registry, scriptOptions(cfg))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
