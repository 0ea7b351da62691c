package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes sidebar resolution tools.
type Server struct {
	registry *variant.Registry
	script   script.Options
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server over the given variants.
func NewServer(registry *variant.Registry, scriptOpts script.Options) *Server {
	s := &Server{
		registry: registry,
		script:   scriptOpts,
	}

	s.mcp = server.NewMCPServer(
		"sidenav",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listVariantsTool, s.handleListVariants)
	s.mcp.AddTool(resolveSidebarTool, s.handleResolveSidebar)
	s.mcp.AddTool(getScriptTool, s.handleGetScript)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
