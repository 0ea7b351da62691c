package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listVariantsTool defines the list_variants MCP tool.
var listVariantsTool = mcp.NewTool("list_variants",
	mcp.WithDescription("List the documentation variants whose sidebars can be resolved, with their location patterns and link counts."),
)

// resolveSidebarTool defines the resolve_sidebar MCP tool.
var resolveSidebarTool = mcp.NewTool("resolve_sidebar",
	mcp.WithDescription("Resolve the documentation sidebar for a page: which entry is active, which sections are expanded, and where each link points from that page."),
	mcp.WithString("location",
		mcp.Required(),
		mcp.Description("Page address: a path relative to the site root (e.g. cli-reference/get.html) or an absolute URL"),
	),
	mcp.WithString("variant",
		mcp.Description("Variant name; chosen from the location when omitted"),
	),
	mcp.WithString("path_to_root",
		mcp.Description("Relative prefix from the page back to the site root; derived from the location when omitted"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default outline)"),
		mcp.Enum("outline", "html"),
	),
)

// getScriptTool defines the get_sidebar_script MCP tool.
var getScriptTool = mcp.NewTool("get_sidebar_script",
	mcp.WithDescription("Get the browser script that populates a variant's sidebar."),
	mcp.WithString("variant",
		mcp.Required(),
		mcp.Description("Variant name"),
	),
)
