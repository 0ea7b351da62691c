package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

// handleListVariants describes every configured variant.
func (s *Server) handleListVariants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	variants := s.registry.Variants()
	if len(variants) == 0 {
		return mcp.NewToolResultText("No variants configured. Add one to .sidenav.yml."), nil
	}

	var b strings.Builder
	for i, v := range variants {
		fmt.Fprintf(&b, "%s: %d links", v.Name, len(v.Tree().Links()))
		if len(v.Match) > 0 {
			fmt.Fprintf(&b, ", matches %s", strings.Join(v.Match, ", "))
		}
		if i == 0 {
			b.WriteString(" (default)")
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleResolveSidebar runs one detached insertion and reports the resulting sidebar.
func (s *Server) handleResolveSidebar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := request.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: location"), nil
	}

	var v *variant.Variant
	if name := request.GetString("variant", ""); name != "" {
		v, err = s.registry.Get(name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%v. Known variants: %s", err, strings.Join(s.registry.Names(), ", "))), nil
		}
	} else if v = s.registry.ForLocation(location); v == nil {
		return mcp.NewToolResultError("No variants configured."), nil
	}

	pathToRoot := request.GetString("path_to_root", nav.PathToRoot(location))
	view := v.Detached().Insert(ctx, sidebar.Page{Location: location, PathToRoot: pathToRoot})

	if request.GetString("format", "outline") == "html" {
		return mcp.NewToolResultText(view.HTML()), nil
	}
	return mcp.NewToolResultText(formatView(v.Name, view)), nil
}

// handleGetScript returns the variant's browser script.
func (s *Server) handleGetScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("variant")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: variant"), nil
	}
	v, err := s.registry.Get(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := s.script
	opts.ScrollKey = v.Navigator.ScrollKey()
	opts.IndexDocument = v.Navigator.IndexDocument()

	var b strings.Builder
	if err := script.Write(&b, v.Name, v.Tree(), opts); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering script: %v", err)), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

// formatView renders a resolution summary followed by the outline.
func formatView(variantName string, view *sidebar.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Variant: %s\n", variantName)
	fmt.Fprintf(&b, "Location: %s\n", view.Location.Canonical)
	fmt.Fprintf(&b, "Path to root: %q\n", view.PathToRoot)
	if a := view.Activation.Active; a != nil {
		fmt.Fprintf(&b, "Active: %s %s%s -> %s\n", a.ID, numberPrefix(a), a.Label, a.Href)
	} else {
		b.WriteString("Active: none\n")
	}
	if len(view.Activation.Expanded) > 0 {
		ids := make([]string, len(view.Activation.Expanded))
		for i, e := range view.Activation.Expanded {
			ids[i] = e.ID
		}
		fmt.Fprintf(&b, "Expanded by resolution: %s\n", strings.Join(ids, ", "))
	}
	b.WriteString("\n")
	b.WriteString(view.Outline())
	return b.String()
}

func numberPrefix(e *nav.Entry) string {
	if e.Number == "" {
		return ""
	}
	return e.Number + " "
}
