package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/scrollstore"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

const testMarkup = `<ol class="chapter">` +
	`<li class="chapter-item expanded "><a href="index.html"><strong aria-hidden="true">1.</strong> Overview</a></li>` +
	`<li class="chapter-item "><a href="cli-reference/index.html"><strong aria-hidden="true">2.</strong> CLI Reference</a></li>` +
	`<li><ol class="section">` +
	`<li class="chapter-item "><a href="cli-reference/list.html"><strong aria-hidden="true">2.1.</strong> mergeway-cli list</a></li>` +
	`<li class="chapter-item "><a href="cli-reference/get.html"><strong aria-hidden="true">2.2.</strong> mergeway-cli get</a></li>` +
	`</ol></li>` +
	`</ol>`

func newTestServer(t *testing.T, store scrollstore.Store) *Server {
	t.Helper()
	tree, err := nav.ParseHTMLString(testMarkup)
	if err != nil {
		t.Fatal(err)
	}
	registry := variant.New(
		&variant.Variant{Name: "stable", Navigator: sidebar.New(tree, store)},
		&variant.Variant{Name: "next", Match: []string{"next/**"}, Navigator: sidebar.New(tree, store)},
	)
	return NewServer(registry, script.Options{})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_variants", listVariantsTool, "list_variants"},
		{"resolve_sidebar", resolveSidebarTool, "resolve_sidebar"},
		{"get_sidebar_script", getScriptTool, "get_sidebar_script"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, nil)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.registry == nil {
		t.Fatal("registry not set")
	}
}

func TestHandleListVariants(t *testing.T) {
	srv := newTestServer(t, nil)
	result, err := srv.handleListVariants(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "stable: 4 links (default)") {
		t.Errorf("missing stable line in %q", text)
	}
	if !strings.Contains(text, "next: 4 links, matches next/**") {
		t.Errorf("missing next line in %q", text)
	}
}

func TestHandleResolveSidebar(t *testing.T) {
	ctx := context.Background()

	t.Run("cli reference example", func(t *testing.T) {
		srv := newTestServer(t, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"location":     "cli-reference/get.html",
			"path_to_root": "",
		}

		result, err := srv.handleResolveSidebar(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Active: 1.1 2.2. mergeway-cli get -> cli-reference/get.html") {
			t.Errorf("active line missing in:\n%s", text)
		}
		if !strings.Contains(text, "Expanded by resolution: 1.1, 1") {
			t.Errorf("expansion line missing in:\n%s", text)
		}
		if !strings.Contains(text, "Variant: stable") {
			t.Errorf("variant line missing in:\n%s", text)
		}
	})

	t.Run("variant from location", func(t *testing.T) {
		srv := newTestServer(t, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"location": "next/whatever.html"}

		result, _ := srv.handleResolveSidebar(ctx, req)
		text := resultText(t, result)
		if !strings.Contains(text, "Variant: next") || !strings.Contains(text, "Active: none") {
			t.Errorf("unexpected result:\n%s", text)
		}
	})

	t.Run("html format", func(t *testing.T) {
		srv := newTestServer(t, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"location": "index.html", "format": "html"}

		result, _ := srv.handleResolveSidebar(ctx, req)
		if text := resultText(t, result); !strings.Contains(text, `<a href="index.html" class="active">`) {
			t.Errorf("html result missing active link:\n%s", text)
		}
	})

	t.Run("does not consume saved offsets", func(t *testing.T) {
		store := scrollstore.NewMemory(0)
		if err := store.Put(ctx, scrollstore.DefaultKey, 99); err != nil {
			t.Fatal(err)
		}
		srv := newTestServer(t, store)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"location": "index.html"}
		if _, err := srv.handleResolveSidebar(ctx, req); err != nil {
			t.Fatal(err)
		}
		if store.Len() != 1 {
			t.Error("resolve_sidebar should not take the stored offset")
		}
	})

	t.Run("missing location", func(t *testing.T) {
		srv := newTestServer(t, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleResolveSidebar(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing location")
		}
	})

	t.Run("unknown variant", func(t *testing.T) {
		srv := newTestServer(t, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"location": "index.html", "variant": "legacy"}

		result, _ := srv.handleResolveSidebar(ctx, req)
		if !result.IsError {
			t.Error("expected error for unknown variant")
		}
	})
}

func TestHandleGetScript(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, nil)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"variant": "stable"}
	result, err := srv.handleGetScript(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, `var elementName = "mdbook-sidebar-scrollbox";`) {
		t.Errorf("script missing element name:\n%s", text)
	}

	req.Params.Arguments = map[string]any{"variant": "legacy"}
	result, _ = srv.handleGetScript(ctx, req)
	if !result.IsError {
		t.Error("expected error for unknown variant")
	}
}
