package prerender

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

const testMarkup = `<ol class="chapter">` +
	`<li class="chapter-item "><a href="index.html"><strong aria-hidden="true">1.</strong> Overview</a></li>` +
	`<li class="chapter-item "><a href="guide/"><strong aria-hidden="true">2.</strong> Guide</a></li>` +
	`<li><ol class="section">` +
	`<li class="chapter-item "><a href="guide/setup.html"><strong aria-hidden="true">2.1.</strong> Setup</a></li>` +
	`<li class="chapter-item "><a href="guide/setup.html#linux"><strong aria-hidden="true">2.2.</strong> Linux</a></li>` +
	`</ol></li>` +
	`<li class="chapter-item "><a href="https://example.com/">Home</a></li>` +
	`<li class="chapter-item "><a href="#top">Top</a></li>` +
	`</ol>`

func testVariant(t *testing.T, name string) *variant.Variant {
	t.Helper()
	tree, err := nav.ParseHTMLString(testMarkup)
	if err != nil {
		t.Fatal(err)
	}
	return &variant.Variant{Name: name, Navigator: sidebar.New(tree, nil)}
}

func TestDocuments(t *testing.T) {
	v := testVariant(t, "docs")
	got := Documents(v.Tree(), "index.html")
	want := []string{"index.html", "guide/index.html", "guide/setup.html"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Documents = %v, want %v", got, want)
	}
}

func TestSnapshotPath(t *testing.T) {
	tests := map[string]string{
		"index.html":       "index.sidebar.html",
		"guide/setup.html": "guide/setup.sidebar.html",
		"notes":            "notes.sidebar.html",
	}
	for in, want := range tests {
		if got := SnapshotPath(in); got != want {
			t.Errorf("SnapshotPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	g := NewGenerator(out, script.Options{}, nil)

	n, err := g.Generate(context.Background(), []*variant.Variant{testVariant(t, "stable"), testVariant(t, "next")})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n != 6 {
		t.Errorf("snapshots = %d, want 6", n)
	}

	for _, name := range []string{"stable", "next"} {
		if _, err := os.Stat(filepath.Join(out, name, ScriptName)); err != nil {
			t.Errorf("%s script missing: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "stable", "guide", "setup.sidebar.html"))
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	html := string(data)

	// Links are rewritten relative to guide/.
	if !strings.Contains(html, `<a href="../guide/setup.html" class="active">`) {
		t.Errorf("snapshot should mark setup active with a rewritten href:\n%s", html)
	}
	if !strings.Contains(html, `<a href="../index.html">`) {
		t.Errorf("snapshot should rewrite the overview link:\n%s", html)
	}
	if !strings.Contains(html, `<a href="https://example.com/">`) {
		t.Errorf("absolute link should be untouched:\n%s", html)
	}
	if !strings.Contains(html, `<li class="chapter-item expanded " data-nav-id="1">`) {
		t.Errorf("enclosing section should be expanded:\n%s", html)
	}
	if strings.Count(html, `class="active"`) != 1 {
		t.Errorf("exactly one link should be active:\n%s", html)
	}

	// A directory link gets a snapshot at its index document. Like a browser, the
	// resolver compares the link as written, so "guide/" does not match guide/index.html.
	data, err = os.ReadFile(filepath.Join(out, "stable", "guide", "index.sidebar.html"))
	if err != nil {
		t.Fatalf("reading guide index snapshot: %v", err)
	}
	if strings.Contains(string(data), `class="active"`) {
		t.Errorf("directory link should not match its index document:\n%s", data)
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGenerator(t.TempDir(), script.Options{}, nil)
	if _, err := g.Generate(ctx, []*variant.Variant{testVariant(t, "docs")}); err == nil {
		t.Error("expected context error")
	}
}

func TestGenerateNothing(t *testing.T) {
	tree, err := nav.ParseHTMLString(`<ol class="chapter"><li class="chapter-item "><a href="https://example.com/">Home</a></li></ol>`)
	if err != nil {
		t.Fatal(err)
	}
	v := &variant.Variant{Name: "x", Navigator: sidebar.New(tree, nil)}
	if _, err := NewGenerator(t.TempDir(), script.Options{}, nil).Generate(context.Background(), []*variant.Variant{v}); err == nil {
		t.Error("expected error when no documents are linked")
	}
}
