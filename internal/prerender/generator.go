// Package prerender writes static sidebar snapshots, one per navigable page, for hosts
// that embed the sidebar at build time instead of populating it from the script.
package prerender

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/progress"
	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

// SnapshotSuffix replaces a page's extension in its snapshot file name.
const SnapshotSuffix = ".sidebar.html"

// ScriptName is the file the variant's browser script is written to.
const ScriptName = "toc.js"

// Generator renders snapshots into OutputDir/<variant>/.
type Generator struct {
	OutputDir string
	Script    script.Options
	Reporter  progress.Reporter
}

// NewGenerator creates a Generator writing below outputDir.
func NewGenerator(outputDir string, opts script.Options, reporter progress.Reporter) *Generator {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Generator{
		OutputDir: outputDir,
		Script:    opts,
		Reporter:  reporter,
	}
}

// page is one document to snapshot.
type page struct {
	variant *variant.Variant
	doc     string // root-relative document path
}

// Generate writes every variant's script and one snapshot per distinct relative link
// target. Returns the number of snapshots written.
func (g *Generator) Generate(ctx context.Context, variants []*variant.Variant) (int, error) {
	var pages []page
	for _, v := range variants {
		for _, doc := range Documents(v.Tree(), g.indexDocument()) {
			pages = append(pages, page{variant: v, doc: doc})
		}
	}
	if len(pages) == 0 {
		return 0, fmt.Errorf("no documents to pre-render")
	}

	for _, v := range variants {
		if err := g.writeScript(v); err != nil {
			return 0, fmt.Errorf("writing script for %s: %w", v.Name, err)
		}
	}

	navigators := make(map[string]*sidebar.Navigator, len(variants))
	for _, v := range variants {
		navigators[v.Name] = v.Detached()
	}

	g.Reporter.Start(len(pages))
	defer g.Reporter.Finish()

	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		view := navigators[p.variant.Name].Insert(ctx, sidebar.Page{
			Location:   p.doc,
			PathToRoot: nav.PathToRoot(p.doc),
		})
		if err := g.writeSnapshot(p, view); err != nil {
			return i, fmt.Errorf("rendering %s/%s: %w", p.variant.Name, p.doc, err)
		}
		g.Reporter.Update(i+1, p.variant.Name+"/"+p.doc)
	}

	return len(pages), nil
}

func (g *Generator) indexDocument() string {
	if g.Script.IndexDocument != "" {
		return g.Script.IndexDocument
	}
	return nav.DefaultIndex
}

func (g *Generator) writeScript(v *variant.Variant) error {
	dir := filepath.Join(g.OutputDir, v.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, ScriptName))
	if err != nil {
		return err
	}
	if err := script.Write(f, v.Name, v.Tree(), g.Script); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (g *Generator) writeSnapshot(p page, view *sidebar.View) error {
	outPath := filepath.Join(g.OutputDir, p.variant.Name, filepath.FromSlash(SnapshotPath(p.doc)))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte(view.HTML()+"\n"), 0o644)
}

// Documents lists the distinct root-relative documents the tree links to, in document
// order. Absolute and fragment-only links are skipped; directory links get index appended.
func Documents(t *nav.Tree, index string) []string {
	seen := make(map[string]bool)
	var docs []string
	for _, e := range t.Links() {
		if !nav.IsRelative(e.Target) {
			continue
		}
		doc := e.Target
		if i := strings.IndexAny(doc, "?#"); i >= 0 {
			doc = doc[:i]
		}
		if doc == "" {
			continue
		}
		dir := strings.HasSuffix(doc, "/")
		doc = strings.TrimPrefix(path.Clean("/"+doc), "/")
		if dir || doc == "" {
			doc = path.Join(doc, index)
		}
		if seen[doc] {
			continue
		}
		seen[doc] = true
		docs = append(docs, doc)
	}
	return docs
}

// SnapshotPath maps a document to its snapshot file: "guide/setup.html" ->
// "guide/setup.sidebar.html".
func SnapshotPath(doc string) string {
	return strings.TrimSuffix(doc, path.Ext(doc)) + SnapshotSuffix
}
