// Package variant loads the configured documentation variants and selects the one
// serving a given page.
package variant

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/sidenav/internal/config"
	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/scrollstore"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
)

// ErrUnknownVariant is returned by Get for names not in the registry.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant is one documentation build and the navigator over its table of contents.
type Variant struct {
	Name      string
	Match     []string
	Navigator *sidebar.Navigator
}

// Tree returns the variant's fixed navigation tree.
func (v *Variant) Tree() *nav.Tree { return v.Navigator.Tree() }

// Detached returns a navigator over the same tree and settings with no scroll store,
// for one-off resolutions that must not consume a session's saved offset.
func (v *Variant) Detached() *sidebar.Navigator {
	return sidebar.New(v.Tree(), nil,
		sidebar.WithScrollKey(v.Navigator.ScrollKey()),
		sidebar.WithIndexDocument(v.Navigator.IndexDocument()))
}

// Registry holds the loaded variants in configuration order.
type Registry struct {
	variants []*Variant
	byName   map[string]*Variant
}

// New builds a registry from already constructed variants.
func New(variants ...*Variant) *Registry {
	r := &Registry{byName: make(map[string]*Variant, len(variants))}
	for _, v := range variants {
		r.variants = append(r.variants, v)
		r.byName[v.Name] = v
	}
	return r
}

// Load parses every configured table of contents, resolving relative TOC paths
// against baseDir, and builds one navigator per variant sharing store.
func Load(cfg *config.Config, baseDir string, store scrollstore.Store, opts ...sidebar.Option) (*Registry, error) {
	opts = append([]sidebar.Option{
		sidebar.WithScrollKey(cfg.ScrollKey),
		sidebar.WithIndexDocument(cfg.IndexDocument),
	}, opts...)

	var variants []*Variant
	for _, vc := range cfg.Variants {
		tocPath := vc.TOC
		if !filepath.IsAbs(tocPath) && baseDir != "" {
			tocPath = filepath.Join(baseDir, tocPath)
		}
		tree, err := LoadTree(tocPath, vc.FormatFor(), vc.Fold)
		if err != nil {
			return nil, fmt.Errorf("loading variant %s: %w", vc.Name, err)
		}
		variants = append(variants, &Variant{
			Name:      vc.Name,
			Match:     vc.Match,
			Navigator: sidebar.New(tree, store, opts...),
		})
	}
	return New(variants...), nil
}

// LoadTree reads and parses one table of contents file.
func LoadTree(path string, format config.TOCFormat, fold bool) (*nav.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening toc: %w", err)
	}
	defer f.Close()

	var tree *nav.Tree
	switch format {
	case config.FormatMarkdown:
		tree, err = nav.ParseMarkdown(f, nav.MarkdownOptions{Fold: fold})
	case config.FormatHTML, "":
		tree, err = nav.ParseHTML(f)
	default:
		return nil, fmt.Errorf("unsupported toc format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(tree.Links()) == 0 {
		return nil, fmt.Errorf("%s contains no links", path)
	}
	return tree, nil
}

// Get returns the named variant.
func (r *Registry) Get(name string) (*Variant, error) {
	v, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// ForLocation returns the first variant with a match pattern covering the document
// path of location, or the first variant when none does. It returns nil only for an
// empty registry.
func (r *Registry) ForLocation(location string) *Variant {
	if len(r.variants) == 0 {
		return nil
	}
	doc := DocumentPath(location)
	for _, v := range r.variants {
		for _, pattern := range v.Match {
			if ok, _ := doublestar.Match(pattern, doc); ok {
				return v
			}
		}
	}
	return r.variants[0]
}

// Names lists the variant names in configuration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.variants))
	for i, v := range r.variants {
		names[i] = v.Name
	}
	return names
}

// Variants returns the variants in configuration order.
func (r *Registry) Variants() []*Variant {
	return r.variants
}

// DocumentPath reduces a location to a slash-separated path relative to the site root,
// without query or fragment: "https://h/v2/a.html?x#y" -> "v2/a.html".
func DocumentPath(location string) string {
	if u, err := url.Parse(location); err == nil && u.IsAbs() && u.Host != "" {
		location = u.Path
	}
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	return strings.TrimLeft(location, "/")
}
