// Package sidebar runs the table of contents widget lifecycle: on every insertion it
// injects a fresh copy of the navigation tree, rewrites links for the page, marks the
// active entry, and restores or centres the scroll position. The returned View then
// handles the click, toggle and scroll events of that page.
package sidebar

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/sidenav/internal/logging"
	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/scrollstore"
)

// Navigator inserts sidebars built from one fixed navigation tree.
// It is safe for concurrent use; each insertion works on its own copy of the tree.
type Navigator struct {
	tree      *nav.Tree
	store     scrollstore.Store
	scrollKey string
	index     string
	logger    *log.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithScrollKey sets the store key the scroll offset is kept under.
func WithScrollKey(key string) Option {
	return func(n *Navigator) {
		if key != "" {
			n.scrollKey = key
		}
	}
}

// WithIndexDocument sets the document name a directory address aliases.
func WithIndexDocument(name string) Option {
	return func(n *Navigator) {
		if name != "" {
			n.index = name
		}
	}
}

// WithLogger sets the logger used for store failures. Without it the logger is taken
// from the context passed to Insert.
func WithLogger(l *log.Logger) Option {
	return func(n *Navigator) { n.logger = l }
}

// New creates a Navigator for tree. A nil store disables scroll persistence.
func New(tree *nav.Tree, store scrollstore.Store, opts ...Option) *Navigator {
	n := &Navigator{
		tree:      tree,
		store:     store,
		scrollKey: scrollstore.DefaultKey,
		index:     nav.DefaultIndex,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Tree returns the fixed tree the navigator was built from. Callers must not modify it.
func (n *Navigator) Tree() *nav.Tree { return n.tree }

// ScrollKey returns the configured store key.
func (n *Navigator) ScrollKey() string { return n.scrollKey }

// IndexDocument returns the configured index document name.
func (n *Navigator) IndexDocument() string { return n.index }

// Page describes the host page a sidebar is inserted into.
type Page struct {
	Location   string // the page address, absolute URL or root-relative document path
	PathToRoot string // prefix from the page back to the site root
	Session    string // browser session the scroll offset belongs to
}

// Insert runs one insertion pass for page and returns the resulting view.
// The pass has no error surface: a store failure is logged and handled as an absent offset.
func (n *Navigator) Insert(ctx context.Context, page Page) *View {
	t := n.tree.Clone()
	nav.RewriteLinks(t, page.PathToRoot)

	loc := nav.ParseLocation(page.Location, n.index)
	v := &View{
		Tree:       t,
		Location:   loc,
		PathToRoot: page.PathToRoot,
		Activation: nav.Resolve(t, loc, page.PathToRoot, n.index),
		navigator:  n,
		key:        scrollstore.SessionKey(page.Session, n.scrollKey),
	}

	offset, ok := n.take(ctx, v.key)
	switch {
	case ok:
		v.ScrollTop = float64(offset)
		v.Restored = true
	case v.Activation.Active != nil:
		v.CenterOn = v.Activation.Active.ID
	}

	n.log(ctx).Debug("sidebar inserted",
		"location", loc.Canonical,
		"path_to_root", page.PathToRoot,
		"active", v.ActiveID(),
		"restored", v.Restored)
	return v
}

func (n *Navigator) take(ctx context.Context, key string) (scrollstore.Offset, bool) {
	if n.store == nil {
		return 0, false
	}
	offset, ok, err := n.store.Take(ctx, key)
	if err != nil {
		n.log(ctx).Warn("reading sidebar scroll offset", "key", key, "err", err)
		return 0, false
	}
	return offset, ok
}

func (n *Navigator) put(ctx context.Context, key string, offset scrollstore.Offset) bool {
	if n.store == nil {
		return false
	}
	if err := n.store.Put(ctx, key, offset); err != nil {
		n.log(ctx).Warn("saving sidebar scroll offset", "key", key, "err", err)
		return false
	}
	return true
}

func (n *Navigator) log(ctx context.Context) *log.Logger {
	if n.logger != nil {
		return n.logger
	}
	return logging.FromContext(ctx)
}
