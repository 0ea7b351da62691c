package nav

import "strconv"

// Kind distinguishes navigable chapters from purely structural entries.
type Kind int

const (
	KindChapter   Kind = iota // li.chapter-item, with or without a link
	KindPartTitle             // li.part-title section header
	KindSpacer                // li.spacer separator
)

func (k Kind) String() string {
	switch k {
	case KindChapter:
		return "chapter"
	case KindPartTitle:
		return "part-title"
	case KindSpacer:
		return "spacer"
	}
	return "unknown"
}

// Entry is one node of the table of contents.
type Entry struct {
	ID     string // index path within the tree, e.g. "1.0"
	Kind   Kind
	Label  string
	Number string // section number as printed, e.g. "2.1."

	// Target is the link as recorded in the TOC markup, relative to the site root.
	// Empty for headers, spacers and draft chapters.
	Target string
	// Href is the link as rendered for the current page (Target after PathContext rewriting).
	Href string

	SectionItem bool // tagged chapter-item; only these take the expanded class
	Toggle      bool // carries a collapse/expand toggle control
	Expanded    bool
	Active      bool

	Children []*Entry
	parent   *Entry
}

// Parent returns the entry whose section list contains e, or nil at top level.
func (e *Entry) Parent() *Entry { return e.parent }

// IsLink reports whether the entry is navigable.
func (e *Entry) IsLink() bool { return e.Kind == KindChapter && e.Target != "" }

// Depth is the number of enclosing sections.
func (e *Entry) Depth() int {
	d := 0
	for p := e.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Tree is an ordered, nested sequence of entries.
type Tree struct {
	Entries []*Entry
}

// Walk visits entries in document order. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(*Entry) bool) {
	var walk func([]*Entry) bool
	walk = func(entries []*Entry) bool {
		for _, e := range entries {
			if !fn(e) {
				return false
			}
			if !walk(e.Children) {
				return false
			}
		}
		return true
	}
	walk(t.Entries)
}

// Links returns the navigable entries in document order.
func (t *Tree) Links() []*Entry {
	var links []*Entry
	t.Walk(func(e *Entry) bool {
		if e.IsLink() {
			links = append(links, e)
		}
		return true
	})
	return links
}

// Find returns the entry with the given ID, or nil.
func (t *Tree) Find(id string) *Entry {
	var found *Entry
	t.Walk(func(e *Entry) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// FindTarget returns the first entry whose recorded target equals target.
func (t *Tree) FindTarget(target string) *Entry {
	var found *Entry
	t.Walk(func(e *Entry) bool {
		if e.IsLink() && e.Target == target {
			found = e
			return false
		}
		return true
	})
	return found
}

// Len returns the total number of entries.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(*Entry) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy with parent links pointing into the copy.
func (t *Tree) Clone() *Tree {
	return &Tree{Entries: cloneEntries(t.Entries, nil)}
}

func cloneEntries(entries []*Entry, parent *Entry) []*Entry {
	if entries == nil {
		return nil
	}
	out := make([]*Entry, len(entries))
	for i, e := range entries {
		c := *e
		c.parent = parent
		c.Children = cloneEntries(e.Children, &c)
		out[i] = &c
	}
	return out
}

// Expanded returns the entries currently marked expanded, in document order.
func (t *Tree) Expanded() []*Entry {
	var out []*Entry
	t.Walk(func(e *Entry) bool {
		if e.Expanded {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Active returns the active entry, or nil.
func (t *Tree) Active() *Entry {
	var found *Entry
	t.Walk(func(e *Entry) bool {
		if e.Active {
			found = e
			return false
		}
		return true
	})
	return found
}

// link wires parent pointers and assigns index-path IDs.
func (t *Tree) link() {
	var assign func(entries []*Entry, parent *Entry, prefix string)
	assign = func(entries []*Entry, parent *Entry, prefix string) {
		for i, e := range entries {
			e.parent = parent
			e.ID = prefix + strconv.Itoa(i)
			assign(e.Children, e, e.ID+".")
		}
	}
	assign(t.Entries, nil, "")
}
