package nav

import "strings"

// Activation is the derived state of one resolution pass.
type Activation struct {
	Active   *Entry   // nil when no link matches the location
	Expanded []*Entry // section items marked expanded by this pass, innermost first
}

// Resolve marks the first link whose resolved address equals the location as active
// and expands its enclosing sections. Links must already be rewritten for pathToRoot.
//
// When pathToRoot is empty and the location is a root index document, the first link
// in the tree matches too: the root index page aliases the first chapter.
func Resolve(t *Tree, loc Location, pathToRoot, index string) Activation {
	if index == "" {
		index = DefaultIndex
	}
	rootIndex := pathToRoot == "" && strings.HasSuffix(loc.Canonical, "/"+index)

	for i, link := range t.Links() {
		if loc.Resolve(link) == loc.Canonical || (i == 0 && rootIndex) {
			link.Active = true
			return Activation{Active: link, Expanded: ExpandAncestors(link)}
		}
	}
	return Activation{}
}

// ExpandAncestors marks e, if it is a section item, and every section item enclosing
// it as expanded. It never collapses anything. The marked entries are returned
// innermost first.
func ExpandAncestors(e *Entry) []*Entry {
	var marked []*Entry
	for p := e; p != nil; p = p.parent {
		if p.SectionItem {
			p.Expanded = true
			marked = append(marked, p)
		}
	}
	return marked
}

// Toggle flips the expanded state of e alone and returns the new state.
func Toggle(e *Entry) bool {
	e.Expanded = !e.Expanded
	return e.Expanded
}
