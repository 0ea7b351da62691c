package nav

import (
	"net/url"
	"path"
	"strings"
)

// DefaultIndex is the document a directory address aliases.
const DefaultIndex = "index.html"

// Location is the canonical address of the current document.
//
// A location is either an absolute URL, in which case links are resolved the way a
// browser resolves an anchor's href, or a document path relative to the site root
// ("cli-reference/get.html", "/"), in which case links are compared by their
// root-relative targets.
type Location struct {
	Raw       string
	Canonical string
	base      *url.URL // nil for document paths
}

// ParseLocation canonicalises raw: the fragment and query are stripped, document paths
// are cleaned, and a trailing separator gets index appended. An empty index means DefaultIndex.
func ParseLocation(raw, index string) Location {
	if index == "" {
		index = DefaultIndex
	}
	canonical := stripSuffixes(raw)

	loc := Location{Raw: raw}
	if u, err := url.Parse(canonical); err == nil && u.IsAbs() && u.Host != "" {
		if strings.HasSuffix(canonical, "/") || u.Path == "" {
			if u.Path == "" {
				canonical += "/"
			}
			canonical += index
		}
		loc.Canonical = canonical
		loc.base, _ = url.Parse(canonical)
		return loc
	}

	canonical = "/" + cleanDocument(canonical)
	if strings.HasSuffix(canonical, "/") {
		canonical += index
	}
	loc.Canonical = canonical
	return loc
}

// IsURL reports whether the location is an absolute URL.
func (l Location) IsURL() bool { return l.base != nil }

// Resolve returns the fully resolved address of a link entry for comparison with
// Canonical. Entries without a target resolve to "".
func (l Location) Resolve(e *Entry) string {
	if e.Target == "" {
		return ""
	}
	if l.base != nil {
		href := e.Href
		if href == "" {
			href = e.Target
		}
		ref, err := url.Parse(href)
		if err != nil {
			return ""
		}
		return l.base.ResolveReference(ref).String()
	}

	switch {
	case strings.HasPrefix(e.Target, "#"):
		return l.Canonical + e.Target
	case !IsRelative(e.Target):
		return e.Target
	}
	// Keep any query or fragment on the target so it never equals a canonical address.
	target, rest := e.Target, ""
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target, rest = target[:i], target[i:]
	}
	resolved := path.Clean("/" + target)
	if strings.HasSuffix(target, "/") && resolved != "/" {
		resolved += "/"
	}
	return resolved + rest
}

// stripSuffixes removes the fragment, then the query.
func stripSuffixes(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	return s
}
