package nav

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// absoluteLink matches scheme-prefixed and protocol-relative URLs.
var absoluteLink = regexp.MustCompile(`^(?:[a-z+]+:)?//`)

// IsRelative reports whether href is a document link that needs the PathContext prefix.
// Fragment-only and absolute links are already correct.
func IsRelative(href string) bool {
	return href != "" && !strings.HasPrefix(href, "#") && !absoluteLink.MatchString(href)
}

// RewriteLinks sets every link's Href, prefixing relative targets with pathToRoot.
func RewriteLinks(t *Tree, pathToRoot string) {
	t.Walk(func(e *Entry) bool {
		if e.Target == "" {
			return true
		}
		if IsRelative(e.Target) {
			e.Href = pathToRoot + e.Target
		} else {
			e.Href = e.Target
		}
		return true
	})
}

// PathToRoot returns the relative prefix from a document back to the site root,
// e.g. "../" for "guides/setup.html". Absolute URLs are measured by their path, so the
// site is taken to be served from the host root.
func PathToRoot(docPath string) string {
	if absoluteLink.MatchString(docPath) {
		u, err := url.Parse(docPath)
		if err != nil {
			return ""
		}
		docPath = u.Path
	}
	docPath = cleanDocument(stripSuffixes(docPath))
	return strings.Repeat("../", strings.Count(docPath, "/"))
}

// cleanDocument cleans a slash-separated document path and drops its leading "/".
// A trailing "/" survives so directories keep their depth.
func cleanDocument(p string) string {
	dir := strings.HasSuffix(p, "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if dir && p != "" {
		p += "/"
	}
	return p
}
