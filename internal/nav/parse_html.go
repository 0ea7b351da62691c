package nav

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML reads sidebar markup: an <ol class="chapter"> of li.chapter-item entries,
// each section's children in the following <li><ol class="section">, li.part-title
// headers and li.spacer separators. Unknown elements are skipped.
func ParseHTML(r io.Reader) (*Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse toc html: %w", err)
	}

	tree := &Tree{}
	if root := findList(doc); root != nil {
		tree.Entries = parseList(root)
	}
	tree.link()
	return tree, nil
}

// ParseHTMLString is ParseHTML over an in-memory string.
func ParseHTMLString(markup string) (*Tree, error) {
	return ParseHTML(strings.NewReader(markup))
}

func parseList(list *html.Node) []*Entry {
	var entries []*Entry
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}

		switch {
		case hasClass(li, "spacer"):
			entries = append(entries, &Entry{Kind: KindSpacer})
			continue
		case hasClass(li, "part-title"):
			entries = append(entries, &Entry{Kind: KindPartTitle, Label: textContent(li)})
			continue
		}

		// A bare <li> wrapping a nested list holds the previous entry's children.
		if sub := childList(li); sub != nil && !hasClass(li, "chapter-item") && firstAnchor(li) == nil {
			children := parseList(sub)
			if n := len(entries); n > 0 && entries[n-1].Kind == KindChapter {
				entries[n-1].Children = append(entries[n-1].Children, children...)
			} else {
				entries = append(entries, children...)
			}
			continue
		}

		entries = append(entries, parseChapter(li))
	}
	return entries
}

func parseChapter(li *html.Node) *Entry {
	e := &Entry{
		Kind:        KindChapter,
		SectionItem: hasClass(li, "chapter-item"),
		Expanded:    hasClass(li, "expanded"),
	}

	label := firstAnchor(li)
	if label != nil {
		if href, ok := attr(label, "href"); ok {
			e.Target = href
		}
	} else {
		// Draft chapters render their label without a link.
		label = firstElement(li, "div", "span")
	}
	if label != nil {
		e.Number, e.Label = splitNumber(label)
	}

	var scan func(*html.Node)
	scan = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch {
			case c.Data == "a" && hasClass(c, "toggle"):
				e.Toggle = true
			case c.Data == "ol" || c.Data == "ul":
				// Some builds nest the section list inside the chapter item itself.
				e.Children = append(e.Children, parseList(c)...)
			default:
				scan(c)
			}
		}
	}
	scan(li)
	return e
}

// splitNumber separates the <strong> section number from the label text.
func splitNumber(n *html.Node) (number, label string) {
	var num, text strings.Builder
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, inStrong bool) {
		switch n.Type {
		case html.TextNode:
			if inStrong {
				num.WriteString(n.Data)
			} else {
				text.WriteString(n.Data)
			}
		case html.ElementNode:
			inStrong = inStrong || n.Data == "strong"
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inStrong)
		}
	}
	walk(n, false)
	return strings.TrimSpace(num.String()), strings.TrimSpace(text.String())
}

func findList(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && (n.Data == "ol" || n.Data == "ul") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if l := findList(c); l != nil {
			return l
		}
	}
	return nil
}

// childList returns li's direct <ol>/<ul> child.
func childList(li *html.Node) *html.Node {
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ol" || c.Data == "ul") {
			return c
		}
	}
	return nil
}

// firstAnchor returns the first non-toggle <a> that is not inside a nested list.
func firstAnchor(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data == "ol" || c.Data == "ul" {
			continue
		}
		if c.Data == "a" && !hasClass(c, "toggle") {
			return c
		}
		if a := firstAnchor(c); a != nil {
			return a
		}
	}
	return nil
}

func firstElement(n *html.Node, tags ...string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		for _, t := range tags {
			if c.Data == t {
				return c
			}
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
