package nav

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownOptions controls how a markdown table of contents is turned into a tree.
type MarkdownOptions struct {
	// Fold gives sections a toggle control and starts them collapsed.
	// Without it every section item starts expanded.
	Fold bool
}

// ParseMarkdown reads a SUMMARY-style table of contents: nested lists of links,
// headings as part titles and thematic breaks as spacers. List items without a
// link become draft chapters. A level-one heading before any entry is the document
// title and is dropped.
func ParseMarkdown(r io.Reader, opts MarkdownOptions) (*Tree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read toc markdown: %w", err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	tree := &Tree{}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && len(tree.Entries) == 0 {
				continue // document title
			}
			tree.Entries = append(tree.Entries, &Entry{Kind: KindPartTitle, Label: inlineText(node, src)})
		case *ast.ThematicBreak:
			tree.Entries = append(tree.Entries, &Entry{Kind: KindSpacer})
		case *ast.List:
			tree.Entries = append(tree.Entries, parseMarkdownList(node, src, "", numberFrom(tree.Entries), opts)...)
		}
	}
	tree.link()
	return tree, nil
}

// numberFrom continues top-level chapter numbering across part titles and spacers.
func numberFrom(entries []*Entry) int {
	n := 0
	for _, e := range entries {
		if e.Kind == KindChapter {
			n++
		}
	}
	return n
}

func parseMarkdownList(list *ast.List, src []byte, prefix string, start int, opts MarkdownOptions) []*Entry {
	var entries []*Entry
	i := start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if _, ok := item.(*ast.ListItem); !ok {
			continue
		}
		i++
		e := &Entry{
			Kind:        KindChapter,
			SectionItem: true,
			Expanded:    !opts.Fold,
			Number:      prefix + strconv.Itoa(i) + ".",
		}

		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch block := c.(type) {
			case *ast.List:
				e.Children = append(e.Children, parseMarkdownList(block, src, e.Number, len(e.Children), opts)...)
			default:
				if e.Label != "" {
					continue
				}
				if link := findLink(block); link != nil {
					e.Target = string(link.Destination)
					e.Label = inlineText(link, src)
				} else {
					e.Label = inlineText(block, src)
				}
			}
		}
		if opts.Fold && len(e.Children) > 0 {
			e.Toggle = true
		}
		entries = append(entries, e)
	}
	return entries
}

func findLink(n ast.Node) *ast.Link {
	if l, ok := n.(*ast.Link); ok {
		return l
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if l := findLink(c); l != nil {
			return l
		}
	}
	return nil
}

// inlineText concatenates the text segments under n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
