package nav

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTML renders the tree as sidebar markup with the current active and expanded classes.
// Links use Href when set, else the recorded Target.
func (t *Tree) HTML() string {
	var b strings.Builder
	b.WriteString(`<ol class="chapter">`)
	renderEntries(&b, t.Entries)
	b.WriteString(`</ol>`)
	return b.String()
}

func renderEntries(b *strings.Builder, entries []*Entry) {
	for _, e := range entries {
		switch e.Kind {
		case KindSpacer:
			b.WriteString(`<li class="spacer"></li>`)
			continue
		case KindPartTitle:
			fmt.Fprintf(b, `<li class="part-title">%s</li>`, html.EscapeString(e.Label))
			continue
		}

		class := ""
		if e.SectionItem {
			class = "chapter-item "
		}
		if e.Expanded {
			class += "expanded "
		}
		fmt.Fprintf(b, `<li class="%s" data-nav-id="%s">`, class, e.ID)

		label := html.EscapeString(e.Label)
		if e.Number != "" {
			label = fmt.Sprintf(`<strong aria-hidden="true">%s</strong> %s`, html.EscapeString(e.Number), label)
		}
		if e.Target != "" {
			href := e.Href
			if href == "" {
				href = e.Target
			}
			active := ""
			if e.Active {
				active = ` class="active"`
			}
			fmt.Fprintf(b, `<a href="%s"%s>%s</a>`, html.EscapeString(href), active, label)
		} else {
			fmt.Fprintf(b, `<div>%s</div>`, label)
		}
		if e.Toggle {
			b.WriteString(`<a class="toggle"><div>❱</div></a>`)
		}
		b.WriteString(`</li>`)

		if len(e.Children) > 0 {
			b.WriteString(`<li><ol class="section">`)
			renderEntries(b, e.Children)
			b.WriteString(`</ol></li>`)
		}
	}
}

// WriteOutline writes a plain-text outline: one entry per line, indented by depth,
// with markers for the active entry ("*") and expanded sections ("+").
func (t *Tree) WriteOutline(w io.Writer) error {
	var err error
	t.Walk(func(e *Entry) bool {
		marker := " "
		switch {
		case e.Active:
			marker = "*"
		case e.Expanded:
			marker = "+"
		}

		var line string
		switch e.Kind {
		case KindSpacer:
			line = "---"
		case KindPartTitle:
			line = "# " + e.Label
		default:
			line = strings.TrimSpace(e.Number + " " + e.Label)
			if e.Target != "" {
				href := e.Href
				if href == "" {
					href = e.Target
				}
				line += " -> " + href
			}
		}
		_, err = fmt.Fprintf(w, "%s %s%s\n", marker, strings.Repeat("  ", e.Depth()), line)
		return err == nil
	})
	return err
}

// Outline returns WriteOutline's output as a string.
func (t *Tree) Outline() string {
	var b strings.Builder
	_ = t.WriteOutline(&b)
	return b.String()
}
