// Package script emits the browser script that populates a variant's sidebar.
//
// The table of contents is embedded once in the script rather than in every page, so
// each page stays O(n) in the number of chapters.
package script

import (
	"fmt"
	"io"
	"text/template"

	"github.com/ziadkadry99/sidenav/internal/nav"
)

// Options parametrise the generated element.
type Options struct {
	ElementName   string // custom element tag, e.g. "mdbook-sidebar-scrollbox"
	ScrollKey     string // sessionStorage key
	IndexDocument string // document a directory address aliases
}

type scriptData struct {
	Variant       string
	ElementName   string
	ScrollKey     string
	IndexDocument string
	Markup        string
}

var scriptTmpl = template.Must(template.New("sidebar.js").Parse(`// Populate the sidebar of the {{.Variant}} documentation.
//
// This is a script, and not included directly in the page, to control the total size of the book.
(function () {
    "use strict";
    var elementName = "{{js .ElementName}}";
    var scrollKey = "{{js .ScrollKey}}";
    var indexDocument = "{{js .IndexDocument}}";
    var markup = "{{js .Markup}}";
    var absoluteLink = /^(?:[a-z+]+:)?\/\//;

    if (window.customElements.get(elementName)) {
        return;
    }

    window.customElements.define(elementName, class extends HTMLElement {
        connectedCallback() {
            this.innerHTML = markup;

            var root = typeof path_to_root === "string" ? path_to_root : "";
            var current = document.location.href.toString().split("#")[0].split("?")[0];
            if (current.endsWith("/")) {
                current += indexDocument;
            }

            var found = false;
            var links = Array.prototype.slice.call(this.querySelectorAll("a:not(.toggle)"));
            for (var i = 0; i < links.length; ++i) {
                var link = links[i];
                var href = link.getAttribute("href");
                if (href && !href.startsWith("#") && !absoluteLink.test(href)) {
                    link.href = root + href;
                }
                if (found) {
                    continue;
                }
                if (link.href === current || (i === 0 && root === "" && current.endsWith("/" + indexDocument))) {
                    found = true;
                    link.classList.add("active");
                    for (var item = link.parentElement; item; item = item.parentElement) {
                        if (item.tagName === "LI") {
                            var prev = item.previousElementSibling;
                            if (item.classList.contains("chapter-item")) {
                                item.classList.add("expanded");
                            } else if (prev && prev.classList.contains("chapter-item")) {
                                // a bare item wrapping a section list belongs to the chapter before it
                                prev.classList.add("expanded");
                            }
                        }
                        if (item === this) {
                            break;
                        }
                    }
                }
            }

            this.addEventListener("click", function (e) {
                var link = e.target.closest("a");
                if (link && link.hasAttribute("href")) {
                    sessionStorage.setItem(scrollKey, this.scrollTop);
                }
            }, { passive: true });

            var scrollTop = sessionStorage.getItem(scrollKey);
            sessionStorage.removeItem(scrollKey);
            if (scrollTop) {
                this.scrollTop = scrollTop;
            } else {
                var active = this.querySelector(".active");
                if (active) {
                    active.scrollIntoView({ block: "center" });
                }
            }

            Array.prototype.forEach.call(this.querySelectorAll("a.toggle"), function (el) {
                el.addEventListener("click", function (ev) {
                    ev.currentTarget.parentElement.classList.toggle("expanded");
                });
            });
        }
    });
})();
`))

// Write renders the script for one variant's tree to w.
func Write(w io.Writer, variant string, tree *nav.Tree, opts Options) error {
	data := scriptData{
		Variant:       variant,
		ElementName:   opts.ElementName,
		ScrollKey:     opts.ScrollKey,
		IndexDocument: opts.IndexDocument,
		Markup:        tree.HTML(),
	}
	if data.ElementName == "" {
		data.ElementName = "mdbook-sidebar-scrollbox"
	}
	if data.ScrollKey == "" {
		data.ScrollKey = "sidebar-scroll"
	}
	if data.IndexDocument == "" {
		data.IndexDocument = nav.DefaultIndex
	}
	if err := scriptTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering sidebar script: %w", err)
	}
	return nil
}
