package sidebar

import (
	"context"
	"errors"
	"fmt"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/scrollstore"
)

// ErrUnknownTarget is returned when an event names an element the view does not contain.
var ErrUnknownTarget = errors.New("unknown sidebar element")

// ErrUnknownEvent is returned for an unsupported event kind.
var ErrUnknownEvent = errors.New("unknown sidebar event")

// View is the state of one inserted sidebar. It is owned by a single page and is not
// safe for concurrent use.
type View struct {
	Tree       *nav.Tree
	Location   nav.Location
	PathToRoot string
	Activation nav.Activation

	// ScrollTop is the current scroll offset in pixels.
	ScrollTop float64
	// Restored is set when ScrollTop came from the scroll store.
	Restored bool
	// CenterOn names the entry to scroll into the middle of the viewport, when no
	// offset was restored.
	CenterOn string

	navigator *Navigator
	key       string
}

// EventKind names a user interaction with the sidebar.
type EventKind string

const (
	EventClick  EventKind = "click"
	EventToggle EventKind = "toggle"
	EventScroll EventKind = "scroll"
)

// Event is a user interaction delivered to a view.
type Event struct {
	Kind      EventKind `json:"type"`
	Target    string    `json:"target,omitempty"`     // entry ID
	ScrollTop *float64  `json:"scroll_top,omitempty"` // current offset, when the client reports one
}

// Outcome is the effect of an event.
type Outcome struct {
	// NavigateTo is the rewritten href to follow after a link click. Navigation is
	// never cancelled.
	NavigateTo string `json:"navigate_to,omitempty"`
	// Persisted is set when the scroll offset was saved for the next page.
	Persisted bool `json:"persisted,omitempty"`
	// Expanded is the new state of a toggled section.
	Expanded *bool `json:"expanded,omitempty"`
}

// Dispatch applies ev to the view.
func (v *View) Dispatch(ctx context.Context, ev Event) (Outcome, error) {
	if ev.ScrollTop != nil {
		v.ScrollTop = *ev.ScrollTop
	}

	switch ev.Kind {
	case EventScroll:
		return Outcome{}, nil
	case EventClick:
		e, err := v.find(ev.Target)
		if err != nil {
			return Outcome{}, err
		}
		return v.click(ctx, e), nil
	case EventToggle:
		e, err := v.find(ev.Target)
		if err != nil {
			return Outcome{}, err
		}
		if !e.Toggle {
			return Outcome{}, nil
		}
		expanded := nav.Toggle(e)
		return Outcome{Expanded: &expanded}, nil
	}
	return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
}

// click persists the scroll offset when e is a link and reports where to navigate.
// Clicks on headers and spacers have no effect.
func (v *View) click(ctx context.Context, e *nav.Entry) Outcome {
	if !e.IsLink() {
		return Outcome{}
	}
	persisted := v.navigator.put(ctx, v.key, scrollstore.Offset(v.ScrollTop))
	return Outcome{NavigateTo: e.Href, Persisted: persisted}
}

func (v *View) find(id string) (*nav.Entry, error) {
	e := v.Tree.Find(id)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	return e, nil
}

// ActiveID returns the active entry's ID, or "" when nothing matched.
func (v *View) ActiveID() string {
	if v.Activation.Active == nil {
		return ""
	}
	return v.Activation.Active.ID
}

// HTML renders the sidebar markup with its active and expanded classes.
func (v *View) HTML() string { return v.Tree.HTML() }

// Outline renders a plain-text outline of the sidebar.
func (v *View) Outline() string { return v.Tree.Outline() }

// Snapshot is the serialisable form of a view.
type Snapshot struct {
	Location   string   `json:"location"`
	PathToRoot string   `json:"path_to_root"`
	Active     string   `json:"active,omitempty"`
	ActiveHref string   `json:"active_href,omitempty"`
	Expanded   []string `json:"expanded"`
	ScrollTop  float64  `json:"scroll_top"`
	Restored   bool     `json:"restored"`
	CenterOn   string   `json:"center_on,omitempty"`
	HTML       string   `json:"html"`
}

// Snapshot captures the view's current state. Expanded lists every expanded entry
// in document order, including those expanded by the markup or by toggles.
func (v *View) Snapshot() Snapshot {
	s := Snapshot{
		Location:   v.Location.Canonical,
		PathToRoot: v.PathToRoot,
		Active:     v.ActiveID(),
		Expanded:   []string{},
		ScrollTop:  v.ScrollTop,
		Restored:   v.Restored,
		CenterOn:   v.CenterOn,
		HTML:       v.HTML(),
	}
	if a := v.Activation.Active; a != nil {
		s.ActiveHref = a.Href
	}
	for _, e := range v.Tree.Expanded() {
		s.Expanded = append(s.Expanded, e.ID)
	}
	return s
}
