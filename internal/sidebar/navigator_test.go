package sidebar

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/scrollstore"
)

const testMarkup = `<ol class="chapter">
<li class="chapter-item "><a href="index.html"><strong aria-hidden="true">1.</strong> Overview</a></li>
<li class="chapter-item "><a href="guide/index.html"><strong aria-hidden="true">2.</strong> Guide</a><a class="toggle"><div>❱</div></a></li>
<li><ol class="section">
<li class="chapter-item "><a href="guide/install.html"><strong aria-hidden="true">2.1.</strong> Install</a></li>
<li class="chapter-item "><a href="guide/usage.html"><strong aria-hidden="true">2.2.</strong> Usage</a></li>
</ol></li>
<li class="chapter-item "><div><strong aria-hidden="true">3.</strong> Roadmap</div></li>
<li class="spacer"></li>
<li class="part-title">Reference</li>
<li class="chapter-item "><a href="https://example.com/api">API</a></li>
</ol>`

func testTree(t *testing.T) *nav.Tree {
	t.Helper()
	tree, err := nav.ParseHTMLString(testMarkup)
	if err != nil {
		t.Fatalf("parsing test markup: %v", err)
	}
	return tree
}

// failingStore always errors.
type failingStore struct{}

func (failingStore) Take(context.Context, string) (scrollstore.Offset, bool, error) {
	return 0, false, errors.New("store down")
}

func (failingStore) Put(context.Context, string, scrollstore.Offset) error {
	return errors.New("store down")
}

func ptr(f float64) *float64 { return &f }

func TestInsertResolvesActive(t *testing.T) {
	n := New(testTree(t), scrollstore.NewMemory(0))
	v := n.Insert(context.Background(), Page{Location: "guide/usage.html", PathToRoot: "../"})

	if v.ActiveID() != "1.1" {
		t.Fatalf("active = %q, want 1.1", v.ActiveID())
	}
	if got := v.Activation.Active.Href; got != "../guide/usage.html" {
		t.Errorf("active href = %q, want ../guide/usage.html", got)
	}
	if v.Restored {
		t.Error("nothing was stored, Restored should be false")
	}
	if v.CenterOn != "1.1" {
		t.Errorf("CenterOn = %q, want 1.1", v.CenterOn)
	}

	snap := v.Snapshot()
	if want := []string{"1", "1.1"}; !reflect.DeepEqual(snap.Expanded, want) {
		t.Errorf("expanded = %v, want %v", snap.Expanded, want)
	}
}

func TestInsertDoesNotMutateSource(t *testing.T) {
	tree := testTree(t)
	n := New(tree, nil)
	n.Insert(context.Background(), Page{Location: "guide/install.html", PathToRoot: "../"})

	if tree.Active() != nil {
		t.Error("source tree should have no active entry")
	}
	if len(tree.Expanded()) != 0 {
		t.Error("source tree should have no expanded entries")
	}
	if tree.Entries[0].Href != "" {
		t.Errorf("source tree href rewritten to %q", tree.Entries[0].Href)
	}
}

func TestInsertRewritesRelativeLinksOnly(t *testing.T) {
	n := New(testTree(t), nil)
	v := n.Insert(context.Background(), Page{Location: "guide/index.html", PathToRoot: "../"})

	if got := v.Tree.Find("0").Href; got != "../index.html" {
		t.Errorf("relative link = %q, want ../index.html", got)
	}
	if got := v.Tree.Find("5").Href; got != "https://example.com/api" {
		t.Errorf("absolute link = %q, want unchanged", got)
	}
}

func TestInsertNoMatch(t *testing.T) {
	n := New(testTree(t), nil)
	v := n.Insert(context.Background(), Page{Location: "nowhere.html"})

	if v.ActiveID() != "" {
		t.Errorf("active = %q, want none", v.ActiveID())
	}
	if v.CenterOn != "" {
		t.Errorf("CenterOn = %q, want none", v.CenterOn)
	}
	if strings.Contains(v.HTML(), `class="active"`) {
		t.Error("rendered markup should contain no active link")
	}
}

func TestInsertRootAlias(t *testing.T) {
	n := New(testTree(t), nil)
	v := n.Insert(context.Background(), Page{Location: "/"})
	if v.ActiveID() != "0" {
		t.Errorf("active = %q, want 0 (Overview)", v.ActiveID())
	}
}

func TestScrollRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := scrollstore.NewMemory(0)
	n := New(testTree(t), store)

	first := n.Insert(ctx, Page{Location: "index.html", Session: "s1"})
	out, err := first.Dispatch(ctx, Event{Kind: EventClick, Target: "1.0", ScrollTop: ptr(240)})
	if err != nil {
		t.Fatalf("Dispatch click: %v", err)
	}
	if out.NavigateTo != "guide/install.html" || !out.Persisted {
		t.Fatalf("outcome = %+v, want navigation to guide/install.html with persisted offset", out)
	}

	second := n.Insert(ctx, Page{Location: "guide/install.html", PathToRoot: "../", Session: "s1"})
	if !second.Restored || second.ScrollTop != 240 {
		t.Errorf("second insert: restored=%v scrollTop=%v, want true 240", second.Restored, second.ScrollTop)
	}
	if second.CenterOn != "" {
		t.Errorf("restored view should not centre, got %q", second.CenterOn)
	}

	// The offset is read once.
	third := n.Insert(ctx, Page{Location: "guide/install.html", PathToRoot: "../", Session: "s1"})
	if third.Restored {
		t.Error("offset should have been cleared by the previous insertion")
	}
	if third.CenterOn != "1.0" {
		t.Errorf("CenterOn = %q, want 1.0", third.CenterOn)
	}
}

func TestScrollIsolatedBySession(t *testing.T) {
	ctx := context.Background()
	n := New(testTree(t), scrollstore.NewMemory(0))

	v := n.Insert(ctx, Page{Location: "index.html", Session: "a"})
	if _, err := v.Dispatch(ctx, Event{Kind: EventClick, Target: "1", ScrollTop: ptr(80)}); err != nil {
		t.Fatal(err)
	}

	if other := n.Insert(ctx, Page{Location: "guide/index.html", Session: "b"}); other.Restored {
		t.Error("session b should not see session a's offset")
	}
	if same := n.Insert(ctx, Page{Location: "guide/index.html", Session: "a"}); !same.Restored {
		t.Error("session a should restore its own offset")
	}
}

func TestScrollEventThenClick(t *testing.T) {
	ctx := context.Background()
	store := scrollstore.NewMemory(0)
	n := New(testTree(t), store, WithScrollKey("nav-scroll"))

	v := n.Insert(ctx, Page{Location: "index.html"})
	if _, err := v.Dispatch(ctx, Event{Kind: EventScroll, ScrollTop: ptr(55.5)}); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Dispatch(ctx, Event{Kind: EventClick, Target: "0"}); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Take(ctx, "nav-scroll")
	if err != nil || !ok || got != 55.5 {
		t.Errorf("stored offset = %v, %v, %v; want 55.5 under nav-scroll", got, ok, err)
	}
}

func TestClickNonLinkDoesNothing(t *testing.T) {
	ctx := context.Background()
	store := scrollstore.NewMemory(0)
	n := New(testTree(t), store)
	v := n.Insert(ctx, Page{Location: "index.html"})

	for _, id := range []string{"2", "3", "4"} {
		out, err := v.Dispatch(ctx, Event{Kind: EventClick, Target: id, ScrollTop: ptr(10)})
		if err != nil {
			t.Fatalf("click %s: %v", id, err)
		}
		if out != (Outcome{}) {
			t.Errorf("click %s: outcome = %+v, want none", id, out)
		}
	}
	if store.Len() != 0 {
		t.Error("clicks on non-links should not persist anything")
	}
}

func TestClickStoreFailureStillNavigates(t *testing.T) {
	ctx := context.Background()
	n := New(testTree(t), failingStore{})

	v := n.Insert(ctx, Page{Location: "index.html"})
	if v.Restored {
		t.Error("failed read should be treated as absent")
	}
	if v.CenterOn != "0" {
		t.Errorf("CenterOn = %q, want 0", v.CenterOn)
	}

	out, err := v.Dispatch(ctx, Event{Kind: EventClick, Target: "1"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if out.NavigateTo != "guide/index.html" {
		t.Errorf("NavigateTo = %q, want guide/index.html", out.NavigateTo)
	}
	if out.Persisted {
		t.Error("Persisted should be false when the store fails")
	}
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	n := New(testTree(t), nil)
	v := n.Insert(ctx, Page{Location: "index.html"})

	out, err := v.Dispatch(ctx, Event{Kind: EventToggle, Target: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Expanded == nil || !*out.Expanded {
		t.Fatalf("first toggle should expand, got %+v", out.Expanded)
	}
	if !v.Tree.Find("1").Expanded {
		t.Error("entry 1 should be expanded")
	}

	out, _ = v.Dispatch(ctx, Event{Kind: EventToggle, Target: "1"})
	if out.Expanded == nil || *out.Expanded {
		t.Fatalf("second toggle should collapse, got %+v", out.Expanded)
	}

	// Entries without a toggle control ignore toggle events.
	out, _ = v.Dispatch(ctx, Event{Kind: EventToggle, Target: "0"})
	if out.Expanded != nil || v.Tree.Find("0").Expanded {
		t.Error("entry without a toggle should not change")
	}
}

func TestToggleAfterActiveExpansion(t *testing.T) {
	ctx := context.Background()
	n := New(testTree(t), nil)
	v := n.Insert(ctx, Page{Location: "guide/install.html"})

	if !v.Tree.Find("1").Expanded {
		t.Fatal("ancestor of the active entry should start expanded")
	}
	if _, err := v.Dispatch(ctx, Event{Kind: EventToggle, Target: "1"}); err != nil {
		t.Fatal(err)
	}
	if v.Tree.Find("1").Expanded {
		t.Error("toggle should collapse the expanded ancestor")
	}
	if !v.Tree.Find("1.0").Active {
		t.Error("collapsing should not clear the active entry")
	}
}

func TestDispatchErrors(t *testing.T) {
	ctx := context.Background()
	v := New(testTree(t), nil).Insert(ctx, Page{Location: "index.html"})

	if _, err := v.Dispatch(ctx, Event{Kind: EventClick, Target: "9.9"}); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("unknown target: err = %v, want ErrUnknownTarget", err)
	}
	if _, err := v.Dispatch(ctx, Event{Kind: EventToggle, Target: ""}); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("empty target: err = %v, want ErrUnknownTarget", err)
	}
	if _, err := v.Dispatch(ctx, Event{Kind: "hover"}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("unknown kind: err = %v, want ErrUnknownEvent", err)
	}
}

func TestCustomIndexDocument(t *testing.T) {
	n := New(testTree(t), nil, WithIndexDocument("README.html"))
	v := n.Insert(context.Background(), Page{Location: "/"})
	if v.Location.Canonical != "/README.html" {
		t.Errorf("canonical = %q, want /README.html", v.Location.Canonical)
	}
	if v.ActiveID() != "0" {
		t.Errorf("active = %q, want root alias 0", v.ActiveID())
	}
}

func TestSnapshot(t *testing.T) {
	v := New(testTree(t), nil).Insert(context.Background(), Page{Location: "guide/index.html", PathToRoot: "../"})
	s := v.Snapshot()

	if s.Location != "/guide/index.html" {
		t.Errorf("location = %q", s.Location)
	}
	if s.Active != "1" || s.ActiveHref != "../guide/index.html" {
		t.Errorf("active = %q %q", s.Active, s.ActiveHref)
	}
	if !strings.Contains(s.HTML, `<a href="../guide/index.html" class="active">`) {
		t.Errorf("html missing active link: %s", s.HTML)
	}
}
