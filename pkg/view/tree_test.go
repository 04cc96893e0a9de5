package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/xilem/pkg/id"
)

func TestLookup(t *testing.T) {
	tree := sampleTree()

	v, ok := Lookup(tree, path(idx(1), id.KeySegment(id.StringKey("s"))))
	if !ok {
		t.Fatal("expected keyed switch to be found")
	}
	if sw, ok := v.(Switch); !ok || !sw.On {
		t.Errorf("Lookup returned %#v", v)
	}

	if _, ok := Lookup(tree, path(idx(1), idx(1))); ok {
		t.Error("keyed child must not be reachable by index")
	}
	if _, ok := Lookup(tree, path(idx(7))); ok {
		t.Error("expected out-of-range lookup to fail")
	}
	if root, ok := Lookup(tree, id.Root); !ok || root.Kind() != KindFlex {
		t.Error("expected root lookup to return the root")
	}
}

func TestPaths_PreOrder(t *testing.T) {
	got := make([]string, 0)
	for _, p := range Paths(sampleTree()) {
		got = append(got, p.String())
	}
	want := []string{"/", "/0", "/1", "/1/0", `/1/#"s"`, "/2", "/2/0", "/2/0/0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestEqual_IgnoresChildren(t *testing.T) {
	if !Equal(Row(Label{Text: "a"}), Row(Label{Text: "b"})) {
		t.Error("Equal should compare own props only")
	}
	if Equal(Row(), Column()) {
		t.Error("axis differs")
	}
	if Equal(Label{Text: "a"}, Keyed(id.IntKey(1), Label{Text: "a"})) {
		t.Error("keys differ")
	}
}

func TestHandle(t *testing.T) {
	clicks := 0
	if got := Handle(Button{OnClick: func() { clicks++ }}, Clicked{}); got != ResultRebuild {
		t.Errorf("button click = %v, want rebuild", got)
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if got := Handle(Button{Disabled: true, OnClick: func() { clicks++ }}, Clicked{}); got != ResultStale {
		t.Errorf("disabled click = %v, want stale", got)
	}
	if clicks != 1 {
		t.Error("disabled button must not run its callback")
	}

	var requested *bool
	sw := Switch{On: true, OnChange: func(on bool) { requested = &on }}
	if got := Handle(sw, Toggled{}); got != ResultRebuild {
		t.Errorf("toggle = %v, want rebuild", got)
	}
	if requested == nil || *requested {
		t.Error("expected OnChange(false)")
	}
	if got := Handle(Label{}, Clicked{}); got != ResultStale {
		t.Errorf("label = %v, want stale", got)
	}
}
