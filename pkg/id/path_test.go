package id

import "testing"

func TestPathString(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{Root, "/"},
		{Path{IndexSegment(0)}, "/0"},
		{Path{IndexSegment(0), KeySegment(IntKey(3))}, "/0/#3"},
		{Path{KeySegment(StringKey("3"))}, `/#"3"`},
	}
	for _, tt := range tests {
		if got := tt.path.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestChildDoesNotAlias(t *testing.T) {
	parent := Root.Child(IndexSegment(0))
	a := parent.Child(IndexSegment(1))
	b := parent.Child(IndexSegment(2))
	if a.Equal(b) {
		t.Fatal("sibling paths must differ")
	}
	if !a.Parent().Equal(parent) || !b.Parent().Equal(parent) {
		t.Error("Parent should return the shared prefix")
	}
	// Appending to a parent slice must not clobber an existing child.
	c := a.Parent().Child(IndexSegment(9))
	if a.Last().Index != 1 {
		t.Errorf("child path was mutated: %v (c=%v)", a, c)
	}
}

func TestHasPrefix(t *testing.T) {
	p := Path{IndexSegment(0), KeySegment(IntKey(1)), IndexSegment(2)}
	if !p.HasPrefix(Root) {
		t.Error("every path has the root as prefix")
	}
	if !p.HasPrefix(p[:2]) {
		t.Error("expected ancestor prefix")
	}
	if p.HasPrefix(Path{IndexSegment(1)}) {
		t.Error("unexpected prefix match")
	}
}

func TestChildSegmentPrefersKey(t *testing.T) {
	if seg := ChildSegment(4, Key{}); seg.Keyed() || seg.Index != 4 {
		t.Errorf("unkeyed child should be positional, got %v", seg)
	}
	seg := ChildSegment(4, IntKey(7))
	if !seg.Keyed() || seg != ChildSegment(0, IntKey(7)) {
		t.Errorf("keyed child should ignore position, got %v", seg)
	}
}

func TestAllocatorStableAndNotReused(t *testing.T) {
	a := NewAllocator()
	p := Root.Child(ChildSegment(0, Key{}))
	first := a.Acquire(p)
	if again := a.Acquire(p); again != first {
		t.Errorf("Acquire not stable: %d then %d", first, again)
	}
	if resolved, ok := a.Resolve(first); !ok || !resolved.Equal(p) {
		t.Errorf("Resolve(%d) = %v, %v", first, resolved, ok)
	}
	if _, ok := a.Release(p); !ok {
		t.Fatal("expected release to succeed")
	}
	if _, ok := a.Resolve(first); ok {
		t.Error("released id should not resolve")
	}
	if next := a.Acquire(p); next == first {
		t.Error("released ids must not be reused")
	}
}
