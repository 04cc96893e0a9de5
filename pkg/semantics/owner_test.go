package semantics

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
)

func button(nodeID id.ID, name string) Node {
	return Node{
		ID:      nodeID,
		Role:    RoleButton,
		Name:    name,
		Bounds:  graphics.RectFromLTWH(0, 0, 40, 20),
		Actions: ActionClick | ActionFocus,
	}
}

func TestOwner_UnchangedNodesAreNotResent(t *testing.T) {
	o := NewOwner()
	o.SetRoot(1)
	o.Update(Node{ID: 1, Role: RoleGroup, Children: []id.ID{2}})
	o.Update(button(2, "A"))

	first := o.Flush()
	if len(first.Updated) != 2 {
		t.Fatalf("first flush updated %d nodes, want 2", len(first.Updated))
	}
	if first.Root != 1 {
		t.Errorf("Root = %d, want 1", first.Root)
	}

	o.Update(Node{ID: 1, Role: RoleGroup, Children: []id.ID{2}})
	o.Update(button(2, "A"))
	if d := o.Flush(); !d.IsEmpty() {
		t.Errorf("expected empty delta, got %+v", d)
	}

	o.Update(button(2, "C"))
	d := o.Flush()
	want := []Node{button(2, "C")}
	if diff := cmp.Diff(want, d.Updated); diff != "" {
		t.Errorf("updated mismatch (-want +got):\n%s", diff)
	}
}

func TestOwner_RemoveSentNode(t *testing.T) {
	o := NewOwner()
	o.Update(button(2, "A"))
	o.Update(button(3, "B"))
	o.Flush()

	o.Remove(3)
	d := o.Flush()
	if diff := cmp.Diff([]id.ID{3}, d.Removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if _, ok := o.Node(3); ok {
		t.Error("removed node must leave the sent tree")
	}
	if o.Len() != 1 {
		t.Errorf("Len = %d, want 1", o.Len())
	}
}

func TestOwner_RemoveBeforeSendIsSilent(t *testing.T) {
	o := NewOwner()
	o.Update(button(5, "tmp"))
	o.Remove(5)
	if d := o.Flush(); !d.IsEmpty() {
		t.Errorf("expected empty delta, got %+v", d)
	}
}

func TestOwner_FocusChange(t *testing.T) {
	o := NewOwner()
	o.Update(button(2, "A"))
	o.SetFocus(2)
	d := o.Flush()
	if !d.FocusChanged || d.Focus != 2 {
		t.Errorf("expected focus change to 2, got %+v", d)
	}
	if d := o.Flush(); d.FocusChanged {
		t.Error("focus should not be reported twice")
	}
	o.Remove(2)
	d = o.Flush()
	if !d.FocusChanged || d.Focus != 0 {
		t.Errorf("removing the focused node should clear focus, got %+v", d)
	}
}

func TestOwner_ResetResendsEverything(t *testing.T) {
	o := NewOwner()
	o.Update(button(2, "A"))
	o.Flush()
	o.Reset()
	o.Update(button(2, "A"))
	if d := o.Flush(); len(d.Updated) != 1 {
		t.Errorf("expected full resend after Reset, got %+v", d)
	}
}

func TestActionHas(t *testing.T) {
	a := ActionClick | ActionFocus
	if !a.Has(ActionClick) || !a.Has(ActionFocus) {
		t.Error("expected both actions")
	}
	if ActionFocus.Has(ActionClick) {
		t.Error("focus does not include click")
	}
}
