package widget

import (
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/semantics"
)

// Accessibility projects dirty nodes into the accessibility tree and returns
// what changed since the previous call.
func (t *Tree) Accessibility() semantics.Delta {
	t.stats.Accessibility = 0
	if t.root == nil {
		t.sem.SetRoot(0)
	} else {
		t.sem.SetRoot(t.root.id)
		t.accessNode(t.root, graphics.Offset{})
	}

	var focused id.ID
	if path, ok := t.focus.Focused(); ok {
		if n, ok := t.Node(path); ok {
			focused = n.id
		}
	}
	t.sem.SetFocus(focused)
	return t.sem.Flush()
}

func (t *Tree) accessNode(n *Node, parentOrigin graphics.Offset) {
	origin := parentOrigin.Add(n.offset)
	if !n.flags.Has(NeedsAccessibility) {
		return
	}
	t.stats.Accessibility++

	sn := semantics.Node{
		ID:       n.id,
		Bounds:   graphics.RectFromOffsetSize(origin, n.size),
		Children: make([]id.ID, 0, len(n.children)),
	}
	for i := range n.children {
		if child := t.child(n, i); child != nil {
			sn.Children = append(sn.Children, child.id)
		}
	}
	ctx := AccessCtx{ctx: ctx{tree: t, node: n}, Node: &sn}
	n.widget.Accessibility(&ctx)
	t.sem.Update(sn)
	n.flags &^= NeedsAccessibility

	for i := range n.children {
		if child := t.child(n, i); child != nil {
			t.accessNode(child, origin)
		}
	}
}

// InvalidateAccessibility forgets what was last sent, so the next
// Accessibility call carries the whole tree again.
func (t *Tree) InvalidateAccessibility() {
	t.sem.Reset()
	if t.root != nil {
		t.markSubtree(t.root, NeedsAccessibility)
	}
}
