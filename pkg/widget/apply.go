package widget

import (
	"fmt"
	"slices"

	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/logging"
	"github.com/go-drift/xilem/pkg/view"
)

// Build replaces the whole tree with one built from v.
func (t *Tree) Build(v view.View) error {
	var script view.EditScript
	if t.root != nil {
		script = append(script, view.Op{Kind: view.OpRemove, Path: id.Root})
	}
	if v != nil {
		script = append(script, view.Op{Kind: view.OpInsert, Path: id.Root, View: v})
	}
	return t.Apply(script)
}

// Apply mutates the tree as described by script. An operation that does not
// fit the tree (unknown path, occupied insert position, kind mismatch on
// update, reorder that is not a permutation) stops application and returns
// an error wrapping errors.ErrMalformedScript; operations before it stay
// applied.
func (t *Tree) Apply(script view.EditScript) error {
	for _, op := range script {
		var err error
		switch op.Kind {
		case view.OpInsert:
			err = t.insert(op.Path, op.Index, op.View)
		case view.OpRemove:
			err = t.remove(op.Path)
		case view.OpUpdate:
			err = t.update(op.Path, op.View)
		case view.OpReorder:
			err = t.reorder(op.Path, op.Order)
		default:
			err = fmt.Errorf("unknown op kind %d", op.Kind)
		}
		if err != nil {
			return &errors.Error{
				Op:   "widget.Apply",
				Kind: errors.KindEditScript,
				Path: op.Path.String(),
				Err:  fmt.Errorf("%s: %w: %v", op, errors.ErrMalformedScript, err),
			}
		}
	}
	if len(script) > 0 {
		logging.Logger().Debug("edit script applied", "ops", len(script), "nodes", len(t.nodes))
	}
	return nil
}

func (t *Tree) insert(path id.Path, index int, v view.View) error {
	if v == nil {
		return fmt.Errorf("nil view")
	}
	if _, exists := t.Node(path); exists {
		return fmt.Errorf("node already exists")
	}
	view.Validate(path, v)
	if path.IsRoot() {
		t.root = t.build(path, v)
		return nil
	}
	parent, ok := t.Node(path.Parent())
	if !ok {
		return fmt.Errorf("parent %s not found", path.Parent())
	}
	index = min(max(index, 0), len(parent.children))
	parent.children = slices.Insert(parent.children, index, path.Last())
	t.build(path, v)
	t.markUp(parent, allDirty)
	return nil
}

// build instantiates the subtree for v at path.
func (t *Tree) build(path id.Path, v view.View) *Node {
	n := &Node{
		path:   path,
		key:    path.String(),
		id:     t.ids.Acquire(path),
		widget: newWidget(v),
		view:   v,
		flags:  allDirty,
	}
	n.entry = t.store.GetOrCreate(path, initialState(v))
	t.nodes[n.key] = n

	n.children = view.ChildSegments(path, v)
	for i, child := range view.Children(v) {
		t.build(path.Child(n.children[i]), child)
	}
	return n
}

func (t *Tree) remove(path id.Path) error {
	n, ok := t.Node(path)
	if !ok {
		return fmt.Errorf("node not found")
	}
	t.focus.ClearWithin(path)
	if t.hasActive && t.active.HasPrefix(path) {
		t.active, t.hasActive = nil, false
	}
	if t.hotPath != nil && t.hotPath.HasPrefix(path) {
		t.hotPath = path.Parent()
		t.cursor = CursorDefault
	}
	t.destroy(n)
	t.store.RemoveSubtree(path)

	if path.IsRoot() {
		t.root = nil
		t.hotPath = nil
		return nil
	}
	if parent, ok := t.Node(path.Parent()); ok {
		seg := path.Last()
		parent.children = slices.DeleteFunc(parent.children, func(s id.Segment) bool { return s == seg })
		t.markUp(parent, allDirty)
	}
	return nil
}

// destroy drops n and its descendants from the arena.
func (t *Tree) destroy(n *Node) {
	for i := range n.children {
		if child := t.child(n, i); child != nil {
			t.destroy(child)
		}
	}
	t.sem.Remove(n.id)
	t.ids.Release(n.path)
	delete(t.anim, n.key)
	delete(t.nodes, n.key)
}

func (t *Tree) update(path id.Path, v view.View) error {
	n, ok := t.Node(path)
	if !ok {
		return fmt.Errorf("node not found")
	}
	if v == nil || v.Kind() != n.view.Kind() {
		return fmt.Errorf("cannot update %s node with %v", n.view.Kind(), v)
	}
	ctx := UpdateCtx{ctx{tree: t, node: n}}
	n.widget.Update(&ctx, v)
	n.view = v
	return nil
}

func (t *Tree) reorder(path id.Path, order []id.Segment) error {
	n, ok := t.Node(path)
	if !ok {
		return fmt.Errorf("node not found")
	}
	if len(order) != len(n.children) {
		return fmt.Errorf("reorder has %d children, node has %d", len(order), len(n.children))
	}
	seen := make(map[id.Segment]struct{}, len(order))
	for _, seg := range order {
		if _, dup := seen[seg]; dup {
			return fmt.Errorf("reorder names child %s twice", seg)
		}
		seen[seg] = struct{}{}
		if !slices.Contains(n.children, seg) {
			return fmt.Errorf("reorder names unknown child %s", seg)
		}
	}
	n.children = slices.Clone(order)
	t.markUp(n, allDirty)
	return nil
}
