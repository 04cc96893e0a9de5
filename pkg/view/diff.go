package view

import (
	"fmt"
	"strings"

	"github.com/go-drift/xilem/pkg/id"
)

// OpKind identifies an edit operation.
type OpKind uint8

const (
	// OpInsert creates the subtree View at Path, at position Index among the
	// parent's children.
	OpInsert OpKind = iota + 1
	// OpRemove destroys the subtree at Path.
	OpRemove
	// OpUpdate hands the new View to the existing node at Path.
	OpUpdate
	// OpReorder rearranges the children of the node at Path into Order.
	OpReorder
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpUpdate:
		return "Update"
	case OpReorder:
		return "Reorder"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is one step of an EditScript.
type Op struct {
	Kind  OpKind
	Path  id.Path
	Index int
	View  View
	Order []id.Segment
}

func (o Op) String() string {
	switch o.Kind {
	case OpInsert:
		return fmt.Sprintf("Insert(%s, at=%d, %s)", o.Path, o.Index, o.View.Kind())
	case OpReorder:
		segs := make([]string, len(o.Order))
		for i, seg := range o.Order {
			segs[i] = seg.String()
		}
		return fmt.Sprintf("Reorder(%s, [%s])", o.Path, strings.Join(segs, " "))
	default:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Path)
	}
}

// EditScript is the ordered list of operations that turns the retained tree
// built from one view tree into the shape of another.
type EditScript []Op

// Empty reports whether the script has no operations.
func (s EditScript) Empty() bool {
	return len(s) == 0
}

func (s EditScript) String() string {
	parts := make([]string, len(s))
	for i, op := range s {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Diff compares two view trees and returns the edit script that transforms
// the first into the second. Either tree may be nil.
//
// Children are matched by path segment: keyed children by key wherever they
// sit, unkeyed children by index. A matched pair of different kinds is
// replaced (Remove then Insert) rather than updated. Diff never touches the
// retained tree or the state store. It panics, like ChildSegments, when a
// child list of new holds a nil child or a duplicate key.
func Diff(old, new View) EditScript {
	d := differ{}
	d.node(id.Root, 0, old, new)
	return d.ops
}

type differ struct {
	ops EditScript
}

func (d *differ) node(path id.Path, index int, old, new View) {
	switch {
	case old == nil && new == nil:
		return
	case old == nil:
		Validate(path, new)
		d.ops = append(d.ops, Op{Kind: OpInsert, Path: path, Index: index, View: new})
	case new == nil:
		d.ops = append(d.ops, Op{Kind: OpRemove, Path: path})
	case old.Kind() != new.Kind() || old.Key() != new.Key():
		Validate(path, new)
		d.ops = append(d.ops,
			Op{Kind: OpRemove, Path: path},
			Op{Kind: OpInsert, Path: path, Index: index, View: new},
		)
	default:
		d.matched(path, old, new)
	}
}

// matched diffs two views already known to be the same logical entity.
func (d *differ) matched(path id.Path, old, new View) {
	if !Equal(old, new) {
		d.ops = append(d.ops, Op{Kind: OpUpdate, Path: path, View: new})
	}

	oldKids := Children(old)
	newKids := Children(new)
	if len(oldKids) == 0 && len(newKids) == 0 {
		return
	}
	oldSegs := segmentsOf(path, oldKids)
	newSegs := segmentsOf(path, newKids)

	oldIndex := make(map[id.Segment]int, len(oldSegs))
	for i, seg := range oldSegs {
		oldIndex[seg] = i
	}
	newIndex := make(map[id.Segment]int, len(newSegs))
	for j, seg := range newSegs {
		newIndex[seg] = j
	}

	for i, seg := range oldSegs {
		j, ok := newIndex[seg]
		if !ok || oldKids[i].Kind() != newKids[j].Kind() {
			d.ops = append(d.ops, Op{Kind: OpRemove, Path: path.Child(seg)})
		}
	}

	reordered := false
	lastSurvivor := -1
	for j, seg := range newSegs {
		i, ok := oldIndex[seg]
		if ok && oldKids[i].Kind() == newKids[j].Kind() {
			if i < lastSurvivor {
				reordered = true
			}
			lastSurvivor = i
			d.matched(path.Child(seg), oldKids[i], newKids[j])
			continue
		}
		Validate(path.Child(seg), newKids[j])
		d.ops = append(d.ops, Op{Kind: OpInsert, Path: path.Child(seg), Index: j, View: newKids[j]})
	}

	if reordered {
		d.ops = append(d.ops, Op{Kind: OpReorder, Path: path, Order: newSegs})
	}
}

func segmentsOf(parent id.Path, children []View) []id.Segment {
	segs := make([]id.Segment, len(children))
	seen := make(map[id.Key]struct{})
	for i, child := range children {
		if child == nil {
			panic(fmt.Sprintf("view: nil child at %s index %d", parent, i))
		}
		key := child.Key()
		if !key.IsZero() {
			if _, dup := seen[key]; dup {
				panic(fmt.Sprintf("view: duplicate key %s under %s", key, parent))
			}
			seen[key] = struct{}{}
		}
		segs[i] = id.ChildSegment(i, key)
	}
	return segs
}
