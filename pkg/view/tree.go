package view

import (
	"fmt"

	"github.com/go-drift/xilem/pkg/id"
)

// Children returns the child views of v in order.
func Children(v View) []View {
	switch v := v.(type) {
	case Flex:
		return v.Children
	case SizedBox:
		if v.Child != nil {
			return []View{v.Child}
		}
		return nil
	case Padding:
		if v.Child != nil {
			return []View{v.Child}
		}
		return nil
	case Button, Label, Switch:
		return nil
	case nil:
		return nil
	default:
		panic(fmt.Sprintf("view: unknown view type %T", v))
	}
}

// Equal reports whether a and b have the same kind, key, and own content.
// Children are not compared, and neither are callbacks: handlers are always
// taken from the latest view when a message is routed.
func Equal(a, b View) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.Key() != b.Key() {
		return false
	}
	switch a := a.(type) {
	case Flex:
		b := b.(Flex)
		return a.Axis == b.Axis && a.Spacing == b.Spacing
	case Button:
		b := b.(Button)
		return a.Label == b.Label && a.Disabled == b.Disabled
	case Label:
		b := b.(Label)
		return a.Text == b.Text && a.Wrap == b.Wrap && a.Color == b.Color
	case Switch:
		return a.On == b.(Switch).On
	case SizedBox:
		b := b.(SizedBox)
		return a.Width == b.Width && a.Height == b.Height
	case Padding:
		return a.Insets == b.(Padding).Insets
	default:
		panic(fmt.Sprintf("view: unknown view type %T", a))
	}
}

// Keyed returns a copy of v carrying an explicit key.
func Keyed(key id.Key, v View) View {
	switch v := v.(type) {
	case Flex:
		v.ID = key
		return v
	case Button:
		v.ID = key
		return v
	case Label:
		v.ID = key
		return v
	case Switch:
		v.ID = key
		return v
	case SizedBox:
		v.ID = key
		return v
	case Padding:
		v.ID = key
		return v
	default:
		panic(fmt.Sprintf("view: unknown view type %T", v))
	}
}

// ChildSegments returns the path segment of each child of v, which sits at
// path. It panics on a nil child or on two siblings sharing a key.
func ChildSegments(path id.Path, v View) []id.Segment {
	return segmentsOf(path, Children(v))
}

// Validate checks every child list under v, which sits at path, the way
// ChildSegments does.
func Validate(path id.Path, v View) {
	if v == nil {
		return
	}
	walk(path, v, func(id.Path, View) bool { return true })
}

// Lookup finds the view at path under root.
func Lookup(root View, path id.Path) (View, bool) {
	current := root
	if current == nil {
		return nil, false
	}
	for _, seg := range path {
		next, ok := childBySegment(current, seg)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func childBySegment(v View, seg id.Segment) (View, bool) {
	children := Children(v)
	if seg.Keyed() {
		for _, child := range children {
			if child.Key() == seg.Key {
				return child, true
			}
		}
		return nil, false
	}
	if seg.Index < 0 || seg.Index >= len(children) || !children[seg.Index].Key().IsZero() {
		return nil, false
	}
	return children[seg.Index], true
}

// Walk calls fn for every view under root in depth-first pre-order.
// Returning false from fn skips the subtree of that view.
func Walk(root View, fn func(path id.Path, v View) bool) {
	if root == nil {
		return
	}
	walk(id.Root, root, fn)
}

func walk(path id.Path, v View, fn func(id.Path, View) bool) {
	if !fn(path, v) {
		return
	}
	children := Children(v)
	for i, seg := range segmentsOf(path, children) {
		walk(path.Child(seg), children[i], fn)
	}
}

// Paths returns the path of every view under root in pre-order.
func Paths(root View) []id.Path {
	var paths []id.Path
	Walk(root, func(path id.Path, _ View) bool {
		paths = append(paths, path)
		return true
	})
	return paths
}
