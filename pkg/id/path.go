// Package id provides the identity primitives of the view and retained trees.
//
// A Path addresses a node from the root by a sequence of Segments. An
// unkeyed child is addressed by its index among its siblings; a keyed child
// is addressed by its key alone, so it keeps its path when siblings move.
//
// Positional addressing means that inserting or removing an unkeyed sibling
// before a node changes that node's path, and with it the node's identity.
// Supply an explicit key where identity must survive such edits.
package id

import (
	"strconv"
	"strings"
)

type keyKind uint8

const (
	keyNone keyKind = iota
	keyInt
	keyString
)

// Key is an explicit identity for a child view. The zero Key means "no key".
// Keys are comparable with ==.
type Key struct {
	kind keyKind
	i    int64
	s    string
}

// IntKey returns a key built from an integer.
func IntKey(v int64) Key {
	return Key{kind: keyInt, i: v}
}

// StringKey returns a key built from a string.
func StringKey(s string) Key {
	return Key{kind: keyString, s: s}
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.kind == keyNone
}

// String formats the key; integer and string keys never collide.
func (k Key) String() string {
	switch k.kind {
	case keyInt:
		return strconv.FormatInt(k.i, 10)
	case keyString:
		return strconv.Quote(k.s)
	default:
		return ""
	}
}

// Segment is one step of a Path.
type Segment struct {
	// Index is the child position, meaningful only when Key is zero.
	Index int
	// Key is the explicit key of the child, if any.
	Key Key
}

// IndexSegment returns a positional segment.
func IndexSegment(index int) Segment {
	return Segment{Index: index}
}

// KeySegment returns a keyed segment.
func KeySegment(key Key) Segment {
	return Segment{Key: key}
}

// Keyed reports whether the segment is addressed by key.
func (s Segment) Keyed() bool {
	return !s.Key.IsZero()
}

func (s Segment) String() string {
	if s.Keyed() {
		return "#" + s.Key.String()
	}
	return strconv.Itoa(s.Index)
}

// ChildSegment returns the segment for a child at index with an optional key.
// Explicit keys win over position.
func ChildSegment(index int, key Key) Segment {
	if key.IsZero() {
		return IndexSegment(index)
	}
	return KeySegment(key)
}

// Path is an ordered sequence of segments from the root to a node.
// The root itself has the empty path.
type Path []Segment

// Root is the path of the root node.
var Root = Path{}

// Child returns a new path extending p with seg. p is not modified.
func (p Path) Child(seg Segment) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = seg
	return child
}

// Parent returns the path of the parent node. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[: len(p)-1 : len(p)-1]
}

// Last returns the final segment, or the zero segment for the root.
func (p Path) Last() Segment {
	if len(p) == 0 {
		return Segment{}
	}
	return p[len(p)-1]
}

// IsRoot reports whether p addresses the root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// String renders the path as "/" for the root or "/0/#\"a\"/2".
// Distinct paths render to distinct strings, so the result is usable as a map key.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range p {
		sb.WriteByte('/')
		sb.WriteString(seg.String())
	}
	return sb.String()
}
