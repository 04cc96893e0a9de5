package widget

import (
	"slices"
	"strings"

	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/layout"
	"github.com/go-drift/xilem/pkg/paint"
	"github.com/go-drift/xilem/pkg/state"
	"github.com/go-drift/xilem/pkg/view"
)

// Flags is the dirty-flag set of a node.
type Flags uint8

const (
	NeedsLayout Flags = 1 << iota
	NeedsPaint
	NeedsAccessibility

	allDirty = NeedsLayout | NeedsPaint | NeedsAccessibility
)

// Has reports whether all flags in f are set.
func (s Flags) Has(f Flags) bool {
	return s&f == f
}

func (s Flags) String() string {
	if s == 0 {
		return "clean"
	}
	var parts []string
	if s.Has(NeedsLayout) {
		parts = append(parts, "layout")
	}
	if s.Has(NeedsPaint) {
		parts = append(parts, "paint")
	}
	if s.Has(NeedsAccessibility) {
		parts = append(parts, "accessibility")
	}
	return strings.Join(parts, "|")
}

// Node is a retained node. Nodes live in the tree's arena and refer to their
// children by path segment only.
type Node struct {
	path     id.Path
	key      string
	id       id.ID
	widget   Widget
	view     view.View
	children []id.Segment
	flags    Flags
	entry    *state.Entry

	constraints layout.Constraints
	laidOut     bool
	size        graphics.Size
	offset      graphics.Offset
	overflow    layout.Overflow

	paintCache []paint.Command
	hot        bool
	animating  bool
}

// Path returns the node's id-path.
func (n *Node) Path() id.Path { return n.path }

// ID returns the node's stable numeric ID.
func (n *Node) ID() id.ID { return n.id }

// Kind returns the view kind the node was built from.
func (n *Node) Kind() view.Kind { return n.view.Kind() }

// View returns the view last applied to the node.
func (n *Node) View() view.View { return n.view }

// Widget returns the node's widget.
func (n *Node) Widget() Widget { return n.widget }

// Children returns the child segments in order.
func (n *Node) Children() []id.Segment { return slices.Clone(n.children) }

// Flags returns the pending dirty flags.
func (n *Node) Flags() Flags { return n.flags }

// State returns the node's state entry.
func (n *Node) State() *state.Entry { return n.entry }

// Constraints returns the constraints of the last layout.
func (n *Node) Constraints() layout.Constraints { return n.constraints }

// Size returns the size chosen in the last layout.
func (n *Node) Size() graphics.Size { return n.size }

// Offset returns the position relative to the parent.
func (n *Node) Offset() graphics.Offset { return n.offset }

// Overflow returns how far the node's natural size exceeded its constraints.
func (n *Node) Overflow() layout.Overflow { return n.overflow }

// IsHot reports whether the pointer is over the node.
func (n *Node) IsHot() bool { return n.hot }
