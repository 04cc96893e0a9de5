package semantics

import (
	"slices"

	"github.com/go-drift/xilem/pkg/id"
)

// Owner holds the accessibility tree as last sent and accumulates changes
// until the next Flush.
type Owner struct {
	sent      map[id.ID]Node
	pending   []Node
	queued    map[id.ID]int
	removed   map[id.ID]struct{}
	root      id.ID
	focus     id.ID
	sentFocus id.ID
}

// NewOwner creates an empty owner.
func NewOwner() *Owner {
	return &Owner{
		sent:    make(map[id.ID]Node),
		queued:  make(map[id.ID]int),
		removed: make(map[id.ID]struct{}),
	}
}

// Update records the current projection of a node. Nodes identical to what
// was last sent are dropped. Calls should follow tree order; the delta keeps
// that order.
func (o *Owner) Update(n Node) {
	delete(o.removed, n.ID)
	if prev, ok := o.sent[n.ID]; ok && prev.Equal(n) {
		if i, queued := o.queued[n.ID]; queued {
			o.pending[i] = n
		}
		return
	}
	n.Children = slices.Clone(n.Children)
	if i, ok := o.queued[n.ID]; ok {
		o.pending[i] = n
		return
	}
	o.queued[n.ID] = len(o.pending)
	o.pending = append(o.pending, n)
}

// Remove records that a node left the tree.
func (o *Owner) Remove(nodeID id.ID) {
	if i, ok := o.queued[nodeID]; ok {
		o.pending[i].ID = 0
		delete(o.queued, nodeID)
	}
	if _, ok := o.sent[nodeID]; ok {
		o.removed[nodeID] = struct{}{}
	}
	if o.focus == nodeID {
		o.focus = 0
	}
}

// SetRoot records the ID of the root node.
func (o *Owner) SetRoot(nodeID id.ID) {
	o.root = nodeID
}

// SetFocus records the ID of the focused node, or 0 for none.
func (o *Owner) SetFocus(nodeID id.ID) {
	o.focus = nodeID
}

// Node returns the last sent state of a node.
func (o *Owner) Node(nodeID id.ID) (Node, bool) {
	n, ok := o.sent[nodeID]
	return n, ok
}

// Len returns the number of nodes in the sent tree.
func (o *Owner) Len() int {
	return len(o.sent)
}

// Flush returns the accumulated delta and commits it as sent.
func (o *Owner) Flush() Delta {
	d := Delta{Root: o.root, Focus: o.focus, FocusChanged: o.focus != o.sentFocus}
	for _, n := range o.pending {
		if n.ID == 0 {
			continue
		}
		d.Updated = append(d.Updated, n)
		o.sent[n.ID] = n
	}
	for nodeID := range o.removed {
		d.Removed = append(d.Removed, nodeID)
		delete(o.sent, nodeID)
	}
	slices.Sort(d.Removed)

	o.pending = o.pending[:0]
	clear(o.queued)
	clear(o.removed)
	o.sentFocus = o.focus
	return d
}

// Reset forgets everything sent, so the next Flush carries the full tree
// once nodes are updated again.
func (o *Owner) Reset() {
	clear(o.sent)
	o.pending = o.pending[:0]
	clear(o.queued)
	clear(o.removed)
	o.sentFocus = 0
}
