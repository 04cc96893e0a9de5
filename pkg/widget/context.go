package widget

import (
	"time"

	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/layout"
	"github.com/go-drift/xilem/pkg/paint"
	"github.com/go-drift/xilem/pkg/semantics"
	"github.com/go-drift/xilem/pkg/state"
	"github.com/go-drift/xilem/pkg/text"
	"github.com/go-drift/xilem/pkg/view"
)

// ctx is the part shared by all widget contexts.
type ctx struct {
	tree *Tree
	node *Node
}

// Path returns the id-path of the node being serviced.
func (c *ctx) Path() id.Path { return c.node.path }

// State returns the node's state entry.
func (c *ctx) State() *state.Entry { return c.node.entry }

// Size returns the node's current size.
func (c *ctx) Size() graphics.Size { return c.node.size }

// Shaper returns the text-layout collaborator.
func (c *ctx) Shaper() text.Shaper { return c.tree.shaper }

// IsHot reports whether the pointer is over the node.
func (c *ctx) IsHot() bool { return c.node.hot }

// IsActive reports whether the node holds pointer capture.
func (c *ctx) IsActive() bool { return c.tree.isActive(c.node) }

// IsFocused reports whether the node has keyboard focus.
func (c *ctx) IsFocused() bool { return c.tree.focus.HasFocus(c.node.path) }

// RequestLayout marks the node for layout, paint, and accessibility. During
// the layout pass the request is deferred to the next cycle.
func (c *ctx) RequestLayout() { c.tree.requestLayout(c.node) }

// RequestPaint marks the node for repaint.
func (c *ctx) RequestPaint() { c.tree.markUp(c.node, NeedsPaint) }

// RequestAccessibility marks the node's accessibility projection stale.
func (c *ctx) RequestAccessibility() { c.tree.markUp(c.node, NeedsAccessibility) }

// RequestAnimFrame asks for an AnimFrame event at the start of the next cycle.
func (c *ctx) RequestAnimFrame() { c.tree.requestAnimFrame(c.node) }

// RequestTimer asks for a Timer event after delay and returns its token.
func (c *ctx) RequestTimer(delay time.Duration) event.TimerToken {
	return c.tree.requestTimer(c.node, delay)
}

// LayoutCtx is passed to Widget.Layout.
type LayoutCtx struct {
	ctx
}

// ChildCount returns the number of children.
func (c *LayoutCtx) ChildCount() int { return len(c.node.children) }

// LayoutChild lays out child i and returns its size.
func (c *LayoutCtx) LayoutChild(i int, cons layout.Constraints) graphics.Size {
	child := c.tree.child(c.node, i)
	if child == nil {
		return graphics.Size{}
	}
	return c.tree.layoutNode(child, cons)
}

// PlaceChild sets the position of child i relative to the node.
func (c *LayoutCtx) PlaceChild(i int, offset graphics.Offset) {
	child := c.tree.child(c.node, i)
	if child == nil {
		return
	}
	if child.offset != offset {
		child.offset = offset
		c.tree.markSubtree(child, NeedsAccessibility)
	}
}

// PaintCtx is passed to Widget.Paint.
type PaintCtx struct {
	ctx
	Canvas paint.Canvas
}

// AccessCtx is passed to Widget.Accessibility.
type AccessCtx struct {
	ctx
	// Node is the projection being built. ID, Bounds, and Children are
	// already filled in.
	Node *semantics.Node
}

// EventCtx is passed to Widget.Event.
type EventCtx struct {
	ctx
	phase   event.Phase
	handled bool
}

// Phase returns the dispatch phase.
func (c *EventCtx) Phase() event.Phase { return c.phase }

// SetHandled consumes the event; no further node receives it.
func (c *EventCtx) SetHandled() { c.handled = true }

// Submit raises a message for the view at this node's path.
func (c *EventCtx) Submit(msg view.Message) {
	c.tree.messages = append(c.tree.messages, Message{Path: c.node.path, Body: msg})
}

// SetActive captures (or releases) the pointer for this node.
func (c *EventCtx) SetActive(active bool) { c.tree.setActive(c.node, active) }

// RequestFocus gives keyboard focus to this node.
func (c *EventCtx) RequestFocus() { c.tree.focus.SetFocus(c.node.path) }

// SetCursor requests a pointer cursor while this node is hot.
func (c *EventCtx) SetCursor(cursor Cursor) { c.tree.cursor = cursor }

// UpdateCtx is passed to Widget.Update.
type UpdateCtx struct {
	ctx
}

// ReplaceState discards the node's state entry and starts a fresh one.
func (c *UpdateCtx) ReplaceState(value any) *state.Entry {
	c.node.entry = c.tree.store.Replace(c.node.path, value)
	return c.node.entry
}

// Message is a view message raised by the node at Path.
type Message struct {
	Path id.Path
	Body view.Message
}
