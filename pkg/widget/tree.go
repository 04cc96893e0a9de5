package widget

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/focus"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/semantics"
	"github.com/go-drift/xilem/pkg/state"
	"github.com/go-drift/xilem/pkg/text"
	"github.com/go-drift/xilem/pkg/view"
)

// Tree is the retained widget tree. It is owned by one goroutine.
type Tree struct {
	nodes  map[string]*Node
	root   *Node
	ids    *id.Allocator
	store  *state.Store
	focus  *focus.Manager
	sem    *semantics.Owner
	shaper text.Shaper

	messages   []Message
	cursor     Cursor
	active     id.Path
	hasActive  bool
	hotPath    id.Path
	pointer    graphics.Offset
	hasPointer bool
	nextTimer  event.TimerToken
	timers     map[event.TimerToken]id.Path
	timerQueue []TimerRequest
	anim       map[string]id.Path

	inLayout       bool
	deferredLayout []id.Path
	stats          Stats
}

// TimerRequest is a timer a widget asked for. The host schedules it and
// dispatches event.Timer{Token} when it fires.
type TimerRequest struct {
	Token event.TimerToken
	Delay time.Duration
}

// Stats counts the work done by the most recent passes.
type Stats struct {
	Layouts       int
	Paints        int
	Accessibility int
}

// Option configures a Tree.
type Option func(*Tree)

// WithStore makes the tree keep node state in store.
func WithStore(store *state.Store) Option {
	return func(t *Tree) { t.store = store }
}

// WithShaper sets the text-layout collaborator.
func WithShaper(shaper text.Shaper) Option {
	return func(t *Tree) { t.shaper = shaper }
}

// NewTree creates an empty tree.
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		nodes:  make(map[string]*Node),
		ids:    id.NewAllocator(),
		focus:  focus.NewManager(),
		sem:    semantics.NewOwner(),
		timers: make(map[event.TimerToken]id.Path),
		anim:   make(map[string]id.Path),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.store == nil {
		t.store = state.NewStore()
	}
	if t.shaper == nil {
		t.shaper = text.Default()
	}
	t.focus.OnChange = t.focusChanged
	return t
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node { return t.root }

// Node returns the node at path.
func (t *Tree) Node(path id.Path) (*Node, bool) {
	n, ok := t.nodes[path.String()]
	return n, ok
}

// NodeByID returns the node with the given ID.
func (t *Tree) NodeByID(nodeID id.ID) (*Node, bool) {
	path, ok := t.ids.Resolve(nodeID)
	if !ok {
		return nil, false
	}
	return t.Node(path)
}

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Store returns the state store backing the tree.
func (t *Tree) Store() *state.Store { return t.store }

// Focus returns the tree's focus manager.
func (t *Tree) Focus() *focus.Manager { return t.focus }

// Cursor returns the cursor requested by the hot widget.
func (t *Tree) Cursor() Cursor { return t.cursor }

// Stats returns the work counters of the most recent passes.
func (t *Tree) Stats() Stats { return t.stats }

// Walk visits nodes in pre-order. Returning false skips a node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if t.root != nil {
		t.walk(t.root, fn)
	}
}

func (t *Tree) walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for i := range n.children {
		if child := t.child(n, i); child != nil {
			t.walk(child, fn)
		}
	}
}

// Paths returns the path of every node in pre-order.
func (t *Tree) Paths() []id.Path {
	var out []id.Path
	t.Walk(func(n *Node) bool {
		out = append(out, n.path)
		return true
	})
	return out
}

// Verify checks that the tree has the shape and content of v: the same
// paths in the same order, each node holding a view equal to v's.
func (t *Tree) Verify(v view.View) error {
	if v == nil || t.root == nil {
		if v == nil && t.root == nil {
			return nil
		}
		return fmt.Errorf("widget: tree root present=%t, view root present=%t", t.root != nil, v != nil)
	}
	var err error
	view.Walk(v, func(path id.Path, want view.View) bool {
		if err != nil {
			return false
		}
		n, ok := t.Node(path)
		switch {
		case !ok:
			err = fmt.Errorf("widget: no node at %s", path)
		case !view.Equal(n.view, want):
			err = fmt.Errorf("widget: node at %s holds %s, want %s", path, n.view.Kind(), want.Kind())
		case !slices.Equal(n.children, view.ChildSegments(path, want)):
			err = fmt.Errorf("widget: children of %s differ", path)
		}
		return err == nil
	})
	if err == nil && len(t.nodes) != len(view.Paths(v)) {
		err = fmt.Errorf("widget: tree has %d nodes, view has %d", len(t.nodes), len(view.Paths(v)))
	}
	return err
}

// TakeMessages returns and clears the messages raised since the last call.
func (t *Tree) TakeMessages() []Message {
	out := t.messages
	t.messages = nil
	return out
}

// TakeTimerRequests returns and clears pending timer requests.
func (t *Tree) TakeTimerRequests() []TimerRequest {
	out := t.timerQueue
	t.timerQueue = nil
	return out
}

// HasAnimRequests reports whether any node asked for an animation frame.
func (t *Tree) HasAnimRequests() bool { return len(t.anim) > 0 }

// NeedsWork reports whether any node has pending dirty flags.
func (t *Tree) NeedsWork() bool {
	return t.root != nil && t.root.flags != 0
}

func (t *Tree) child(n *Node, i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return t.nodes[n.path.Child(n.children[i]).String()]
}

func (t *Tree) parent(n *Node) *Node {
	if n.path.IsRoot() {
		return nil
	}
	return t.nodes[n.path.Parent().String()]
}

// markUp sets flags on n and every ancestor.
func (t *Tree) markUp(n *Node, flags Flags) {
	for cur := n; cur != nil; cur = t.parent(cur) {
		cur.flags |= flags
	}
}

// markSubtree sets flags on n and all descendants, and on n's ancestors.
func (t *Tree) markSubtree(n *Node, flags Flags) {
	t.walk(n, func(d *Node) bool {
		d.flags |= flags
		return true
	})
	t.markUp(n, flags)
}

func (t *Tree) requestLayout(n *Node) {
	if t.inLayout {
		t.deferredLayout = append(t.deferredLayout, n.path)
		errors.ReportDiagnostic(&errors.Diagnostic{
			Op:      "widget.RequestLayout",
			Path:    n.path.String(),
			Message: "layout requested during layout; deferred to the next cycle",
		})
		return
	}
	t.markUp(n, allDirty)
}

func (t *Tree) requestAnimFrame(n *Node) {
	n.animating = true
	t.anim[n.key] = n.path
}

func (t *Tree) requestTimer(n *Node, delay time.Duration) event.TimerToken {
	t.nextTimer++
	token := t.nextTimer
	t.timers[token] = n.path
	t.timerQueue = append(t.timerQueue, TimerRequest{Token: token, Delay: delay})
	return token
}

func (t *Tree) isActive(n *Node) bool {
	return t.hasActive && t.active.Equal(n.path)
}

func (t *Tree) setActive(n *Node, active bool) {
	switch {
	case active:
		t.active, t.hasActive = n.path, true
	case t.isActive(n):
		t.active, t.hasActive = nil, false
	}
}

// absoluteOrigin returns the window position of n's top-left corner.
func (t *Tree) absoluteOrigin(n *Node) graphics.Offset {
	var origin graphics.Offset
	for i := 0; i <= len(n.path); i++ {
		if anc, ok := t.nodes[n.path[:i].String()]; ok {
			origin = origin.Add(anc.offset)
		}
	}
	return origin
}

// Bounds returns the window-space rectangle of the node at path.
func (t *Tree) Bounds(path id.Path) (graphics.Rect, bool) {
	n, ok := t.Node(path)
	if !ok {
		return graphics.Rect{}, false
	}
	return graphics.RectFromOffsetSize(t.absoluteOrigin(n), n.size), true
}
