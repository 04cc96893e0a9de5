package widget

import (
	"slices"
	"time"

	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/focus"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/logging"
	"github.com/go-drift/xilem/pkg/semantics"
)

// Dispatch routes ev through the tree and reports whether a node consumed it.
//
// Pointer events hit-test from the root (or go to the node holding pointer
// capture) and run a capture phase from the root to the target followed by
// a bubble phase back up. Keyboard events go to the focused node and bubble.
// Accessibility actions go to their target node and bubble. Timer events go
// to the node that requested them.
func (t *Tree) Dispatch(ev event.Event) bool {
	if t.root == nil {
		return false
	}
	switch e := ev.(type) {
	case event.PointerDown, event.PointerUp, event.PointerMove, event.PointerWheel:
		return t.dispatchPointer(ev)
	case event.PointerLeave:
		t.hasPointer = false
		t.updateHot(nil)
		t.cursor = CursorDefault
		return false
	case event.KeyDown:
		if t.bubble(t.focusedChain(), ev) {
			return true
		}
		return t.defaultKeyAction(e)
	case event.KeyUp:
		return t.bubble(t.focusedChain(), ev)
	case event.AccessibilityAction:
		return t.dispatchAction(e)
	case event.Timer:
		path, ok := t.timers[e.Token]
		if !ok {
			return false
		}
		delete(t.timers, e.Token)
		n, ok := t.Node(path)
		if !ok {
			logging.Logger().Debug("timer for removed node dropped", "path", path.String())
			return false
		}
		return t.deliver(n, ev, event.PhaseBubble)
	case event.WindowScale:
		t.markSubtree(t.root, NeedsPaint|NeedsAccessibility)
		return t.deliver(t.root, ev, event.PhaseBubble)
	case event.WindowSize:
		return t.deliver(t.root, ev, event.PhaseBubble)
	default:
		return false
	}
}

// DeliverAnimFrame sends an AnimFrame to every node that requested one since
// the previous delivery, in path order.
func (t *Tree) DeliverAnimFrame(interval time.Duration) {
	if len(t.anim) == 0 {
		return
	}
	keys := make([]string, 0, len(t.anim))
	for k := range t.anim {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	pending := t.anim
	t.anim = make(map[string]id.Path)

	for _, k := range keys {
		n, ok := t.Node(pending[k])
		if !ok {
			continue
		}
		n.animating = false
		t.deliver(n, event.AnimFrame{Interval: interval}, event.PhaseBubble)
	}
}

func (t *Tree) dispatchPointer(ev event.Event) bool {
	p, _ := event.PointerOf(ev)
	t.pointer, t.hasPointer = p.WindowPosition, true
	hit := t.hitTest(p.WindowPosition)

	if _, isMove := ev.(event.PointerMove); isMove {
		t.cursor = CursorDefault
		t.updateHot(hit)
	}

	chain := hit
	if t.hasActive {
		if n, ok := t.Node(t.active); ok {
			chain = t.chainTo(n)
		}
	}

	handled := t.capture(chain, ev) || t.bubble(chain, ev)

	switch e := ev.(type) {
	case event.PointerDown:
		for i := len(chain) - 1; i >= 0; i-- {
			if isFocusable(chain[i]) {
				t.focus.SetFocus(chain[i].path)
				break
			}
		}
	case event.PointerUp:
		if e.Buttons == 0 {
			t.active, t.hasActive = nil, false
		}
	}
	return handled
}

// capture delivers ev from the root down to the target.
func (t *Tree) capture(chain []*Node, ev event.Event) bool {
	for _, n := range chain {
		if t.deliver(n, ev, event.PhaseCapture) {
			return true
		}
	}
	return false
}

// bubble delivers ev from the target up to the root.
func (t *Tree) bubble(chain []*Node, ev event.Event) bool {
	for i := len(chain) - 1; i >= 0; i-- {
		if t.deliver(chain[i], ev, event.PhaseBubble) {
			return true
		}
	}
	return false
}

func (t *Tree) deliver(n *Node, ev event.Event, phase event.Phase) bool {
	ctx := EventCtx{ctx: ctx{tree: t, node: n}, phase: phase}
	n.widget.Event(&ctx, event.Localize(ev, t.absoluteOrigin(n)))
	return ctx.handled
}

// hitTest returns the chain of nodes from the root to the topmost node
// containing pos. Later children paint over earlier ones, so they are tested
// first.
func (t *Tree) hitTest(pos graphics.Offset) []*Node {
	n := t.root
	origin := n.offset
	if !graphics.RectFromOffsetSize(origin, n.size).Contains(pos) {
		return nil
	}
	chain := []*Node{n}
	for {
		var next *Node
		for i := len(n.children) - 1; i >= 0; i-- {
			child := t.child(n, i)
			if child == nil {
				continue
			}
			if graphics.RectFromOffsetSize(origin.Add(child.offset), child.size).Contains(pos) {
				next = child
				break
			}
		}
		if next == nil {
			return chain
		}
		origin = origin.Add(next.offset)
		chain = append(chain, next)
		n = next
	}
}

// chainTo returns the nodes from the root to n.
func (t *Tree) chainTo(n *Node) []*Node {
	chain := make([]*Node, 0, len(n.path)+1)
	for i := 0; i <= len(n.path); i++ {
		if anc, ok := t.nodes[n.path[:i].String()]; ok {
			chain = append(chain, anc)
		}
	}
	return chain
}

func (t *Tree) focusedChain() []*Node {
	path, ok := t.focus.Focused()
	if !ok {
		return nil
	}
	n, ok := t.Node(path)
	if !ok {
		return nil
	}
	return t.chainTo(n)
}

// updateHot moves the hot set to the nodes of chain, notifying nodes that
// enter or leave it.
func (t *Tree) updateHot(chain []*Node) {
	var newPath id.Path
	if len(chain) > 0 {
		newPath = chain[len(chain)-1].path
	}
	if t.hotPath != nil {
		if old, ok := t.Node(t.hotPath); ok {
			for _, n := range t.chainTo(old) {
				if !newPath.HasPrefix(n.path) || len(chain) == 0 {
					t.setHot(n, false)
				}
			}
		}
	}
	for _, n := range chain {
		t.setHot(n, true)
	}
	t.hotPath = newPath
	if len(chain) == 0 {
		t.hotPath = nil
	}
}

// refreshHot re-runs the hot hit test at the last pointer position, for
// nodes that moved, appeared or disappeared under a pointer that did not.
func (t *Tree) refreshHot() {
	var hit []*Node
	if t.hasPointer && t.root != nil {
		hit = t.hitTest(t.pointer)
	}
	if len(hit) == 0 {
		if t.hotPath != nil {
			t.cursor = CursorDefault
			t.updateHot(nil)
		}
		return
	}
	if target := hit[len(hit)-1].path; t.hotPath != nil && target.Equal(t.hotPath) {
		return
	}
	t.cursor = CursorDefault
	t.updateHot(hit)
}

func (t *Tree) setHot(n *Node, hot bool) {
	if n.hot == hot {
		return
	}
	n.hot = hot
	t.deliver(n, event.HotChanged{Hot: hot}, event.PhaseBubble)
}

func (t *Tree) defaultKeyAction(e event.KeyDown) bool {
	switch e.Key {
	case event.KeyTab:
		delta := 1
		if e.Mods.Has(event.ModShift) {
			delta = -1
		}
		return t.focus.MoveFocus(t.focusCandidates(), delta)
	case event.KeyArrowUp:
		return t.focus.FocusInDirection(t.focusCandidates(), focus.TraversalDirectionUp)
	case event.KeyArrowDown:
		return t.focus.FocusInDirection(t.focusCandidates(), focus.TraversalDirectionDown)
	case event.KeyArrowLeft:
		return t.focus.FocusInDirection(t.focusCandidates(), focus.TraversalDirectionLeft)
	case event.KeyArrowRight:
		return t.focus.FocusInDirection(t.focusCandidates(), focus.TraversalDirectionRight)
	case event.KeyEscape:
		if _, ok := t.focus.Focused(); ok {
			t.focus.Clear()
			return true
		}
	}
	return false
}

// focusCandidates returns focusable nodes in tree order.
func (t *Tree) focusCandidates() []focus.Candidate {
	var out []focus.Candidate
	t.Walk(func(n *Node) bool {
		if isFocusable(n) {
			rect, _ := t.Bounds(n.path)
			out = append(out, focus.Candidate{Path: n.path, Rect: rect})
		}
		return true
	})
	return out
}

func (t *Tree) dispatchAction(e event.AccessibilityAction) bool {
	n, ok := t.NodeByID(e.Target)
	if !ok {
		return false
	}
	if e.Action == semantics.ActionFocus {
		if !isFocusable(n) {
			return false
		}
		t.focus.SetFocus(n.path)
		return true
	}
	return t.bubble(t.chainTo(n), e)
}

// focusChanged notifies the nodes losing and gaining focus.
func (t *Tree) focusChanged(prev, next id.Path) {
	if prev != nil {
		if n, ok := t.Node(prev); ok {
			t.markUp(n, NeedsPaint|NeedsAccessibility)
			t.deliver(n, event.FocusChanged{Focused: false}, event.PhaseBubble)
		}
	}
	if next != nil {
		if n, ok := t.Node(next); ok {
			t.markUp(n, NeedsPaint|NeedsAccessibility)
			t.deliver(n, event.FocusChanged{Focused: true}, event.PhaseBubble)
		}
	}
}

func isFocusable(n *Node) bool {
	f, ok := n.widget.(Focusable)
	return ok && f.Focusable()
}
