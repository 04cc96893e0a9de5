// Package focus tracks keyboard focus within one retained tree.
//
// Focus is addressed by id-path, so it survives keyed reorders and is lost
// when the focused node is removed.
package focus

import (
	"math"

	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
)

// Candidate is a focusable node in traversal order.
type Candidate struct {
	Path id.Path
	// Rect is the node's bounds in window coordinates, used for
	// directional traversal.
	Rect graphics.Rect
}

// TraversalDirection indicates the focus traversal direction.
type TraversalDirection int

const (
	// TraversalDirectionUp moves focus upward.
	TraversalDirectionUp TraversalDirection = iota

	// TraversalDirectionDown moves focus downward.
	TraversalDirectionDown

	// TraversalDirectionLeft moves focus leftward.
	TraversalDirectionLeft

	// TraversalDirectionRight moves focus rightward.
	TraversalDirectionRight
)

// Manager holds the primary focus of one tree.
type Manager struct {
	primary id.Path
	focused bool

	// OnChange, if set, is called with the previous and new focus whenever
	// the primary focus changes. Either may be nil.
	OnChange func(prev, next id.Path)
}

// NewManager creates a manager with nothing focused.
func NewManager() *Manager {
	return &Manager{}
}

// Focused returns the path with primary focus.
func (m *Manager) Focused() (id.Path, bool) {
	return m.primary, m.focused
}

// HasFocus reports whether path has primary focus.
func (m *Manager) HasFocus(path id.Path) bool {
	return m.focused && m.primary.Equal(path)
}

// SetFocus gives primary focus to path.
func (m *Manager) SetFocus(path id.Path) {
	if m.focused && m.primary.Equal(path) {
		return
	}
	m.set(path, true)
}

// Clear removes focus.
func (m *Manager) Clear() {
	if !m.focused {
		return
	}
	m.set(nil, false)
}

// ClearWithin removes focus if the focused path is prefix or lies below it.
// Reports whether focus was cleared.
func (m *Manager) ClearWithin(prefix id.Path) bool {
	if !m.focused || !m.primary.HasPrefix(prefix) {
		return false
	}
	m.set(nil, false)
	return true
}

// MoveFocus moves focus by delta positions through candidates, wrapping
// around. With nothing focused, +1 lands on the first candidate and -1 on the
// last.
func (m *Manager) MoveFocus(candidates []Candidate, delta int) bool {
	count := len(candidates)
	if count == 0 || delta == 0 {
		return false
	}
	current := m.findCurrentFocusIndex(candidates)
	if current < 0 && delta < 0 {
		current = 0
	}
	next := wrapIndex(current+delta, count)
	if current >= 0 && next == current && m.focused {
		return false
	}
	m.SetFocus(candidates[next].Path)
	return true
}

// FocusInDirection moves focus to the best candidate in direction, falling
// back to linear traversal when none lies that way or the current node has no
// usable geometry.
func (m *Manager) FocusInDirection(candidates []Candidate, direction TraversalDirection) bool {
	current := m.findCurrentFocusIndex(candidates)
	if current < 0 {
		return m.MoveFocus(candidates, 1)
	}
	currentRect := candidates[current].Rect
	if !isValid(currentRect) {
		return m.MoveFocus(candidates, linearDelta(direction))
	}

	best := -1
	bestScore := math.MaxFloat64
	for i, c := range candidates {
		if i == current || !isValid(c.Rect) {
			continue
		}
		if !isInDirection(currentRect, c.Rect, direction) {
			continue
		}
		if score := directionalScore(currentRect, c.Rect, direction); score < bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return m.MoveFocus(candidates, linearDelta(direction))
	}
	m.SetFocus(candidates[best].Path)
	return true
}

func (m *Manager) set(path id.Path, focused bool) {
	var prev id.Path
	if m.focused {
		prev = m.primary
	}
	m.primary = path
	m.focused = focused
	if m.OnChange != nil {
		m.OnChange(prev, path)
	}
}

// findCurrentFocusIndex returns the index of the focused candidate, or -1.
func (m *Manager) findCurrentFocusIndex(candidates []Candidate) int {
	if !m.focused {
		return -1
	}
	for i, c := range candidates {
		if c.Path.Equal(m.primary) {
			return i
		}
	}
	return -1
}

// linearDelta returns +1 or -1 for linear focus traversal based on direction.
func linearDelta(direction TraversalDirection) int {
	if direction == TraversalDirectionUp || direction == TraversalDirectionLeft {
		return -1
	}
	return 1
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}

func isValid(r graphics.Rect) bool {
	return r.Right > r.Left && r.Bottom > r.Top
}

// isInDirection checks if target rect is in the specified direction from source.
func isInDirection(source, target graphics.Rect, direction TraversalDirection) bool {
	sc := source.Center()
	tc := target.Center()

	switch direction {
	case TraversalDirectionUp:
		return tc.Y < sc.Y
	case TraversalDirectionDown:
		return tc.Y > sc.Y
	case TraversalDirectionLeft:
		return tc.X < sc.X
	case TraversalDirectionRight:
		return tc.X > sc.X
	}
	return false
}

// directionalScore scores a target for directional focus. Lower is better;
// cross-axis distance weighs double to prefer aligned nodes.
func directionalScore(source, target graphics.Rect, direction TraversalDirection) float64 {
	sc := source.Center()
	tc := target.Center()

	var primaryDist, crossDist float64
	switch direction {
	case TraversalDirectionUp, TraversalDirectionDown:
		primaryDist = math.Abs(tc.Y - sc.Y)
		crossDist = math.Abs(tc.X - sc.X)
	case TraversalDirectionLeft, TraversalDirectionRight:
		primaryDist = math.Abs(tc.X - sc.X)
		crossDist = math.Abs(tc.Y - sc.Y)
	}
	return primaryDist + crossDist*2
}
