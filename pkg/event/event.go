// Package event defines the input and lifecycle events routed through the
// retained tree.
package event

import (
	"fmt"
	"time"

	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/semantics"
)

// Event is implemented by every event type in this package.
type Event interface {
	isEvent()
}

// WindowScale reports a change of the window's device scale.
type WindowScale struct {
	Scale float64
}

// WindowSize reports a change of the window's logical size.
type WindowSize struct {
	Size graphics.Size
}

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// MouseButtons is the set of buttons held down.
type MouseButtons uint8

// With returns the set including b.
func (s MouseButtons) With(b MouseButton) MouseButtons {
	if b == ButtonNone {
		return s
	}
	return s | 1<<(b-1)
}

// Has reports whether b is held.
func (s MouseButtons) Has(b MouseButton) bool {
	return b != ButtonNone && s&(1<<(b-1)) != 0
}

// Modifiers is the set of keyboard modifiers held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether all modifiers in m are held.
func (s Modifiers) Has(m Modifiers) bool {
	return s&m == m
}

// Pointer carries the data shared by all pointer events.
type Pointer struct {
	// Position is in the coordinate space of the receiving node.
	Position graphics.Offset
	// WindowPosition is in window coordinates.
	WindowPosition graphics.Offset
	// Buttons held during a move, or after a press.
	Buttons MouseButtons
	// Button that was pressed or released. ButtonNone for moves.
	Button MouseButton
	Mods   Modifiers
	// Count is the click count of a press, zero otherwise.
	Count int
	// WheelDelta is the amount to add to the scroll position.
	WheelDelta graphics.Offset
}

// PointerDown is sent when a pointer button is pressed.
type PointerDown struct{ Pointer }

// PointerUp is sent when a pointer button is released.
type PointerUp struct{ Pointer }

// PointerMove is sent when the pointer moves.
type PointerMove struct{ Pointer }

// PointerWheel is sent when the wheel or trackpad scrolls.
type PointerWheel struct{ Pointer }

// PointerLeave is sent when the pointer leaves the window.
type PointerLeave struct{}

// Key names a keyboard key.
type Key string

const (
	KeyTab        Key = "Tab"
	KeyEnter      Key = "Enter"
	KeySpace      Key = "Space"
	KeyEscape     Key = "Escape"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// KeyDown is sent when a key is pressed. Repeats arrive as further KeyDowns.
type KeyDown struct {
	Key    Key
	Mods   Modifiers
	Repeat bool
}

// KeyUp is sent when a key is released.
type KeyUp struct {
	Key  Key
	Mods Modifiers
}

// TimerToken identifies a timer requested by a widget.
type TimerToken uint64

// Timer is sent when a requested timer fires.
type Timer struct {
	Token TimerToken
}

// AnimFrame is sent at the start of a cycle to widgets that requested an
// animation frame. Interval is zero on the first frame after idling.
type AnimFrame struct {
	Interval time.Duration
}

// AccessibilityAction is an action requested by assistive technology on a
// specific node.
type AccessibilityAction struct {
	Target id.ID
	Action semantics.Action
}

// HotChanged tells a node that the pointer entered or left it.
type HotChanged struct {
	Hot bool
}

// FocusChanged tells a node that it gained or lost keyboard focus.
type FocusChanged struct {
	Focused bool
}

func (WindowScale) isEvent()         {}
func (WindowSize) isEvent()          {}
func (PointerDown) isEvent()         {}
func (PointerUp) isEvent()           {}
func (PointerMove) isEvent()         {}
func (PointerWheel) isEvent()        {}
func (PointerLeave) isEvent()        {}
func (KeyDown) isEvent()             {}
func (KeyUp) isEvent()               {}
func (Timer) isEvent()               {}
func (AnimFrame) isEvent()           {}
func (AccessibilityAction) isEvent() {}
func (HotChanged) isEvent()          {}
func (FocusChanged) isEvent()        {}

// PointerOf returns the pointer data of a positional event.
func PointerOf(ev Event) (Pointer, bool) {
	switch ev := ev.(type) {
	case PointerDown:
		return ev.Pointer, true
	case PointerUp:
		return ev.Pointer, true
	case PointerMove:
		return ev.Pointer, true
	case PointerWheel:
		return ev.Pointer, true
	default:
		return Pointer{}, false
	}
}

// Localize returns ev with its receiver position set to the window position
// minus origin. Events without a position are returned unchanged.
func Localize(ev Event, origin graphics.Offset) Event {
	switch e := ev.(type) {
	case PointerDown:
		e.Position = e.WindowPosition.Sub(origin)
		return e
	case PointerUp:
		e.Position = e.WindowPosition.Sub(origin)
		return e
	case PointerMove:
		e.Position = e.WindowPosition.Sub(origin)
		return e
	case PointerWheel:
		e.Position = e.WindowPosition.Sub(origin)
		return e
	default:
		return ev
	}
}

// Phase is the dispatch phase of a positional event.
type Phase uint8

const (
	// PhaseCapture runs from the root down to the target.
	PhaseCapture Phase = iota
	// PhaseBubble runs from the target up to the root. Keyboard and
	// accessibility events are delivered in this phase only.
	PhaseBubble
)

func (p Phase) String() string {
	switch p {
	case PhaseCapture:
		return "capture"
	case PhaseBubble:
		return "bubble"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Name returns a short name for logging.
func Name(ev Event) string {
	switch ev.(type) {
	case WindowScale:
		return "window_scale"
	case WindowSize:
		return "window_size"
	case PointerDown:
		return "pointer_down"
	case PointerUp:
		return "pointer_up"
	case PointerMove:
		return "pointer_move"
	case PointerWheel:
		return "pointer_wheel"
	case PointerLeave:
		return "pointer_leave"
	case KeyDown:
		return "key_down"
	case KeyUp:
		return "key_up"
	case Timer:
		return "timer"
	case AnimFrame:
		return "anim_frame"
	case AccessibilityAction:
		return "accessibility_action"
	case HotChanged:
		return "hot_changed"
	case FocusChanged:
		return "focus_changed"
	default:
		return fmt.Sprintf("%T", ev)
	}
}
