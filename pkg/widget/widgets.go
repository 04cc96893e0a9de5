package widget

import (
	"math"
	"time"

	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/layout"
	"github.com/go-drift/xilem/pkg/semantics"
	"github.com/go-drift/xilem/pkg/state"
	"github.com/go-drift/xilem/pkg/text"
	"github.com/go-drift/xilem/pkg/view"
)

var (
	colorAccent       = graphics.RGB(0x3B, 0x82, 0xF6)
	colorAccentHot    = graphics.RGB(0x25, 0x63, 0xEB)
	colorAccentActive = graphics.RGB(0x1D, 0x4E, 0xD8)
	colorDisabled     = graphics.RGB(0xE5, 0xE7, 0xEB)
	colorMuted        = graphics.RGB(0x9C, 0xA3, 0xAF)
	colorBorder       = graphics.RGB(0x1E, 0x3A, 0x8A)
	colorFocus        = graphics.RGB(0xF5, 0x9E, 0x0B)
)

const (
	buttonPadX      = 8
	buttonPadY      = 4
	buttonMinHeight = 24

	switchWidth  = 40
	switchHeight = 20
	switchThumb  = 16
	switchInset  = 2
	// switchTravel is how long the thumb takes to cross the track.
	switchTravel = 120 * time.Millisecond

	focusRingWidth = 2
)

// ButtonState is the per-node state of a button.
type ButtonState struct {
	Label   string
	Pressed bool
}

// SwitchState is the per-node state of a switch. Thumb runs from 0 (off) to
// 1 (on) and trails the switch value while animating.
type SwitchState struct {
	Pressed bool
	Thumb   float64
}

// LabelState caches a label's text layout.
type LabelState struct {
	Layout   text.Layout
	MaxWidth float64
	Valid    bool
}

func paintFocusRing(ctx *PaintCtx) {
	if ctx.IsFocused() {
		ctx.Canvas.StrokeRect(graphics.RectFromOffsetSize(graphics.Offset{}, ctx.Size()), colorFocus, focusRingWidth)
	}
}

// --- Flex ---

type flexWidget struct {
	axis    view.Axis
	spacing float64
}

// Layout gives every child the same loose constraints, so a child's layout
// does not depend on its position and survives reorders memoized. Children
// that do not fit overflow the flex.
func (w *flexWidget) Layout(ctx *LayoutCtx, c layout.Constraints) graphics.Size {
	vertical := w.axis == view.AxisVertical
	child := c.Loosen()

	var main, cross float64
	for i := 0; i < ctx.ChildCount(); i++ {
		if i > 0 {
			main += w.spacing
		}
		size := ctx.LayoutChild(i, child)
		if vertical {
			ctx.PlaceChild(i, graphics.Offset{Y: main})
			main += size.Height
			cross = math.Max(cross, size.Width)
		} else {
			ctx.PlaceChild(i, graphics.Offset{X: main})
			main += size.Width
			cross = math.Max(cross, size.Height)
		}
	}
	if vertical {
		return graphics.Size{Width: cross, Height: main}
	}
	return graphics.Size{Width: main, Height: cross}
}

func (w *flexWidget) Paint(*PaintCtx) {}

func (w *flexWidget) Accessibility(ctx *AccessCtx) {
	ctx.Node.Role = semantics.RoleGroup
}

func (w *flexWidget) Event(*EventCtx, event.Event) {}

func (w *flexWidget) Update(ctx *UpdateCtx, v view.View) {
	f := v.(view.Flex)
	if f.Axis != w.axis || f.Spacing != w.spacing {
		w.axis, w.spacing = f.Axis, f.Spacing
		ctx.RequestLayout()
	}
}

// --- Button ---

type buttonWidget struct {
	label    string
	disabled bool
	text     text.Layout
}

func (w *buttonWidget) Focusable() bool { return !w.disabled }

func (w *buttonWidget) Layout(ctx *LayoutCtx, _ layout.Constraints) graphics.Size {
	w.text = ctx.Shaper().Layout(w.label, layout.Unbounded, false)
	return graphics.Size{
		Width:  w.text.Size.Width + 2*buttonPadX,
		Height: math.Max(w.text.Size.Height+2*buttonPadY, buttonMinHeight),
	}
}

func (w *buttonWidget) Paint(ctx *PaintCtx) {
	st := state.Value[*ButtonState](ctx.State())
	size := ctx.Size()
	bounds := graphics.RectFromOffsetSize(graphics.Offset{}, size)

	fill, ink := colorAccent, graphics.ColorWhite
	switch {
	case w.disabled:
		fill, ink = colorDisabled, colorMuted
	case st.Pressed && ctx.IsActive():
		fill = colorAccentActive
	case ctx.IsHot():
		fill = colorAccentHot
	}
	ctx.Canvas.FillRect(bounds, fill)
	ctx.Canvas.StrokeRect(bounds, colorBorder, 1)

	left := (size.Width - w.text.Size.Width) / 2
	top := (size.Height - w.text.Size.Height) / 2
	for _, line := range w.text.Lines {
		ctx.Canvas.DrawText(graphics.Offset{X: left, Y: top + line.Top}, line.Text, ink)
	}
	paintFocusRing(ctx)
}

func (w *buttonWidget) Accessibility(ctx *AccessCtx) {
	ctx.Node.Role = semantics.RoleButton
	ctx.Node.Name = w.label
	ctx.Node.Disabled = w.disabled
	if !w.disabled {
		ctx.Node.Actions = semantics.ActionClick | semantics.ActionFocus
	}
}

func (w *buttonWidget) Event(ctx *EventCtx, ev event.Event) {
	if ctx.Phase() != event.PhaseBubble {
		return
	}
	st := state.Value[*ButtonState](ctx.State())
	switch e := ev.(type) {
	case event.PointerMove:
		ctx.SetCursor(w.cursor())
	case event.PointerDown:
		if w.disabled || e.Button != event.ButtonLeft {
			return
		}
		st.Pressed = true
		ctx.SetActive(true)
		ctx.RequestPaint()
		ctx.SetHandled()
	case event.PointerUp:
		if !ctx.IsActive() {
			return
		}
		st.Pressed = false
		ctx.SetActive(false)
		ctx.RequestPaint()
		if ctx.Size().Contains(e.Position) {
			ctx.Submit(view.Clicked{})
		}
		ctx.SetHandled()
	case event.HotChanged:
		if e.Hot {
			ctx.SetCursor(w.cursor())
		}
		ctx.RequestPaint()
	case event.KeyDown:
		if !w.disabled && (e.Key == event.KeyEnter || e.Key == event.KeySpace) {
			ctx.Submit(view.Clicked{})
			ctx.SetHandled()
		}
	case event.AccessibilityAction:
		if !w.disabled && e.Action == semantics.ActionClick {
			ctx.Submit(view.Clicked{})
			ctx.SetHandled()
		}
	}
}

func (w *buttonWidget) cursor() Cursor {
	if w.disabled {
		return CursorNotAllowed
	}
	return CursorPointer
}

func (w *buttonWidget) Update(ctx *UpdateCtx, v view.View) {
	b := v.(view.Button)
	if b.Label != w.label {
		// A relabelled button is a different control to the user; its
		// interaction state starts over.
		w.label = b.Label
		ctx.ReplaceState(&ButtonState{Label: b.Label})
		ctx.RequestLayout()
	}
	if b.Disabled != w.disabled {
		w.disabled = b.Disabled
		if w.disabled {
			state.Value[*ButtonState](ctx.State()).Pressed = false
			ctx.tree.setActive(ctx.node, false)
		}
		ctx.RequestPaint()
		ctx.RequestAccessibility()
	}
}

// --- Label ---

type labelWidget struct {
	text  string
	wrap  bool
	color graphics.Color
}

func (w *labelWidget) Layout(ctx *LayoutCtx, c layout.Constraints) graphics.Size {
	st := state.Value[*LabelState](ctx.State())
	if !st.Valid || (w.wrap && st.MaxWidth != c.MaxWidth) {
		st.Layout = ctx.Shaper().Layout(w.text, c.MaxWidth, w.wrap)
		st.MaxWidth = c.MaxWidth
		st.Valid = true
	}
	return st.Layout.Size
}

func (w *labelWidget) Paint(ctx *PaintCtx) {
	st := state.Value[*LabelState](ctx.State())
	ink := w.color
	if ink == graphics.ColorTransparent {
		ink = graphics.ColorBlack
	}
	width := ctx.Size().Width
	for _, line := range st.Layout.Lines {
		if line.Text == "" {
			continue
		}
		x := 0.0
		if line.Direction == text.DirectionRTL {
			x = math.Max(width-line.Width, 0)
		}
		ctx.Canvas.DrawText(graphics.Offset{X: x, Y: line.Top}, line.Text, ink)
	}
}

func (w *labelWidget) Accessibility(ctx *AccessCtx) {
	ctx.Node.Role = semantics.RoleLabel
	ctx.Node.Name = w.text
}

func (w *labelWidget) Event(*EventCtx, event.Event) {}

func (w *labelWidget) Update(ctx *UpdateCtx, v view.View) {
	l := v.(view.Label)
	if l.Text != w.text || l.Wrap != w.wrap {
		w.text, w.wrap = l.Text, l.Wrap
		state.Value[*LabelState](ctx.State()).Valid = false
		ctx.RequestLayout()
	}
	if l.Color != w.color {
		w.color = l.Color
		ctx.RequestPaint()
	}
}

// --- Switch ---

type switchWidget struct {
	on bool
}

func (w *switchWidget) Focusable() bool { return true }

func (w *switchWidget) Layout(*LayoutCtx, layout.Constraints) graphics.Size {
	return graphics.Size{Width: switchWidth, Height: switchHeight}
}

func (w *switchWidget) Paint(ctx *PaintCtx) {
	st := state.Value[*SwitchState](ctx.State())
	size := ctx.Size()

	track := colorMuted
	switch {
	case st.Pressed && ctx.IsActive():
		track = colorAccentActive
	case w.on:
		track = colorAccent
	}
	ctx.Canvas.FillRect(graphics.RectFromOffsetSize(graphics.Offset{}, size), track)

	travel := math.Max(size.Width-2*switchInset-switchThumb, 0)
	x := switchInset + st.Thumb*travel
	y := (size.Height - switchThumb) / 2
	ctx.Canvas.FillRect(graphics.RectFromLTWH(x, y, switchThumb, switchThumb), graphics.ColorWhite)
	paintFocusRing(ctx)
}

func (w *switchWidget) Accessibility(ctx *AccessCtx) {
	ctx.Node.Role = semantics.RoleSwitch
	ctx.Node.Actions = semantics.ActionClick | semantics.ActionFocus
	ctx.Node.Toggled = semantics.ToggleOff
	if w.on {
		ctx.Node.Toggled = semantics.ToggleOn
	}
}

func (w *switchWidget) Event(ctx *EventCtx, ev event.Event) {
	if ctx.Phase() != event.PhaseBubble {
		return
	}
	st := state.Value[*SwitchState](ctx.State())
	switch e := ev.(type) {
	case event.PointerMove:
		ctx.SetCursor(CursorPointer)
	case event.HotChanged:
		if e.Hot {
			ctx.SetCursor(CursorPointer)
		}
	case event.PointerDown:
		if e.Button != event.ButtonLeft {
			return
		}
		st.Pressed = true
		ctx.SetActive(true)
		ctx.RequestPaint()
		ctx.SetHandled()
	case event.PointerUp:
		if !ctx.IsActive() {
			return
		}
		st.Pressed = false
		ctx.SetActive(false)
		ctx.RequestPaint()
		if ctx.Size().Contains(e.Position) {
			ctx.Submit(view.Toggled{})
		}
		ctx.SetHandled()
	case event.KeyDown:
		if e.Key == event.KeySpace || e.Key == event.KeyEnter {
			ctx.Submit(view.Toggled{})
			ctx.SetHandled()
		}
	case event.AccessibilityAction:
		if e.Action == semantics.ActionClick {
			ctx.Submit(view.Toggled{})
			ctx.SetHandled()
		}
	case event.AnimFrame:
		target := 0.0
		if w.on {
			target = 1
		}
		if e.Interval > 0 {
			step := float64(e.Interval) / float64(switchTravel)
			if st.Thumb < target {
				st.Thumb = math.Min(st.Thumb+step, target)
			} else {
				st.Thumb = math.Max(st.Thumb-step, target)
			}
			ctx.RequestPaint()
		}
		if st.Thumb != target {
			ctx.RequestAnimFrame()
		}
	}
}

func (w *switchWidget) Update(ctx *UpdateCtx, v view.View) {
	s := v.(view.Switch)
	if s.On == w.on {
		return
	}
	w.on = s.On
	ctx.RequestPaint()
	ctx.RequestAccessibility()
	ctx.RequestAnimFrame()
}

// --- SizedBox ---

type sizedBoxWidget struct {
	width, height float64
}

func (w *sizedBoxWidget) Layout(ctx *LayoutCtx, c layout.Constraints) graphics.Size {
	inner := c.Tighten(w.width, w.height)
	if ctx.ChildCount() == 0 {
		return inner.Smallest()
	}
	size := ctx.LayoutChild(0, inner)
	ctx.PlaceChild(0, graphics.Offset{})
	return size
}

func (w *sizedBoxWidget) Paint(*PaintCtx) {}

func (w *sizedBoxWidget) Accessibility(*AccessCtx) {}

func (w *sizedBoxWidget) Event(*EventCtx, event.Event) {}

func (w *sizedBoxWidget) Update(ctx *UpdateCtx, v view.View) {
	b := v.(view.SizedBox)
	if b.Width != w.width || b.Height != w.height {
		w.width, w.height = b.Width, b.Height
		ctx.RequestLayout()
	}
}

// --- Padding ---

type paddingWidget struct {
	insets graphics.Insets
}

func (w *paddingWidget) Layout(ctx *LayoutCtx, c layout.Constraints) graphics.Size {
	if ctx.ChildCount() == 0 {
		return graphics.Size{Width: w.insets.Horizontal(), Height: w.insets.Vertical()}
	}
	size := ctx.LayoutChild(0, c.Deflate(w.insets))
	ctx.PlaceChild(0, graphics.Offset{X: w.insets.Left, Y: w.insets.Top})
	return graphics.Size{
		Width:  size.Width + w.insets.Horizontal(),
		Height: size.Height + w.insets.Vertical(),
	}
}

func (w *paddingWidget) Paint(*PaintCtx) {}

func (w *paddingWidget) Accessibility(*AccessCtx) {}

func (w *paddingWidget) Event(*EventCtx, event.Event) {}

func (w *paddingWidget) Update(ctx *UpdateCtx, v view.View) {
	p := v.(view.Padding)
	if p.Insets != w.insets {
		w.insets = p.Insets
		ctx.RequestLayout()
	}
}
