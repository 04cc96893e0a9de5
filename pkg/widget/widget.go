// Package widget implements the retained widget tree: an arena of stateful
// nodes addressed by id-path that mirrors the latest view tree.
//
// The tree is mutated only by applying edit scripts produced by view.Diff.
// Each node carries dirty flags; layout, paint, and accessibility passes
// visit only what is dirty and clear the flags they service.
//
//	tree := widget.NewTree()
//	if err := tree.Apply(view.Diff(nil, root)); err != nil {
//	    return err
//	}
//	tree.Layout(graphics.Size{Width: 800, Height: 600})
//	cmds := tree.Paint()
//	delta := tree.Accessibility()
package widget

import (
	"fmt"

	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/layout"
	"github.com/go-drift/xilem/pkg/view"
)

// Widget is the behaviour of a retained node.
type Widget interface {
	// Layout returns the natural size for the given constraints, laying out
	// and placing children through ctx. The tree clamps the result.
	Layout(ctx *LayoutCtx, c layout.Constraints) graphics.Size
	// Paint draws the node in local coordinates. Children are painted by the
	// tree after the node.
	Paint(ctx *PaintCtx)
	// Accessibility fills the node's accessibility projection.
	Accessibility(ctx *AccessCtx)
	// Event handles an event routed to the node.
	Event(ctx *EventCtx, ev event.Event)
	// Update applies a new view of the same kind and marks what changed.
	Update(ctx *UpdateCtx, v view.View)
}

// Focusable is implemented by widgets that can take keyboard focus.
type Focusable interface {
	Focusable() bool
}

// Cursor is the pointer cursor requested by the hot widget.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorText
	CursorNotAllowed
)

func (c Cursor) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	case CursorText:
		return "text"
	case CursorNotAllowed:
		return "not-allowed"
	default:
		return "default"
	}
}

// newWidget instantiates the widget for a view.
func newWidget(v view.View) Widget {
	switch v := v.(type) {
	case view.Flex:
		return &flexWidget{axis: v.Axis, spacing: v.Spacing}
	case view.Button:
		return &buttonWidget{label: v.Label, disabled: v.Disabled}
	case view.Label:
		return &labelWidget{text: v.Text, wrap: v.Wrap, color: v.Color}
	case view.Switch:
		return &switchWidget{on: v.On}
	case view.SizedBox:
		return &sizedBoxWidget{width: v.Width, height: v.Height}
	case view.Padding:
		return &paddingWidget{insets: v.Insets}
	default:
		panic(fmt.Sprintf("widget: unknown view type %T", v))
	}
}

// initialState returns the state value a fresh node of v's kind starts with.
func initialState(v view.View) func() any {
	switch v := v.(type) {
	case view.Button:
		return func() any { return &ButtonState{Label: v.Label} }
	case view.Switch:
		return func() any {
			thumb := 0.0
			if v.On {
				thumb = 1
			}
			return &SwitchState{Thumb: thumb}
		}
	case view.Label:
		return func() any { return &LabelState{} }
	default:
		return nil
	}
}
