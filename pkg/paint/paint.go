// Package paint defines the ordered draw command list handed to the render
// collaborator each frame.
//
// Coordinates are device independent. Transforms and clips nest: every
// PushTransform is matched by a PopTransform and every PushClip by a PopClip.
package paint

import (
	"fmt"

	"github.com/go-drift/xilem/pkg/graphics"
)

// Op identifies a draw command.
type Op uint8

const (
	OpPushTransform Op = iota + 1
	OpPopTransform
	OpPushClip
	OpPopClip
	OpFillRect
	OpStrokeRect
	OpDrawText
)

func (o Op) String() string {
	switch o {
	case OpPushTransform:
		return "PushTransform"
	case OpPopTransform:
		return "PopTransform"
	case OpPushClip:
		return "PushClip"
	case OpPopClip:
		return "PopClip"
	case OpFillRect:
		return "FillRect"
	case OpStrokeRect:
		return "StrokeRect"
	case OpDrawText:
		return "DrawText"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Command is one draw operation. Only the fields relevant to Op are set.
type Command struct {
	Op Op
	// Offset is the translation of PushTransform and the origin (top-left of
	// the line box) of DrawText.
	Offset graphics.Offset
	// Rect is the area of PushClip, FillRect, and StrokeRect.
	Rect        graphics.Rect
	Color       graphics.Color
	StrokeWidth float64
	Text        string
}

func (c Command) String() string {
	switch c.Op {
	case OpPushTransform:
		return fmt.Sprintf("PushTransform(%g,%g)", c.Offset.X, c.Offset.Y)
	case OpPushClip, OpFillRect:
		return fmt.Sprintf("%s(%g,%g %gx%g)", c.Op, c.Rect.Left, c.Rect.Top, c.Rect.Width(), c.Rect.Height())
	case OpStrokeRect:
		return fmt.Sprintf("StrokeRect(%g,%g %gx%g w=%g)", c.Rect.Left, c.Rect.Top, c.Rect.Width(), c.Rect.Height(), c.StrokeWidth)
	case OpDrawText:
		return fmt.Sprintf("DrawText(%g,%g %q)", c.Offset.X, c.Offset.Y, c.Text)
	default:
		return c.Op.String()
	}
}

// Canvas receives draw commands.
type Canvas interface {
	PushTransform(offset graphics.Offset)
	PopTransform()
	PushClip(rect graphics.Rect)
	PopClip()
	FillRect(rect graphics.Rect, color graphics.Color)
	StrokeRect(rect graphics.Rect, color graphics.Color, width float64)
	DrawText(origin graphics.Offset, text string, color graphics.Color)
}

// Replay sends cmds to canvas in order.
func Replay(cmds []Command, canvas Canvas) {
	for _, c := range cmds {
		switch c.Op {
		case OpPushTransform:
			canvas.PushTransform(c.Offset)
		case OpPopTransform:
			canvas.PopTransform()
		case OpPushClip:
			canvas.PushClip(c.Rect)
		case OpPopClip:
			canvas.PopClip()
		case OpFillRect:
			canvas.FillRect(c.Rect, c.Color)
		case OpStrokeRect:
			canvas.StrokeRect(c.Rect, c.Color, c.StrokeWidth)
		case OpDrawText:
			canvas.DrawText(c.Offset, c.Text, c.Color)
		}
	}
}

// Balanced reports whether every push in cmds has a matching pop of the
// same kind, in nesting order.
func Balanced(cmds []Command) bool {
	var stack []Op
	for _, c := range cmds {
		switch c.Op {
		case OpPushTransform, OpPushClip:
			stack = append(stack, c.Op)
		case OpPopTransform, OpPopClip:
			want := OpPushTransform
			if c.Op == OpPopClip {
				want = OpPushClip
			}
			if len(stack) == 0 || stack[len(stack)-1] != want {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}
