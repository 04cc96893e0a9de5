package engine

import (
	"context"

	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/paint"
	"github.com/go-drift/xilem/pkg/semantics"
	"github.com/go-drift/xilem/pkg/view"
	"github.com/go-drift/xilem/pkg/widget"
)

// Frame is the output of one cycle. Collaborators receive it read-only and
// must not keep references to it past the call.
type Frame struct {
	// Seq numbers frames from 1.
	Seq uint64
	// Size is the logical window size the frame was laid out in.
	Size graphics.Size
	// Commands is the ordered paint command list.
	Commands []paint.Command
	// Accessibility is what changed in the accessibility tree.
	Accessibility semantics.Delta
	// Window carries the requested window properties.
	Window WindowProps
	// Rebuilt reports whether the view tree was rebuilt this cycle.
	Rebuilt bool
	// Messages lists the widget messages routed this cycle, in order.
	Messages []RoutedMessage
	// Stats counts the nodes each pass visited.
	Stats widget.Stats
}

// RoutedMessage is a widget message and what its view made of it.
type RoutedMessage struct {
	Path   id.Path
	Body   view.Message
	Result view.MessageResult
}

// WindowProps are the window properties requested by the runtime.
type WindowProps struct {
	Title   string
	Cursor  widget.Cursor
	MinSize graphics.Size
}

// Renderer composites and presents paint commands.
type Renderer interface {
	Render(ctx context.Context, frame *Frame) error
}

// Window applies requested window properties. It is only called when the
// properties change.
type Window interface {
	SetProperties(ctx context.Context, props WindowProps) error
}

// AccessibilityBridge exposes accessibility deltas to assistive technology.
// It is only called for non-empty deltas. Incoming actions are forwarded
// with Runtime.HandleEvent.
type AccessibilityBridge interface {
	UpdateAccessibility(ctx context.Context, delta semantics.Delta) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, frame *Frame) error

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, frame *Frame) error { return f(ctx, frame) }
