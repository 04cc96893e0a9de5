package engine

import (
	"context"
	"time"

	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/inspect"
	"github.com/go-drift/xilem/pkg/logging"
	"github.com/go-drift/xilem/pkg/view"
)

// Cycle runs one frame on the calling goroutine, which must be the owner
// goroutine. Phases run in a fixed order: queued work and events, animation
// frames, message routing, rebuild and diff, apply, state collection,
// layout, paint, accessibility, presentation.
//
// Collaborator failures drop the frame for that collaborator only. They are
// returned as *errors.FrameError (joined when several fail) and the next
// cycle proceeds normally.
func (r *Runtime) Cycle(ctx context.Context) (*Frame, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.cycling {
		return nil, ErrReentrantCycle
	}
	r.cycling = true
	defer func() { r.cycling = false }()

	start := r.now()
	r.seq++
	sample := FrameSample{Seq: r.seq, Timestamp: start.UnixMilli()}
	mark := start
	phase := func(dst *float64) {
		now := r.now()
		*dst = durationToMillis(now.Sub(mark))
		mark = now
	}

	callbacks := r.drainDispatchQueue()
	for _, fn := range callbacks {
		fn()
	}
	sample.Counts.Events = len(callbacks)
	phase(&sample.Phases.DispatchMs)

	if r.tree.HasAnimRequests() {
		var interval time.Duration
		if !r.lastFrameAt.IsZero() {
			interval = start.Sub(r.lastFrameAt)
		}
		r.tree.DeliverAnimFrame(interval)
	}
	phase(&sample.Phases.AnimateMs)

	routed := r.routeMessages()
	sample.Counts.Messages = len(routed)

	rebuilt := false
	if r.rebuild.Swap(false) || !r.built {
		next := r.build()
		script := view.Diff(r.current, next)
		phase(&sample.Phases.BuildMs)
		sample.Counts.EditOps = len(script)
		sample.Counts.Collected = r.apply(next, script)
		rebuilt = true
	}
	phase(&sample.Phases.ApplyMs)

	r.scheduleTimers(r.tree.TakeTimerRequests())
	r.tree.Layout(r.size)
	phase(&sample.Phases.LayoutMs)

	commands := r.tree.Paint()
	phase(&sample.Phases.PaintMs)

	delta := r.tree.Accessibility()
	phase(&sample.Phases.AccessibilityMs)

	frame := &Frame{
		Seq:           r.seq,
		Size:          r.size,
		Commands:      commands,
		Accessibility: delta,
		Window: WindowProps{
			Title:   r.cfg.Window.Title,
			Cursor:  r.tree.Cursor(),
			MinSize: r.cfg.MinWindowSize(),
		},
		Rebuilt:  rebuilt,
		Messages: routed,
		Stats:    r.tree.Stats(),
	}
	err := r.present(ctx, frame)
	phase(&sample.Phases.PresentMs)

	sample.Rebuilt = rebuilt
	sample.Failed = err != nil
	sample.Counts.Layouts = frame.Stats.Layouts
	sample.Counts.Paints = frame.Stats.Paints
	sample.Counts.Accessibility = frame.Stats.Accessibility
	sample.Counts.Nodes = r.tree.Len()
	frameDuration := r.now().Sub(start)
	sample.FrameMs = durationToMillis(frameDuration)
	r.trace.add(sample, frameDuration)
	r.lastFrameAt = start

	if r.inspecting {
		r.snapshot.Store(inspect.Capture(r.tree, r.seq))
	}
	return frame, err
}

// routeMessages hands every message raised since the last cycle to the view
// at its path. A Rebuild result only sets the coalesced rebuild flag.
func (r *Runtime) routeMessages() []RoutedMessage {
	msgs := r.tree.TakeMessages()
	if len(msgs) == 0 {
		return nil
	}
	routed := make([]RoutedMessage, 0, len(msgs))
	for _, msg := range msgs {
		result := view.ResultStale
		if v, ok := view.Lookup(r.current, msg.Path); ok {
			result = view.Handle(v, msg.Body)
		}
		switch result {
		case view.ResultRebuild:
			r.rebuild.Store(true)
		case view.ResultStale:
			logging.Logger().Debug("stale message dropped", "path", msg.Path.String())
		}
		routed = append(routed, RoutedMessage{Path: msg.Path, Body: msg.Body, Result: result})
	}
	return routed
}

// apply brings the retained tree in line with next and drops state for
// paths that no longer exist. It returns the number of collected entries.
func (r *Runtime) apply(next view.View, script view.EditScript) int {
	if err := r.tree.Apply(script); err != nil {
		errors.Report(toError(err))
		if err := r.tree.Build(next); err != nil {
			errors.Report(toError(err))
		}
	}
	r.current = next
	r.built = true
	collected := r.store.Collect(view.Paths(next))
	if collected > 0 {
		logging.Logger().Debug("state collected", "entries", collected)
	}
	return collected
}

// present hands the frame to each collaborator. A window whose update fails
// is retried next frame. A failed accessibility update resends the whole
// tree next frame.
func (r *Runtime) present(ctx context.Context, frame *Frame) error {
	var errs []error
	fail := func(collaborator string, err error) {
		fe := &errors.FrameError{Collaborator: collaborator, Frame: frame.Seq, Err: err}
		errors.Report(&errors.Error{
			Op:        "engine.present",
			Kind:      errors.KindCollaborator,
			Err:       fe,
			Timestamp: r.now(),
		})
		errs = append(errs, fe)
	}

	if r.renderer != nil {
		if err := r.renderer.Render(ctx, frame); err != nil {
			fail("renderer", err)
		}
	}
	if r.window != nil && (!r.propsSent || frame.Window != r.lastProps) {
		if err := r.window.SetProperties(ctx, frame.Window); err != nil {
			fail("window", err)
		} else {
			r.lastProps = frame.Window
			r.propsSent = true
		}
	}
	if r.access != nil && !frame.Accessibility.IsEmpty() {
		if err := r.access.UpdateAccessibility(ctx, frame.Accessibility); err != nil {
			fail("accessibility", err)
			r.tree.InvalidateAccessibility()
		}
	}
	return errors.Join(errs...)
}

func toError(err error) *errors.Error {
	var e *errors.Error
	if errors.As(err, &e) {
		return e
	}
	return &errors.Error{Op: "engine.Cycle", Err: err}
}
