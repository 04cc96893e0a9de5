package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-drift/xilem/pkg/engine"
	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/semantics"
	"github.com/go-drift/xilem/pkg/view"
	"github.com/go-drift/xilem/pkg/widget"
)

const (
	// DefaultTestWidth is the default logical width for the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height for the test surface.
	DefaultTestHeight = 600

	frameDuration = 16 * time.Millisecond
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: runtime did not settle")

// Tester runs full cycles of an engine.Runtime against recording
// collaborators and a fake clock.
type Tester struct {
	rt       *engine.Runtime
	clock    *FakeClock
	rec      *recorder
	messages []engine.RoutedMessage
	last     *engine.Frame
}

// NewTester creates a tester for build. Extra options are applied after the
// tester's own, so they can replace any collaborator. Call Close when done,
// or use NewTesterWithT instead.
func NewTester(build engine.BuildFunc, opts ...engine.Option) *Tester {
	clk := NewFakeClock()
	rec := newRecorder()
	base := []engine.Option{
		engine.WithRenderer(rec),
		engine.WithWindow(rec),
		engine.WithAccessibility(rec),
		engine.WithClock(clk.Now),
		engine.WithScheduler(clk),
		engine.WithWindowSize(graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight}),
		engine.WithInspection(),
	}
	return &Tester{
		rt:    engine.New(build, append(base, opts...)...),
		clock: clk,
		rec:   rec,
	}
}

// NewTesterWithT creates a tester that closes itself via t.Cleanup and
// runs the first frame. A failing first frame fails the test.
func NewTesterWithT(t testing.TB, build engine.BuildFunc, opts ...engine.Option) *Tester {
	t.Helper()
	tester := NewTester(build, opts...)
	t.Cleanup(tester.Close)
	if err := tester.Pump(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	return tester
}

// Close shuts the runtime down.
func (t *Tester) Close() { t.rt.Close() }

// Runtime returns the runtime under test.
func (t *Tester) Runtime() *engine.Runtime { return t.rt }

// Tree returns the retained tree.
func (t *Tester) Tree() *widget.Tree { return t.rt.Tree() }

// Clock returns the fake clock for advancing time in tests.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Pump runs one cycle.
func (t *Tester) Pump() error {
	f, err := t.rt.Cycle(context.Background())
	if f != nil {
		t.last = f
		t.messages = append(t.messages, f.Messages...)
	}
	return err
}

// PumpAndSettle runs frames until the runtime is idle or the timeout is
// reached. Each frame after the first advances the fake clock by 16ms.
// Pending timers do not count as work.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed <= timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.rt.NeedsFrame() {
			return nil
		}
		t.clock.Advance(frameDuration)
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

// FireTimers fires every pending widget timer. The resulting events are
// handled by the next Pump.
func (t *Tester) FireTimers() int { return t.clock.FireTimers() }

// SendEvent queues an input event for the next Pump.
func (t *Tester) SendEvent(ev event.Event) error { return t.rt.HandleEvent(ev) }

// SetSize queues a window resize.
func (t *Tester) SetSize(size graphics.Size) error {
	return t.SendEvent(event.WindowSize{Size: size})
}

// Frame returns the most recent frame, or nil before the first Pump.
func (t *Tester) Frame() *engine.Frame { return t.last }

// Messages returns every message routed since the tester was created.
func (t *Tester) Messages() []engine.RoutedMessage { return t.messages }

// WindowProps returns the window properties in the order they were sent.
func (t *Tester) WindowProps() []engine.WindowProps { return t.rec.props }

// AccessibilityDeltas returns the accessibility deltas in the order they
// were sent.
func (t *Tester) AccessibilityDeltas() []semantics.Delta { return t.rec.deltas }

// RenderedFrames returns the number of frames the renderer accepted.
func (t *Tester) RenderedFrames() int { return t.rec.rendered }

// FailNext makes the named collaborator ("renderer", "window", or
// "accessibility") fail its next call with err.
func (t *Tester) FailNext(collaborator string, err error) {
	t.rec.failNext[collaborator] = err
}

// Node returns the retained node at path.
func (t *Tester) Node(path id.Path) (*widget.Node, bool) { return t.rt.Tree().Node(path) }

// View returns the view tree of the last rebuild.
func (t *Tester) View() view.View { return t.rt.View() }

// recorder is the tester's renderer, window, and accessibility bridge.
type recorder struct {
	rendered int
	props    []engine.WindowProps
	deltas   []semantics.Delta
	failNext map[string]error
}

func newRecorder() *recorder {
	return &recorder{failNext: make(map[string]error)}
}

func (r *recorder) take(name string) error {
	err := r.failNext[name]
	delete(r.failNext, name)
	return err
}

func (r *recorder) Render(context.Context, *engine.Frame) error {
	if err := r.take("renderer"); err != nil {
		return err
	}
	r.rendered++
	return nil
}

func (r *recorder) SetProperties(_ context.Context, props engine.WindowProps) error {
	if err := r.take("window"); err != nil {
		return err
	}
	r.props = append(r.props, props)
	return nil
}

func (r *recorder) UpdateAccessibility(_ context.Context, delta semantics.Delta) error {
	if err := r.take("accessibility"); err != nil {
		return err
	}
	r.deltas = append(r.deltas, delta)
	return nil
}
