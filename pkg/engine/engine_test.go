package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/xilem/pkg/config"
	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/semantics"
	"github.com/go-drift/xilem/pkg/state"
	"github.com/go-drift/xilem/pkg/view"
	"github.com/go-drift/xilem/pkg/widget"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	frames   []*Frame
	props    []WindowProps
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

func (r *recorder) Render(_ context.Context, f *Frame) error {
	if err := r.take("renderer"); err != nil {
		return err
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *recorder) SetProperties(_ context.Context, p WindowProps) error {
	if err := r.take("window"); err != nil {
		return err
	}
	r.props = append(r.props, p)
	return nil
}

func (r *recorder) UpdateAccessibility(_ context.Context, d semantics.Delta) error {
	if err := r.take("accessibility"); err != nil {
		return err
	}
	r.deltas = append(r.deltas, d)
	return nil
}

type manualScheduler struct {
	mu       sync.Mutex
	pending  map[int]func()
	canceled int
	next     int
}

func (s *manualScheduler) Schedule(_ time.Duration, fire func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = make(map[int]func())
	}
	s.next++
	n := s.next
	s.pending[n] = fire
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.pending[n]; ok {
			delete(s.pending, n)
			s.canceled++
		}
	}
}

func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fire := range pending {
		fire()
	}
}

type counterApp struct {
	count  int
	builds int
}

func (a *counterApp) build() view.View {
	a.builds++
	return view.Column(
		view.Label{Text: fmt.Sprintf("count %d", a.count)},
		view.Button{Label: "+", OnClick: func() { a.count++ }},
	)
}

func newTestRuntime(t *testing.T, build BuildFunc, opts ...Option) (*Runtime, *recorder) {
	t.Helper()
	rec := newRecorder()
	opts = append([]Option{
		WithRenderer(rec),
		WithWindow(rec),
		WithAccessibility(rec),
		WithWindowSize(graphics.Size{Width: 200, Height: 100}),
	}, opts...)
	r := New(build, opts...)
	t.Cleanup(func() { r.Close() })
	return r, rec
}

func mustCycle(t *testing.T, r *Runtime) *Frame {
	t.Helper()
	f, err := r.Cycle(context.Background())
	if err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	return f
}

func click(t *testing.T, r *Runtime, p id.Path) {
	t.Helper()
	bounds, ok := r.Tree().Bounds(p)
	if !ok {
		t.Fatalf("no bounds for %s", p)
	}
	pos := bounds.Center()
	pointer := event.Pointer{WindowPosition: pos, Button: event.ButtonLeft, Count: 1}
	pointer.Buttons = pointer.Buttons.With(event.ButtonLeft)
	r.HandleEvent(event.PointerDown{Pointer: pointer})
	pointer.Buttons = 0
	r.HandleEvent(event.PointerUp{Pointer: pointer})
}

func labelText(t *testing.T, r *Runtime, p id.Path) string {
	t.Helper()
	n, ok := r.Tree().Node(p)
	if !ok {
		t.Fatalf("no node at %s", p)
	}
	return n.View().(view.Label).Text
}

var buttonPath = id.Path{id.IndexSegment(1)}
var labelPath = id.Path{id.IndexSegment(0)}

func TestCycleBuildsAndPresents(t *testing.T) {
	app := &counterApp{}
	r, rec := newTestRuntime(t, app.build)

	if !r.NeedsFrame() {
		t.Fatal("a new runtime should need its first frame")
	}
	f := mustCycle(t, r)
	if f.Seq != 1 || !f.Rebuilt {
		t.Errorf("first frame seq=%d rebuilt=%v, want 1 true", f.Seq, f.Rebuilt)
	}
	if len(f.Commands) == 0 {
		t.Error("first frame has no paint commands")
	}
	if got := r.Tree().Len(); got != 3 {
		t.Errorf("tree has %d nodes, want 3", got)
	}
	if err := r.Tree().Verify(r.View()); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if len(rec.frames) != 1 || len(rec.props) != 1 || len(rec.deltas) != 1 {
		t.Fatalf("collaborator calls frames=%d props=%d deltas=%d, want 1 each",
			len(rec.frames), len(rec.props), len(rec.deltas))
	}
	if got := rec.props[0].Title; got != "xilem" {
		t.Errorf("title = %q, want xilem", got)
	}
	if got := len(rec.deltas[0].Updated); got != 3 {
		t.Errorf("first delta updates %d nodes, want 3", got)
	}

	if r.NeedsFrame() {
		t.Fatal("an idle runtime should not need a frame")
	}
	f = mustCycle(t, r)
	if f.Rebuilt {
		t.Error("idle frame rebuilt the view tree")
	}
	if app.builds != 1 {
		t.Errorf("build called %d times, want 1", app.builds)
	}
	if len(rec.props) != 1 {
		t.Error("unchanged window properties were sent again")
	}
	if len(rec.deltas) != 1 {
		t.Error("empty accessibility delta was sent")
	}
	if f.Stats.Layouts != 0 || f.Stats.Paints != 0 {
		t.Errorf("idle frame stats = %+v, want no layout or paint work", f.Stats)
	}
}

func TestClicksCoalesceIntoOneRebuild(t *testing.T) {
	app := &counterApp{}
	r, _ := newTestRuntime(t, app.build)
	mustCycle(t, r)

	click(t, r, buttonPath)
	click(t, r, buttonPath)
	f := mustCycle(t, r)

	want := []RoutedMessage{
		{Path: buttonPath, Body: view.Clicked{}, Result: view.ResultRebuild},
		{Path: buttonPath, Body: view.Clicked{}, Result: view.ResultRebuild},
	}
	if diff := cmp.Diff(want, f.Messages, cmp.Comparer(func(a, b id.Key) bool { return a == b })); diff != "" {
		t.Errorf("messages (-want +got):\n%s", diff)
	}
	if app.count != 2 {
		t.Errorf("count = %d, want 2", app.count)
	}
	if app.builds != 2 {
		t.Errorf("build called %d times, want 2", app.builds)
	}
	if got := labelText(t, r, labelPath); got != "count 2" {
		t.Errorf("label = %q, want %q", got, "count 2")
	}

	samples := r.Frames().Samples
	last := samples[len(samples)-1]
	if last.Counts.EditOps != 1 || last.Counts.Messages != 2 || !last.Rebuilt {
		t.Errorf("trace counts = %+v rebuilt=%v, want 1 edit op and 2 messages", last.Counts, last.Rebuilt)
	}
}

func TestRequestRebuildCoalesces(t *testing.T) {
	app := &counterApp{}
	r, _ := newTestRuntime(t, app.build)
	mustCycle(t, r)

	r.RequestRebuild()
	r.RequestRebuild()
	r.RequestRebuild()
	if !r.NeedsFrame() {
		t.Fatal("rebuild request should need a frame")
	}
	f := mustCycle(t, r)
	if !f.Rebuilt || app.builds != 2 {
		t.Errorf("rebuilt=%v builds=%d, want true 2", f.Rebuilt, app.builds)
	}
	if f := mustCycle(t, r); f.Rebuilt {
		t.Error("rebuild request was not consumed")
	}
}

func TestStateCollectedAfterRemoval(t *testing.T) {
	show := true
	build := func() view.View {
		children := []view.View{view.Label{Text: "a"}}
		if show {
			children = append(children, view.Button{Label: "b"})
		}
		return view.Column(children...)
	}
	r, _ := newTestRuntime(t, build)
	mustCycle(t, r)
	if _, err := r.Store().GetMut(buttonPath); err != nil {
		t.Fatalf("button state missing: %v", err)
	}

	show = false
	r.RequestRebuild()
	mustCycle(t, r)
	if _, err := r.Store().GetMut(buttonPath); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetMut after removal = %v, want ErrNotFound", err)
	}
	if got, want := r.Store().Len(), r.Tree().Len(); got != want {
		t.Errorf("store has %d entries, tree has %d nodes", got, want)
	}
}

func TestCollaboratorFailureDropsOneFrame(t *testing.T) {
	app := &counterApp{}
	r, rec := newTestRuntime(t, app.build)
	boom := errors.New("device lost")
	rec.failNext["renderer"] = boom
	rec.failNext["window"] = boom

	f, err := r.Cycle(context.Background())
	if f == nil {
		t.Fatal("failed frame should still be returned")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Cycle error = %v, want %v", err, boom)
	}
	var fe *errors.FrameError
	if !errors.As(err, &fe) || fe.Collaborator != "renderer" || fe.Frame != 1 {
		t.Errorf("frame error = %+v, want renderer frame 1", fe)
	}
	if len(rec.deltas) != 1 {
		t.Error("accessibility should be presented even when rendering fails")
	}

	f = mustCycle(t, r)
	if len(rec.frames) != 1 || rec.frames[0] != f {
		t.Error("renderer should receive the next frame")
	}
	if len(rec.props) != 1 {
		t.Error("window properties should be retried after a failure")
	}
	if samples := r.Frames().Samples; !samples[0].Failed || samples[1].Failed {
		t.Errorf("trace failed flags = %v %v, want true false", samples[0].Failed, samples[1].Failed)
	}
}

func TestAccessibilityFailureResendsTree(t *testing.T) {
	app := &counterApp{}
	r, rec := newTestRuntime(t, app.build)
	rec.failNext["accessibility"] = errors.New("bridge down")

	if _, err := r.Cycle(context.Background()); err == nil {
		t.Fatal("expected accessibility failure")
	}
	if !r.NeedsFrame() {
		t.Fatal("failed accessibility update should schedule another frame")
	}
	mustCycle(t, r)
	if len(rec.deltas) != 1 {
		t.Fatalf("got %d deltas, want 1", len(rec.deltas))
	}
	if got := len(rec.deltas[0].Updated); got != 3 {
		t.Errorf("resent delta updates %d nodes, want the whole tree (3)", got)
	}
}

func waitWake(t *testing.T, r *Runtime) {
	t.Helper()
	select {
	case <-r.Wake():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the runtime to wake")
	}
}

func TestGoDeliversResultOnOwner(t *testing.T) {
	app := &counterApp{}
	r, _ := newTestRuntime(t, app.build)
	mustCycle(t, r)

	var got any
	var gotErr error
	err := r.Go(context.Background(), func(ctx context.Context) (any, error) {
		return 42, nil
	}, func(result any, err error) {
		got, gotErr = result, err
		app.count = result.(int)
	})
	if err != nil {
		t.Fatalf("Go: %v", err)
	}
	waitWake(t, r)

	f := mustCycle(t, r)
	if got != 42 || gotErr != nil {
		t.Errorf("done(%v, %v), want (42, nil)", got, gotErr)
	}
	if !f.Rebuilt {
		t.Error("a worker result should trigger a rebuild")
	}
	if text := labelText(t, r, labelPath); text != "count 42" {
		t.Errorf("label = %q, want %q", text, "count 42")
	}
}

type discardHandler struct{}

func (discardHandler) HandleError(*errors.Error)           {}
func (discardHandler) HandlePanic(*errors.PanicError)      {}
func (discardHandler) HandleDiagnostic(*errors.Diagnostic) {}

func TestGoRecoversPanic(t *testing.T) {
	errors.SetHandler(discardHandler{})
	t.Cleanup(func() { errors.SetHandler(nil) })

	r, _ := newTestRuntime(t, (&counterApp{}).build)
	mustCycle(t, r)

	var gotErr error
	err := r.Go(context.Background(), func(context.Context) (any, error) {
		panic("worker exploded")
	}, func(_ any, err error) { gotErr = err })
	if err != nil {
		t.Fatalf("Go: %v", err)
	}
	waitWake(t, r)
	mustCycle(t, r)

	var pe *errors.PanicError
	if !errors.As(gotErr, &pe) {
		t.Fatalf("done error = %v, want *errors.PanicError", gotErr)
	}
	if pe.Value != "worker exploded" || pe.Op != "engine.worker" {
		t.Errorf("panic error = %+v", pe)
	}
}

func TestGoTaskCanceledOnClose(t *testing.T) {
	r := New((&counterApp{}).build)
	started := make(chan struct{})
	finished := make(chan error, 1)
	err := r.Go(context.Background(), func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		finished <- ctx.Err()
		return nil, ctx.Err()
	}, nil)
	if err != nil {
		t.Fatalf("Go: %v", err)
	}
	<-started
	r.Close()
	select {
	case err := <-finished:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("task context error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("task was not canceled by Close")
	}
}

func TestGoQueueFull(t *testing.T) {
	cfg := config.Defaults()
	cfg.Runtime.Workers = 1
	cfg.Runtime.QueueSize = 1
	r := New((&counterApp{}).build, WithConfig(&cfg))
	defer r.Close()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	block := func(context.Context) (any, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil, nil
	}
	if err := r.Go(context.Background(), block, nil); err != nil {
		t.Fatalf("first Go: %v", err)
	}
	<-started
	if err := r.Go(context.Background(), block, nil); err != nil {
		t.Fatalf("second Go: %v", err)
	}
	if err := r.Go(context.Background(), block, nil); !errors.Is(err, ErrQueueFull) {
		t.Errorf("third Go = %v, want ErrQueueFull", err)
	}
	close(release)
}

func TestTimersArmAndCancel(t *testing.T) {
	sched := &manualScheduler{}
	r, _ := newTestRuntime(t, (&counterApp{}).build, WithScheduler(sched))
	mustCycle(t, r)

	r.scheduleTimers([]widget.TimerRequest{{Token: 7, Delay: time.Second}})
	sched.fireAll()
	r.dispatchMu.Lock()
	queued := len(r.dispatchQueue)
	r.dispatchMu.Unlock()
	if queued != 1 {
		t.Errorf("fired timer queued %d events, want 1", queued)
	}
	if len(r.timers) != 0 {
		t.Error("fired timer should be forgotten")
	}

	r.scheduleTimers([]widget.TimerRequest{{Token: 8, Delay: time.Second}})
	r.Close()
	if sched.canceled != 1 {
		t.Errorf("Close canceled %d timers, want 1", sched.canceled)
	}
}

func TestSwitchAnimationRunsToCompletion(t *testing.T) {
	on := false
	build := func() view.View {
		return view.Column(view.Switch{On: on, OnChange: func(v bool) { on = v }})
	}
	clock := newFakeClock()
	r, _ := newTestRuntime(t, build, WithClock(clock.Now))
	mustCycle(t, r)

	click(t, r, id.Path{id.IndexSegment(0)})
	clock.Advance(16 * time.Millisecond)
	mustCycle(t, r)
	if !on {
		t.Fatal("switch did not toggle")
	}

	frames := 0
	for r.NeedsFrame() {
		if frames++; frames > 20 {
			t.Fatal("animation did not settle")
		}
		clock.Advance(16 * time.Millisecond)
		mustCycle(t, r)
	}
	if frames != 8 {
		t.Errorf("animation took %d frames, want 8", frames)
	}
	n, _ := r.Tree().Node(id.Path{id.IndexSegment(0)})
	if thumb := state.Value[*widget.SwitchState](n.State()).Thumb; thumb != 1 {
		t.Errorf("thumb = %v, want 1", thumb)
	}
}

func TestWindowResize(t *testing.T) {
	r, _ := newTestRuntime(t, (&counterApp{}).build)
	mustCycle(t, r)

	r.HandleEvent(event.WindowSize{Size: graphics.Size{Width: 320, Height: 240}})
	f := mustCycle(t, r)
	if want := (graphics.Size{Width: 320, Height: 240}); f.Size != want {
		t.Errorf("frame size = %v, want %v", f.Size, want)
	}
	if got := r.Tree().Root().Size(); got.Width != 320 {
		t.Errorf("root width = %v, want 320", got.Width)
	}
}

func TestCycleIsNotReentrant(t *testing.T) {
	r, _ := newTestRuntime(t, (&counterApp{}).build)
	var inner error
	r.Dispatch(func() { _, inner = r.Cycle(context.Background()) })
	mustCycle(t, r)
	if !errors.Is(inner, ErrReentrantCycle) {
		t.Errorf("nested Cycle = %v, want ErrReentrantCycle", inner)
	}
}

func TestCloseRejectsWork(t *testing.T) {
	r := New((&counterApp{}).build)
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close = %v, want ErrClosed", err)
	}
	if err := r.Dispatch(func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Dispatch = %v, want ErrClosed", err)
	}
	if _, err := r.Cycle(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Cycle = %v, want ErrClosed", err)
	}
	err := r.Go(context.Background(), func(context.Context) (any, error) { return nil, nil }, nil)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Go = %v, want ErrClosed", err)
	}
	if err := r.Run(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Run = %v, want ErrClosed", err)
	}
}

func TestInspectHandler(t *testing.T) {
	r, _ := newTestRuntime(t, (&counterApp{}).build, WithInspection())
	srv := httptest.NewServer(r.InspectHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/tree.json")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("before the first frame status = %d, want 503", resp.StatusCode)
	}

	mustCycle(t, r)
	resp, err = http.Get(srv.URL + "/tree.json")
	if err != nil {
		t.Fatal(err)
	}
	var snap struct {
		Frame uint64 `json:"frame"`
		Nodes int    `json:"nodes"`
	}
	err = json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if snap.Frame != 1 || snap.Nodes != 3 {
		t.Errorf("snapshot frame=%d nodes=%d, want 1 3", snap.Frame, snap.Nodes)
	}

	resp, err = http.Get(srv.URL + "/frames")
	if err != nil {
		t.Fatal(err)
	}
	var timeline FrameTimeline
	err = json.NewDecoder(resp.Body).Decode(&timeline)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode frames: %v", err)
	}
	if len(timeline.Samples) != 1 || timeline.Samples[0].Seq != 1 {
		t.Errorf("frames = %+v, want one sample for frame 1", timeline.Samples)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	rendered := make(chan struct{}, 1)
	renderer := RendererFunc(func(context.Context, *Frame) error {
		select {
		case rendered <- struct{}{}:
		default:
		}
		return nil
	})
	r := New((&counterApp{}).build, WithRenderer(renderer))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-rendered:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not render a frame")
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestFrameTraceWraps(t *testing.T) {
	b := newFrameTrace(3, 10*time.Millisecond)
	for i := 1; i <= 5; i++ {
		b.add(FrameSample{Seq: uint64(i)}, time.Duration(i)*4*time.Millisecond)
	}
	tl := b.timeline()
	var seqs []uint64
	for _, s := range tl.Samples {
		seqs = append(seqs, s.Seq)
	}
	if diff := cmp.Diff([]uint64{3, 4, 5}, seqs); diff != "" {
		t.Errorf("samples (-want +got):\n%s", diff)
	}
	if tl.DroppedFrames != 3 {
		t.Errorf("dropped = %d, want 3", tl.DroppedFrames)
	}
	if tl.ThresholdMs != 10 {
		t.Errorf("threshold = %v, want 10", tl.ThresholdMs)
	}
}
