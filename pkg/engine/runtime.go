// Package engine runs the owner-goroutine cycle that turns application state
// into frames: drain queued work, route messages, rebuild and diff the view
// tree, apply the edit script, collect dead state, lay out, paint, project
// accessibility, and hand the results to the collaborators.
//
// All tree and store mutation happens inside Cycle. Other goroutines talk to
// the runtime through Dispatch, HandleEvent, RequestRebuild, and Go, which
// only enqueue work and wake the loop.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/xilem/pkg/config"
	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/event"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/inspect"
	"github.com/go-drift/xilem/pkg/state"
	"github.com/go-drift/xilem/pkg/text"
	"github.com/go-drift/xilem/pkg/view"
	"github.com/go-drift/xilem/pkg/widget"
)

var (
	// ErrClosed is returned by operations on a closed runtime.
	ErrClosed = errors.ErrClosed
	// ErrQueueFull is returned by Go when the worker queue has no room.
	ErrQueueFull = errors.New("worker queue full")
	// ErrReentrantCycle is returned when Cycle is called from inside a cycle.
	ErrReentrantCycle = errors.New("cycle called re-entrantly")
)

// BuildFunc produces the view tree for the current application state. It
// runs on the owner goroutine.
type BuildFunc func() view.View

// Task is background work run by Go on the worker pool.
type Task func(ctx context.Context) (any, error)

// Scheduler arms timers for widget timer requests. fire may be called from
// any goroutine; cancel stops a timer that has not fired.
type Scheduler interface {
	Schedule(delay time.Duration, fire func()) (cancel func())
}

type realScheduler struct{}

func (realScheduler) Schedule(delay time.Duration, fire func()) func() {
	t := time.AfterFunc(delay, fire)
	return func() { t.Stop() }
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithConfig applies window, runtime, and debug settings from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(r *Runtime) {
		if cfg == nil {
			return
		}
		r.cfg = cfg
		r.size = cfg.WindowSize()
	}
}

// WithRenderer sets the render collaborator.
func WithRenderer(renderer Renderer) Option {
	return func(r *Runtime) { r.renderer = renderer }
}

// WithWindow sets the windowing collaborator.
func WithWindow(window Window) Option {
	return func(r *Runtime) { r.window = window }
}

// WithAccessibility sets the accessibility collaborator.
func WithAccessibility(bridge AccessibilityBridge) Option {
	return func(r *Runtime) { r.access = bridge }
}

// WithShaper sets the text-layout collaborator.
func WithShaper(shaper text.Shaper) Option {
	return func(r *Runtime) { r.shaper = shaper }
}

// WithWindowSize sets the initial logical window size.
func WithWindowSize(size graphics.Size) Option {
	return func(r *Runtime) { r.size = size }
}

// WithClock replaces time.Now for frame intervals and trace timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) { r.now = now }
}

// WithScheduler replaces the timer scheduler.
func WithScheduler(s Scheduler) Option {
	return func(r *Runtime) { r.scheduler = s }
}

// WithInspection captures an inspect snapshot after every frame even when no
// inspector address is configured.
func WithInspection() Option {
	return func(r *Runtime) { r.inspecting = true }
}

// Runtime owns the view tree, the state store, and the retained tree.
type Runtime struct {
	cfg       *config.Config
	build     BuildFunc
	renderer  Renderer
	window    Window
	access    AccessibilityBridge
	shaper    text.Shaper
	scheduler Scheduler
	now       func() time.Time

	store   *state.Store
	tree    *widget.Tree
	current view.View
	built   bool
	size    graphics.Size
	seq     uint64
	cycling bool

	lastProps   WindowProps
	propsSent   bool
	lastFrameAt time.Time

	dispatchMu    sync.Mutex
	dispatchQueue []func()
	wake          chan struct{}
	rebuild       atomic.Bool
	closed        atomic.Bool

	pool   *workerPool
	ctx    context.Context
	cancel context.CancelFunc

	timerMu sync.Mutex
	timers  map[event.TimerToken]func()

	trace      *frameTrace
	inspecting bool
	snapshot   atomic.Pointer[inspect.Snapshot]
}

// New creates a runtime that calls build to produce each view tree.
func New(build BuildFunc, opts ...Option) *Runtime {
	cfg := config.Defaults()
	r := &Runtime{
		cfg:       &cfg,
		build:     build,
		size:      cfg.WindowSize(),
		scheduler: realScheduler{},
		now:       time.Now,
		wake:      make(chan struct{}, 1),
		timers:    make(map[event.TimerToken]func()),
		trace:     newFrameTrace(frameTraceSamplesDefault, defaultFrameTraceThreshold),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cfg.Debug.InspectAddr != "" {
		r.inspecting = true
	}

	r.store = state.NewStore()
	treeOpts := []widget.Option{widget.WithStore(r.store)}
	if r.shaper != nil {
		treeOpts = append(treeOpts, widget.WithShaper(r.shaper))
	}
	r.tree = widget.NewTree(treeOpts...)

	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.pool = newWorkerPool(r.cfg.Runtime.Workers, r.cfg.Runtime.QueueSize)
	return r
}

// Tree returns the retained tree. It must only be used on the owner
// goroutine, between cycles.
func (r *Runtime) Tree() *widget.Tree { return r.tree }

// Store returns the state store. Owner goroutine only.
func (r *Runtime) Store() *state.Store { return r.store }

// View returns the view tree of the last rebuild. Owner goroutine only.
func (r *Runtime) View() view.View { return r.current }

// Size returns the logical window size used for layout.
func (r *Runtime) Size() graphics.Size { return r.size }

// Frames returns the recent frame trace.
func (r *Runtime) Frames() FrameTimeline { return r.trace.timeline() }

// Snapshot returns the inspect snapshot of the last frame, or nil when
// inspection is off or no frame has been produced. Safe for concurrent use.
func (r *Runtime) Snapshot() *inspect.Snapshot { return r.snapshot.Load() }

// Wake returns a channel that receives when new work is queued.
func (r *Runtime) Wake() <-chan struct{} { return r.wake }

// Dispatch queues fn to run on the owner goroutine at the start of the next
// cycle.
func (r *Runtime) Dispatch(fn func()) error {
	if fn == nil {
		return nil
	}
	if r.closed.Load() {
		return ErrClosed
	}
	r.dispatchMu.Lock()
	r.dispatchQueue = append(r.dispatchQueue, fn)
	r.dispatchMu.Unlock()
	r.notify()
	return nil
}

func (r *Runtime) drainDispatchQueue() []func() {
	r.dispatchMu.Lock()
	callbacks := r.dispatchQueue
	r.dispatchQueue = nil
	r.dispatchMu.Unlock()
	return callbacks
}

func (r *Runtime) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// RequestRebuild asks for the view tree to be rebuilt in the next cycle.
// Requests made before that cycle collapse into one rebuild.
func (r *Runtime) RequestRebuild() {
	r.rebuild.Store(true)
	r.notify()
}

// HandleEvent queues an external input event for the next cycle.
func (r *Runtime) HandleEvent(ev event.Event) error {
	return r.Dispatch(func() { r.handleEvent(ev) })
}

func (r *Runtime) handleEvent(ev event.Event) {
	if e, ok := ev.(event.WindowSize); ok {
		r.size = e.Size
	}
	r.tree.Dispatch(ev)
}

// Go runs task on the worker pool. done, if non-nil, receives the result on
// the owner goroutine at the start of a later cycle, after which the view
// tree is rebuilt. A panicking task yields a *errors.PanicError. The task
// context is canceled when ctx is or when the runtime closes.
func (r *Runtime) Go(ctx context.Context, task Task, done func(result any, err error)) error {
	if r.closed.Load() {
		return ErrClosed
	}
	taskCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(r.ctx, cancel)
	err := r.pool.submit(func() {
		defer cancel()
		defer stop()
		result, err := runTask(taskCtx, task)
		r.Dispatch(func() {
			if done != nil {
				done(result, err)
			}
			r.rebuild.Store(true)
		})
	})
	if err != nil {
		stop()
		cancel()
		return err
	}
	return nil
}

func runTask(ctx context.Context, task Task) (result any, err error) {
	defer errors.RecoverWithCallback("engine.worker", func(p *errors.PanicError) {
		result, err = nil, p
	})
	return task(ctx)
}

// NeedsFrame reports whether calling Cycle would do any work.
func (r *Runtime) NeedsFrame() bool {
	if !r.built || r.rebuild.Load() {
		return true
	}
	r.dispatchMu.Lock()
	pending := len(r.dispatchQueue) > 0
	r.dispatchMu.Unlock()
	return pending || r.tree.NeedsWork() || r.tree.HasAnimRequests()
}

// Close stops timers and workers. Queued work is dropped. Close returns
// ErrClosed when called twice.
func (r *Runtime) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	r.cancel()
	r.timerMu.Lock()
	for token, cancel := range r.timers {
		cancel()
		delete(r.timers, token)
	}
	r.timerMu.Unlock()
	r.pool.close()
	return nil
}

func (r *Runtime) scheduleTimers(requests []widget.TimerRequest) {
	for _, req := range requests {
		token := req.Token
		fire := func() {
			r.timerMu.Lock()
			delete(r.timers, token)
			r.timerMu.Unlock()
			r.HandleEvent(event.Timer{Token: token})
		}
		// fire takes timerMu, so it cannot delete the entry before it exists.
		r.timerMu.Lock()
		r.timers[token] = r.scheduler.Schedule(req.Delay, fire)
		r.timerMu.Unlock()
	}
}
