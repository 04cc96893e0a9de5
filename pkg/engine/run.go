package engine

import (
	"context"
	"time"

	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/logging"
)

const defaultFrameInterval = 16 * time.Millisecond

// Run drives cycles on the calling goroutine until ctx is done or the
// runtime is closed. It sleeps while there is nothing to do and paces
// animation frames at the configured frame interval. Frame errors are
// reported and do not stop the loop.
func (r *Runtime) Run(ctx context.Context) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if addr := r.cfg.Debug.InspectAddr; addr != "" {
		srv, err := r.startDebugServer(addr)
		if err != nil {
			return err
		}
		defer srv.stop()
	}

	logging.Logger().Info("runtime started", "workers", r.cfg.Runtime.Workers, "window", r.size)
	defer logging.Logger().Info("runtime stopped", "frames", r.seq)

	interval := r.cfg.Runtime.FrameInterval
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if r.NeedsFrame() {
			_, err := r.Cycle(ctx)
			switch {
			case err == nil:
			case errors.Is(err, ErrClosed):
				return nil
			case ctx.Err() != nil:
				return ctx.Err()
			default:
				var fe *errors.FrameError
				if !errors.As(err, &fe) {
					return err
				}
			}
		}

		// Animations and deferred layout keep the loop ticking; otherwise
		// wait for queued work.
		animating := r.tree.HasAnimRequests() || r.tree.NeedsWork()
		if animating {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.ctx.Done():
				return nil
			case <-ticker.C:
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.ctx.Done():
			return nil
		case <-r.wake:
		}
	}
}
