package engine

import (
	"sync"
	"sync/atomic"
)

// workerPool runs background tasks off the owner goroutine. Tasks share one
// bounded queue; submit never blocks.
type workerPool struct {
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
	once    sync.Once
}

func newWorkerPool(workers, queueSize int) *workerPool {
	workers = max(workers, 1)
	queueSize = max(queueSize, workers)
	p := &workerPool{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case work := <-p.queue:
			work()
		}
	}
}

// submit queues work. It fails when the pool is closed or the queue is full.
func (p *workerPool) submit(work func()) error {
	if !p.running.Load() {
		return ErrClosed
	}
	select {
	case p.queue <- work:
		return nil
	default:
		return ErrQueueFull
	}
}

// close stops the workers after their current task. Queued tasks that have
// not started are dropped.
func (p *workerPool) close() {
	p.once.Do(func() {
		p.running.Store(false)
		close(p.done)
	})
	p.wg.Wait()
}
