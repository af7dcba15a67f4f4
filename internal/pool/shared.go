package pool

import (
	"sync"

	"github.com/sourcegraph/conc/panics"

	"github.com/yndnr/kvs/internal/telemetry/logger"
)

// SharedQueue is a fixed-size pool of workers pulling from one shared
// task channel. A panicking task is recovered and logged; its worker
// goroutine keeps running so the pool never loses capacity.
type SharedQueue struct {
	tasks  chan func()
	wg     sync.WaitGroup
	logger logger.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSharedQueue starts size worker goroutines pulling from a task
// queue of the given depth.
func NewSharedQueue(size, queueDepth int, log logger.Logger) *SharedQueue {
	if size <= 0 {
		size = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}
	if log == nil {
		log = logger.Default()
	}

	p := &SharedQueue{
		tasks:  make(chan func(), queueDepth),
		logger: log,
		closed: make(chan struct{}),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *SharedQueue) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		p.runTask(fn)
	}
}

// runTask executes fn under a panics.Catcher so a single misbehaving
// task cannot terminate the worker that runs it.
func (p *SharedQueue) runTask(fn func()) {
	var catcher panics.Catcher
	catcher.Try(fn)
	if r := catcher.Recovered(); r != nil {
		p.logger.Error("pool task panicked", "error", r.AsError())
	}
}

// Submit enqueues fn. It blocks if the task queue is full.
func (p *SharedQueue) Submit(fn func()) error {
	select {
	case <-p.closed:
		return ErrClosed
	default:
	}

	select {
	case p.tasks <- fn:
		return nil
	case <-p.closed:
		return ErrClosed
	}
}

// Close stops accepting new tasks and waits for queued and in-flight
// tasks to finish.
func (p *SharedQueue) Close() error {
	p.closeOnce.Do(func() {
		close(p.closed)
		close(p.tasks)
	})
	p.wg.Wait()
	return nil
}

var _ Pool = (*SharedQueue)(nil)
