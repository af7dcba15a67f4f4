package pool

import (
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/yndnr/kvs/internal/telemetry/logger"
)

// ConcPool bounds concurrency using sourcegraph/conc's pool.Pool: Go
// blocks once maxGoroutines tasks are already running, providing
// backpressure instead of an unbounded goroutine fan-out.
type ConcPool struct {
	p      *pool.Pool
	logger logger.Logger
	closed atomic.Bool
	wg     sync.WaitGroup
}

// NewConcPool bounds concurrent task execution to maxGoroutines.
func NewConcPool(maxGoroutines int, log logger.Logger) *ConcPool {
	if maxGoroutines <= 0 {
		maxGoroutines = 1
	}
	if log == nil {
		log = logger.Default()
	}
	return &ConcPool{
		p:      pool.New().WithMaxGoroutines(maxGoroutines),
		logger: log,
	}
}

// Submit schedules fn, blocking if maxGoroutines tasks are already
// running. Panics inside fn are caught locally so they never reach
// conc's own panic propagation on Wait.
func (cp *ConcPool) Submit(fn func()) error {
	if cp.closed.Load() {
		return ErrClosed
	}
	cp.wg.Add(1)
	cp.p.Go(func() {
		defer cp.wg.Done()
		var catcher panics.Catcher
		catcher.Try(fn)
		if r := catcher.Recovered(); r != nil {
			cp.logger.Error("pool task panicked", "error", r.AsError())
		}
	})
	return nil
}

// Close stops accepting new tasks and waits for scheduled tasks to
// finish running.
func (cp *ConcPool) Close() error {
	cp.closed.Store(true)
	cp.wg.Wait()
	cp.p.Wait()
	return nil
}

var _ Pool = (*ConcPool)(nil)
