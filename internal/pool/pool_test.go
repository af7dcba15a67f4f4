package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSharedQueue_ConcurrentCounter(t *testing.T) {
	p := NewSharedQueue(4, 16, nil)
	defer p.Close()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wg.Wait()

	if got := atomic.LoadInt64(&counter); got != 200 {
		t.Fatalf("counter = %d, want 200", got)
	}
}

func TestSharedQueue_PanicIsolation(t *testing.T) {
	p := NewSharedQueue(2, 8, nil)
	defer p.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	if err := p.Submit(func() {
		defer wg.Done()
		panic("boom")
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	wg.Wait()

	var ran int64
	wg.Add(1)
	if err := p.Submit(func() {
		defer wg.Done()
		atomic.AddInt64(&ran, 1)
	}); err != nil {
		t.Fatalf("Submit after panic: %v", err)
	}
	wg.Wait()

	if atomic.LoadInt64(&ran) != 1 {
		t.Fatal("pool did not survive a panicking task")
	}
}

func TestSharedQueue_SubmitAfterClose(t *testing.T) {
	p := NewSharedQueue(1, 1, nil)
	p.Close()

	if err := p.Submit(func() {}); err != ErrClosed {
		t.Fatalf("Submit after Close err = %v, want ErrClosed", err)
	}
}

func TestConcPool_ConcurrentCounter(t *testing.T) {
	p := NewConcPool(4, nil)
	defer p.Close()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wg.Wait()

	if got := atomic.LoadInt64(&counter); got != 200 {
		t.Fatalf("counter = %d, want 200", got)
	}
}

func TestConcPool_PanicIsolation(t *testing.T) {
	p := NewConcPool(2, nil)
	defer p.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	if err := p.Submit(func() {
		defer wg.Done()
		panic("boom")
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	wg.Wait()

	var ran int64
	wg.Add(1)
	if err := p.Submit(func() {
		defer wg.Done()
		atomic.AddInt64(&ran, 1)
	}); err != nil {
		t.Fatalf("Submit after panic: %v", err)
	}
	wg.Wait()

	if atomic.LoadInt64(&ran) != 1 {
		t.Fatal("pool did not survive a panicking task")
	}
}

func TestConcPool_BoundsConcurrency(t *testing.T) {
	p := NewConcPool(2, nil)
	defer p.Close()

	var running int32
	var maxSeen int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			n := atomic.AddInt32(&running, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		})
	}
	wg.Wait()

	if atomic.LoadInt32(&maxSeen) > 2 {
		t.Fatalf("max concurrent tasks = %d, want <= 2", maxSeen)
	}
}

func TestNaive_ConcurrentCounter(t *testing.T) {
	p := NewNaive()
	defer p.Close()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
	}
	wg.Wait()

	if got := atomic.LoadInt64(&counter); got != 100 {
		t.Fatalf("counter = %d, want 100", got)
	}
}
