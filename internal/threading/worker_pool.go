// Package threading spreads per-column frame work over a fixed set of
// goroutines.
package threading

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"touchdown/internal/mathutil"
)

// WorkerPool runs submitted jobs on a fixed number of goroutines. One pool
// may be shared by many renderers: every ParallelFor call waits only for
// its own chunks.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	quit       chan struct{}
	started    atomic.Bool
	stopOnce   sync.Once
}

// NewWorkerPool creates a pool. Zero or negative means one worker per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// StartPool creates and starts a pool of the given size, or returns nil
// when workers is negative.
func StartPool(workers int) *WorkerPool {
	if workers < 0 {
		return nil
	}
	pool := NewWorkerPool(workers)
	pool.Start()
	return pool
}

// Start launches the workers. Calling it twice is harmless.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
		case <-wp.quit:
			return
		}
	}
}

// Stop shuts the workers down. Chunks still queued are run by the
// ParallelFor calls waiting on them.
func (wp *WorkerPool) Stop() {
	if wp == nil {
		return
	}
	wp.stopOnce.Do(func() { close(wp.quit) })
}

// GetNumWorkers returns the number of workers in the pool.
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// ParallelFor calls fn for every index in [start, end).
func (wp *WorkerPool) ParallelFor(start, end int, fn func(int)) {
	wp.ParallelForWithContext(context.Background(), start, end, fn)
}

// ParallelForWithContext calls fn for every index in [start, end) in chunks
// of at least minChunk indices, stopping early once ctx is done. Small
// ranges, and pools that were never started or already stopped, run inline.
func (wp *WorkerPool) ParallelForWithContext(ctx context.Context, start, end int, fn func(int)) {
	if start >= end {
		return
	}
	total := end - start
	if total <= minChunk || !wp.running() {
		runRange(ctx, start, end, fn)
		return
	}

	chunk := mathutil.IntClamp(total/wp.numWorkers, minChunk, maxChunk)
	var wg sync.WaitGroup
	for i := start; i < end; i += chunk {
		lo, hi := i, mathutil.IntMin(i+chunk, end)
		wg.Add(1)
		job := func() {
			defer wg.Done()
			runRange(ctx, lo, hi, fn)
		}
		select {
		case wp.jobQueue <- job:
		case <-wp.quit:
			job()
		}
	}
	wp.wait(&wg)
}

// wait blocks until wg is done, running queued jobs meanwhile so chunks
// left behind by stopped workers still complete.
func (wp *WorkerPool) wait(wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-done:
			return
		case job := <-wp.jobQueue:
			job()
		}
	}
}

const (
	minChunk = 8
	maxChunk = 64
)

func (wp *WorkerPool) running() bool {
	if !wp.started.Load() {
		return false
	}
	select {
	case <-wp.quit:
		return false
	default:
		return true
	}
}

func runRange(ctx context.Context, lo, hi int, fn func(int)) {
	for j := lo; j < hi; j++ {
		select {
		case <-ctx.Done():
			return
		default:
			fn(j)
		}
	}
}
