// Package pool provides a fixed-size worker pool driven by message passing.
//
// A pool of n workers runs n-1 background goroutines, each locked to its own
// OS thread, plus one inline worker that executes on the calling goroutine.
// Each dispatch hands exactly one task to each addressed worker and returns a
// Receiver; Gather is the only synchronization point.
package pool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

var (
	// ErrGather reports a task result that was lost, duplicated or failed.
	ErrGather = errors.New("pool: worker gather failed")

	// ErrTooManyItems reports a dispatch with more items than workers.
	ErrTooManyItems = errors.New("pool: more items than workers")

	// ErrClosed reports a dispatch on a closed pool.
	ErrClosed = errors.New("pool: closed")
)

// WorkerID identifies a worker as (index, total worker count).
type WorkerID struct {
	Index int
	Count int
}

// Pool is a fixed set of workers. It is not safe for concurrent dispatch;
// one caller drives it at a time.
type Pool struct {
	queues []chan func()
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a pool of n workers. n <= 0 uses runtime.NumCPU().
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}

	p := &Pool{queues: make([]chan func(), n-1)}
	for i := range p.queues {
		q := make(chan func())
		p.queues[i] = q
		p.wg.Add(1)
		go p.run(q)
	}
	return p
}

func (p *Pool) run(q chan func()) {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for task := range q {
		task()
	}
}

// Size returns the number of workers, including the inline one.
func (p *Pool) Size() int {
	return len(p.queues) + 1
}

// Close stops the background workers. Tasks already queued finish first.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, q := range p.queues {
		close(q)
	}
	p.wg.Wait()
}

// dispatch runs task on worker i. The inline worker is the last index and
// runs synchronously.
func (p *Pool) dispatch(i int, task func()) {
	if i == len(p.queues) {
		task()
		return
	}
	p.queues[i] <- task
}

// SendAll dispatches items[i] to worker i and returns a receiver for the
// results. Tasks run concurrently until Gather is called.
func SendAll[S, R any](p *Pool, items []S, fn func(WorkerID, S) R) (*Receiver[R], error) {
	if len(items) > p.Size() {
		return nil, fmt.Errorf("%w: %d items for %d workers", ErrTooManyItems, len(items), p.Size())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}

	r := newReceiver[R](len(items))
	count := p.Size()
	// The inline worker is only addressed when every worker gets an item, so
	// background tasks are queued before any inline work starts.
	for i, item := range items {
		id := WorkerID{Index: i, Count: count}
		p.dispatch(i, newTask(r, id, item, fn))
	}
	return r, nil
}

// Broadcast dispatches the same item to every worker. The item is copied by
// value; slices and maps inside it are shared and must be treated read-only.
func Broadcast[S, R any](p *Pool, item S, fn func(WorkerID, S) R) (*Receiver[R], error) {
	items := make([]S, p.Size())
	for i := range items {
		items[i] = item
	}
	return SendAll(p, items, fn)
}
