package pool

import (
	"context"
	"fmt"
)

type message[R any] struct {
	id    WorkerID
	value R
	err   error
}

// Receiver collects the results of one dispatch.
type Receiver[R any] struct {
	ch       chan message[R]
	expected int
}

func newReceiver[R any](expected int) *Receiver[R] {
	// Buffered to the dispatch size so the inline worker never blocks on send.
	return &Receiver[R]{ch: make(chan message[R], expected), expected: expected}
}

// newTask wraps fn so that it reports exactly one message, including when it panics.
func newTask[S, R any](r *Receiver[R], id WorkerID, item S, fn func(WorkerID, S) R) func() {
	return func() {
		var msg message[R]
		msg.id = id
		defer func() {
			if v := recover(); v != nil {
				msg.err = fmt.Errorf("worker %d panicked: %v", id.Index, v)
			}
			r.ch <- msg
		}()
		msg.value = fn(id, item)
	}
}

// Expected returns the number of results Gather waits for.
func (r *Receiver[R]) Expected() int {
	return r.expected
}

// Gather blocks until every dispatched task has reported and returns the
// results in worker-index order. There is no timeout; see GatherContext.
func (r *Receiver[R]) Gather() ([]R, error) {
	return r.GatherContext(context.Background())
}

// GatherContext is Gather bounded by ctx. On expiry the outstanding tasks
// keep running and their results are discarded.
func (r *Receiver[R]) GatherContext(ctx context.Context) ([]R, error) {
	results := make([]R, r.expected)
	seen := make([]bool, r.expected)

	for n := 0; n < r.expected; n++ {
		// An expired ctx wins over results that are already queued.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %d of %d results: %w", ErrGather, n, r.expected, err)
		}

		var msg message[R]
		select {
		case msg = <-r.ch:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %d of %d results: %w", ErrGather, n, r.expected, ctx.Err())
		}

		i := msg.id.Index
		switch {
		case msg.err != nil:
			return nil, fmt.Errorf("%w: %w", ErrGather, msg.err)
		case i < 0 || i >= r.expected:
			return nil, fmt.Errorf("%w: result for unknown worker %d", ErrGather, i)
		case seen[i]:
			return nil, fmt.Errorf("%w: duplicate result for worker %d", ErrGather, i)
		}
		seen[i] = true
		results[i] = msg.value
	}
	return results, nil
}
