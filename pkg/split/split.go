// Package split lends disjoint mutable regions of one buffer to concurrent workers.
//
// A Vector owns a slice. Chunk validates a full set of boundaries up front and
// hands out one Chunk per region; regions never overlap because they are
// only created while no other chunk is live. The buffer can be reclaimed with
// Extract once every chunk has been released.
package split

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrBrokenOwnership reports buffer access while chunks are still live.
	ErrBrokenOwnership = errors.New("split: chunks still outstanding")

	// ErrInvalidPartition reports offsets that are not strictly increasing within the buffer.
	ErrInvalidPartition = errors.New("split: invalid partition offsets")
)

// Vector is a buffer that can be split into disjoint chunks.
type Vector[T any] struct {
	data []T
	live atomic.Int64
}

// NewVector takes ownership of data.
func NewVector[T any](data []T) *Vector[T] {
	return &Vector[T]{data: data}
}

// WithSize returns a vector of n zero values.
func WithSize[T any](n int) *Vector[T] {
	return &Vector[T]{data: make([]T, n)}
}

// Len returns the buffer length.
func (v *Vector[T]) Len() int {
	return len(v.data)
}

// Outstanding returns the number of chunks not yet released.
func (v *Vector[T]) Outstanding() int {
	return int(v.live.Load())
}

// Chunk returns one chunk per adjacent pair of offsets. Offsets must be
// strictly increasing, within [0, Len()], and at least two long.
func (v *Vector[T]) Chunk(offsets []int) ([]*Chunk[T], error) {
	if n := v.live.Load(); n != 0 {
		return nil, fmt.Errorf("%w: %d live chunks", ErrBrokenOwnership, n)
	}
	if err := validate(offsets, len(v.data)); err != nil {
		return nil, err
	}

	chunks := make([]*Chunk[T], len(offsets)-1)
	v.live.Add(int64(len(chunks)))
	for i := range chunks {
		start, end := offsets[i], offsets[i+1]
		chunks[i] = &Chunk[T]{
			owner: v,
			span:  v.data[start:end:end],
			start: start,
		}
	}
	return chunks, nil
}

// ChunkAll is Chunk with Len() appended, so the last chunk reaches the end.
func (v *Vector[T]) ChunkAll(offsets []int) ([]*Chunk[T], error) {
	all := make([]int, len(offsets), len(offsets)+1)
	copy(all, offsets)
	return v.Chunk(append(all, len(v.data)))
}

// View returns the whole buffer. It fails while chunks are live.
func (v *Vector[T]) View() ([]T, error) {
	if n := v.live.Load(); n != 0 {
		return nil, fmt.Errorf("%w: %d live chunks", ErrBrokenOwnership, n)
	}
	return v.data, nil
}

// Extract reclaims the buffer and leaves the vector empty. It fails while
// chunks are live; the failure is an invariant violation and is not retried.
func (v *Vector[T]) Extract() ([]T, error) {
	if n := v.live.Load(); n != 0 {
		return nil, fmt.Errorf("%w: %d live chunks", ErrBrokenOwnership, n)
	}
	data := v.data
	v.data = nil
	return data, nil
}

func validate(offsets []int, length int) error {
	if len(offsets) < 2 {
		return fmt.Errorf("%w: need at least 2 offsets, got %d", ErrInvalidPartition, len(offsets))
	}
	if offsets[0] < 0 {
		return fmt.Errorf("%w: offset %d below zero", ErrInvalidPartition, offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return fmt.Errorf("%w: offsets[%d]=%d not above offsets[%d]=%d",
				ErrInvalidPartition, i, offsets[i], i-1, offsets[i-1])
		}
	}
	if last := offsets[len(offsets)-1]; last > length {
		return fmt.Errorf("%w: offset %d beyond length %d", ErrInvalidPartition, last, length)
	}
	return nil
}
