package split

import "sync/atomic"

// Chunk is an exclusive mutable view of [Start, End) of a Vector. A chunk
// must be released exactly once before its vector can be chunked again or
// extracted; further releases are no-ops.
type Chunk[T any] struct {
	owner    *Vector[T]
	span     []T
	start    int
	released atomic.Bool
}

// Start returns the offset of the chunk in its vector.
func (c *Chunk[T]) Start() int { return c.start }

// End returns the exclusive end offset of the chunk in its vector.
func (c *Chunk[T]) End() int { return c.start + len(c.span) }

// Len returns the number of elements in the chunk.
func (c *Chunk[T]) Len() int { return len(c.span) }

// At returns element i of the chunk.
func (c *Chunk[T]) At(i int) T {
	c.check()
	return c.span[i]
}

// Set stores x at element i of the chunk.
func (c *Chunk[T]) Set(i int, x T) {
	c.check()
	c.span[i] = x
}

// Last returns the final element of the chunk.
func (c *Chunk[T]) Last() T {
	c.check()
	return c.span[len(c.span)-1]
}

// SetLast stores x at the final element of the chunk.
func (c *Chunk[T]) SetLast(x T) {
	c.check()
	c.span[len(c.span)-1] = x
}

// Span returns the chunk's elements as a slice whose capacity ends at the
// chunk boundary. It must not be retained after Release.
func (c *Chunk[T]) Span() []T {
	c.check()
	return c.span
}

// Release gives the region back to the vector.
func (c *Chunk[T]) Release() {
	if c.released.CompareAndSwap(false, true) {
		c.owner.live.Add(-1)
	}
}

func (c *Chunk[T]) check() {
	if c.released.Load() {
		panic("split: use of released chunk")
	}
}

// ReleaseAll releases every chunk in cs.
func ReleaseAll[T any](cs []*Chunk[T]) {
	for _, c := range cs {
		c.Release()
	}
}
