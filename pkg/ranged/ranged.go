// Package ranged maps positions to the half-open range, and value, that contains them.
package ranged

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidRanges reports boundaries that do not describe ordered, non-empty ranges.
var ErrInvalidRanges = errors.New("ranged: invalid range boundaries")

// Range is [Start, End) with its associated value and its position in the index.
type Range[T any] struct {
	Start int
	End   int
	Value T
	Index int
}

// Len returns End - Start.
func (r Range[T]) Len() int { return r.End - r.Start }

// Index is an immutable ordered list of contiguous ranges.
type Index[T any] struct {
	ranges []Range[T]
}

// New builds ranges [points[i], points[i+1]) carrying values[i].
func New[T any](points []int, values []T) (*Index[T], error) {
	if len(points) != len(values)+1 {
		return nil, fmt.Errorf("%w: %d points for %d values", ErrInvalidRanges, len(points), len(values))
	}

	ranges := make([]Range[T], len(values))
	for i, v := range values {
		if points[i+1] <= points[i] {
			return nil, fmt.Errorf("%w: points[%d]=%d not above points[%d]=%d",
				ErrInvalidRanges, i+1, points[i+1], i, points[i])
		}
		ranges[i] = Range[T]{Start: points[i], End: points[i+1], Value: v, Index: i}
	}
	return &Index[T]{ranges: ranges}, nil
}

// Len returns the number of ranges.
func (x *Index[T]) Len() int { return len(x.ranges) }

// Total returns the end of the last range, or 0 when empty.
func (x *Index[T]) Total() int {
	if len(x.ranges) == 0 {
		return 0
	}
	return x.ranges[len(x.ranges)-1].End
}

// Get returns the range containing point.
func (x *Index[T]) Get(point int) (Range[T], bool) {
	i := sort.Search(len(x.ranges), func(i int) bool { return point < x.ranges[i].End })
	if i == len(x.ranges) || point < x.ranges[i].Start {
		return Range[T]{}, false
	}
	return x.ranges[i], true
}

// At returns range i.
func (x *Index[T]) At(i int) (Range[T], bool) {
	if i < 0 || i >= len(x.ranges) {
		return Range[T]{}, false
	}
	return x.ranges[i], true
}

// Next returns the range after r.
func (x *Index[T]) Next(r Range[T]) (Range[T], bool) {
	return x.At(r.Index + 1)
}
