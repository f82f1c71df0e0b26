// Package kernel provides the single-core local scan and reduction routines
// the parallel scans run on each worker's span.
//
// Scalar works for any associative operator. Unrolled is specialised for
// numeric addition and breaks the loop-carried dependency with independent
// partial sums; its width follows the host's vector registers.
package kernel

import (
	"cmp"

	"golang.org/x/sys/cpu"
)

// Number is the set of types the unrolled sum kernels accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Op is an associative combining operator with its identity.
type Op[T any] struct {
	Identity T
	Combine  func(a, b T) T
}

// Sum is addition with identity zero.
func Sum[T Number]() Op[T] {
	return Op[T]{Combine: func(a, b T) T { return a + b }}
}

// Product is multiplication with identity one.
func Product[T Number]() Op[T] {
	return Op[T]{Identity: 1, Combine: func(a, b T) T { return a * b }}
}

// Max keeps the larger operand. floor must not exceed any input value; it is
// returned for empty input.
func Max[T cmp.Ordered](floor T) Op[T] {
	return Op[T]{Identity: floor, Combine: func(a, b T) T { return max(a, b) }}
}

// Min keeps the smaller operand. ceiling must not be below any input value.
func Min[T cmp.Ordered](ceiling T) Op[T] {
	return Op[T]{Identity: ceiling, Combine: func(a, b T) T { return min(a, b) }}
}

// Kernel is a sequential per-span routine. Implementations must be safe to
// call from several goroutines on disjoint spans.
type Kernel[T any] interface {
	// Op returns the operator the kernel folds with.
	Op() Op[T]
	// Scan replaces span with its inclusive scan and returns the total.
	Scan(span []T) T
	// Reduce returns the combination of all elements of span.
	Reduce(span []T) T
	// Seed replaces every span[i] with carry ⊕ span[i].
	Seed(carry T, span []T)
}

var laneWidth = detectLaneWidth()

func detectLaneWidth() int {
	if cpu.X86.HasAVX512F || cpu.X86.HasAVX2 {
		return 8
	}
	return 4
}

// LaneWidth returns the unroll width picked for this host.
func LaneWidth() int {
	return laneWidth
}

// Scalar returns a plain-loop kernel for op.
func Scalar[T any](op Op[T]) Kernel[T] {
	return scalar[T]{op: op}
}

type scalar[T any] struct {
	op Op[T]
}

func (k scalar[T]) Op() Op[T] { return k.op }

func (k scalar[T]) Scan(span []T) T {
	if len(span) == 0 {
		return k.op.Identity
	}
	acc := span[0]
	for i := 1; i < len(span); i++ {
		acc = k.op.Combine(acc, span[i])
		span[i] = acc
	}
	return acc
}

func (k scalar[T]) Reduce(span []T) T {
	acc := k.op.Identity
	for _, x := range span {
		acc = k.op.Combine(acc, x)
	}
	return acc
}

func (k scalar[T]) Seed(carry T, span []T) {
	for i := range span {
		span[i] = k.op.Combine(carry, span[i])
	}
}
