package scan

import (
	"prefixscan/pkg/kernel"
	"prefixscan/pkg/pool"
)

// Reduce returns the combination of all elements of data, each worker
// folding one contiguous range. data is only read.
func Reduce[T any](s *Scanner, data []T, op kernel.Op[T]) (T, error) {
	return ReduceWith(s, data, kernel.Scalar(op))
}

// ReduceWith is Reduce running k on each range.
func ReduceWith[T any](s *Scanner, data []T, k kernel.Kernel[T]) (T, error) {
	op := k.Op()
	if len(data) == 0 {
		return op.Identity, nil
	}

	// Readers of disjoint sub-slices need no partition primitive.
	offsets := partition(len(data), s.Threads(), s.cfg.SequentialLength)
	spans := make([][]T, len(offsets)-1)
	for i := range spans {
		spans[i] = data[offsets[i]:offsets[i+1]]
	}

	info := PhaseInfo{Algorithm: "reduce", Phase: "reduce", Elements: len(data)}
	totals, err := dispatch(s, info, spans, func(_ pool.WorkerID, span []T) T {
		return k.Reduce(span)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	acc := op.Identity
	for _, t := range totals {
		acc = op.Combine(acc, t)
	}
	return acc, nil
}
