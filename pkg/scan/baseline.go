package scan

import "prefixscan/pkg/kernel"

// Sequential replaces data with its inclusive scan on the calling goroutine.
func Sequential[T any](data []T, op kernel.Op[T]) []T {
	for i := 1; i < len(data); i++ {
		data[i] = op.Combine(data[i-1], data[i])
	}
	return data
}

// SequentialExclusive replaces data with its exclusive scan: element i
// becomes the combination of all elements before it, element 0 the identity.
func SequentialExclusive[T any](data []T, op kernel.Op[T]) []T {
	acc := op.Identity
	for i, x := range data {
		data[i] = acc
		acc = op.Combine(acc, x)
	}
	return data
}

// SequentialSum is the uint64 sum baseline using the unrolled kernel.
func SequentialSum(data []uint64) []uint64 {
	kernel.ScanSum(data)
	return data
}

// ScanSequential is the single-worker uint64 sum scan using the Scanner's kernel choice.
func (s *Scanner) ScanSequential(data []uint64) []uint64 {
	s.sumKernel().Scan(data)
	return data
}
