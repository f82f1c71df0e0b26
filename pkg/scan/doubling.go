package scan

import (
	"fmt"

	"prefixscan/pkg/kernel"
	"prefixscan/pkg/pool"
	"prefixscan/pkg/split"
)

// Doubling computes the inclusive scan of data by step doubling. Each of the
// ceil(log2(len)) passes writes current[i-step] ⊕ current[i] for every
// i >= step into a workspace and then swaps the two buffers.
func Doubling[T any](s *Scanner, data []T, op kernel.Op[T]) ([]T, error) {
	n := len(data)
	current := data
	workspace := split.WithSize[T](n)

	for step := 1; step < n; step <<= 1 {
		info := PhaseInfo{Algorithm: "doubling", Phase: "combine", Step: step, Elements: n - step}

		// Positions [0, step) already hold their final prefix.
		offsets := shift(partition(n-step, s.Threads(), s.cfg.SequentialLength), step)
		chunks, err := workspace.Chunk(offsets)
		if err != nil {
			return nil, fmt.Errorf("scan: doubling step %d: %w", step, err)
		}

		src := current
		d := step
		_, err = dispatch(s, info, chunks, func(_ pool.WorkerID, c *split.Chunk[T]) struct{} {
			defer c.Release()
			span := c.Span()
			base := c.Start()
			for j := range span {
				g := base + j
				span[j] = op.Combine(src[g-d], src[g])
			}
			return struct{}{}
		})
		if err != nil {
			return nil, err
		}

		next, err := workspace.Extract()
		if err != nil {
			return nil, fmt.Errorf("scan: doubling step %d: %w", step, err)
		}
		copy(next[:step], current[:step])

		workspace = split.NewVector(current)
		current = next
	}
	return current, nil
}
