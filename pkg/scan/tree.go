package scan

import (
	"fmt"

	"prefixscan/pkg/kernel"
	"prefixscan/pkg/pool"
	"prefixscan/pkg/split"
)

// Tree computes the exclusive scan of data with the work-efficient
// up-sweep/down-sweep algorithm. Element 0 of the result is op.Identity.
//
// Each step is one dispatch over chunks aligned to pair boundaries:
//
//	a  b  c  d  ...
//	|  ^  |  ^
//	+--+  +--+
//
// so pairs at distance step combine independently within a chunk.
func Tree[T any](s *Scanner, data []T, op kernel.Op[T]) ([]T, error) {
	n := len(data)
	if n == 0 {
		return data, nil
	}

	var steps []int
	for step := 1; step < n; step <<= 1 {
		steps = append(steps, step)
	}

	v := split.NewVector(data)

	// ============ UP-SWEEP ============
	for _, step := range steps {
		if err := treeStep(s, v, step, op, false); err != nil {
			return nil, err
		}
	}

	// The root holds the total; the exclusive prefix of the whole input is the identity.
	view, err := v.View()
	if err != nil {
		return nil, fmt.Errorf("scan: tree root: %w", err)
	}
	view[n-1] = op.Identity

	// ============ DOWN-SWEEP ============
	for i := len(steps) - 1; i >= 0; i-- {
		if err := treeStep(s, v, steps[i], op, true); err != nil {
			return nil, err
		}
	}

	out, err := v.Extract()
	if err != nil {
		return nil, fmt.Errorf("scan: tree: %w", err)
	}
	return out, nil
}

func treeStep[T any](s *Scanner, v *split.Vector[T], step int, op kernel.Op[T], down bool) error {
	phase, sweep := "up-sweep", upSweep[T]
	if down {
		phase, sweep = "down-sweep", downSweep[T]
	}
	info := PhaseInfo{Algorithm: "tree", Phase: phase, Step: step, Elements: v.Len()}

	offsets := pyramidRanges(step, v.Len(), s.Threads(), s.cfg.SequentialLength)
	chunks, err := v.Chunk(offsets)
	if err != nil {
		return fmt.Errorf("scan: tree %s step %d: %w", phase, step, err)
	}

	_, err = dispatch(s, info, chunks, func(_ pool.WorkerID, c *split.Chunk[T]) struct{} {
		defer c.Release()
		sweep(c.Span(), step, op)
		return struct{}{}
	})
	return err
}

// pairOf returns the right partner of the left element at i. A left element
// with fewer than step elements after it pairs with the last element.
func pairOf(i, step, n int) (int, bool) {
	switch {
	case i+step < n:
		return i + step, true
	case i < n-1:
		return n - 1, true
	default:
		return 0, false
	}
}

func upSweep[T any](span []T, step int, op kernel.Op[T]) {
	n := len(span)
	for i := 0; i < n; i += 2 * step {
		j, ok := pairOf(i, step, n)
		if !ok {
			continue
		}
		span[j] = op.Combine(span[i], span[j])
	}
}

func downSweep[T any](span []T, step int, op kernel.Op[T]) {
	n := len(span)
	for i := 0; i < n; i += 2 * step {
		j, ok := pairOf(i, step, n)
		if !ok {
			continue
		}
		// The right slot holds the prefix before the pair. The left subtree
		// inherits it; the right subtree also needs the left subtree's total.
		left, prefix := span[i], span[j]
		span[i] = prefix
		span[j] = op.Combine(prefix, left)
	}
}
