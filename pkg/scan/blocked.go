package scan

import (
	"errors"
	"fmt"

	"prefixscan/pkg/kernel"
	"prefixscan/pkg/pool"
	"prefixscan/pkg/ranged"
	"prefixscan/pkg/split"
)

// BlockedPost computes the inclusive scan of data in cache-sized blocks.
// Within a block every worker scans its own sub-range, the sub-range totals
// become carries, and a second dispatch adds the carries to everything after
// the first sub-range:
//
//	+------------+------------+------------+------------+
//	|  worker 0  |  worker 1  |  worker 2  |  worker 3  |
//	+------------+---------+--+------+-----+---+--------+
//	             | wrk 0   | wrk 1   | wrk 2   | wrk 3  |
//	             +---------+---------+---------+--------+
//
// A distribution chunk may straddle sub-ranges; the carry for each position
// is looked up in a ranged.Index.
func BlockedPost[T any](s *Scanner, data []T, op kernel.Op[T]) ([]T, error) {
	return BlockedPostWith(s, data, kernel.Scalar(op))
}

// BlockedPre computes the same result as BlockedPost but reduces the
// sub-ranges first, seeds each sub-range's first element with its carry, and
// runs the kernel's scan once per sub-range.
func BlockedPre[T any](s *Scanner, data []T, op kernel.Op[T]) ([]T, error) {
	return BlockedPreWith(s, data, kernel.Scalar(op))
}

// BlockedPostWith is BlockedPost running k on each sub-range.
func BlockedPostWith[T any](s *Scanner, data []T, k kernel.Kernel[T]) ([]T, error) {
	return blocked(s, "blocked-post", data, k, postScatter[T])
}

// BlockedPreWith is BlockedPre running k on each sub-range.
func BlockedPreWith[T any](s *Scanner, data []T, k kernel.Kernel[T]) ([]T, error) {
	return blocked(s, "blocked-pre", data, k, preScatter[T])
}

type blockFunc[T any] func(s *Scanner, info PhaseInfo, block []T, k kernel.Kernel[T]) error

func blocked[T any](s *Scanner, name string, data []T, k kernel.Kernel[T], scanBlock blockFunc[T]) ([]T, error) {
	n := len(data)
	size := s.cfg.CacheChunkLength
	if size <= 0 || size > n {
		size = n
	}
	op := k.Op()

	for start := 0; start < n; start += size {
		end := min(start+size, n)
		// Fold the previous block's last prefix into this block's first
		// element so blocks chain without a separate carry pass.
		if start > 0 {
			data[start] = op.Combine(data[start-1], data[start])
		}

		info := PhaseInfo{Algorithm: name, Step: start, Elements: end - start}
		if err := scanBlock(s, info, data[start:end], k); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func postScatter[T any](s *Scanner, info PhaseInfo, block []T, k kernel.Kernel[T]) error {
	v := split.NewVector(block)
	offsets := partition(len(block), s.Threads(), s.cfg.SequentialLength)

	// ============ LOCAL SCAN ============
	info.Phase = "local-scan"
	chunks, err := v.Chunk(offsets)
	if err != nil {
		return fmt.Errorf("scan: %s block %d: %w", info.Algorithm, info.Step, err)
	}
	totals, err := dispatch(s, info, chunks, func(_ pool.WorkerID, c *split.Chunk[T]) T {
		defer c.Release()
		return k.Scan(c.Span())
	})
	if err != nil {
		return err
	}

	if len(totals) > 1 {
		carries, err := ranged.New(offsets, exclusiveCarries(totals, k.Op()))
		if err != nil {
			return fmt.Errorf("scan: %s block %d: %w: %w", info.Algorithm, info.Step, ErrInvalidPartition, err)
		}

		// ============ DISTRIBUTE ============
		// The first sub-range is final; spread the rest over every worker.
		info.Phase = "distribute"
		first := offsets[1]
		dist := shift(partition(len(block)-first, s.Threads(), s.cfg.SequentialLength), first)
		chunks, err := v.Chunk(dist)
		if err != nil {
			return fmt.Errorf("scan: %s block %d: %w", info.Algorithm, info.Step, err)
		}
		errs, err := dispatch(s, info, chunks, func(_ pool.WorkerID, c *split.Chunk[T]) error {
			defer c.Release()
			return applyCarries(c, carries, k)
		})
		if err != nil {
			return err
		}
		if err := firstError(info, errs); err != nil {
			return err
		}
	}

	if _, err := v.Extract(); err != nil {
		return fmt.Errorf("scan: %s block %d: %w", info.Algorithm, info.Step, err)
	}
	return nil
}

func preScatter[T any](s *Scanner, info PhaseInfo, block []T, k kernel.Kernel[T]) error {
	v := split.NewVector(block)
	offsets := partition(len(block), s.Threads(), s.cfg.SequentialLength)
	op := k.Op()

	// ============ REDUCE ============
	info.Phase = "reduce"
	chunks, err := v.Chunk(offsets)
	if err != nil {
		return fmt.Errorf("scan: %s block %d: %w", info.Algorithm, info.Step, err)
	}
	totals, err := dispatch(s, info, chunks, func(_ pool.WorkerID, c *split.Chunk[T]) T {
		defer c.Release()
		return k.Reduce(c.Span())
	})
	if err != nil {
		return err
	}
	carries := exclusiveCarries(totals, op)

	// ============ SEEDED SCAN ============
	info.Phase = "seeded-scan"
	chunks, err = v.Chunk(offsets)
	if err != nil {
		return fmt.Errorf("scan: %s block %d: %w", info.Algorithm, info.Step, err)
	}
	items := make([]seeded[T], len(chunks))
	for i, c := range chunks {
		items[i] = seeded[T]{chunk: c, carry: carries[i], seed: i > 0}
	}
	_, err = dispatch(s, info, items, func(_ pool.WorkerID, it seeded[T]) struct{} {
		defer it.chunk.Release()
		span := it.chunk.Span()
		if it.seed {
			span[0] = op.Combine(it.carry, span[0])
		}
		k.Scan(span)
		return struct{}{}
	})
	if err != nil {
		return err
	}

	if _, err := v.Extract(); err != nil {
		return fmt.Errorf("scan: %s block %d: %w", info.Algorithm, info.Step, err)
	}
	return nil
}

type seeded[T any] struct {
	chunk *split.Chunk[T]
	carry T
	seed  bool
}

// exclusiveCarries returns, for each sub-range, the combination of the
// totals of all sub-ranges before it.
func exclusiveCarries[T any](totals []T, op kernel.Op[T]) []T {
	carries := make([]T, len(totals))
	acc := op.Identity
	for i, t := range totals {
		carries[i] = acc
		acc = op.Combine(acc, t)
	}
	return carries
}

var errCarryLookup = errors.New("no carry range for position")

// applyCarries seeds every element of c with the carry of the sub-range it
// falls in, walking forward through the index as c crosses sub-ranges.
func applyCarries[T any](c *split.Chunk[T], carries *ranged.Index[T], k kernel.Kernel[T]) error {
	span := c.Span()
	pos := c.Start()
	r, ok := carries.Get(pos)
	for pos < c.End() {
		if !ok {
			return fmt.Errorf("%w: %w %d", ErrInvalidPartition, errCarryLookup, pos)
		}
		end := min(r.End, c.End())
		k.Seed(r.Value, span[pos-c.Start():end-c.Start()])
		pos = end
		r, ok = carries.Next(r)
	}
	return nil
}
