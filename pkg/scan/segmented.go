package scan

import (
	"fmt"

	"prefixscan/pkg/kernel"
	"prefixscan/pkg/pool"
	"prefixscan/pkg/ranged"
	"prefixscan/pkg/split"
)

// Segments is a batch of independent sequences flattened into one buffer.
// Heads[i] marks Data[i] as the first element of a sequence.
type Segments[T any] struct {
	Data  []T
	Heads []bool
}

// Flatten concatenates seqs and marks each sequence start. Empty sequences
// have no element to carry a head flag and are dropped.
func Flatten[T any](seqs [][]T) Segments[T] {
	total := 0
	for _, seq := range seqs {
		total += len(seq)
	}

	out := Segments[T]{Data: make([]T, 0, total), Heads: make([]bool, total)}
	for _, seq := range seqs {
		if len(seq) == 0 {
			continue
		}
		out.Heads[len(out.Data)] = true
		out.Data = append(out.Data, seq...)
	}
	return out
}

// Len returns the number of elements.
func (sg Segments[T]) Len() int {
	return len(sg.Data)
}

// Unflatten splits the batch back into sequences.
func (sg Segments[T]) Unflatten() ([][]T, error) {
	if err := sg.validate(); err != nil {
		return nil, err
	}

	var seqs [][]T
	start := 0
	for i := 1; i <= len(sg.Data); i++ {
		if i == len(sg.Data) || sg.Heads[i] {
			seqs = append(seqs, sg.Data[start:i:i])
			start = i
		}
	}
	return seqs, nil
}

func (sg Segments[T]) validate() error {
	if len(sg.Heads) != len(sg.Data) {
		return fmt.Errorf("%w: %d flags for %d elements", ErrSegmentMismatch, len(sg.Heads), len(sg.Data))
	}
	if len(sg.Data) > 0 && !sg.Heads[0] {
		return ErrMissingHead
	}
	return nil
}

// SequentialSegmented replaces sg.Data with its segmented inclusive scan:
// the running value restarts at every head.
func SequentialSegmented[T any](sg Segments[T], op kernel.Op[T]) (Segments[T], error) {
	if err := sg.validate(); err != nil {
		return sg, err
	}
	segmentedScan(sg.Data, sg.Heads, op)
	return sg, nil
}

// segmentedScan scans span restarting at heads and at span[0]. It returns
// the index of the first head, or len(span) when there is none.
func segmentedScan[T any](span []T, heads []bool, op kernel.Op[T]) int {
	first := len(span)
	for i := range span {
		if heads[i] {
			if first == len(span) {
				first = i
			}
			continue
		}
		if i > 0 {
			span[i] = op.Combine(span[i-1], span[i])
		}
	}
	return first
}

type segSummary[T any] struct {
	last      T
	firstHead int
}

// segCarry is the value carried into a sub-range and the absolute position
// where the sub-range's first segment starts, beyond which it must not reach.
type segCarry[T any] struct {
	carry T
	limit int
}

// Segmented computes the segmented inclusive scan of sg in parallel. Each
// worker scans its own sub-range; carries then flow into the leading
// elements of every later sub-range, stopping at that sub-range's first head.
func Segmented[T any](s *Scanner, sg Segments[T], op kernel.Op[T]) (Segments[T], error) {
	return SegmentedWith(s, sg, kernel.Scalar(op))
}

// SegmentedWith is Segmented using k to apply carries.
func SegmentedWith[T any](s *Scanner, sg Segments[T], k kernel.Kernel[T]) (Segments[T], error) {
	if err := sg.validate(); err != nil {
		return sg, err
	}
	n := sg.Len()
	if n == 0 {
		return sg, nil
	}
	op := k.Op()
	heads := sg.Heads

	v := split.NewVector(sg.Data)
	offsets := partition(n, s.Threads(), s.cfg.SequentialLength)

	// ============ LOCAL SCAN ============
	info := PhaseInfo{Algorithm: "segmented", Phase: "local-scan", Elements: n}
	chunks, err := v.Chunk(offsets)
	if err != nil {
		return sg, fmt.Errorf("scan: segmented: %w", err)
	}
	summaries, err := dispatch(s, info, chunks, func(_ pool.WorkerID, c *split.Chunk[T]) segSummary[T] {
		defer c.Release()
		first := segmentedScan(c.Span(), heads[c.Start():c.End()], op)
		return segSummary[T]{last: c.Last(), firstHead: c.Start() + first}
	})
	if err != nil {
		return sg, err
	}

	if len(summaries) > 1 {
		// A sub-range containing a head passes on only its trailing segment.
		carries := make([]segCarry[T], len(summaries))
		carries[0] = segCarry[T]{carry: op.Identity, limit: offsets[0]}
		for i := 1; i < len(summaries); i++ {
			prev := summaries[i-1]
			carry := prev.last
			if prev.firstHead == offsets[i] {
				carry = op.Combine(carries[i-1].carry, prev.last)
			}
			carries[i] = segCarry[T]{carry: carry, limit: summaries[i].firstHead}
		}

		index, err := ranged.New(offsets, carries)
		if err != nil {
			return sg, fmt.Errorf("scan: segmented: %w: %w", ErrInvalidPartition, err)
		}

		// ============ DISTRIBUTE ============
		info.Phase = "distribute"
		first := offsets[1]
		dist := shift(partition(n-first, s.Threads(), s.cfg.SequentialLength), first)
		chunks, err := v.Chunk(dist)
		if err != nil {
			return sg, fmt.Errorf("scan: segmented: %w", err)
		}
		errs, err := dispatch(s, info, chunks, func(_ pool.WorkerID, c *split.Chunk[T]) error {
			defer c.Release()
			return applySegmentCarries(c, index, k)
		})
		if err != nil {
			return sg, err
		}
		if err := firstError(info, errs); err != nil {
			return sg, err
		}
	}

	data, err := v.Extract()
	if err != nil {
		return sg, fmt.Errorf("scan: segmented: %w", err)
	}
	sg.Data = data
	return sg, nil
}

func applySegmentCarries[T any](c *split.Chunk[T], index *ranged.Index[segCarry[T]], k kernel.Kernel[T]) error {
	span := c.Span()
	pos := c.Start()
	r, ok := index.Get(pos)
	for pos < c.End() {
		if !ok {
			return fmt.Errorf("%w: %w %d", ErrInvalidPartition, errCarryLookup, pos)
		}
		end := min(r.End, c.End())
		if stop := min(end, r.Value.limit); stop > pos {
			k.Seed(r.Value.carry, span[pos-c.Start():stop-c.Start()])
		}
		pos = end
		r, ok = index.Next(r)
	}
	return nil
}
