package scan

// ChunkRanges returns k+1 offsets splitting [0, length) into k contiguous
// ranges. The first length%k ranges hold one extra element. When length < k
// the trailing ranges are empty, so offsets are strictly increasing only for
// length >= k. k < 1 is treated as 1.
//
// For example, ChunkRanges(10, 4) is [0 3 6 8 10].
func ChunkRanges(length, k int) []int {
	if k < 1 {
		k = 1
	}
	size := length / k
	extra := length % k

	offsets := make([]int, k+1)
	for i := range offsets {
		if i < extra {
			offsets[i] = i * (size + 1)
		} else {
			offsets[i] = i*size + extra
		}
	}
	return offsets
}

// compact drops repeated offsets so that every remaining range is non-empty.
func compact(offsets []int) []int {
	out := make([]int, 0, len(offsets))
	for i, o := range offsets {
		if i == 0 || o != out[len(out)-1] {
			out = append(out, o)
		}
	}
	return out
}

// partition splits [0, length) across at most workers non-empty ranges, or
// into a single range when length is below the sequential threshold.
func partition(length, workers, sequential int) []int {
	if length < sequential {
		return []int{0, length}
	}
	return compact(ChunkRanges(length, workers))
}

// shift adds base to every offset.
func shift(offsets []int, base int) []int {
	out := make([]int, len(offsets))
	for i, o := range offsets {
		out[i] = o + base
	}
	return out
}

// pairCount returns the number of combine operations the tree scan performs
// at step over length elements, counting the unpaired tail.
func pairCount(step, length int) int {
	operands := length / step
	ops := operands / 2
	if operands%2 == 1 && length%(2*step) > 0 {
		ops++
	}
	return ops
}

// pyramidRanges returns chunk offsets for one tree-scan step. Every chunk
// starts at the left element of a pair, so no pair straddles two chunks, and
// the last chunk runs to length so it owns the unpaired tail.
func pyramidRanges(step, length, workers, sequential int) []int {
	ops := pairCount(step, length)
	if ops < sequential {
		return []int{step - 1, length}
	}

	var opOffsets []int
	if ops > workers {
		opOffsets = ChunkRanges(ops, workers)
	} else {
		opOffsets = make([]int, ops+1)
		for i := range opOffsets {
			opOffsets[i] = i
		}
	}

	ranges := make([]int, len(opOffsets))
	for i, o := range opOffsets {
		ranges[i] = o*2*step + step - 1
	}
	ranges[len(ranges)-1] = length
	return ranges
}
