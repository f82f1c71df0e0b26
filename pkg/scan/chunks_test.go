package scan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkRanges(t *testing.T) {
	require.Equal(t, []int{0, 3, 6, 8, 10}, ChunkRanges(10, 4))
	require.Equal(t, []int{0, 25, 50, 75, 100}, ChunkRanges(100, 4))
	require.Equal(t, []int{0, 1, 2, 2, 2}, ChunkRanges(2, 4))
	require.Equal(t, []int{0, 0}, ChunkRanges(0, 1))
	require.Equal(t, []int{0, 5}, ChunkRanges(5, 0))
}

func TestChunkRangesProperties(t *testing.T) {
	for length := 0; length <= 70; length++ {
		for k := 1; k <= 12; k++ {
			offsets := ChunkRanges(length, k)
			require.Len(t, offsets, k+1)
			require.Equal(t, 0, offsets[0])
			require.Equal(t, length, offsets[k])

			big := (length + k - 1) / k
			for i := 0; i < k; i++ {
				size := offsets[i+1] - offsets[i]
				if length >= k {
					require.Positive(t, size, "len=%d k=%d chunk %d", length, k, i)
				}
				if i < length%k {
					require.Equal(t, big, size, "len=%d k=%d chunk %d", length, k, i)
				} else {
					require.Equal(t, length/k, size, "len=%d k=%d chunk %d", length, k, i)
				}
			}
		}
	}
}

func TestPartitionDropsEmptyRanges(t *testing.T) {
	require.Equal(t, []int{0, 1, 2}, partition(2, 4, 0))
	require.Equal(t, []int{0, 7}, partition(7, 4, 8))
	require.Equal(t, []int{0, 2, 4, 6, 7}, partition(7, 4, 7))
	require.Equal(t, []int{0}, partition(0, 4, 0))
}

func TestPyramidRangesAlignToPairs(t *testing.T) {
	for n := 2; n <= 70; n++ {
		for step := 1; step < n; step <<= 1 {
			for workers := 1; workers <= 9; workers++ {
				offsets := pyramidRanges(step, n, workers, 0)
				require.Equal(t, step-1, offsets[0])
				require.Equal(t, n, offsets[len(offsets)-1])
				require.LessOrEqual(t, len(offsets)-1, workers)

				for i := 1; i < len(offsets); i++ {
					require.Greater(t, offsets[i], offsets[i-1], "n=%d step=%d workers=%d", n, step, workers)
				}
				// Every inner boundary is the left element of a pair.
				for _, o := range offsets[1 : len(offsets)-1] {
					require.Zero(t, (o-(step-1))%(2*step), "n=%d step=%d workers=%d", n, step, workers)
				}
			}
		}
	}
}

func TestPyramidRangesSequentialFallback(t *testing.T) {
	require.Equal(t, []int{3, 16}, pyramidRanges(4, 16, 4, 3))
	require.Equal(t, []int{3, 11, 16}, pyramidRanges(4, 16, 4, 2))
}

func TestPairCount(t *testing.T) {
	require.Equal(t, 6, pairCount(1, 12))
	require.Equal(t, 3, pairCount(2, 12))
	require.Equal(t, 2, pairCount(4, 12))
	require.Equal(t, 1, pairCount(8, 12))
	require.Equal(t, 2, pairCount(1, 3))
	require.Equal(t, 1, pairCount(2, 3))
}
