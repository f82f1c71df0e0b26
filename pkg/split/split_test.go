package split

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestChunkDisjointRegions(t *testing.T) {
	v := NewVector([]uint64{0, 0, 5, 7, 0})

	chunks, err := v.Chunk([]int{0, 2, 4})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Equal(t, 2, v.Outstanding())

	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		go func(c *Chunk[uint64]) {
			defer wg.Done()
			defer c.Release()
			for i := 0; i < c.Len(); i++ {
				c.Set(i, c.At(i)+1)
			}
		}(c)
	}
	wg.Wait()

	got, err := v.Extract()
	require.NoError(t, err)
	if diff := cmp.Diff([]uint64{1, 1, 6, 8, 0}, got); diff != "" {
		t.Errorf("extract mismatch (-want +got):\n%s", diff)
	}
	require.Zero(t, v.Len())
}

func TestChunkAllReachesEnd(t *testing.T) {
	v := NewVector([]int{1, 2, 3, 4, 5})

	chunks, err := v.ChunkAll([]int{0, 3})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Equal(t, 3, chunks[1].Start())
	require.Equal(t, 5, chunks[1].End())
	require.Equal(t, 5, chunks[1].Last())
	ReleaseAll(chunks)
}

func TestChunkBounds(t *testing.T) {
	v := NewVector([]int{1, 2, 3, 4})

	chunks, err := v.Chunk([]int{1, 3})
	require.NoError(t, err)
	c := chunks[0]
	require.Equal(t, 1, c.Start())
	require.Equal(t, 3, c.End())
	require.Equal(t, []int{2, 3}, c.Span())
	require.Equal(t, 2, cap(c.Span()), "span capacity must stop at the chunk boundary")
	require.Panics(t, func() { c.At(2) })
	c.Release()
}

func TestChunkInvalidOffsets(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
	}{
		{"empty", nil},
		{"single", []int{0}},
		{"equal", []int{0, 2, 2}},
		{"decreasing", []int{0, 3, 1}},
		{"negative", []int{-1, 2}},
		{"beyond length", []int{0, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := WithSize[int](4)
			_, err := v.Chunk(tt.offsets)
			require.ErrorIs(t, err, ErrInvalidPartition)
			require.Zero(t, v.Outstanding())
		})
	}
}

func TestChunkRequiresSoleOwnership(t *testing.T) {
	v := WithSize[int](4)

	chunks, err := v.Chunk([]int{0, 4})
	require.NoError(t, err)

	_, err = v.Chunk([]int{0, 2})
	require.ErrorIs(t, err, ErrBrokenOwnership)

	chunks[0].Release()
	chunks, err = v.Chunk([]int{0, 2})
	require.NoError(t, err)
	ReleaseAll(chunks)
}

func TestExtractWithOutstandingChunks(t *testing.T) {
	v := WithSize[int](3)

	chunks, err := v.ChunkAll([]int{0, 1})
	require.NoError(t, err)

	_, err = v.Extract()
	require.ErrorIs(t, err, ErrBrokenOwnership)
	_, err = v.View()
	require.ErrorIs(t, err, ErrBrokenOwnership)

	chunks[0].Release()
	_, err = v.Extract()
	require.ErrorIs(t, err, ErrBrokenOwnership)

	chunks[1].Release()
	data, err := v.Extract()
	require.NoError(t, err)
	require.Len(t, data, 3)
}

func TestReleaseIsIdempotent(t *testing.T) {
	v := WithSize[int](2)

	chunks, err := v.Chunk([]int{0, 1, 2})
	require.NoError(t, err)
	chunks[0].Release()
	chunks[0].Release()
	require.Equal(t, 1, v.Outstanding())
	require.Panics(t, func() { chunks[0].Span() })

	chunks[1].Release()
	require.Zero(t, v.Outstanding())
}

func TestViewWithoutChunks(t *testing.T) {
	v := NewVector([]int{3, 4})

	view, err := v.View()
	require.NoError(t, err)
	view[1] = 9

	data, err := v.Extract()
	require.NoError(t, err)
	require.Equal(t, []int{3, 9}, data)
}
