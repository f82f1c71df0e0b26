package gen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64sDeterministic(t *testing.T) {
	a := Uint64s([]byte("seed"), 500, 1000)
	b := Uint64s([]byte("seed"), 500, 1000)
	c := Uint64s([]byte("other"), 500, 1000)

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	for _, v := range a {
		require.Less(t, v, uint64(1000))
	}
}

func TestStreamCrossesRateBoundary(t *testing.T) {
	// 168-byte rate is not a multiple of 8; reads must straddle refills.
	s := NewStream([]byte("x"), 7)
	seen := make(map[uint64]bool)
	for i := 0; i < 200; i++ {
		seen[s.Uint64()] = true
	}
	require.Greater(t, len(seen), 190)

	s.Reset([]byte("x"), 7)
	first := s.Uint64()
	s.Reset([]byte("x"), 7)
	require.Equal(t, first, s.Uint64())
}

func TestBelowFullRange(t *testing.T) {
	s := NewStream([]byte("full"), 0)
	require.NotPanics(t, func() { s.Below(0) })
}

func TestRamp(t *testing.T) {
	require.Equal(t, []uint64{0, 1, 2, 3}, Ramp(4))
	require.Empty(t, Ramp(0))
}

func TestSequences(t *testing.T) {
	seqs := Sequences([]byte("segs"), 50, 9, 100)
	require.Len(t, seqs, 50)
	for _, seq := range seqs {
		require.GreaterOrEqual(t, len(seq), 1)
		require.LessOrEqual(t, len(seq), 9)
	}
	require.Equal(t, seqs, Sequences([]byte("segs"), 50, 9, 100))
}
