package kernel

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func naiveScan(xs []uint64) ([]uint64, uint64) {
	out := make([]uint64, len(xs))
	var acc uint64
	for i, x := range xs {
		acc += x
		out[i] = acc
	}
	return out, acc
}

func ramp(n int) []uint64 {
	xs := make([]uint64, n)
	for i := range xs {
		xs[i] = uint64(i*7 + 3)
	}
	return xs
}

func TestSumKernelsMatchNaive(t *testing.T) {
	kernels := map[string]Kernel[uint64]{
		"scalar":    Scalar(Sum[uint64]()),
		"unrolled4": UnrolledWidth[uint64](4),
		"unrolled8": UnrolledWidth[uint64](8),
		"host":      Unrolled[uint64](),
	}
	for name, k := range kernels {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{0, 1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17, 31, 32, 33, 100} {
				xs := ramp(n)
				want, total := naiveScan(xs)

				require.Equal(t, total, k.Reduce(xs), "reduce n=%d", n)

				got := slices.Clone(xs)
				require.Equal(t, total, k.Scan(got), "scan total n=%d", n)
				require.Equal(t, want, got, "scan n=%d", n)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	for _, k := range []Kernel[int]{Scalar(Sum[int]()), UnrolledWidth[int](4), UnrolledWidth[int](8)} {
		xs := []int{1, 2, 3, 4, 5, 6}
		k.Seed(10, xs)
		require.Equal(t, []int{11, 12, 13, 14, 15, 16}, xs)
	}
}

func TestScalarEmptyReturnsIdentity(t *testing.T) {
	k := Scalar(Product[int]())
	require.Equal(t, 1, k.Scan(nil))
	require.Equal(t, 1, k.Reduce(nil))
}

func TestScalarKeepsOperandOrder(t *testing.T) {
	concat := Op[string]{Combine: func(a, b string) string { return a + b }}
	k := Scalar(concat)

	xs := []string{"a", "b", "c"}
	require.Equal(t, "abc", k.Scan(xs))
	require.Equal(t, []string{"a", "ab", "abc"}, xs)

	k.Seed(">", xs)
	require.Equal(t, []string{">a", ">ab", ">abc"}, xs)
}

func TestMaxMin(t *testing.T) {
	xs := []int{3, -1, 4, 1, -5, 9, 2}
	hi := Scalar(Max(-1 << 30))
	require.Equal(t, 9, hi.Reduce(xs))
	require.Equal(t, -1<<30, hi.Reduce(nil))

	lo := Scalar(Min(1 << 30))
	scanned := slices.Clone(xs)
	require.Equal(t, -5, lo.Scan(scanned))
	require.Equal(t, []int{3, -1, -1, -1, -5, -5, -5}, scanned)
}

func TestLaneWidth(t *testing.T) {
	require.Contains(t, []int{4, 8}, LaneWidth())
}

func BenchmarkScanSumScalar(b *testing.B) {
	xs := ramp(1 << 16)
	k := Scalar(Sum[uint64]())
	b.SetBytes(int64(8 * len(xs)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k.Scan(xs)
	}
}

func BenchmarkScanSum4(b *testing.B) {
	xs := ramp(1 << 16)
	b.SetBytes(int64(8 * len(xs)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ScanSum(xs)
	}
}

func BenchmarkScanSum8(b *testing.B) {
	xs := ramp(1 << 16)
	b.SetBytes(int64(8 * len(xs)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ScanSum8(xs)
	}
}

func BenchmarkReduceSum8(b *testing.B) {
	xs := ramp(1 << 16)
	b.SetBytes(int64(8 * len(xs)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ReduceSum8(xs)
	}
}
