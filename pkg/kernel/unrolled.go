package kernel

// Unrolled returns the addition kernel unrolled to LaneWidth().
func Unrolled[T Number]() Kernel[T] {
	return unrolled[T]{width: laneWidth}
}

// UnrolledWidth returns the addition kernel with an explicit width of 4 or 8.
func UnrolledWidth[T Number](width int) Kernel[T] {
	if width != 8 {
		width = 4
	}
	return unrolled[T]{width: width}
}

type unrolled[T Number] struct {
	width int
}

func (k unrolled[T]) Op() Op[T] { return Sum[T]() }

func (k unrolled[T]) Scan(span []T) T {
	if k.width == 8 {
		return ScanSum8(span)
	}
	return ScanSum(span)
}

func (k unrolled[T]) Reduce(span []T) T {
	if k.width == 8 {
		return ReduceSum8(span)
	}
	return ReduceSum(span)
}

func (k unrolled[T]) Seed(carry T, span []T) {
	AddAll(carry, span)
}

// ScanSum computes the inclusive running sum of data in place, four elements
// per step, and returns the total.
func ScanSum[T Number](data []T) T {
	var acc T
	n := len(data)
	i := 0

	for ; i+3 < n; i += 4 {
		x0, x1, x2, x3 := data[i], data[i+1], data[i+2], data[i+3]
		// pairwise partials are independent of acc
		p01 := x0 + x1
		p23 := x2 + x3
		s1 := acc + p01
		data[i] = acc + x0
		data[i+1] = s1
		data[i+2] = s1 + x2
		acc = s1 + p23
		data[i+3] = acc
	}
	for ; i < n; i++ {
		acc += data[i]
		data[i] = acc
	}
	return acc
}

// ScanSum8 is ScanSum with eight elements per step.
func ScanSum8[T Number](data []T) T {
	var acc T
	n := len(data)
	i := 0

	for ; i+7 < n; i += 8 {
		x0, x1, x2, x3 := data[i], data[i+1], data[i+2], data[i+3]
		x4, x5, x6, x7 := data[i+4], data[i+5], data[i+6], data[i+7]

		// local inclusive scan of the block, then one carry add per lane
		l1 := x0 + x1
		l3 := x2 + x3 + l1
		l5 := x4 + x5 + l3
		l2 := l1 + x2
		l4 := l3 + x4
		l6 := l5 + x6
		l7 := l5 + x6 + x7

		data[i] = acc + x0
		data[i+1] = acc + l1
		data[i+2] = acc + l2
		data[i+3] = acc + l3
		data[i+4] = acc + l4
		data[i+5] = acc + l5
		data[i+6] = acc + l6
		acc += l7
		data[i+7] = acc
	}
	for ; i < n; i++ {
		acc += data[i]
		data[i] = acc
	}
	return acc
}

// ReduceSum returns the sum of data using four independent accumulators.
func ReduceSum[T Number](data []T) T {
	var a, b, c, d T
	for len(data) >= 4 {
		a += data[0]
		b += data[1]
		c += data[2]
		d += data[3]
		data = data[4:]
	}
	for _, x := range data {
		a += x
	}
	return (a + b) + (c + d)
}

// ReduceSum8 returns the sum of data using eight independent accumulators.
func ReduceSum8[T Number](data []T) T {
	var a0, a1, a2, a3, a4, a5, a6, a7 T
	for len(data) >= 8 {
		a0 += data[0]
		a1 += data[1]
		a2 += data[2]
		a3 += data[3]
		a4 += data[4]
		a5 += data[5]
		a6 += data[6]
		a7 += data[7]
		data = data[8:]
	}
	for _, x := range data {
		a0 += x
	}
	return ((a0 + a1) + (a2 + a3)) + ((a4 + a5) + (a6 + a7))
}

// AddAll adds v to every element of data.
func AddAll[T Number](v T, data []T) {
	i := 0
	for ; i+3 < len(data); i += 4 {
		data[i] += v
		data[i+1] += v
		data[i+2] += v
		data[i+3] += v
	}
	for ; i < len(data); i++ {
		data[i] += v
	}
}
