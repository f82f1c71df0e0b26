// Package field provides arithmetic in Z_Q, Q = 2^23 - 2^20 + 1 = 7340033,
// and the scan operators built on it.
package field

import "prefixscan/pkg/kernel"

// Q is the prime modulus: 2^23 - 2^20 + 1
const Q = 7340033

// Mod returns x mod Q, handling negative values correctly.
func Mod(x int64) uint32 {
	x = x % Q
	if x < 0 {
		x += Q
	}
	return uint32(x)
}

// Add returns (a + b) mod Q.
func Add(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum >= Q {
		sum -= Q
	}
	return uint32(sum)
}

// Sub returns (a - b) mod Q.
func Sub(a, b uint32) uint32 {
	if a >= b {
		return a - b
	}
	return Q - b + a
}

// Mul returns (a * b) mod Q.
func Mul(a, b uint32) uint32 {
	return uint32((uint64(a) * uint64(b)) % Q)
}

// Neg returns (-a) mod Q.
func Neg(a uint32) uint32 {
	if a == 0 {
		return 0
	}
	return Q - a
}

// Exp returns a^e mod Q using binary exponentiation.
func Exp(a uint32, e uint32) uint32 {
	result := uint64(1)
	base := uint64(a)
	for e > 0 {
		if e&1 == 1 {
			result = (result * base) % Q
		}
		base = (base * base) % Q
		e >>= 1
	}
	return uint32(result)
}

// Inv returns a^(Q-2) mod Q, the inverse of a, or 0 for a == 0.
// Q-2 = 0b110_1111_1111_1111_1111_1111: a "110" header then five "1111" blocks.
func Inv(a uint32) uint32 {
	if a == 0 {
		return 0
	}

	x2 := Mul(a, a)
	x3 := Mul(x2, a)
	x6 := Mul(x3, x3)
	x15 := Mul(Mul(x6, x6), x3)

	res := x6
	for range 5 {
		res = Mul(res, res)
		res = Mul(res, res)
		res = Mul(res, res)
		res = Mul(res, res)
		res = Mul(res, x15)
	}
	return res
}

// SumOp is addition mod Q.
func SumOp() kernel.Op[uint32] {
	return kernel.Op[uint32]{Identity: 0, Combine: Add}
}

// ProductOp is multiplication mod Q.
func ProductOp() kernel.Op[uint32] {
	return kernel.Op[uint32]{Identity: 1, Combine: Mul}
}
