package field

import (
	"fmt"
	"slices"

	"prefixscan/pkg/scan"
)

// BatchInv replaces every element of xs with its inverse using a single
// field inversion. Zeros count as 1 in the products and stay 0.
//
// With E[i] the product of everything before i and F[i] the product of
// everything after it, x[i]^-1 = E[i] * F[i] * (x[0]*...*x[n-1])^-1. Both
// products are parallel exclusive scans; F is the scan of the reversed input.
func BatchInv(s *scan.Scanner, xs []uint32) error {
	n := len(xs)
	if n == 0 {
		return nil
	}

	safe := make([]uint32, n)
	for i, x := range xs {
		safe[i] = x
		if x == 0 {
			safe[i] = 1
		}
	}
	last := safe[n-1]

	before, err := scan.Tree(s, slices.Clone(safe), ProductOp())
	if err != nil {
		return fmt.Errorf("field: prefix products: %w", err)
	}

	slices.Reverse(safe)
	after, err := scan.Tree(s, safe, ProductOp())
	if err != nil {
		return fmt.Errorf("field: suffix products: %w", err)
	}
	slices.Reverse(after)

	inv := Inv(Mul(before[n-1], last))
	for i, x := range xs {
		if x == 0 {
			continue
		}
		xs[i] = Mul(Mul(before[i], after[i]), inv)
	}
	return nil
}

// BatchInvSequential is the single-threaded form of BatchInv: one forward
// pass of prefix products, one inversion, one backward pass.
func BatchInvSequential(xs []uint32) {
	n := len(xs)
	if n == 0 {
		return
	}

	prods := make([]uint32, n)
	acc := uint32(1)
	for i, x := range xs {
		if x != 0 {
			acc = Mul(acc, x)
		}
		prods[i] = acc
	}

	inv := Inv(prods[n-1])
	for i := n - 1; i > 0; i-- {
		if xs[i] == 0 {
			continue
		}
		old := xs[i]
		xs[i] = Mul(inv, prods[i-1])
		inv = Mul(inv, old)
	}
	if xs[0] != 0 {
		xs[0] = inv
	}
}
