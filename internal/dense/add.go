// Package dense combines strided dense operands element-wise on a worker
// team. It is the leaf engine the block-sparse layer calls once per block
// pair; every operation is collective and ends with a team barrier.
package dense

import (
	"github.com/cwbudde/algo-tensor/internal/iter"
	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
	"github.com/cwbudde/algo-tensor/internal/team"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Operand locates one strided operand of Add. Stride covers the dimensions
// only this operand has (summed for A, replicated for B); StrideAB covers
// the dimensions shared with the other operand, in the order of
// Shape.LenAB.
type Operand[T tensor.Scalar] struct {
	Data     []T
	Off      int
	Stride   []int
	StrideAB []int
}

// Shape holds the lengths of the three dimension groups of Add.
type Shape struct {
	LenA  []int
	LenB  []int
	LenAB []int
}

// Add computes, for every position ab of the shared dimensions and every
// position of B's own dimensions,
//
//	B[ab] = alpha*conj?(sum over A's own dimensions of A[ab]) + beta*conj?(B[ab])
//
// With beta == 0 B is only written. Add is collective over c.
func Add[T tensor.Scalar](c *team.Comm, k registry.Kernels[T], sh Shape,
	alpha T, conjA bool, a Operand[T],
	beta T, conjB bool, b Operand[T],
) {
	conjA = conjA && tensor.IsComplex[T]()
	conjB = conjB && tensor.IsComplex[T]()

	permA := sortByStride(a.Stride, nil)
	permB := sortByStride(b.Stride, nil)
	permAB := sortByStride(b.StrideAB, a.StrideAB)

	lenA, strideA := permute(sh.LenA, permA), permute(a.Stride, permA)
	lenB, strideB := permute(sh.LenB, permB), permute(b.Stride, permB)
	lenAB := permute(sh.LenAB, permAB)
	strideAAB, strideBAB := permute(a.StrideAB, permAB), permute(b.StrideAB, permAB)

	switch {
	case len(lenA) > 0:
		reduce(c, lenA, strideA, lenB, strideB, lenAB, strideAAB, strideBAB,
			alpha, conjA, a, beta, conjB, b)
	case len(lenB) > 0:
		replicate(c, lenB, strideB, lenAB, strideAAB, strideBAB,
			alpha, conjA, a, beta, conjB, b)
	case len(lenAB) > 0:
		transpose(c, k, lenAB, strideAAB, strideBAB,
			alpha, conjA, a, beta, conjB, b)
	default:
		if c.Master() {
			sa := registry.Strided[T]{Data: a.Data, Off: a.Off}
			sb := registry.Strided[T]{Data: b.Data, Off: b.Off}
			if beta == 0 {
				k.Copy(1, alpha, conjA, sa, sb)
			} else {
				k.Add(1, alpha, conjA, sa, beta, conjB, sb)
			}
		}
	}

	c.Barrier()
}

// reduce sums A over its own dimensions for each shared position. If B has
// own dimensions too, the result is written to each of them.
func reduce[T tensor.Scalar](c *team.Comm,
	lenA, strideA, lenB, strideB, lenAB, strideAAB, strideBAB []int,
	alpha T, conjA bool, a Operand[T],
	beta T, conjB bool, b Operand[T],
) {
	itA := iter.New(lenA, strideA)
	itB := iter.New(lenB, strideB)
	itAB := iter.New(lenAB, strideAAB, strideBAB)

	lo, hi := c.Distribute(tensor.Product(lenAB))
	offA, offB := a.Off, b.Off
	itAB.Position(lo, &offA, &offB)

	for i := lo; i < hi; i++ {
		itAB.Next(&offA, &offB)

		var sum T
		for itA.Next(&offA) {
			sum += a.Data[offA]
		}
		v := alpha * tensor.MaybeConj(sum, conjA)

		for itB.Next(&offB) {
			update(b.Data, offB, v, beta, conjB)
		}
	}
}

// replicate writes the scaled A element of each shared position to every
// position of B's own dimensions.
func replicate[T tensor.Scalar](c *team.Comm,
	lenB, strideB, lenAB, strideAAB, strideBAB []int,
	alpha T, conjA bool, a Operand[T],
	beta T, conjB bool, b Operand[T],
) {
	itB := iter.New(lenB, strideB)
	itAB := iter.New(lenAB, strideAAB, strideBAB)

	lo, hi := c.Distribute(tensor.Product(lenAB))
	offA, offB := a.Off, b.Off
	itAB.Position(lo, &offA, &offB)

	for i := lo; i < hi; i++ {
		itAB.Next(&offA, &offB)

		v := alpha * tensor.MaybeConj(a.Data[offA], conjA)
		for itB.Next(&offB) {
			update(b.Data, offB, v, beta, conjB)
		}
	}
}

// transpose runs the micro-kernels along the first shared dimension,
// splitting it and the remaining shared dimensions over a 2-D worker grid.
func transpose[T tensor.Scalar](c *team.Comm, k registry.Kernels[T],
	lenAB, strideAAB, strideBAB []int,
	alpha T, conjA bool, a Operand[T],
	beta T, conjB bool, b Operand[T],
) {
	len0 := lenAB[0]
	incA, incB := strideAAB[0], strideBAB[0]
	itAB := iter.New(lenAB[1:], strideAAB[1:], strideBAB[1:])

	mlo, mhi, nlo, nhi := c.Distribute2D(len0, tensor.Product(lenAB[1:]))
	m := mhi - mlo
	if m == 0 {
		return
	}

	offA, offB := a.Off+mlo*incA, b.Off+mlo*incB
	itAB.Position(nlo, &offA, &offB)

	for i := nlo; i < nhi; i++ {
		itAB.Next(&offA, &offB)

		sa := registry.Strided[T]{Data: a.Data, Off: offA, Inc: incA}
		sb := registry.Strided[T]{Data: b.Data, Off: offB, Inc: incB}
		if beta == 0 {
			k.Copy(m, alpha, conjA, sa, sb)
		} else {
			k.Add(m, alpha, conjA, sa, beta, conjB, sb)
		}
	}
}

func update[T tensor.Scalar](data []T, off int, v, beta T, conjB bool) {
	if beta == 0 {
		data[off] = v
		return
	}
	data[off] = v + beta*tensor.MaybeConj(data[off], conjB)
}
