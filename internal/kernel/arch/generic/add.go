package generic

import (
	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Add computes b[i] = alpha*conj?(a[i]) + beta*conj?(b[i]). With beta == 0
// b is not read, so it may hold uninitialized values (NaN included).
func Add[T tensor.Scalar](n int, alpha T, conjA bool, a registry.Strided[T], beta T, conjB bool, b registry.Strided[T]) {
	if beta == 0 {
		Copy(n, alpha, conjA, a, b)
		return
	}

	complexT := tensor.IsComplex[T]()
	conjA = conjA && complexT
	conjB = conjB && complexT

	ia, ib := a.Off, b.Off
	if !conjA && !conjB {
		for range n {
			b.Data[ib] = alpha*a.Data[ia] + beta*b.Data[ib]
			ia += a.Inc
			ib += b.Inc
		}
		return
	}

	for range n {
		b.Data[ib] = alpha*tensor.MaybeConj(a.Data[ia], conjA) + beta*tensor.MaybeConj(b.Data[ib], conjB)
		ia += a.Inc
		ib += b.Inc
	}
}
