// Package generic provides the pure Go copy/add micro-kernels. They accept
// any strides, including zero and negative ones.
package generic

import (
	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Copy computes b[i] = alpha*conj?(a[i]) for n elements without reading b.
func Copy[T tensor.Scalar](n int, alpha T, conjA bool, a, b registry.Strided[T]) {
	ia, ib := a.Off, b.Off
	if conjA && tensor.IsComplex[T]() {
		for range n {
			b.Data[ib] = alpha * tensor.Conj(a.Data[ia])
			ia += a.Inc
			ib += b.Inc
		}
		return
	}

	if a.Inc == 1 && b.Inc == 1 {
		src := a.Data[ia : ia+n]
		dst := b.Data[ib : ib+n]
		if alpha == 1 {
			copy(dst, src)
			return
		}
		for i := range dst {
			dst[i] = alpha * src[i]
		}
		return
	}

	for range n {
		b.Data[ib] = alpha * a.Data[ia]
		ia += a.Inc
		ib += b.Inc
	}
}
