// Package vec routes unit-stride float64 runs to the algo-vecmath block
// kernels. Everything else is handled by the generic kernels.
package vec

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tensor/internal/kernel/arch/generic"
	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
)

func contiguous(n int, a, b registry.Strided[float64]) bool {
	return n > 0 && a.Inc == 1 && b.Inc == 1
}

// Copy computes b[i] = alpha*a[i].
func Copy(n int, alpha float64, conjA bool, a, b registry.Strided[float64]) {
	if !contiguous(n, a, b) {
		generic.Copy(n, alpha, conjA, a, b)
		return
	}
	vecmath.ScaleBlock(b.Data[b.Off:b.Off+n], a.Data[a.Off:a.Off+n], alpha)
}

// Add computes b[i] = alpha*a[i] + beta*b[i]. Only beta == 0 and
// alpha == 1 map onto block kernels; other combinations use the generic
// loop, which does the update in a single pass.
func Add(n int, alpha float64, conjA bool, a registry.Strided[float64], beta float64, conjB bool, b registry.Strided[float64]) {
	if !contiguous(n, a, b) {
		generic.Add(n, alpha, conjA, a, beta, conjB, b)
		return
	}

	src := a.Data[a.Off : a.Off+n]
	dst := b.Data[b.Off : b.Off+n]
	switch {
	case beta == 0:
		vecmath.ScaleBlock(dst, src, alpha)
	case alpha == 1:
		if beta != 1 {
			vecmath.ScaleBlockInPlace(dst, beta)
		}
		vecmath.AddBlockInPlace(dst, src)
	default:
		generic.Add(n, alpha, conjA, a, beta, conjB, b)
	}
}
