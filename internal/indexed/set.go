package indexed

import (
	"github.com/cwbudde/algo-tensor/internal/dense"
	"github.com/cwbudde/algo-tensor/internal/team"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Set assigns alpha to every element of every stored block of a.
func Set[T tensor.Scalar](c *team.Comm, alpha T, a *tensor.Indexed[T]) {
	forEachBlock(c, a, func(sub *team.Comm, off int) {
		dense.Set(sub, a.DenseLen, alpha, a.Data, off, a.DenseStride)
	})
}

// Shift replaces every element x of every stored block of a by
// alpha + beta*conj?(x).
func Shift[T tensor.Scalar](c *team.Comm, alpha, beta T, conjA bool, a *tensor.Indexed[T]) {
	forEachBlock(c, a, func(sub *team.Comm, off int) {
		dense.Shift(sub, a.DenseLen, alpha, beta, conjA, a.Data, off, a.DenseStride)
	})
}

func forEachBlock[T tensor.Scalar](c *team.Comm, a *tensor.Indexed[T], fn func(sub *team.Comm, off int)) {
	n := a.NumBlocks()
	ts := team.NewTaskSet(c, n, n*tensor.Product(a.DenseLen))
	for i, blk := range a.Blocks {
		ts.Visit(i, func(sub *team.Comm) {
			fn(sub, blk.Offset)
		})
	}
	ts.Close()
}
