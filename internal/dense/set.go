package dense

import (
	"github.com/cwbudde/algo-tensor/internal/iter"
	"github.com/cwbudde/algo-tensor/internal/team"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Set assigns alpha to every element of the strided array at off.
func Set[T tensor.Scalar](c *team.Comm, lens []int, alpha T, data []T, off int, stride []int) {
	each(c, lens, stride, off, func(o int) {
		data[o] = alpha
	})
}

// Scale multiplies every element by beta, conjugating first if conjB is
// set. beta == 0 writes zeros without reading.
func Scale[T tensor.Scalar](c *team.Comm, lens []int, beta T, conjB bool, data []T, off int, stride []int) {
	if beta == 0 {
		Set(c, lens, beta, data, off, stride)
		return
	}
	conjB = conjB && tensor.IsComplex[T]()
	each(c, lens, stride, off, func(o int) {
		data[o] = beta * tensor.MaybeConj(data[o], conjB)
	})
}

// Shift replaces every element x by alpha + beta*conj?(x). beta == 0
// assigns alpha without reading.
func Shift[T tensor.Scalar](c *team.Comm, lens []int, alpha, beta T, conjA bool, data []T, off int, stride []int) {
	if beta == 0 {
		Set(c, lens, alpha, data, off, stride)
		return
	}
	conjA = conjA && tensor.IsComplex[T]()
	each(c, lens, stride, off, func(o int) {
		data[o] = alpha + beta*tensor.MaybeConj(data[o], conjA)
	})
}

// each calls fn on this worker's share of the element offsets, then waits
// for the team.
func each(c *team.Comm, lens, stride []int, off int, fn func(off int)) {
	perm := sortByStride(stride, nil)
	it := iter.New(permute(lens, perm), permute(stride, perm))

	lo, hi := c.Distribute(tensor.Product(lens))
	it.Position(lo, &off)
	for i := lo; i < hi; i++ {
		it.Next(&off)
		fn(off)
	}

	c.Barrier()
}
