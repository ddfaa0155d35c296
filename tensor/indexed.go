package tensor

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrUnsorted marks block sets that are not unique and sorted by index.
var ErrUnsorted = errors.New("tensor: blocks not unique and sorted")

// Block locates one dense block of an Indexed tensor.
type Block struct {
	// Index holds the value of every indexed dimension for this block.
	Index []int
	// Offset is the position of the block's origin in the backing slice.
	Offset int
}

// Indexed is a block-sparse tensor view. Dimensions 0..len(DenseLen)-1 are
// dense: every block covers them fully with the shared DenseStride layout.
// The remaining len(IndexedLen) dimensions are indexed: each block fixes one
// value for each of them. Blocks must be unique and sorted lexicographically
// by Index; absent blocks are implicitly zero.
type Indexed[T Scalar] struct {
	Data        []T
	DenseLen    []int
	DenseStride []int
	IndexedLen  []int
	Blocks      []Block
}

// Dims returns the total number of dimensions (dense plus indexed).
func (x *Indexed[T]) Dims() int { return len(x.DenseLen) + len(x.IndexedLen) }

// DenseDims returns the number of dense dimensions.
func (x *Indexed[T]) DenseDims() int { return len(x.DenseLen) }

// IsDense reports whether dimension dim is a dense dimension.
func (x *Indexed[T]) IsDense(dim int) bool { return dim < len(x.DenseLen) }

// Len returns the length of dimension dim.
func (x *Indexed[T]) Len(dim int) int {
	if dim < len(x.DenseLen) {
		return x.DenseLen[dim]
	}
	return x.IndexedLen[dim-len(x.DenseLen)]
}

// Lens returns the lengths of all dimensions.
func (x *Indexed[T]) Lens() []int {
	lens := make([]int, 0, x.Dims())
	lens = append(lens, x.DenseLen...)
	return append(lens, x.IndexedLen...)
}

// NumBlocks returns the number of stored blocks.
func (x *Indexed[T]) NumBlocks() int { return len(x.Blocks) }

// Block returns a dense view of block i over the dense dimensions.
func (x *Indexed[T]) Block(i int) Dense[T] {
	return Dense[T]{
		Data:   x.Data,
		Offset: x.Blocks[i].Offset,
		Len:    x.DenseLen,
		Stride: x.DenseStride,
	}
}

// Find returns the block number holding index, or -1.
func (x *Indexed[T]) Find(index ...int) int {
	i, ok := slices.BinarySearchFunc(x.Blocks, index, func(b Block, idx []int) int {
		return slices.Compare(b.Index, idx)
	})
	if !ok {
		return -1
	}
	return i
}

// Validate checks the structural invariants: block index ranks and ranges,
// uniqueness and lexicographic order.
func (x *Indexed[T]) Validate() error {
	if len(x.DenseStride) != len(x.DenseLen) {
		return errors.Newf("tensor: %d dense strides for %d dense dimensions", len(x.DenseStride), len(x.DenseLen))
	}
	for d, l := range x.DenseLen {
		if l < 0 {
			return errors.Newf("tensor: negative length %d in dense dimension %d", l, d)
		}
	}
	for i, b := range x.Blocks {
		if len(b.Index) != len(x.IndexedLen) {
			return errors.Newf("tensor: block %d has %d indices, want %d", i, len(b.Index), len(x.IndexedLen))
		}
		for d, v := range b.Index {
			if v < 0 || v >= x.IndexedLen[d] {
				return errors.Newf("tensor: block %d index %d out of range [0,%d)", i, v, x.IndexedLen[d])
			}
		}
		if i > 0 && slices.Compare(x.Blocks[i-1].Index, b.Index) >= 0 {
			return errors.Wrapf(ErrUnsorted, "block %d %v follows %v", i, b.Index, x.Blocks[i-1].Index)
		}
	}
	return nil
}
