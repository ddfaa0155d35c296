package tensor

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/google/btree"
)

const builderDegree = 16

// Builder collects blocks in any order and lays them out as an Indexed
// tensor whose blocks are unique and sorted. Inserting an index twice keeps
// the last data.
type Builder[T Scalar] struct {
	denseLen   []int
	indexedLen []int
	tree       *btree.BTree
}

type blockItem[T Scalar] struct {
	index []int
	data  []T
}

func (b *blockItem[T]) Less(than btree.Item) bool {
	return slices.Compare(b.index, than.(*blockItem[T]).index) < 0
}

// NewBuilder returns a builder for tensors with the given dense and indexed
// dimension lengths.
func NewBuilder[T Scalar](denseLen, indexedLen []int) *Builder[T] {
	return &Builder[T]{
		denseLen:   slices.Clone(denseLen),
		indexedLen: slices.Clone(indexedLen),
		tree:       btree.New(builderDegree),
	}
}

// Insert adds the block at index. data is the block contents in row-major
// order over the dense dimensions; nil means zero.
func (b *Builder[T]) Insert(index []int, data []T) error {
	if len(index) != len(b.indexedLen) {
		return errors.Newf("tensor: block index has %d values, want %d", len(index), len(b.indexedLen))
	}
	for d, v := range index {
		if v < 0 || v >= b.indexedLen[d] {
			return errors.Newf("tensor: block index %v out of range in dimension %d", index, d)
		}
	}
	if data != nil && len(data) != Product(b.denseLen) {
		return errors.Newf("tensor: block data has %d elements, want %d", len(data), Product(b.denseLen))
	}
	b.tree.ReplaceOrInsert(&blockItem[T]{index: slices.Clone(index), data: data})
	return nil
}

// Len returns the number of distinct blocks inserted so far.
func (b *Builder[T]) Len() int { return b.tree.Len() }

// Build allocates the tensor. Blocks are stored contiguously in index order,
// each one packed row-major.
func (b *Builder[T]) Build() *Indexed[T] {
	size := Product(b.denseLen)
	x := &Indexed[T]{
		Data:        make([]T, size*b.tree.Len()),
		DenseLen:    slices.Clone(b.denseLen),
		DenseStride: RowMajorStrides(b.denseLen),
		IndexedLen:  slices.Clone(b.indexedLen),
		Blocks:      make([]Block, 0, b.tree.Len()),
	}
	off := 0
	b.tree.Ascend(func(i btree.Item) bool {
		item := i.(*blockItem[T])
		x.Blocks = append(x.Blocks, Block{Index: item.index, Offset: off})
		copy(x.Data[off:off+size], item.data)
		off += size
		return true
	})
	return x
}
