package tensor

// BlockToFull materializes x as a packed row-major dense array over all of
// its dimensions (dense dimensions first, then indexed ones). Positions not
// covered by a block are zero.
func BlockToFull[T Scalar](x *Indexed[T]) Dense[T] {
	full := NewDense[T](x.Lens()...)
	for i := range x.Blocks {
		copyBlock(fullSlice(full, x, i), x.Block(i))
	}
	return full
}

// FullToBlock writes the contents of full back into the existing blocks of
// x. Positions of full outside every block are dropped.
func FullToBlock[T Scalar](full Dense[T], x *Indexed[T]) {
	for i := range x.Blocks {
		copyBlock(x.Block(i), fullSlice(full, x, i))
	}
}

// fullSlice returns the view of full covered by block i of x.
func fullSlice[T Scalar](full Dense[T], x *Indexed[T], i int) Dense[T] {
	nd := x.DenseDims()
	off := full.Offset
	for k, v := range x.Blocks[i].Index {
		off += v * full.Stride[nd+k]
	}
	return Dense[T]{
		Data:   full.Data,
		Offset: off,
		Len:    full.Len[:nd],
		Stride: full.Stride[:nd],
	}
}

func copyBlock[T Scalar](dst, src Dense[T]) {
	dst.ForEach(func(idx []int, off int) {
		dst.Data[off] = src.At(idx...)
	})
}
