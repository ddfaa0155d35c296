package tensor

// Dense is a strided view of a multidimensional array stored in Data. The
// element at multi-index i lives at Data[Offset + sum(i[d]*Stride[d])].
// A Dense view owns nothing; several views may share one backing slice.
type Dense[T Scalar] struct {
	Data   []T
	Offset int
	Len    []int
	Stride []int
}

// NewDense allocates a zeroed row-major array with the given lengths.
func NewDense[T Scalar](lens ...int) Dense[T] {
	strides := RowMajorStrides(lens)
	return Dense[T]{
		Data:   make([]T, Product(lens)),
		Len:    append([]int(nil), lens...),
		Stride: strides,
	}
}

// RowMajorStrides returns strides for a packed row-major layout (last
// dimension contiguous).
func RowMajorStrides(lens []int) []int {
	strides := make([]int, len(lens))
	s := 1
	for d := len(lens) - 1; d >= 0; d-- {
		strides[d] = s
		s *= lens[d]
	}
	return strides
}

// Product returns the product of lens (1 for an empty slice).
func Product(lens []int) int {
	n := 1
	for _, l := range lens {
		n *= l
	}
	return n
}

// Dims returns the number of dimensions.
func (d Dense[T]) Dims() int { return len(d.Len) }

// Size returns the number of elements addressed by the view.
func (d Dense[T]) Size() int { return Product(d.Len) }

// Index returns the position in Data of the element at idx.
func (d Dense[T]) Index(idx ...int) int {
	if len(idx) != len(d.Len) {
		panic("tensor: index rank mismatch")
	}
	off := d.Offset
	for i, v := range idx {
		if v < 0 || v >= d.Len[i] {
			panic("tensor: index out of range")
		}
		off += v * d.Stride[i]
	}
	return off
}

// At returns the element at idx.
func (d Dense[T]) At(idx ...int) T {
	return d.Data[d.Index(idx...)]
}

// SetAt stores v at idx.
func (d Dense[T]) SetAt(v T, idx ...int) {
	d.Data[d.Index(idx...)] = v
}

// ForEach calls fn for every multi-index of the view in row-major order.
// The idx slice is reused between calls.
func (d Dense[T]) ForEach(fn func(idx []int, off int)) {
	n := d.Size()
	if n == 0 {
		return
	}
	idx := make([]int, len(d.Len))
	off := d.Offset
	for range n {
		fn(idx, off)
		for k := len(idx) - 1; k >= 0; k-- {
			if idx[k]+1 < d.Len[k] {
				idx[k]++
				off += d.Stride[k]
				break
			}
			off -= idx[k] * d.Stride[k]
			idx[k] = 0
		}
	}
}
