// Package iter provides an N-dimensional strided iterator that advances one
// or more arrays in lockstep.
package iter

// Iterator walks a multidimensional index space in odometer order with
// dimension 0 varying fastest. Arrays are tracked as element offsets; each
// call to Position or Next adjusts the offsets it is given by the strides
// registered for the matching array.
//
// Next returns true once per position, the first time without moving, and
// false after the last position, at which point the offsets are back where
// they started and the iterator is ready for another pass.
type Iterator struct {
	len    []int
	stride [][]int
	pos    []int
	first  bool
	empty  bool
}

// New returns an iterator over lens with one stride vector per array.
func New(lens []int, strides ...[]int) *Iterator {
	it := &Iterator{
		len:    lens,
		stride: strides,
		pos:    make([]int, len(lens)),
		first:  true,
	}
	for _, l := range lens {
		if l == 0 {
			it.empty = true
		}
	}
	return it
}

// Dims returns the number of dimensions.
func (it *Iterator) Dims() int { return len(it.len) }

// Size returns the number of positions.
func (it *Iterator) Size() int {
	n := 1
	for _, l := range it.len {
		n *= l
	}
	return n
}

// Position moves to the flattened position linear, adding the implied
// offsets to offs (which must point at the origin). The next call to Next
// reports this position without moving.
func (it *Iterator) Position(linear int, offs ...*int) {
	for i, l := range it.len {
		if l == 0 {
			it.pos[i] = 0
			continue
		}
		it.pos[i] = linear % l
		linear /= l
		for k, off := range offs {
			*off += it.pos[i] * it.stride[k][i]
		}
	}
	it.first = true
}

// Next advances to the next position. It returns false when the index space
// is exhausted, having rewound offs to the first position.
func (it *Iterator) Next(offs ...*int) bool {
	if it.empty {
		return false
	}
	if it.first {
		it.first = false
		return true
	}
	for i, l := range it.len {
		if it.pos[i] < l-1 {
			it.pos[i]++
			for k, off := range offs {
				*off += it.stride[k][i]
			}
			return true
		}
		for k, off := range offs {
			*off -= it.pos[i] * it.stride[k][i]
		}
		it.pos[i] = 0
	}
	it.first = true
	return false
}
