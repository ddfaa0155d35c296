package indexed

import (
	"slices"

	"github.com/cwbudde/algo-tensor/tensor"
)

// mixedPos is a group position that is dense in one operand and indexed in
// the other. The indexed operand's block index fixes the dense operand's
// coordinate along it.
type mixedPos struct {
	// stride of the position in the operand that has it dense.
	stride int
	// idx is the position's slot in the other operand's Block.Index.
	idx int
}

// group classifies the dimensions two operands co-iterate. Position p of
// the group is dimension dims[0][p] of A and dims[1][p] of B.
type group struct {
	denseLen    []int
	denseStride [2][]int
	batch       [2][]int
	mixed       [2][]mixedPos
}

func newGroup[T tensor.Scalar](a *tensor.Indexed[T], dimsA []int, b *tensor.Indexed[T], dimsB []int) group {
	var g group
	for p := range dimsA {
		da, db := dimsA[p], dimsB[p]
		denseA, denseB := a.IsDense(da), b.IsDense(db)
		switch {
		case denseA && denseB:
			g.denseLen = append(g.denseLen, a.Len(da))
			g.denseStride[0] = append(g.denseStride[0], a.DenseStride[da])
			g.denseStride[1] = append(g.denseStride[1], b.DenseStride[db])
		case !denseA && !denseB:
			g.batch[0] = append(g.batch[0], da-a.DenseDims())
			g.batch[1] = append(g.batch[1], db-b.DenseDims())
		case denseA:
			g.mixed[0] = append(g.mixed[0], mixedPos{stride: a.DenseStride[da], idx: db - b.DenseDims()})
		default:
			g.mixed[1] = append(g.mixed[1], mixedPos{stride: b.DenseStride[db], idx: da - a.DenseDims()})
		}
	}
	return g
}

// group1 classifies dimensions only one operand has.
type group1 struct {
	denseLen    []int
	denseStride []int
	batch       []int
}

func newGroup1[T tensor.Scalar](x *tensor.Indexed[T], dims []int) group1 {
	var g group1
	for _, d := range dims {
		if x.IsDense(d) {
			g.denseLen = append(g.denseLen, x.Len(d))
			g.denseStride = append(g.denseStride, x.DenseStride[d])
		} else {
			g.batch = append(g.batch, d-x.DenseDims())
		}
	}
	return g
}

// entry is one block of an operand as seen by a merge-join.
type entry struct {
	// ab holds the block's values on the shared batch positions; it is
	// the join key.
	ab []int
	// own holds the block's values on the operand's own indexed
	// dimensions.
	own    []int
	index  []int
	offset int
	block  int
}

func compareEntries(x, y entry) int {
	if c := slices.Compare(x.ab, y.ab); c != 0 {
		return c
	}
	return slices.Compare(x.own, y.own)
}

// groupIndices lists the blocks of x sorted by their shared key, then by
// their own key.
func groupIndices[T tensor.Scalar](x *tensor.Indexed[T], ab, own []int) []entry {
	out := make([]entry, len(x.Blocks))
	for i, blk := range x.Blocks {
		out[i] = entry{
			ab:     pick(blk.Index, ab),
			own:    pick(blk.Index, own),
			index:  blk.Index,
			offset: blk.Offset,
			block:  i,
		}
	}
	slices.SortStableFunc(out, compareEntries)
	return out
}

// localOffsets returns the element offsets into the A and B blocks implied
// by the mixed positions of g: each operand is advanced along the
// positions it has dense by the other operand's index value.
func localOffsets(g *group, ea, eb entry) (offA, offB int) {
	for _, m := range g.mixed[0] {
		offA += m.stride * eb.index[m.idx]
	}
	for _, m := range g.mixed[1] {
		offB += m.stride * ea.index[m.idx]
	}
	return offA, offB
}

func pick(v, idx []int) []int {
	out := make([]int, len(idx))
	for i, p := range idx {
		out[i] = v[p]
	}
	return out
}
