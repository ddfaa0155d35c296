package indexed

import (
	"slices"

	"github.com/cwbudde/algo-tensor/tensor"
)

// mergeJoin walks two sequences sorted by the order cmp induces and reports
// each maximal run of equal keys present on both sides to onMatch, and each
// B element without a counterpart to onUnmatchedB, in order. A elements
// without a counterpart are skipped.
func mergeJoin[A, B any](as []A, bs []B, cmp func(A, B) int,
	onMatch func(aLo, aHi, bLo, bHi int), onUnmatchedB func(j int),
) {
	i, j := 0, 0
	for i < len(as) && j < len(bs) {
		c := cmp(as[i], bs[j])
		switch {
		case c < 0:
			i++
		case c > 0:
			onUnmatchedB(j)
			j++
		default:
			iHi := i + 1
			for iHi < len(as) && cmp(as[iHi], bs[j]) == 0 {
				iHi++
			}
			jHi := j + 1
			for jHi < len(bs) && cmp(as[i], bs[jHi]) == 0 {
				jHi++
			}
			onMatch(i, iHi, j, jHi)
			i, j = iHi, jHi
		}
	}
	for ; j < len(bs); j++ {
		onUnmatchedB(j)
	}
}

type taskKind uint8

const (
	taskZero taskKind = iota
	taskScale
	taskAdd
)

func (k taskKind) String() string {
	switch k {
	case taskZero:
		return "zero"
	case taskScale:
		return "scale"
	case taskAdd:
		return "add"
	default:
		return "unknown"
	}
}

// task is one unit of work on a single B block. Scalars are resolved when
// the task is planned.
type task[T tensor.Scalar] struct {
	kind taskKind
	// b is the B entry the task writes.
	b int
	// aLo, aHi is the run of A entries added into b.
	aLo, aHi int
	beta     T
	conjB    bool
	// prescale scales b once up front because each A entry covers only
	// part of it.
	prescale bool
}

// plan merges the sorted entry lists and returns the tasks in scheduling
// order: one add task per B entry of every matched run, and a zero or scale
// task for each unmatched B entry that beta changes.
func plan[T tensor.Scalar](ea, eb []entry, beta T, conjB, prescale bool) []task[T] {
	var tasks []task[T]
	decay := tensor.NeedsUpdate(beta, conjB)

	mergeJoin(ea, eb, func(x, y entry) int { return slices.Compare(x.ab, y.ab) },
		func(aLo, aHi, bLo, bHi int) {
			for j := bLo; j < bHi; j++ {
				tasks = append(tasks, task[T]{
					kind:     taskAdd,
					b:        j,
					aLo:      aLo,
					aHi:      aHi,
					beta:     beta,
					conjB:    conjB,
					prescale: prescale,
				})
			}
		},
		func(j int) {
			if !decay {
				return
			}
			kind := taskScale
			if beta == 0 {
				kind = taskZero
			}
			tasks = append(tasks, task[T]{kind: kind, b: j, beta: beta, conjB: conjB})
		})

	return tasks
}
