package dense

import (
	"slices"
)

// sortByStride returns the permutation that orders dimensions by ascending
// stride magnitude, breaking ties by the magnitude of the matching entry of
// secondary (if given). Equal keys keep their original order.
func sortByStride(stride, secondary []int) []int {
	perm := make([]int, len(stride))
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(i, j int) int {
		if d := abs(stride[i]) - abs(stride[j]); d != 0 {
			return d
		}
		if secondary != nil {
			return abs(secondary[i]) - abs(secondary[j])
		}
		return 0
	})
	return perm
}

func permute(v, perm []int) []int {
	out := make([]int, len(perm))
	for i, p := range perm {
		out[i] = v[p]
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
