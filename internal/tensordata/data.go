// Package tensordata generates reproducible block-sparse operands and
// compares results. It backs the tests and the bench command.
package tensordata

import (
	"math/rand"

	"github.com/cwbudde/algo-tensor/tensor"
)

// DeterministicNoise returns length values uniformly distributed in
// [-amplitude, amplitude) with a fixed seed. Complex values get independent
// real and imaginary parts.
func DeterministicNoise[T tensor.Scalar](seed int64, amplitude float64, length int) []T {
	out := make([]T, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		re := (rng.Float64()*2 - 1) * amplitude
		var v any
		switch any(out[i]).(type) {
		case float32:
			v = float32(re)
		case float64:
			v = re
		case complex64:
			v = complex64(complex(re, (rng.Float64()*2-1)*amplitude))
		case complex128:
			v = complex(re, (rng.Float64()*2-1)*amplitude)
		}
		out[i] = v.(T)
	}
	return out
}

// RandomIndexed builds a block-sparse tensor whose blocks are a random subset
// (each index tuple kept with probability density) of all index tuples,
// filled with deterministic noise.
func RandomIndexed[T tensor.Scalar](seed int64, denseLen, indexedLen []int, density float64) *tensor.Indexed[T] {
	rng := rand.New(rand.NewSource(seed))
	b := tensor.NewBuilder[T](denseLen, indexedLen)
	size := tensor.Product(denseLen)

	idx := make([]int, len(indexedLen))
	for range tensor.Product(indexedLen) {
		if rng.Float64() < density {
			data := DeterministicNoise[T](rng.Int63(), 1, size)
			if err := b.Insert(idx, data); err != nil {
				panic(err)
			}
		}
		for k := len(idx) - 1; k >= 0; k-- {
			if idx[k]+1 < indexedLen[k] {
				idx[k]++
				break
			}
			idx[k] = 0
		}
	}
	return b.Build()
}

// Clone returns a deep copy of x sharing nothing with it.
func Clone[T tensor.Scalar](x *tensor.Indexed[T]) *tensor.Indexed[T] {
	y := *x
	y.Data = append([]T(nil), x.Data...)
	y.Blocks = make([]tensor.Block, len(x.Blocks))
	for i, blk := range x.Blocks {
		y.Blocks[i] = tensor.Block{Index: append([]int(nil), blk.Index...), Offset: blk.Offset}
	}
	return &y
}
