package tensordata

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-tensor/tensor"
)

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff[T tensor.Scalar](a, b []T) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		if d := AbsDiff(a[i], b[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

// AbsDiff returns |a-b|, the modulus for complex values.
func AbsDiff[T tensor.Scalar](a, b T) float64 {
	switch d := any(a - b).(type) {
	case float32:
		return float64(max(d, -d))
	case float64:
		return max(d, -d)
	case complex64:
		return cmplx.Abs(complex128(d))
	case complex128:
		return cmplx.Abs(d)
	}
	return 0
}
