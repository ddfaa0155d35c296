// Package testutil holds assertion helpers shared by the engine's tests.
package testutil

import (
	"testing"

	"github.com/cwbudde/algo-tensor/internal/tensordata"
	"github.com/cwbudde/algo-tensor/tensor"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual[T tensor.Scalar](t testing.TB, got, want []T, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := tensordata.AbsDiff(got[i], want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}
