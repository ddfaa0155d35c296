package generic

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
	"github.com/cwbudde/algo-tensor/tensor"
)

// init registers the pure Go kernels for every element type. They are the
// fallback when no SIMD entry applies or ForceGeneric is set.
//
// Priority: 0
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,

		Float32:    kernels[float32](),
		Float64:    kernels[float64](),
		Complex64:  kernels[complex64](),
		Complex128: kernels[complex128](),
	})
}

func kernels[T tensor.Scalar]() *registry.Kernels[T] {
	return &registry.Kernels[T]{
		Name: "generic",
		Copy: Copy[T],
		Add:  Add[T],
	}
}
