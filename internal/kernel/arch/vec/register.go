package vec

import "github.com/cwbudde/algo-tensor/internal/kernel/registry"

// init registers the float64 block kernels at the SIMD level algo-vecmath
// accelerates on this architecture.
//
// Priority: 10 (preferred over generic when the CPU supports simdLevel)
func init() {
	if !enabled {
		return
	}
	registry.Global.Register(registry.OpEntry{
		Name:      "vec",
		SIMDLevel: simdLevel,
		Priority:  10,

		Float64: &registry.Kernels[float64]{
			Name: "vec",
			Copy: Copy,
			Add:  Add,
		},
	})
}
