package kernel

// This file imports the implementation packages to trigger their init()
// functions, which register kernels with the global registry. The vec
// package registers nothing on architectures algo-vecmath does not
// accelerate.

import (
	// Generic implementations (pure Go fallback)
	_ "github.com/cwbudde/algo-tensor/internal/kernel/arch/generic"

	// algo-vecmath backed float64 kernels
	_ "github.com/cwbudde/algo-tensor/internal/kernel/arch/vec"
)
