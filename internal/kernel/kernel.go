// Package kernel selects the copy/add micro-kernels the dense engine runs on
// 1-D strided runs.
package kernel

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Features returns the detected CPU features. forceGeneric restricts
// dispatch to the pure Go kernels.
func Features(forceGeneric bool) cpu.Features {
	f := cpu.DetectFeatures()
	if forceGeneric {
		f.ForceGeneric = true
	}
	return f
}

// Lookup returns the highest-priority kernels for T usable with features.
// It panics if no registered entry provides kernels for T, which cannot
// happen while the generic package is linked in.
func Lookup[T tensor.Scalar](features cpu.Features) registry.Kernels[T] {
	k, ok := registry.Find[T](registry.Global.Supported(features))
	if !ok {
		var zero T
		panic(fmt.Sprintf("kernel: no kernels registered for %T", zero))
	}
	return k
}

// Entries lists the registered implementations, best first, marking which
// ones features can use and which one dispatch prefers.
func Entries(features cpu.Features) []Entry {
	all := registry.Global.ListEntries()
	usable := registry.Global.Supported(features)

	out := make([]Entry, 0, len(all))
	for _, e := range usable {
		out = append(out, newEntry(e, true))
	}
	if best := registry.Global.Lookup(features); best != nil {
		for i := range out {
			out[i].Preferred = out[i].Name == best.Name
		}
	}
	for _, e := range all {
		if !cpu.Supports(features, e.SIMDLevel) {
			out = append(out, newEntry(e, false))
		}
	}
	return out
}

// Entry describes one registered implementation.
type Entry struct {
	Name      string
	SIMDLevel cpu.SIMDLevel
	Priority  int
	Usable    bool
	Preferred bool
	Types     []string
}

func newEntry(e registry.OpEntry, usable bool) Entry {
	var types []string
	if e.Float32 != nil {
		types = append(types, "float32")
	}
	if e.Float64 != nil {
		types = append(types, "float64")
	}
	if e.Complex64 != nil {
		types = append(types, "complex64")
	}
	if e.Complex128 != nil {
		types = append(types, "complex128")
	}
	return Entry{
		Name:      e.Name,
		SIMDLevel: e.SIMDLevel,
		Priority:  e.Priority,
		Usable:    usable,
		Types:     types,
	}
}
