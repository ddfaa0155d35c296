// Package registry holds the copy/add micro-kernel implementations and picks
// the best one for the running CPU.
//
// Architecture packages register an OpEntry from init(). Entries may provide
// kernels for only some element types; lookups fall back to lower-priority
// entries for the others.
package registry

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-tensor/tensor"
)

// Strided addresses n elements of Data starting at Off, Inc apart.
type Strided[T tensor.Scalar] struct {
	Data []T
	Off  int
	Inc  int
}

// CopyFunc computes b[i] = alpha*conj?(a[i]) for n elements. b is never read.
type CopyFunc[T tensor.Scalar] func(n int, alpha T, conjA bool, a, b Strided[T])

// AddFunc computes b[i] = alpha*conj?(a[i]) + beta*conj?(b[i]) for n elements.
type AddFunc[T tensor.Scalar] func(n int, alpha T, conjA bool, a Strided[T], beta T, conjB bool, b Strided[T])

// Kernels is the pair of micro-kernels the dense engine calls on 1-D runs.
type Kernels[T tensor.Scalar] struct {
	Name string
	Copy CopyFunc[T]
	Add  AddFunc[T]
}

// OpEntry is one registered kernel implementation.
type OpEntry struct {
	Name      string
	SIMDLevel cpu.SIMDLevel
	Priority  int

	Float32    *Kernels[float32]
	Float64    *Kernels[float64]
	Complex64  *Kernels[complex64]
	Complex128 *Kernels[complex128]
}

// OpRegistry stores available implementations.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the default kernel registry.
var Global = &OpRegistry{}

// Register adds an implementation entry.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority implementation supported by features.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	supported := r.Supported(features)
	if len(supported) == 0 {
		return nil
	}
	return &supported[0]
}

// Supported returns the entries usable with features, best first.
func (r *OpRegistry) Supported(features cpu.Features) []OpEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []OpEntry
	for _, entry := range r.entries {
		if cpu.Supports(features, entry.SIMDLevel) {
			out = append(out, entry)
		}
	}
	return out
}

func (r *OpRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of entries for tests/debugging.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Find returns the kernels for T from the best entry in entries that has
// them.
func Find[T tensor.Scalar](entries []OpEntry) (Kernels[T], bool) {
	for i := range entries {
		if k, ok := kernelsFor[T](&entries[i]); ok {
			return k, true
		}
	}
	return Kernels[T]{}, false
}

func kernelsFor[T tensor.Scalar](e *OpEntry) (Kernels[T], bool) {
	var k any
	var zero T
	switch any(zero).(type) {
	case float32:
		if e.Float32 != nil {
			k = *e.Float32
		}
	case float64:
		if e.Float64 != nil {
			k = *e.Float64
		}
	case complex64:
		if e.Complex64 != nil {
			k = *e.Complex64
		}
	case complex128:
		if e.Complex128 != nil {
			k = *e.Complex128
		}
	}
	if k == nil {
		return Kernels[T]{}, false
	}
	return k.(Kernels[T]), true
}
