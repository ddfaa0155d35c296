package kernel

import (
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
)

func TestLookupForceGeneric(t *testing.T) {
	f := Features(true)

	if k := Lookup[float64](f); k.Name != "generic" {
		t.Fatalf("float64 with ForceGeneric: got %q, want generic", k.Name)
	}
	if k := Lookup[complex64](f); k.Name != "generic" {
		t.Fatalf("complex64 with ForceGeneric: got %q, want generic", k.Name)
	}
}

func TestLookupAllTypes(t *testing.T) {
	f := Features(false)
	checks := []struct {
		name string
		ok   bool
	}{
		{"float32", Lookup[float32](f).Copy != nil},
		{"float64", Lookup[float64](f).Add != nil},
		{"complex64", Lookup[complex64](f).Copy != nil},
		{"complex128", Lookup[complex128](f).Add != nil},
	}
	for _, c := range checks {
		if !c.ok {
			t.Errorf("%s: missing kernel", c.name)
		}
	}
}

func TestLookupPrefersVec(t *testing.T) {
	entries := registry.Global.ListEntries()
	var vec *registry.OpEntry
	for i := range entries {
		if entries[i].Name == "vec" {
			vec = &entries[i]
		}
	}
	if vec == nil {
		t.Skip("vec kernels not registered on this architecture")
	}

	f := cpu.Features{HasSSE2: true, HasNEON: true}
	if k := Lookup[float64](f); k.Name != "vec" {
		t.Fatalf("float64: got %q, want vec", k.Name)
	}
	if k := Lookup[float32](f); k.Name != "generic" {
		t.Fatalf("float32: got %q, want generic fallback", k.Name)
	}
}

func TestEntries(t *testing.T) {
	entries := Entries(Features(true))
	if len(entries) == 0 {
		t.Fatal("no entries")
	}
	if entries[0].Name != "generic" || !entries[0].Usable {
		t.Fatalf("first entry with ForceGeneric = %+v, want usable generic", entries[0])
	}
	if !entries[0].Preferred {
		t.Fatalf("generic not preferred under ForceGeneric: %+v", entries[0])
	}
	if len(entries[0].Types) != 4 {
		t.Fatalf("generic types = %v, want all four", entries[0].Types)
	}
	for _, e := range entries[1:] {
		if e.Usable || e.Preferred {
			t.Errorf("entry %s usable under ForceGeneric", e.Name)
		}
	}
}
