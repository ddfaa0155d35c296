package generic

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
)

func TestCopy_Strided(t *testing.T) {
	sizes := []int{0, 1, 4, 15, 16, 17, 100}

	for _, n := range sizes {
		for _, inc := range []int{1, 2, -1} {
			t.Run(fmt.Sprintf("%s/inc%d", sizeStr(n), inc), func(t *testing.T) {
				a := make([]float64, n)
				for i := range a {
					a[i] = float64(i) + 0.5
				}
				b := make([]float64, 2*n+1)

				off := 0
				if inc < 0 {
					off = n - 1
				}
				Copy(n, 3.0, false,
					registry.Strided[float64]{Data: a, Inc: 1},
					registry.Strided[float64]{Data: b, Off: max(off, 0), Inc: inc})

				for i := range n {
					got := b[max(off, 0)+i*inc]
					if want := 3 * a[i]; got != want {
						t.Errorf("Copy[%d] = %v, want %v", i, got, want)
					}
				}
			})
		}
	}
}

func TestCopy_Conjugate(t *testing.T) {
	a := []complex128{1 + 2i, -3 - 1i}
	b := make([]complex128, 2)
	Copy(2, 2i, true,
		registry.Strided[complex128]{Data: a, Inc: 1},
		registry.Strided[complex128]{Data: b, Inc: 1})

	want := []complex128{2i * (1 - 2i), 2i * (-3 + 1i)}
	for i := range b {
		if b[i] != want[i] {
			t.Errorf("Copy[%d] = %v, want %v", i, b[i], want[i])
		}
	}
}

func TestAdd_Generic(t *testing.T) {
	sizes := []int{0, 1, 8, 17, 1000}

	for _, n := range sizes {
		t.Run(sizeStr(n), func(t *testing.T) {
			a := make([]float32, n)
			b := make([]float32, n)
			expected := make([]float32, n)
			for i := range n {
				a[i] = float32(i) + 0.5
				b[i] = float32(i) * 2.0
				expected[i] = 2*a[i] - 0.5*b[i]
			}

			Add(n, 2, false,
				registry.Strided[float32]{Data: a, Inc: 1},
				-0.5, false,
				registry.Strided[float32]{Data: b, Inc: 1})

			for i := range n {
				if b[i] != expected[i] {
					t.Errorf("Add[%d] = %v, want %v", i, b[i], expected[i])
				}
			}
		})
	}
}

func TestAdd_BetaZeroIgnoresGarbage(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{math.NaN(), math.Inf(1), math.NaN()}
	Add(3, 1, false,
		registry.Strided[float64]{Data: a, Inc: 1},
		0, false,
		registry.Strided[float64]{Data: b, Inc: 1})

	for i := range a {
		if b[i] != a[i] {
			t.Errorf("Add[%d] = %v, want %v", i, b[i], a[i])
		}
	}
}

func TestAdd_ConjugateBoth(t *testing.T) {
	a := []complex64{1 + 1i}
	b := []complex64{2 - 3i}
	Add(1, 1, true,
		registry.Strided[complex64]{Data: a, Inc: 1},
		2, true,
		registry.Strided[complex64]{Data: b, Inc: 1})

	if want := complex64((1 - 1i) + 2*(2+3i)); b[0] != want {
		t.Errorf("Add = %v, want %v", b[0], want)
	}
}

func BenchmarkAdd_Generic_Direct(b *testing.B) {
	sizes := []int{16, 64, 256, 1024, 4096}

	for _, n := range sizes {
		b.Run(sizeStr(n), func(b *testing.B) {
			dst := make([]float64, n)
			src := make([]float64, n)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				Add(n, 1.5, false,
					registry.Strided[float64]{Data: src, Inc: 1},
					0.5, false,
					registry.Strided[float64]{Data: dst, Inc: 1})
			}

			b.SetBytes(int64(n) * 8 * 2)
		})
	}
}

func sizeStr(n int) string {
	if n >= 1024 {
		return fmt.Sprintf("%dK", n/1024)
	}
	return fmt.Sprintf("%d", n)
}
