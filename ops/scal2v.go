package ops

import (
	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-tensor/internal/kernel"
	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Scal2v sets b[i*incB] = alpha*conj?(a[i*incA]) for i in [0,n). A negative
// increment walks its vector from the end, as in BLAS. b is never read.
func Scal2v[T tensor.Scalar](conjA bool, n int, alpha T, a []T, incA int, b []T, incB int) error {
	if n <= 0 {
		return nil
	}
	offA, err := vectorStart(n, len(a), incA)
	if err != nil {
		return errors.Wrap(err, "ops: scal2v A")
	}
	offB, err := vectorStart(n, len(b), incB)
	if err != nil {
		return errors.Wrap(err, "ops: scal2v B")
	}

	k := kernel.Lookup[T](kernel.Features(false))
	k.Copy(n, alpha, conjA,
		registry.Strided[T]{Data: a, Off: offA, Inc: incA},
		registry.Strided[T]{Data: b, Off: offB, Inc: incB})
	return nil
}

// vectorStart returns the offset of the first element of an n-element
// strided vector and checks that it fits in size elements.
func vectorStart(n, size, inc int) (int, error) {
	extent := (n - 1) * inc
	if inc < 0 {
		extent = -extent
	}
	if extent >= size {
		return 0, errors.Wrapf(ErrLength, "%d elements with increment %d need %d, have %d", n, inc, extent+1, size)
	}
	if inc < 0 {
		return extent, nil
	}
	return 0, nil
}
