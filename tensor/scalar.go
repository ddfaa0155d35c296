// Package tensor defines the array views the element-wise engine operates on:
// strided dense views and block-sparse ("indexed") views whose data is a
// sorted set of dense blocks keyed by index tuples.
package tensor

import "math/cmplx"

// Scalar is the set of element types supported by the engine.
type Scalar interface {
	float32 | float64 | complex64 | complex128
}

// IsComplex reports whether T is a complex type.
func IsComplex[T Scalar]() bool {
	var zero T
	switch any(zero).(type) {
	case complex64, complex128:
		return true
	default:
		return false
	}
}

// Conj returns the complex conjugate of x. Real values are returned as is.
func Conj[T Scalar](x T) T {
	switch v := any(x).(type) {
	case complex64:
		return any(complex(real(v), -imag(v))).(T)
	case complex128:
		return any(cmplx.Conj(v)).(T)
	default:
		return x
	}
}

// MaybeConj conjugates x when conj is set.
func MaybeConj[T Scalar](x T, conj bool) T {
	if conj {
		return Conj(x)
	}
	return x
}

// NeedsUpdate reports whether scaling by beta (optionally conjugating) changes
// a value, i.e. beta != 1 or a complex conjugation is requested.
func NeedsUpdate[T Scalar](beta T, conj bool) bool {
	return beta != 1 || (conj && IsComplex[T]())
}
