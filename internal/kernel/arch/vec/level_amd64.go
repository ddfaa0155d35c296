//go:build amd64 && !purego

package vec

import "github.com/cwbudde/algo-vecmath/cpu"

const (
	enabled   = true
	simdLevel = cpu.SIMDSSE2
)
