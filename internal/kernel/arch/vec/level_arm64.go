//go:build arm64 && !purego

package vec

import "github.com/cwbudde/algo-vecmath/cpu"

const (
	enabled   = true
	simdLevel = cpu.SIMDNEON
)
