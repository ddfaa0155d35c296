//go:build purego || !(amd64 || arm64)

package vec

import "github.com/cwbudde/algo-vecmath/cpu"

const (
	enabled   = false
	simdLevel = cpu.SIMDNone
)
