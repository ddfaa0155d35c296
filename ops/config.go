package ops

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-tensor/internal/indexed"
)

// Impl selects how block-sparse operands are combined.
type Impl = indexed.Impl

const (
	// ImplBlocked works on stored blocks directly.
	ImplBlocked = indexed.ImplBlocked
	// ImplFull expands operands to full dense arrays first. It is slower
	// and uses more memory; it serves as a reference.
	ImplFull = indexed.ImplFull
)

// Config configures an Engine.
//
// A config file looks like:
//
//	workers = 8
//	impl = "blocked"
//	force_generic = false
type Config struct {
	// Workers is the team size. <= 0 means GOMAXPROCS.
	Workers int `toml:"workers"`
	// Impl is the default implementation for Add.
	Impl Impl `toml:"impl"`
	// ForceGeneric disables SIMD-backed micro-kernels.
	ForceGeneric bool `toml:"force_generic"`
}

// LoadConfig reads a TOML config file. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "ops: load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Newf("ops: unknown config keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}
