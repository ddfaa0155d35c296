package ops

import (
	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-tensor/tensor"
)

var (
	// ErrDimension marks dimension lists that do not partition an
	// operand's dimensions, or pair them inconsistently.
	ErrDimension = errors.New("ops: invalid dimension assignment")
	// ErrLength marks co-iterated dimensions whose lengths differ, and
	// vectors too short for their length and increment.
	ErrLength = errors.New("ops: length mismatch")
	// ErrUnsorted marks block-sparse operands whose blocks are not unique
	// and sorted.
	ErrUnsorted = tensor.ErrUnsorted
	// ErrClosed is returned by operations on a closed Engine.
	ErrClosed = errors.New("ops: engine closed")
)
