package ops

import (
	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-tensor/internal/indexed"
	"github.com/cwbudde/algo-tensor/internal/kernel"
	"github.com/cwbudde/algo-tensor/internal/team"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Add computes
//
//	B[b,ab] = alpha*conj?(sum over a of A[a,ab]) + beta*conj?(B[b,ab])
//
// idxAA lists the dimensions of A summed over, idxBB the dimensions of B the
// result is replicated along, and idxAAB[i] / idxBAB[i] the pairs of
// dimensions co-iterated. Each operand's lists must name every one of its
// dimensions exactly once. With the blocked implementation idxAA and idxBB
// may not both be non-empty.
//
// Only stored blocks of B are written; blocks of B without any matching
// block of A are scaled by beta. conjA and conjB have no effect on real
// types. With beta == 0 the previous contents of B are never read.
func Add[T tensor.Scalar](e *Engine,
	alpha T, conjA bool, a *tensor.Indexed[T], idxAA, idxAAB []int,
	beta T, conjB bool, b *tensor.Indexed[T], idxBB, idxBAB []int,
	opts ...CallOption,
) error {
	o := e.callOptions(opts)
	if err := validateAdd(o.impl, a, idxAA, idxAAB, b, idxBB, idxBAB); err != nil {
		return err
	}

	cfg := indexed.Config[T]{Kernels: kernel.Lookup[T](e.features), Impl: o.impl}
	return e.run("add", func(c *team.Comm) indexed.Stats {
		return indexed.Add(c, cfg, alpha, conjA, a, idxAA, idxAAB, beta, conjB, b, idxBB, idxBAB)
	})
}

// Set assigns alpha to every element of every stored block of a. idxAA must
// name every dimension of a.
func Set[T tensor.Scalar](e *Engine, alpha T, a *tensor.Indexed[T], idxAA []int) error {
	if err := validateOne(a, idxAA); err != nil {
		return err
	}
	return e.run("set", func(c *team.Comm) indexed.Stats {
		indexed.Set(c, alpha, a)
		return indexed.Stats{Blocks: a.NumBlocks()}
	})
}

// Shift replaces every element x of every stored block of a by
// alpha + beta*conj?(x). idxAA must name every dimension of a.
func Shift[T tensor.Scalar](e *Engine, alpha, beta T, conjA bool, a *tensor.Indexed[T], idxAA []int) error {
	if err := validateOne(a, idxAA); err != nil {
		return err
	}
	return e.run("shift", func(c *team.Comm) indexed.Stats {
		indexed.Shift(c, alpha, beta, conjA, a)
		return indexed.Stats{Blocks: a.NumBlocks()}
	})
}

func validateOne[T tensor.Scalar](a *tensor.Indexed[T], idxAA []int) error {
	if err := a.Validate(); err != nil {
		return errors.Wrap(err, "ops: A")
	}
	if err := checkPartition(a.Dims(), idxAA); err != nil {
		return errors.Wrap(err, "ops: A")
	}
	return nil
}

func validateAdd[T tensor.Scalar](impl Impl,
	a *tensor.Indexed[T], idxAA, idxAAB []int,
	b *tensor.Indexed[T], idxBB, idxBAB []int,
) error {
	if a == b {
		return errors.Wrap(ErrDimension, "ops: A and B must be distinct tensors")
	}
	if err := a.Validate(); err != nil {
		return errors.Wrap(err, "ops: A")
	}
	if err := b.Validate(); err != nil {
		return errors.Wrap(err, "ops: B")
	}
	if err := checkPartition(a.Dims(), idxAA, idxAAB); err != nil {
		return errors.Wrap(err, "ops: A")
	}
	if err := checkPartition(b.Dims(), idxBB, idxBAB); err != nil {
		return errors.Wrap(err, "ops: B")
	}
	if len(idxAAB) != len(idxBAB) {
		return errors.Wrapf(ErrDimension, "ops: %d shared dimensions for A, %d for B", len(idxAAB), len(idxBAB))
	}
	for i := range idxAAB {
		if la, lb := a.Len(idxAAB[i]), b.Len(idxBAB[i]); la != lb {
			return errors.Wrapf(ErrLength, "ops: dimension %d of A has length %d, dimension %d of B has %d",
				idxAAB[i], la, idxBAB[i], lb)
		}
	}
	if impl == ImplBlocked && len(idxAA) > 0 && len(idxBB) > 0 {
		return errors.Wrap(ErrDimension, "ops: blocked add cannot both sum over A and replicate into B")
	}
	return nil
}

// checkPartition verifies that lists together name each of ndim
// dimensions exactly once.
func checkPartition(ndim int, lists ...[]int) error {
	seen := make([]bool, ndim)
	for _, list := range lists {
		for _, d := range list {
			if d < 0 || d >= ndim {
				return errors.Wrapf(ErrDimension, "dimension %d out of range [0,%d)", d, ndim)
			}
			if seen[d] {
				return errors.Wrapf(ErrDimension, "dimension %d listed twice", d)
			}
			seen[d] = true
		}
	}
	for d, ok := range seen {
		if !ok {
			return errors.Wrapf(ErrDimension, "dimension %d not listed", d)
		}
	}
	return nil
}
