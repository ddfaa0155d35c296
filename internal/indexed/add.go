// Package indexed combines block-sparse tensors block by block.
//
// Add merges the blocks of A and B by the values they take on the shared
// indexed dimensions and hands the resulting per-block jobs to a dynamic
// task set; each job runs the dense engine on the matched blocks with the
// sub-team that claimed it. All workers of the team call every function
// here with identical arguments and walk the merge redundantly.
package indexed

import (
	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-tensor/internal/dense"
	"github.com/cwbudde/algo-tensor/internal/kernel/registry"
	"github.com/cwbudde/algo-tensor/internal/team"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Impl selects how Add treats block-sparse operands.
type Impl int

const (
	// ImplBlocked works on the blocks directly.
	ImplBlocked Impl = iota
	// ImplFull expands both operands to full dense arrays, adds those and
	// writes the stored blocks of B back.
	ImplFull
)

func (i Impl) String() string {
	switch i {
	case ImplBlocked:
		return "blocked"
	case ImplFull:
		return "full"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (i Impl) MarshalText() ([]byte, error) {
	if i != ImplBlocked && i != ImplFull {
		return nil, errors.Newf("indexed: invalid impl %d", int(i))
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Impl) UnmarshalText(text []byte) error {
	switch string(text) {
	case "blocked", "":
		*i = ImplBlocked
	case "full":
		*i = ImplFull
	default:
		return errors.Newf("indexed: unknown impl %q", text)
	}
	return nil
}

// Strategy is the algorithm Add picked.
type Strategy int

const (
	StrategyFull Strategy = iota
	StrategyTrace
	StrategyReplicate
	StrategyTranspose
)

func (s Strategy) String() string {
	switch s {
	case StrategyFull:
		return "full"
	case StrategyTrace:
		return "trace"
	case StrategyReplicate:
		return "replicate"
	case StrategyTranspose:
		return "transpose"
	default:
		return "unknown"
	}
}

// Config carries the collaborators of one invocation.
type Config[T tensor.Scalar] struct {
	Kernels registry.Kernels[T]
	Impl    Impl
}

// Stats summarizes one invocation. Every worker returns the same value.
type Stats struct {
	Strategy Strategy
	Blocks   int
	Zero     int
	Scale    int
	Add      int
}

// Tasks returns the total number of scheduled tasks.
func (s Stats) Tasks() int { return s.Zero + s.Scale + s.Add }

// Add computes
//
//	B[b,ab] = alpha*conj?(sum over a of A[a,ab]) + beta*conj?(B[b,ab])
//
// where idxAA lists the dimensions of A that are summed, idxBB the
// dimensions of B that are replicated, and idxAAB / idxBAB the dimensions
// co-iterated pairwise. Each operand's lists must cover its dimensions
// exactly once and co-iterated lengths must agree. On the blocked path at
// most one of idxAA and idxBB may be non-empty.
//
// Blocks of B without a matching block of A are scaled by beta. Blocks of A
// with no stored counterpart in B are ignored.
func Add[T tensor.Scalar](c *team.Comm, cfg Config[T],
	alpha T, conjA bool, a *tensor.Indexed[T], idxAA, idxAAB []int,
	beta T, conjB bool, b *tensor.Indexed[T], idxBB, idxBAB []int,
) Stats {
	switch {
	case cfg.Impl == ImplFull:
		addFull(c, cfg, alpha, conjA, a, idxAA, idxAAB, beta, conjB, b, idxBB, idxBAB)
		return Stats{Strategy: StrategyFull, Blocks: b.NumBlocks()}
	case len(idxAA) > 0:
		return addBlocks(c, cfg, StrategyTrace, alpha, conjA, a, idxAA, idxAAB, beta, conjB, b, nil, idxBAB)
	case len(idxBB) > 0:
		return addBlocks(c, cfg, StrategyReplicate, alpha, conjA, a, nil, idxAAB, beta, conjB, b, idxBB, idxBAB)
	default:
		return addBlocks(c, cfg, StrategyTranspose, alpha, conjA, a, nil, idxAAB, beta, conjB, b, nil, idxBAB)
	}
}

// addFull materializes both operands on the master, runs the dense engine
// over the full arrays with the whole team and scatters B back.
func addFull[T tensor.Scalar](c *team.Comm, cfg Config[T],
	alpha T, conjA bool, a *tensor.Indexed[T], idxAA, idxAAB []int,
	beta T, conjB bool, b *tensor.Indexed[T], idxBB, idxBAB []int,
) {
	full := team.Broadcast(c, func() [2]tensor.Dense[T] {
		return [2]tensor.Dense[T]{tensor.BlockToFull(a), tensor.BlockToFull(b)}
	})
	fa, fb := full[0], full[1]

	sh := dense.Shape{
		LenA:  pick(fa.Len, idxAA),
		LenB:  pick(fb.Len, idxBB),
		LenAB: pick(fa.Len, idxAAB),
	}
	dense.Add(c, cfg.Kernels, sh,
		alpha, conjA, dense.Operand[T]{
			Data:     fa.Data,
			Off:      fa.Offset,
			Stride:   pick(fa.Stride, idxAA),
			StrideAB: pick(fa.Stride, idxAAB),
		},
		beta, conjB, dense.Operand[T]{
			Data:     fb.Data,
			Off:      fb.Offset,
			Stride:   pick(fb.Stride, idxBB),
			StrideAB: pick(fb.Stride, idxBAB),
		})

	if c.Master() {
		tensor.FullToBlock(fb, b)
	}
	c.Barrier()
}

// blockAdd holds what every task of one blocked invocation shares.
type blockAdd[T tensor.Scalar] struct {
	k      registry.Kernels[T]
	g      group
	shape  dense.Shape
	ownA   group1
	ownB   group1
	alpha  T
	conjA  bool
	a, b   *tensor.Indexed[T]
	ea, eb []entry
}

func newBlockAdd[T tensor.Scalar](cfg Config[T],
	alpha T, conjA bool, a *tensor.Indexed[T], idxAA, idxAAB []int,
	b *tensor.Indexed[T], idxBB, idxBAB []int,
) *blockAdd[T] {
	g := newGroup(a, idxAAB, b, idxBAB)
	ownA := newGroup1(a, idxAA)
	ownB := newGroup1(b, idxBB)

	return &blockAdd[T]{
		k:     cfg.Kernels,
		g:     g,
		shape: dense.Shape{LenA: ownA.denseLen, LenB: ownB.denseLen, LenAB: g.denseLen},
		ownA:  ownA,
		ownB:  ownB,
		alpha: alpha,
		conjA: conjA,
		a:     a,
		b:     b,
		ea:    groupIndices(a, g.batch[0], ownA.batch),
		eb:    groupIndices(b, g.batch[1], ownB.batch),
	}
}

// addBlocks runs the trace, replicate or transpose strategy. They differ
// only in which operand has own dimensions, and so in which side of a
// matched key can hold more than one entry.
func addBlocks[T tensor.Scalar](c *team.Comm, cfg Config[T], strategy Strategy,
	alpha T, conjA bool, a *tensor.Indexed[T], idxAA, idxAAB []int,
	beta T, conjB bool, b *tensor.Indexed[T], idxBB, idxBAB []int,
) Stats {
	op := newBlockAdd(cfg, alpha, conjA, a, idxAA, idxAAB, b, idxBB, idxBAB)
	tasks := plan(op.ea, op.eb, beta, conjB, len(op.g.mixed[1]) > 0)

	cost := len(op.eb) * tensor.Product(b.DenseLen) * tensor.Product(op.ownA.denseLen)
	ts := team.NewTaskSet(c, len(tasks), cost)
	for i, tk := range tasks {
		ts.Visit(i, func(sub *team.Comm) {
			op.run(sub, tk)
		})
	}
	ts.Close()

	st := Stats{Strategy: strategy, Blocks: len(op.eb)}
	for _, tk := range tasks {
		switch tk.kind {
		case taskZero:
			st.Zero++
		case taskScale:
			st.Scale++
		case taskAdd:
			st.Add++
		}
	}
	return st
}

func (op *blockAdd[T]) run(c *team.Comm, tk task[T]) {
	eb := op.eb[tk.b]
	b := op.b

	switch tk.kind {
	case taskZero:
		dense.Set(c, b.DenseLen, 0, b.Data, eb.offset, b.DenseStride)
		return
	case taskScale:
		dense.Scale(c, b.DenseLen, tk.beta, tk.conjB, b.Data, eb.offset, b.DenseStride)
		return
	}

	beta, conjB := tk.beta, tk.conjB
	if tk.prescale {
		switch {
		case beta == 0:
			dense.Set(c, b.DenseLen, 0, b.Data, eb.offset, b.DenseStride)
		case tensor.NeedsUpdate(beta, conjB):
			dense.Scale(c, b.DenseLen, beta, conjB, b.Data, eb.offset, b.DenseStride)
		}
		beta, conjB = 1, false
	}

	for _, ea := range op.ea[tk.aLo:tk.aHi] {
		offA, offB := localOffsets(&op.g, ea, eb)
		dense.Add(c, op.k, op.shape,
			op.alpha, op.conjA, dense.Operand[T]{
				Data:     op.a.Data,
				Off:      ea.offset + offA,
				Stride:   op.ownA.denseStride,
				StrideAB: op.g.denseStride[0],
			},
			beta, conjB, dense.Operand[T]{
				Data:     b.Data,
				Off:      eb.offset + offB,
				Stride:   op.ownB.denseStride,
				StrideAB: op.g.denseStride[1],
			})
		beta, conjB = 1, false
	}
}
