package indexed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-tensor/internal/kernel"
	"github.com/cwbudde/algo-tensor/internal/team"
	"github.com/cwbudde/algo-tensor/internal/tensordata"
	"github.com/cwbudde/algo-tensor/internal/testutil"
	"github.com/cwbudde/algo-tensor/tensor"
)

func config[T tensor.Scalar](impl Impl) Config[T] {
	return Config[T]{Kernels: kernel.Lookup[T](kernel.Features(false)), Impl: impl}
}

// runAdd calls Add on a team of n workers and returns the master's stats.
func runAdd[T tensor.Scalar](t *testing.T, n int, cfg Config[T],
	alpha T, conjA bool, a *tensor.Indexed[T], idxAA, idxAAB []int,
	beta T, conjB bool, b *tensor.Indexed[T], idxBB, idxBAB []int,
) Stats {
	t.Helper()
	tm, err := team.New(n)
	require.NoError(t, err)
	defer tm.Close()

	var st Stats
	err = tm.Run(func(c *team.Comm) {
		s := Add(c, cfg, alpha, conjA, a, idxAA, idxAAB, beta, conjB, b, idxBB, idxBAB)
		if c.Master() {
			st = s
		}
	})
	require.NoError(t, err)
	return st
}

func build[T tensor.Scalar](t *testing.T, denseLen, indexedLen []int, blocks map[string][]T, keys ...[]int) *tensor.Indexed[T] {
	t.Helper()
	b := tensor.NewBuilder[T](denseLen, indexedLen)
	for _, k := range keys {
		require.NoError(t, b.Insert(k, blocks[fmt.Sprint(k)]))
	}
	return b.Build()
}

func blockData[T tensor.Scalar](x *tensor.Indexed[T], index ...int) []T {
	i := x.Find(index...)
	if i < 0 {
		return nil
	}
	n := tensor.Product(x.DenseLen)
	off := x.Blocks[i].Offset
	return x.Data[off : off+n]
}

func TestAddTraceAccumulatesRuns(t *testing.T) {
	// A: dense [2], indexed [key 4, summed 2]; blocks (1,0) (1,1) (2,0).
	a := build(t, []int{2}, []int{4, 2}, map[string][]float64{
		"[1 0]": {1, 2},
		"[1 1]": {10, 20},
		"[2 0]": {100, 200},
	}, []int{1, 0}, []int{1, 1}, []int{2, 0})

	for _, n := range []int{1, 2, 4} {
		// B: dense [2], indexed [key 4]; blocks 1 2 3.
		b := build(t, []int{2}, []int{4}, map[string][]float64{
			"[1]": {1, 1},
			"[2]": {2, 2},
			"[3]": {3, 3},
		}, []int{1}, []int{2}, []int{3})

		st := runAdd(t, n, config[float64](ImplBlocked),
			2, false, a, []int{2}, []int{0, 1},
			0.5, false, b, nil, []int{0, 1})

		assert.Equal(t, StrategyTrace, st.Strategy)
		assert.Equal(t, 2, st.Add)
		assert.Equal(t, 1, st.Scale)
		assert.Equal(t, []float64{0.5 + 2*11, 0.5 + 2*22}, blockData(b, 1))
		assert.Equal(t, []float64{1 + 2*100, 1 + 2*200}, blockData(b, 2))
		assert.Equal(t, []float64{1.5, 1.5}, blockData(b, 3))
	}
}

func TestAddReplicateBroadcasts(t *testing.T) {
	// A: dense [3], indexed [key 4]; blocks 1 2.
	a := build(t, []int{3}, []int{4}, map[string][]complex128{
		"[1]": {1, 2i, 3},
		"[2]": {4i, 5, 6i},
	}, []int{1}, []int{2})

	// B: dense [3], indexed [key 4, replicated 2]; blocks (1,0) (1,1) (2,0)
	// (2,1) (3,0).
	keys := [][]int{{1, 0}, {1, 1}, {2, 0}, {2, 1}, {3, 0}}
	b := build[complex128](t, []int{3}, []int{4, 2}, nil, keys...)
	for i := range b.Data {
		b.Data[i] = 1i
	}

	st := runAdd(t, 3, config[complex128](ImplBlocked),
		1i, false, a, nil, []int{0, 1},
		2, true, b, []int{2}, []int{0, 1})

	assert.Equal(t, StrategyReplicate, st.Strategy)
	assert.Equal(t, 4, st.Add)
	assert.Equal(t, 1, st.Scale)

	// beta*conj(1i) = -2i
	assert.Equal(t, []complex128{1i - 2i, -2 - 2i, 3i - 2i}, blockData(b, 1, 0))
	assert.Equal(t, []complex128{1i - 2i, -2 - 2i, 3i - 2i}, blockData(b, 1, 1))
	assert.Equal(t, []complex128{-4 - 2i, 5i - 2i, -6 - 2i}, blockData(b, 2, 0))
	assert.Equal(t, []complex128{-4 - 2i, 5i - 2i, -6 - 2i}, blockData(b, 2, 1))
	assert.Equal(t, []complex128{-2i, -2i, -2i}, blockData(b, 3, 0))
}

func TestAddBetaZeroIsIdempotent(t *testing.T) {
	a := tensordata.RandomIndexed[float64](1, []int{3, 2}, []int{4, 3}, 0.7)
	b := tensordata.RandomIndexed[float64](2, []int{2, 3}, []int{3, 4}, 0.7)
	cfg := config[float64](ImplBlocked)

	runAdd(t, 2, cfg, 1.5, false, a, nil, []int{0, 1, 2, 3}, 0, false, b, nil, []int{1, 0, 3, 2})
	first := append([]float64(nil), b.Data...)
	runAdd(t, 3, cfg, 1.5, false, a, nil, []int{0, 1, 2, 3}, 0, false, b, nil, []int{1, 0, 3, 2})

	assert.Equal(t, first, b.Data)
}

func TestAddBetaZeroIgnoresGarbage(t *testing.T) {
	a := tensordata.RandomIndexed[float32](3, []int{4}, []int{5}, 0.5)
	b := tensordata.RandomIndexed[float32](4, []int{4}, []int{5}, 0.5)
	clean := tensordata.Clone(b)
	for i := range b.Data {
		b.Data[i] = float32(nan())
		clean.Data[i] = 0
	}

	runAdd(t, 2, config[float32](ImplBlocked), 1, false, a, nil, []int{0, 1}, 0, false, b, nil, []int{0, 1})
	runAdd(t, 2, config[float32](ImplBlocked), 1, false, a, nil, []int{0, 1}, 0, false, clean, nil, []int{0, 1})

	assert.Equal(t, clean.Data, b.Data)
}

// addCase describes operands by their dense and indexed lengths and how
// their dimensions pair up.
type addCase struct {
	name                         string
	aDense, aIndexed             []int
	bDense, bIndexed             []int
	idxAA, idxAAB, idxBB, idxBAB []int
}

var addCases = []addCase{
	{
		name:   "transpose",
		aDense: []int{2, 3}, aIndexed: []int{3, 2},
		bDense: []int{3, 2}, bIndexed: []int{2, 3},
		idxAAB: []int{0, 1, 2, 3}, idxBAB: []int{1, 0, 3, 2},
	},
	{
		name:   "trace",
		aDense: []int{2, 4}, aIndexed: []int{3, 5},
		bDense: []int{2}, bIndexed: []int{3},
		idxAA: []int{1, 3}, idxAAB: []int{0, 2}, idxBAB: []int{0, 1},
	},
	{
		name:   "replicate",
		aDense: []int{2}, aIndexed: []int{3},
		bDense: []int{2, 3}, bIndexed: []int{3, 4},
		idxBB: []int{1, 3}, idxAAB: []int{0, 1}, idxBAB: []int{0, 2},
	},
	{
		name:   "transpose mixed",
		aDense: []int{2, 3}, aIndexed: []int{4},
		bDense: []int{2, 4}, bIndexed: []int{3},
		idxAAB: []int{0, 1, 2}, idxBAB: []int{0, 2, 1},
	},
	{
		name:   "trace mixed",
		aDense: []int{2}, aIndexed: []int{3, 4},
		bDense: []int{3}, bIndexed: []int{2},
		idxAA: []int{2}, idxAAB: []int{0, 1}, idxBAB: []int{1, 0},
	},
	{
		name:   "replicate mixed",
		aDense: []int{2}, aIndexed: []int{3, 2},
		bDense: []int{2, 2}, bIndexed: []int{3, 5},
		idxBB: []int{3}, idxAAB: []int{0, 1, 2}, idxBAB: []int{0, 2, 1},
	},
	{
		name:   "scalar blocks",
		aDense: nil, aIndexed: []int{4, 3},
		bDense: nil, bIndexed: []int{3, 4},
		idxAAB: []int{0, 1}, idxBAB: []int{1, 0},
	},
}

func TestAddMatchesFull(t *testing.T) {
	scalars := []struct {
		alpha, beta  complex128
		conjA, conjB bool
	}{
		{1, 0, false, false},
		{2, 1, false, false},
		{-0.5, 0.25, true, false},
		{1i, 2 - 1i, false, true},
	}

	for ci, tc := range addCases {
		for si, s := range scalars {
			for _, n := range []int{1, 3, 4} {
				t.Run(fmt.Sprintf("%s/%d/workers=%d", tc.name, si, n), func(t *testing.T) {
					seed := int64(100*ci + si)
					a := tensordata.RandomIndexed[complex128](seed, tc.aDense, tc.aIndexed, 0.6)
					b := tensordata.RandomIndexed[complex128](seed+50, tc.bDense, tc.bIndexed, 0.6)
					want := tensordata.Clone(b)

					st := runAdd(t, n, config[complex128](ImplBlocked),
						s.alpha, s.conjA, a, tc.idxAA, tc.idxAAB,
						s.beta, s.conjB, b, tc.idxBB, tc.idxBAB)
					assert.NotEqual(t, StrategyFull, st.Strategy)

					runAdd(t, 1, config[complex128](ImplFull),
						s.alpha, s.conjA, a, tc.idxAA, tc.idxAAB,
						s.beta, s.conjB, want, tc.idxBB, tc.idxBAB)

					testutil.RequireSliceNearlyEqual(t, b.Data, want.Data, 1e-10)
				})
			}
		}
	}
}

func TestAddMatchesFullReal(t *testing.T) {
	for ci, tc := range addCases {
		t.Run(tc.name, func(t *testing.T) {
			a := tensordata.RandomIndexed[float64](int64(ci), tc.aDense, tc.aIndexed, 0.8)
			b := tensordata.RandomIndexed[float64](int64(ci+7), tc.bDense, tc.bIndexed, 0.8)
			want := tensordata.Clone(b)

			runAdd(t, 4, config[float64](ImplBlocked), 1.25, false, a, tc.idxAA, tc.idxAAB, -1, false, b, tc.idxBB, tc.idxBAB)
			runAdd(t, 2, config[float64](ImplFull), 1.25, false, a, tc.idxAA, tc.idxAAB, -1, false, want, tc.idxBB, tc.idxBAB)

			testutil.RequireSliceNearlyEqual(t, b.Data, want.Data, 1e-12)
		})
	}
}

// largeCases have two B blocks of at least 32Ki elements of work each, so
// with 5 or more workers each task runs on a sub-team of several workers.
var largeCases = []addCase{
	{
		name:     "trace",
		aDense:   []int{64, 40, 16},
		aIndexed: []int{2, 3},
		bDense:   []int{64, 40},
		bIndexed: []int{2},
		idxAA:    []int{2, 4},
		idxAAB:   []int{0, 1, 3},
		idxBAB:   []int{0, 1, 2},
	},
	{
		name:     "replicate mixed",
		aDense:   []int{64, 80},
		aIndexed: []int{1, 8},
		bDense:   []int{64, 80, 8},
		bIndexed: []int{1, 2},
		idxAAB:   []int{0, 1, 2, 3},
		idxBB:    []int{4},
		idxBAB:   []int{0, 1, 3, 2},
	},
	{
		name:     "transpose",
		aDense:   []int{128, 260},
		aIndexed: []int{2},
		bDense:   []int{260, 128},
		bIndexed: []int{2},
		idxAAB:   []int{0, 1, 2},
		idxBAB:   []int{1, 0, 2},
	},
}

func TestAddLargeBlocksOnSubTeams(t *testing.T) {
	if testing.Short() {
		t.Skip("large blocks")
	}
	for ci, tc := range largeCases {
		for _, n := range []int{5, 8} {
			t.Run(fmt.Sprintf("%s/workers=%d", tc.name, n), func(t *testing.T) {
				a := tensordata.RandomIndexed[complex128](int64(10+ci), tc.aDense, tc.aIndexed, 1)
				b := tensordata.RandomIndexed[complex128](int64(20+ci), tc.bDense, tc.bIndexed, 1)
				want := tensordata.Clone(b)

				st := runAdd(t, n, config[complex128](ImplBlocked),
					1.5-0.5i, true, a, tc.idxAA, tc.idxAAB,
					0.5+1i, true, b, tc.idxBB, tc.idxBAB)
				require.Equal(t, 2, st.Tasks())

				runAdd(t, 1, config[complex128](ImplFull),
					1.5-0.5i, true, a, tc.idxAA, tc.idxAAB,
					0.5+1i, true, want, tc.idxBB, tc.idxBAB)

				testutil.RequireSliceNearlyEqual(t, b.Data, want.Data, 1e-10)
			})
		}
	}
}

func TestAddStrategySelection(t *testing.T) {
	a := tensordata.RandomIndexed[float64](1, []int{2}, []int{3}, 1)
	b := tensordata.RandomIndexed[float64](2, []int{2}, []int{3}, 1)

	st := runAdd(t, 2, config[float64](ImplFull), 1, false, a, nil, []int{0, 1}, 1, false, b, nil, []int{0, 1})
	assert.Equal(t, StrategyFull, st.Strategy)
	assert.Equal(t, 3, st.Blocks)

	st = runAdd(t, 2, config[float64](ImplBlocked), 1, false, a, nil, []int{0, 1}, 1, false, b, nil, []int{0, 1})
	assert.Equal(t, StrategyTranspose, st.Strategy)
	assert.Equal(t, 3, st.Tasks())
}

func TestGroupClassification(t *testing.T) {
	a := tensordata.RandomIndexed[float64](1, []int{2, 3}, []int{4, 5}, 0.5)
	b := tensordata.RandomIndexed[float64](2, []int{2, 4}, []int{3, 5}, 0.5)

	// A dims: 0 d2, 1 d3, 2 i4, 3 i5. B dims: 0 d2, 1 d4, 2 i3, 3 i5.
	g := newGroup(a, []int{0, 1, 2, 3}, b, []int{0, 2, 1, 3})

	assert.Equal(t, []int{2}, g.denseLen)
	assert.Equal(t, []int{3}, g.denseStride[0])
	assert.Equal(t, []int{4}, g.denseStride[1])
	assert.Equal(t, []int{1}, g.batch[0])
	assert.Equal(t, []int{1}, g.batch[1])
	assert.Equal(t, []mixedPos{{stride: 1, idx: 0}}, g.mixed[0])
	assert.Equal(t, []mixedPos{{stride: 1, idx: 0}}, g.mixed[1])

	offA, offB := localOffsets(&g, entry{index: []int{3, 0}}, entry{index: []int{2, 0}})
	assert.Equal(t, 2, offA)
	assert.Equal(t, 3, offB)
}

func TestGroupIndicesSorted(t *testing.T) {
	x := tensordata.RandomIndexed[float32](5, []int{1}, []int{3, 4, 2}, 0.8)
	es := groupIndices(x, []int{2, 0}, []int{1})
	require.Len(t, es, x.NumBlocks())
	for i := 1; i < len(es); i++ {
		assert.Negative(t, compareEntries(es[i-1], es[i]))
	}
	for _, e := range es {
		blk := x.Blocks[e.block]
		assert.Equal(t, []int{blk.Index[2], blk.Index[0]}, e.ab)
		assert.Equal(t, []int{blk.Index[1]}, e.own)
		assert.Equal(t, blk.Offset, e.offset)
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestImplText(t *testing.T) {
	var impl Impl
	require.NoError(t, impl.UnmarshalText([]byte("full")))
	assert.Equal(t, ImplFull, impl)
	require.NoError(t, impl.UnmarshalText([]byte("blocked")))
	assert.Equal(t, ImplBlocked, impl)
	assert.Error(t, impl.UnmarshalText([]byte("dense")))

	text, err := ImplFull.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "full", string(text))
	_, err = Impl(7).MarshalText()
	assert.Error(t, err)
}
