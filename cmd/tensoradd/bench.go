package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tensor/internal/tensordata"
	"github.com/cwbudde/algo-tensor/ops"
	"github.com/cwbudde/algo-tensor/tensor"
)

type benchFlags struct {
	strategy string
	typ      string
	dense    int
	indexed  int
	density  float64
	repeat   int
	seed     int64
}

// layout pairs the dimensions of two operands built from lengths d (dense)
// and k (indexed).
type layout struct {
	aDense, aIndexed             []int
	bDense, bIndexed             []int
	idxAA, idxAAB, idxBB, idxBAB []int
}

func layoutFor(strategy string, d, k int) (layout, error) {
	switch strategy {
	case "transpose":
		return layout{
			aDense: []int{d, d}, aIndexed: []int{k, k},
			bDense: []int{d, d}, bIndexed: []int{k, k},
			idxAAB: []int{0, 1, 2, 3}, idxBAB: []int{1, 0, 3, 2},
		}, nil
	case "trace":
		return layout{
			aDense: []int{d, d}, aIndexed: []int{k, k},
			bDense: []int{d}, bIndexed: []int{k},
			idxAA: []int{1, 3}, idxAAB: []int{0, 2}, idxBAB: []int{0, 1},
		}, nil
	case "replicate":
		return layout{
			aDense: []int{d}, aIndexed: []int{k},
			bDense: []int{d, d}, bIndexed: []int{k, k},
			idxAAB: []int{0, 1}, idxBB: []int{1, 3}, idxBAB: []int{0, 2},
		}, nil
	default:
		return layout{}, errors.Newf("unknown strategy %q (transpose, trace, replicate)", strategy)
	}
}

func newBenchCmd(g *globalFlags) *cobra.Command {
	var bf benchFlags
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "time blocked against full add on random tensors",
		Long: `
  Builds random block-sparse operands for the chosen strategy, runs Add with
  the blocked and the full implementation and prints timings and the
  largest difference between the two results.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, g, bf)
		},
	}
	f := cmd.Flags()
	f.StringVar(&bf.strategy, "strategy", "transpose", "operand layout: transpose, trace or replicate")
	f.StringVar(&bf.typ, "type", "float64", "element type: float64 or complex128")
	f.IntVar(&bf.dense, "dense", 8, "length of each dense dimension")
	f.IntVar(&bf.indexed, "indexed", 8, "length of each indexed dimension")
	f.Float64Var(&bf.density, "density", 0.3, "fraction of blocks stored")
	f.IntVar(&bf.repeat, "repeat", 5, "timed repetitions per implementation")
	f.Int64Var(&bf.seed, "seed", 1, "random seed")
	return cmd
}

func runBench(cmd *cobra.Command, g *globalFlags, bf benchFlags) error {
	if bf.repeat < 1 {
		return errors.Newf("repeat must be positive, got %d", bf.repeat)
	}
	l, err := layoutFor(bf.strategy, bf.dense, bf.indexed)
	if err != nil {
		return err
	}
	cfg, err := g.engineConfig()
	if err != nil {
		return err
	}
	logger, err := g.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	e, err := ops.NewEngine(cfg, ops.WithLogger(logger))
	if err != nil {
		return err
	}
	defer e.Close()

	switch bf.typ {
	case "float64":
		return bench[float64](cmd, e, l, bf)
	case "complex128":
		return bench[complex128](cmd, e, l, bf)
	default:
		return errors.Newf("unsupported type %q (float64, complex128)", bf.typ)
	}
}

func bench[T tensor.Scalar](cmd *cobra.Command, e *ops.Engine, l layout, bf benchFlags) error {
	a := tensordata.RandomIndexed[T](bf.seed, l.aDense, l.aIndexed, bf.density)
	b0 := tensordata.RandomIndexed[T](bf.seed+1, l.bDense, l.bIndexed, bf.density)

	var alpha, beta T = 1, 0.5

	impls := []ops.Impl{ops.ImplBlocked, ops.ImplFull}
	results := make([]*tensor.Indexed[T], len(impls))
	times := make([]timing, len(impls))
	for i, impl := range impls {
		for range bf.repeat {
			b := tensordata.Clone(b0)
			start := time.Now()
			err := ops.Add(e, alpha, false, a, l.idxAA, l.idxAAB, beta, false, b, l.idxBB, l.idxBAB, ops.WithImpl(impl))
			if err != nil {
				return errors.Wrapf(err, "%s add", impl)
			}
			times[i].update(time.Since(start))
			results[i] = b
		}
	}

	diff, err := tensordata.MaxAbsDiff(results[0].Data, results[1].Data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Strategy: %s  type: %s  workers: %d  blocks A/B: %d/%d\n\n",
		bf.strategy, bf.typ, e.Workers(), a.NumBlocks(), b0.NumBlocks())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Impl\tBest\tMean\tWorst\tStdDev\tSpeedup\n")
	fmt.Fprintf(tw, "----\t----\t----\t-----\t------\t-------\n")
	full := times[len(times)-1].min
	for i, impl := range impls {
		tm := &times[i]
		fmt.Fprintf(tw, "%s\t%v\t%v\t%v\t%v\t%.2fx\n", impl, tm.min, tm.Mean(), tm.max, tm.StdDev(),
			float64(full)/float64(max(tm.min, 1)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nMax abs difference: %.3g\n", diff)
	return nil
}
