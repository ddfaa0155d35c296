// Package ops is the public entry point for element-wise operations on
// block-sparse tensors.
//
// An Engine owns a persistent worker team. Operations are generic over the
// element type and run on the whole team:
//
//	e, err := ops.NewEngine(ops.Config{Workers: 4})
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	// B[i,j] = 2*A[j,i] + B[i,j]
//	err = ops.Add(e, 2.0, false, a, nil, []int{0, 1}, 1.0, false, b, nil, []int{1, 0})
package ops

import (
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-tensor/internal/indexed"
	"github.com/cwbudde/algo-tensor/internal/kernel"
	"github.com/cwbudde/algo-tensor/internal/metrics"
	"github.com/cwbudde/algo-tensor/internal/team"
)

// Engine runs operations on a fixed worker team. Operations on one Engine
// are serialized; use several engines for independent concurrent work.
type Engine struct {
	cfg      Config
	team     *team.Team
	logger   *zap.Logger
	metrics  *metrics.Metrics
	features cpu.Features
	closed   atomic.Bool
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithRegisterer registers the engine's metrics on r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *engineOptions) { o.registerer = r }
}

// NewEngine starts an engine.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	o := engineOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if cfg.Impl != ImplBlocked && cfg.Impl != ImplFull {
		return nil, errors.Newf("ops: invalid impl %d", int(cfg.Impl))
	}

	m := metrics.New()
	if o.registerer != nil {
		if err := m.Register(o.registerer); err != nil {
			return nil, errors.Wrap(err, "ops: register metrics")
		}
	}

	t, err := team.New(cfg.Workers, team.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		team:     t,
		logger:   o.logger,
		metrics:  m,
		features: kernel.Features(cfg.ForceGeneric),
	}
	e.logger.Debug("engine started",
		zap.Int("workers", t.Size()),
		zap.Stringer("impl", cfg.Impl),
		zap.String("arch", e.features.Architecture),
		zap.Bool("force_generic", cfg.ForceGeneric))
	return e, nil
}

// Workers returns the team size.
func (e *Engine) Workers() int { return e.team.Size() }

// Close stops the worker team. Calling Close multiple times is safe.
func (e *Engine) Close() {
	if e.closed.CompareAndSwap(false, true) {
		e.team.Close()
	}
}

// CallOption adjusts a single operation.
type CallOption func(*callOptions)

type callOptions struct {
	impl Impl
}

// WithImpl overrides the engine's default implementation for one call.
func WithImpl(impl Impl) CallOption {
	return func(o *callOptions) { o.impl = impl }
}

func (e *Engine) callOptions(opts []CallOption) callOptions {
	o := callOptions{impl: e.cfg.Impl}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// run executes fn on the team and records the outcome.
func (e *Engine) run(op string, fn func(c *team.Comm) indexed.Stats) error {
	if e.closed.Load() {
		return ErrClosed
	}

	start := time.Now()
	var st indexed.Stats
	err := e.team.Run(func(c *team.Comm) {
		s := fn(c)
		if c.Master() {
			st = s
		}
	})
	if err != nil {
		if errors.Is(err, team.ErrClosed) {
			return ErrClosed
		}
		return errors.Wrapf(err, "ops: %s", op)
	}
	elapsed := time.Since(start)

	fields := []zap.Field{zap.Int("blocks", st.Blocks), zap.Duration("elapsed", elapsed)}
	if op == "add" {
		fields = append(fields, zap.Stringer("strategy", st.Strategy), zap.Int("tasks", st.Tasks()))
		e.metrics.Observe(st.Strategy.String(), st.Zero, st.Scale, st.Add, elapsed)
	}
	e.logger.Debug(op, fields...)
	return nil
}
