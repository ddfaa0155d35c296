// Package team runs one invocation of the engine on a fixed-size group of
// cooperating workers.
//
// A Team owns a persistent goroutine pool that is reused across invocations.
// Team.Run hands every worker a Comm, a handle that supports barriers,
// master election, broadcast, static 1-D/2-D work distribution, splitting
// into sub-teams and, through TaskSet, dynamic distribution of irregular
// jobs.
//
// Usage:
//
//	t, err := team.New(runtime.GOMAXPROCS(0))
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	err = t.Run(func(c *team.Comm) {
//	    lo, hi := c.Distribute(n)
//	    process(lo, hi)
//	    c.Barrier()
//	})
package team

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("team: closed")

// Team is a fixed-size set of workers. Worker 0 is the goroutine calling
// Run; the others live in a persistent pool. Runs on one Team are
// serialized.
type Team struct {
	n      int
	pool   *ants.Pool
	logger *zap.Logger

	mu     sync.Mutex
	closed atomic.Bool
}

// Option configures a Team.
type Option func(*Team)

// WithLogger sets the logger used to report worker failures.
func WithLogger(l *zap.Logger) Option {
	return func(t *Team) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a team of n workers. If n <= 0, uses GOMAXPROCS.
func New(n int, opts ...Option) (*Team, error) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	t := &Team{n: n, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}

	if n > 1 {
		pool, err := ants.NewPool(n - 1)
		if err != nil {
			return nil, errors.Wrap(err, "team: create worker pool")
		}
		t.pool = pool
	}

	return t, nil
}

// Size returns the number of workers.
func (t *Team) Size() int { return t.n }

// Close releases the worker pool. Calling Close multiple times is safe.
func (t *Team) Close() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pool != nil {
		t.pool.Release()
	}
}

// Run executes fn on every worker and blocks until all of them return.
//
// A panic in any worker aborts the invocation: barriers the other workers
// are blocked in (or reach later) release them by unwinding, and Run
// returns the collected failures.
func (t *Team) Run(fn func(c *Comm)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed.Load() {
		return ErrClosed
	}

	r := &root{done: make(chan struct{})}
	g := newGroup(t.n, r)
	errs := make([]error, t.n)

	var wg sync.WaitGroup
	wg.Add(t.n - 1)
	for tid := 1; tid < t.n; tid++ {
		err := t.pool.Submit(func() {
			defer wg.Done()
			errs[tid] = t.work(&Comm{tid: tid, g: g}, fn)
		})
		if err != nil {
			errs[tid] = errors.Wrapf(err, "team: start worker %d", tid)
			r.abort()
			wg.Done()
		}
	}

	errs[0] = t.work(&Comm{tid: 0, g: g}, fn)
	wg.Wait()

	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// work runs fn for one worker and converts a panic into an error.
func (t *Team) work(c *Comm, fn func(c *Comm)) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(abortSignal); ok {
			return
		}
		if e, ok := r.(error); ok {
			err = errors.Wrapf(e, "team: worker %d", c.tid)
		} else {
			err = errors.Newf("team: worker %d: %s", c.tid, fmt.Sprint(r))
		}
		t.logger.Error("worker failed, aborting invocation",
			zap.Int("worker", c.tid),
			zap.Error(err))
		c.g.root.abort()
	}()

	fn(c)
	return nil
}

// root is the state shared by every group of one invocation.
type root struct {
	once sync.Once
	done chan struct{}
}

func (r *root) abort() {
	r.once.Do(func() { close(r.done) })
}

func (r *root) aborted() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// abortSignal unwinds a worker whose invocation was aborted elsewhere.
type abortSignal struct{}

// barrier is a reusable barrier for a fixed number of participants that can
// be abandoned when the invocation aborts.
type barrier struct {
	mu      sync.Mutex
	n       int
	arrived int
	release chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{n: n, release: make(chan struct{})}
}

// wait blocks until all participants arrive. It returns false if abort is
// closed first.
func (b *barrier) wait(abort <-chan struct{}) bool {
	b.mu.Lock()
	ch := b.release
	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		b.release = make(chan struct{})
		b.mu.Unlock()
		close(ch)
		return true
	}
	b.mu.Unlock()

	select {
	case <-ch:
		return true
	case <-abort:
		return false
	}
}
