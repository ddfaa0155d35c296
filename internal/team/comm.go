package team

import "math"

// group is the shared state of a team or sub-team.
type group struct {
	n    int
	root *root
	bar  *barrier
	slot any
}

func newGroup(n int, r *root) *group {
	return &group{n: n, root: r, bar: newBarrier(n)}
}

// Comm is one worker's handle on its team or sub-team. Collective methods
// (Barrier, Broadcast, Split, NewTaskSet) must be called by every member in
// the same order.
type Comm struct {
	tid int
	g   *group
}

// Single returns a communicator for a team of one, for callers that run the
// engine without a Team.
func Single() *Comm {
	return &Comm{g: newGroup(1, &root{done: make(chan struct{})})}
}

// ThreadNum returns the worker's rank within its group.
func (c *Comm) ThreadNum() int { return c.tid }

// NumThreads returns the size of the group.
func (c *Comm) NumThreads() int { return c.g.n }

// Master reports whether this worker is rank 0 of its group.
func (c *Comm) Master() bool { return c.tid == 0 }

// Barrier blocks until every member of the group has reached it. If the
// invocation was aborted it unwinds the calling worker instead.
func (c *Comm) Barrier() {
	if c.g.n == 1 {
		if c.g.root.aborted() {
			panic(abortSignal{})
		}
		return
	}
	if !c.g.bar.wait(c.g.root.done) {
		panic(abortSignal{})
	}
}

// Broadcast evaluates fn on the master and returns its result on every
// member of the group.
func Broadcast[V any](c *Comm, fn func() V) V {
	if c.g.n == 1 {
		return fn()
	}
	if c.Master() {
		c.g.slot = fn()
	}
	c.Barrier()
	v := c.g.slot.(V)
	c.Barrier()
	return v
}

// Distribute returns this worker's share [lo, hi) of n items. Shares are
// contiguous and differ in size by at most one.
func (c *Comm) Distribute(n int) (lo, hi int) {
	return partition(n, c.g.n, c.tid)
}

// Distribute2D arranges the group as a grid chosen to balance an m x n
// iteration space and returns this worker's block of it.
func (c *Comm) Distribute2D(m, n int) (mlo, mhi, nlo, nhi int) {
	pm, _ := grid(m, n, c.g.n)
	mlo, mhi = partition(m, pm, c.tid%pm)
	nlo, nhi = partition(n, c.g.n/pm, c.tid/pm)
	return mlo, mhi, nlo, nhi
}

// Split divides the group into parts contiguous sub-teams of near-equal size
// and returns this worker's handle on its sub-team. Sub-teams share the
// invocation's abort state.
func (c *Comm) Split(parts int) *Comm {
	parts = max(1, min(parts, c.g.n))
	if parts == 1 {
		return c
	}

	subs := Broadcast(c, func() []*group {
		subs := make([]*group, parts)
		for i := range subs {
			lo, hi := partition(c.g.n, parts, i)
			subs[i] = newGroup(hi-lo, c.g.root)
		}
		return subs
	})

	for i := range subs {
		lo, hi := partition(c.g.n, parts, i)
		if c.tid >= lo && c.tid < hi {
			return &Comm{tid: c.tid - lo, g: subs[i]}
		}
	}
	panic("team: worker outside every sub-team")
}

func partition(n, parts, i int) (lo, hi int) {
	q, r := n/parts, n%parts
	lo = i*q + min(i, r)
	hi = lo + q
	if i < r {
		hi++
	}
	return lo, hi
}

// grid factors nt into pm*pn minimizing the largest per-worker block of an
// m x n space.
func grid(m, n, nt int) (pm, pn int) {
	best := math.MaxInt
	pm, pn = 1, nt
	for d := 1; d <= nt; d++ {
		if nt%d != 0 {
			continue
		}
		cost := ceilDiv(m, d) * ceilDiv(n, nt/d)
		if cost < best {
			best = cost
			pm, pn = d, nt/d
		}
	}
	return pm, pn
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
