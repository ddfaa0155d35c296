package team

import "sync/atomic"

const (
	// minWorkerCost is the least estimated work (in elements) worth giving
	// to one worker; tasks below it are not split across several workers.
	minWorkerCost = 1 << 14

	// minClaimCost is the least estimated work a sub-team claims at once.
	minClaimCost = 1 << 12
)

// TaskSet distributes an irregular, sequentially numbered stream of jobs
// over the team.
//
// Every worker walks the same job stream and calls Visit(idx, fn) for
// idx = 0, 1, 2, ... in order. The team is split into sub-teams; each
// sub-team claims batches of indices from a shared cursor, guided by the
// remaining work, and runs the jobs it owns with fn receiving the sub-team's
// communicator. Every visited index below the task count is run by exactly
// one sub-team, and never before it is visited.
type TaskSet struct {
	sub      *Comm
	team     *Comm
	next     *atomic.Int64
	ntask    int
	parts    int
	chunkMin int

	lo, hi int
	done   bool
}

// NewTaskSet is a collective call that prepares the distribution of at most
// ntask jobs whose total estimated cost is cost.
func NewTaskSet(c *Comm, ntask, cost int) *TaskSet {
	parts := subTeams(c.NumThreads(), ntask, cost)
	sub := c.Split(parts)
	next := Broadcast(c, func() *atomic.Int64 { return new(atomic.Int64) })

	avg := 1
	if ntask > 0 {
		avg = max(1, cost/ntask)
	}

	return &TaskSet{
		sub:      sub,
		team:     c,
		next:     next,
		ntask:    ntask,
		parts:    parts,
		chunkMin: max(1, minClaimCost/avg),
	}
}

// SubTeams returns the number of sub-teams jobs are spread over.
func (s *TaskSet) SubTeams() int { return s.parts }

// Visit runs fn for job idx if this worker's sub-team owns it.
func (s *TaskSet) Visit(idx int, fn func(sub *Comm)) {
	for !s.done && idx >= s.hi {
		s.claim()
	}
	if idx >= s.lo && idx < s.hi {
		fn(s.sub)
	}
}

// Close waits for every job of the team to finish.
func (s *TaskSet) Close() {
	s.team.Barrier()
}

func (s *TaskSet) claim() {
	r := Broadcast(s.sub, func() [2]int {
		for {
			cur := int(s.next.Load())
			if cur >= s.ntask {
				return [2]int{s.ntask, s.ntask}
			}
			remaining := s.ntask - cur
			chunk := min(remaining, max(s.chunkMin, remaining/(2*s.parts)))
			if s.next.CompareAndSwap(int64(cur), int64(cur+chunk)) {
				return [2]int{cur, cur + chunk}
			}
		}
	})
	s.lo, s.hi = r[0], r[1]
	if s.lo >= s.ntask {
		s.done = true
	}
}

// subTeams picks how many sub-teams share nt workers: one worker each when
// there are at least as many jobs as workers, otherwise enough workers per
// job to use the team, limited by how much work a job has.
func subTeams(nt, ntask, cost int) int {
	if ntask <= 0 || ntask >= nt {
		return nt
	}
	perTask := nt / ntask
	useful := max(1, cost/ntask/minWorkerCost)
	perTask = max(1, min(perTask, useful))
	return nt / perTask
}
