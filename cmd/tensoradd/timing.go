package main

import (
	"math"
	"time"
)

// timing accumulates run durations with a Welford update.
type timing struct {
	n    int
	mean float64
	m2   float64
	min  time.Duration
	max  time.Duration
}

func (s *timing) update(d time.Duration) {
	s.n++
	x := d.Seconds()
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)

	if s.n == 1 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

func (s *timing) Mean() time.Duration {
	return seconds(s.mean)
}

// StdDev returns the sample standard deviation, or 0 for fewer than two
// runs.
func (s *timing) StdDev() time.Duration {
	if s.n < 2 {
		return 0
	}
	return seconds(math.Sqrt(s.m2 / float64(s.n-1)))
}

func seconds(x float64) time.Duration {
	return time.Duration(x * float64(time.Second))
}
