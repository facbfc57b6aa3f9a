package anystop

import (
	"math"

	"github.com/montanaflynn/stats"
)

// A strip stores the most recent values of a series, up to
// a fixed capacity.
type strip struct {
	size   int
	values []float64
	start  int
}

func newStrip(size int) *strip {
	if size < 1 {
		size = 1
	}
	return &strip{size: size}
}

func (s *strip) Push(x float64) {
	if len(s.values) < s.size {
		s.values = append(s.values, x)
		return
	}
	s.values[s.start] = x
	s.start = (s.start + 1) % s.size
}

func (s *strip) Full() bool {
	return len(s.values) == s.size
}

func (s *strip) Len() int {
	return len(s.values)
}

// Oldest returns the value which was pushed first among
// the values still stored.
func (s *strip) Oldest() float64 {
	return s.values[s.start]
}

// Newest returns the last value pushed.
func (s *strip) Newest() float64 {
	return s.values[(s.start+len(s.values)-1)%len(s.values)]
}

// Progress computes the training progress of the strip as
// defined by Prechelt, in parts per thousand:
//
//     1000 * (mean / min - 1)
func (s *strip) Progress() float64 {
	mean, err := stats.Mean(s.values)
	if err != nil {
		return 0
	}
	min, err := stats.Min(s.values)
	if err != nil {
		return 0
	}
	if min == 0 {
		if mean == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return 1000 * (mean/min - 1)
}
