// Package anyopt provides iterative optimizers for
// anystop objectives.
package anyopt

import (
	"sort"

	"github.com/unixpickle/anydiff"
)

// A Transformer transforms gradients before a gradient
// descent step.
// Pre-conditioning and momentum are implemented as
// Transformers.
//
// After its first call, a Transformer expects to see
// gradients for the same variables.
// It may modify its input and return it.
// The output is only valid until the next call.
type Transformer interface {
	Transform(g anydiff.Grad) anydiff.Grad

	// Reset discards all accumulated statistics.
	Reset()
}

// A Rater determines the learning rate for an iteration.
// Iterations are numbered from 0.
type Rater interface {
	Rate(iteration int) float64
}

// A ConstRater is a Rater which always returns the same
// learning rate.
type ConstRater float64

// Rate returns float64(c).
func (c ConstRater) Rate(iteration int) float64 {
	return float64(c)
}

// A StepRater is a piecewise constant learning rate.
// The key is the first iteration at which the value
// applies.
// Before the smallest key, the value of the smallest key
// is used.
type StepRater map[int]float64

// Rate returns the rate for the last step that starts at
// or before iteration.
func (s StepRater) Rate(iteration int) float64 {
	keys := make([]int, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return 0
	}
	sort.Ints(keys)
	res := s[keys[0]]
	for _, k := range keys {
		if k > iteration {
			break
		}
		res = s[k]
	}
	return res
}
