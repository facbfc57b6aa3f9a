package anyopt

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

const (
	rmspropDefaultDecayRate = 0.9
	rmspropDefaultDamping   = 1e-8
)

// RMSProp divides gradients by a running root mean
// square; see
// http://www.cs.toronto.edu/~tijmen/csc321/slides/lecture_slides_lec6.pdf.
type RMSProp struct {
	// DecayRate of the running average.
	// If it is 0, 0.9 is used.
	DecayRate float64

	// Damping prevents divisions by zero.
	// If it is 0, a default is used.
	Damping float64

	moment anydiff.Grad
}

// Transform transforms the gradient using RMSProp.
// The first call initializes the average to the squared
// gradient.
//
// This is not thread-safe.
func (r *RMSProp) Transform(g anydiff.Grad) anydiff.Grad {
	if r.moment == nil {
		r.moment = copyGrad(g)
		for _, vec := range r.moment {
			anyvec.Pow(vec, vec.Creator().MakeNumeric(2))
		}
	} else {
		r.moment = runningAverage(r.moment, g,
			valueOrDefault(r.DecayRate, rmspropDefaultDecayRate), 2)
	}
	damping := valueOrDefault(r.Damping, rmspropDefaultDamping)
	for v, vec := range g {
		c := vec.Creator()
		div := r.moment[v].Copy()
		div.AddScalar(c.MakeNumeric(damping))
		anyvec.Pow(div, c.MakeNumeric(-0.5))
		vec.Mul(div)
	}
	return g
}

// Reset forgets the running average.
func (r *RMSProp) Reset() {
	r.moment = nil
}
