package anyopt

import (
	"math"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

const (
	adamDefaultDecayRate1 = 0.9
	adamDefaultDecayRate2 = 0.999
	adamDefaultDamping    = 1e-8
)

// Adam scales gradients by running estimates of their
// first and second moments; see
// https://arxiv.org/pdf/1412.6980.pdf.
type Adam struct {
	// Decay rates for the first and second moments.
	// Zero values select the defaults from the paper.
	DecayRate1, DecayRate2 float64

	// Damping prevents divisions by zero.
	// If it is 0, a default is used.
	Damping float64

	firstMoment  anydiff.Grad
	secondMoment anydiff.Grad
	iteration    float64
}

// Transform replaces the gradient with the bias-corrected
// ratio of its moment estimates.
//
// This is not thread-safe.
func (a *Adam) Transform(g anydiff.Grad) anydiff.Grad {
	rate1 := valueOrDefault(a.DecayRate1, adamDefaultDecayRate1)
	rate2 := valueOrDefault(a.DecayRate2, adamDefaultDecayRate2)
	a.firstMoment = runningAverage(a.firstMoment, g, rate1, 1)
	a.secondMoment = runningAverage(a.secondMoment, g, rate2, 2)

	a.iteration++
	correction := math.Sqrt(1-math.Pow(rate2, a.iteration)) /
		(1 - math.Pow(rate1, a.iteration))
	damping := valueOrDefault(a.Damping, adamDefaultDamping)
	for v, vec := range g {
		c := vec.Creator()
		vec.Set(a.firstMoment[v])
		vec.Scale(c.MakeNumeric(correction))

		divisor := a.secondMoment[v].Copy()
		anyvec.Pow(divisor, c.MakeNumeric(0.5))
		divisor.AddScalar(c.MakeNumeric(damping))
		vec.Div(divisor)
	}
	return g
}

// Reset forgets the moment estimates.
func (a *Adam) Reset() {
	a.firstMoment = nil
	a.secondMoment = nil
	a.iteration = 0
}

// runningAverage updates avg with the element-wise power
// of g, creating avg if it is nil.
func runningAverage(avg, g anydiff.Grad, decay float64, power float64) anydiff.Grad {
	if avg == nil {
		avg = anydiff.Grad{}
		for v, vec := range g {
			avg[v] = vec.Creator().MakeVector(vec.Len())
		}
	}
	for v, vec := range g {
		c := vec.Creator()
		term := vec.Copy()
		if power != 1 {
			anyvec.Pow(term, c.MakeNumeric(power))
		}
		term.Scale(c.MakeNumeric(1 - decay))
		avg[v].Scale(c.MakeNumeric(decay))
		avg[v].Add(term)
	}
	return avg
}
