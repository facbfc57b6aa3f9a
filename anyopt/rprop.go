package anyopt

import (
	"math"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anystop"
)

const (
	rpropDefaultIncrease = 1.2
	rpropDefaultDecrease = 0.5
	rpropDefaultInitial  = 0.01
	rpropDefaultMax      = 50
	rpropDefaultMin      = 1e-6
)

// An RpropVariant selects how Rprop reacts when a partial
// derivative changes sign.
type RpropVariant int

const (
	// IRpropPlus reverts the previous step only if the
	// objective got worse (Igel and Huesken, 2000).
	IRpropPlus RpropVariant = iota

	// IRpropMinus skips the update of a weight whose
	// derivative changed sign.
	IRpropMinus

	// RpropPlus always reverts the previous step of a
	// weight whose derivative changed sign (Riedmiller and
	// Braun, 1993).
	RpropPlus

	// RpropMinus never reverts steps.
	RpropMinus
)

func (r RpropVariant) String() string {
	switch r {
	case IRpropPlus:
		return "iRprop+"
	case IRpropMinus:
		return "iRprop-"
	case RpropPlus:
		return "Rprop+"
	case RpropMinus:
		return "Rprop-"
	default:
		return "unknown"
	}
}

// Rprop implements resilient backpropagation.
//
// Every parameter has its own step size, which only
// depends on the signs of successive partial derivatives:
// it grows while the sign stays the same and shrinks when
// the sign flips.
//
// Zero-valued fields are replaced by standard defaults.
type Rprop struct {
	Variant RpropVariant

	// IncreaseFactor and DecreaseFactor scale the step
	// sizes; defaults are 1.2 and 0.5.
	IncreaseFactor float64
	DecreaseFactor float64

	// InitialDelta is the step size of the first
	// iteration; the default is 0.01.
	InitialDelta float64

	// MaxDelta and MinDelta bound the step sizes; defaults
	// are 50 and 1e-6.
	MaxDelta float64
	MinDelta float64

	params    []*anydiff.Var
	deltas    [][]float64
	lastGrad  [][]float64
	lastStep  [][]float64
	lastValue float64
}

// Init resets the step sizes and derivative history for
// the parameters of o.
func (r *Rprop) Init(o anystop.Objective) {
	r.params = o.Parameters()
	r.deltas = make([][]float64, len(r.params))
	r.lastGrad = make([][]float64, len(r.params))
	r.lastStep = make([][]float64, len(r.params))
	initial := valueOrDefault(r.InitialDelta, rpropDefaultInitial)
	for i, p := range r.params {
		n := p.Vector.Len()
		r.deltas[i] = make([]float64, n)
		for j := range r.deltas[i] {
			r.deltas[i][j] = initial
		}
		r.lastGrad[i] = make([]float64, n)
		r.lastStep[i] = make([]float64, n)
	}
	r.lastValue = math.Inf(1)
}

// Step computes the gradient at the current point and
// updates every parameter.
// It returns the objective value at the point where the
// gradient was computed.
//
// If Init has not been called, Step calls it.
func (r *Rprop) Step(o anystop.Objective) float64 {
	if r.params == nil {
		r.Init(o)
	}
	grad, value := o.Gradient()
	worse := value > r.lastValue

	inc := valueOrDefault(r.IncreaseFactor, rpropDefaultIncrease)
	dec := valueOrDefault(r.DecreaseFactor, rpropDefaultDecrease)
	maxDelta := valueOrDefault(r.MaxDelta, rpropDefaultMax)
	minDelta := valueOrDefault(r.MinDelta, rpropDefaultMin)

	for i, p := range r.params {
		g := vecFloats(grad[p])
		w := append([]float64{}, vecFloats(p.Vector)...)
		deltas, lastGrad, lastStep := r.deltas[i], r.lastGrad[i], r.lastStep[i]
		for j, partial := range g {
			prod := lastGrad[j] * partial
			if prod < 0 {
				deltas[j] = math.Max(deltas[j]*dec, minDelta)
				switch r.Variant {
				case RpropPlus:
					w[j] -= lastStep[j]
					lastStep[j] = 0
					lastGrad[j] = 0
				case IRpropPlus:
					if worse {
						w[j] -= lastStep[j]
					}
					lastStep[j] = 0
					lastGrad[j] = 0
				case IRpropMinus:
					lastStep[j] = 0
					lastGrad[j] = 0
				default:
					lastStep[j] = -sign(partial) * deltas[j]
					w[j] += lastStep[j]
					lastGrad[j] = partial
				}
				continue
			}
			if prod > 0 {
				deltas[j] = math.Min(deltas[j]*inc, maxDelta)
			}
			lastStep[j] = -sign(partial) * deltas[j]
			w[j] += lastStep[j]
			lastGrad[j] = partial
		}
		setFloats(p.Vector, w)
	}

	r.lastValue = value
	return value
}

func valueOrDefault(value, def float64) float64 {
	if value == 0 {
		return def
	}
	return value
}
