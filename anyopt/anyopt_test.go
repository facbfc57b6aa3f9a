package anyopt

import (
	"math"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anystop"
	"github.com/unixpickle/anyvec/anyvec64"
)

// quadObjective is 3x^2 + 3xy - 2x + y^2.
// The global minimum is at (x = 4/3, y = -2).
type quadObjective struct {
	X *anydiff.Var
	Y *anydiff.Var

	Evaluations int
}

func newQuadObjective() *quadObjective {
	return &quadObjective{
		X: anydiff.NewVar(anyvec64.MakeVector(1)),
		Y: anydiff.NewVar(anyvec64.MakeVector(1)),
	}
}

func (q *quadObjective) Parameters() []*anydiff.Var {
	return []*anydiff.Var{q.X, q.Y}
}

func (q *quadObjective) res() anydiff.Res {
	mk := q.X.Vector.Creator().MakeNumeric
	return anydiff.Add(
		anydiff.Add(
			anydiff.Scale(anydiff.Mul(q.X, q.X), mk(3)),
			anydiff.Scale(anydiff.Mul(q.X, q.Y), mk(3)),
		),
		anydiff.Add(
			anydiff.Scale(q.X, mk(-2)),
			anydiff.Mul(q.Y, q.Y),
		),
	)
}

func (q *quadObjective) Value() float64 {
	q.Evaluations++
	return q.res().Output().Data().([]float64)[0]
}

func (q *quadObjective) Gradient() (anydiff.Grad, float64) {
	q.Evaluations++
	res := q.res()
	grad := anydiff.Grad{
		q.X: anyvec64.MakeVector(1),
		q.Y: anyvec64.MakeVector(1),
	}
	res.Propagate(anyvec64.MakeVectorData([]float64{1}), grad)
	return grad, res.Output().Data().([]float64)[0]
}

func (q *quadObjective) current() (x, y float64) {
	return q.X.Vector.Data().([]float64)[0], q.Y.Vector.Data().([]float64)[0]
}

func (q *quadObjective) errorMargin() float64 {
	x, y := q.current()
	return math.Max(math.Abs(x-4.0/3), math.Abs(y+2))
}

func runOptimizer(opt anystop.Optimizer, obj anystop.Objective, steps int) float64 {
	opt.Init(obj)
	var last float64
	for i := 0; i < steps; i++ {
		last = opt.Step(obj)
	}
	return last
}

func TestRpropVariants(t *testing.T) {
	for _, variant := range []RpropVariant{IRpropPlus, IRpropMinus, RpropPlus, RpropMinus} {
		t.Run(variant.String(), func(t *testing.T) {
			obj := newQuadObjective()
			value := runOptimizer(&Rprop{Variant: variant}, obj, 1000)
			if obj.errorMargin() > 1e-3 {
				x, y := obj.current()
				t.Errorf("bad solution: %f, %f", x, y)
			}
			if math.Abs(value+4.0/3) > 1e-3 {
				t.Errorf("bad value: %f", value)
			}
		})
	}
}

func TestRpropFirstStep(t *testing.T) {
	obj := newQuadObjective()
	opt := &Rprop{InitialDelta: 0.1}
	value := opt.Step(obj)
	if value != 0 {
		t.Errorf("expected value 0 at the origin but got %f", value)
	}
	// The gradient at the origin is (-2, 0), so only x
	// moves, by exactly the initial step size.
	x, y := obj.current()
	if math.Abs(x-0.1) > 1e-12 || y != 0 {
		t.Errorf("unexpected point: %f, %f", x, y)
	}
}

func TestRpropInitResets(t *testing.T) {
	obj := newQuadObjective()
	opt := &Rprop{}
	runOptimizer(opt, obj, 50)

	obj.X.Vector.SetData(anyvec64.DefaultCreator{}.MakeNumericList([]float64{0}))
	obj.Y.Vector.SetData(anyvec64.DefaultCreator{}.MakeNumericList([]float64{0}))
	opt.Init(obj)
	opt.Step(obj)
	x, _ := obj.current()
	if math.Abs(x-rpropDefaultInitial) > 1e-12 {
		t.Errorf("expected a step of %f after Init but got %f", rpropDefaultInitial, x)
	}
}

func TestGradientDescent(t *testing.T) {
	obj := newQuadObjective()
	runOptimizer(&GradientDescent{Rater: ConstRater(0.1)}, obj, 1000)
	if obj.errorMargin() > 1e-4 {
		x, y := obj.current()
		t.Errorf("bad solution: %f, %f", x, y)
	}
}

func TestTransformers(t *testing.T) {
	cases := []struct {
		name  string
		gd    *GradientDescent
		steps int
		tol   float64
	}{
		{"Momentum", &GradientDescent{Transformer: &Momentum{Momentum: 0.9},
			Rater: ConstRater(0.01)}, 3000, 1e-3},
		{"Adam", &GradientDescent{Transformer: &Adam{},
			Rater: ConstRater(0.005)}, 10000, 5e-2},
		{"RMSProp", &GradientDescent{Transformer: &RMSProp{},
			Rater: ConstRater(0.001)}, 10000, 2e-2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			obj := newQuadObjective()
			runOptimizer(c.gd, obj, c.steps)
			if obj.errorMargin() > c.tol {
				x, y := obj.current()
				t.Errorf("bad solution: %f, %f", x, y)
			}
		})
	}
}

func TestStepRater(t *testing.T) {
	r := StepRater{10: 0.1, 0: 1, 100: 0.01}
	expected := map[int]float64{0: 1, 9: 1, 10: 0.1, 99: 0.1, 100: 0.01, 1000: 0.01}
	for iter, rate := range expected {
		if actual := r.Rate(iter); actual != rate {
			t.Errorf("iteration %d: expected %f but got %f", iter, rate, actual)
		}
	}
	if (StepRater{}).Rate(3) != 0 {
		t.Error("empty StepRater should return 0")
	}
	if (StepRater{5: 0.5}).Rate(0) != 0.5 {
		t.Error("rate before the first step should use the first step")
	}
}
