package anymodel

import (
	"math"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anydifftest"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec64"
)

func TestSELUOutput(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	vec := c.MakeVector(256)
	anyvec.Rand(vec, anyvec.Normal, nil)

	actual := SELU.Apply(anydiff.NewVar(vec), 4).Output().Data().([]float64)
	for i, x := range vec.Data().([]float64) {
		expected := seluLambda * x
		if x <= 0 {
			expected = seluLambda * (seluAlpha*math.Exp(x) - seluAlpha)
		}
		if math.Abs(actual[i]-expected) > 1e-8 {
			t.Fatalf("input %f: expected %f but got %f", x, expected, actual[i])
		}
	}
}

func TestActivationProp(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	for _, a := range []Activation{Tanh, Sigmoid, SELU, LogSoftmax} {
		in := anydiff.NewVar(c.MakeVector(12))
		anyvec.Rand(in.Vector, anyvec.Normal, nil)
		act := a
		checker := &anydifftest.ResChecker{
			F: func() anydiff.Res {
				return act.Apply(in, 3)
			},
			V: []*anydiff.Var{in},
		}
		t.Run(a.String(), checker.FullCheck)
	}
}
