package anymodel

import (
	"math"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anydifftest"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
)

func TestDotCost(t *testing.T) {
	testCost(t, DotCost{}, []float32{
		1, 0.5, 2,
		3, -1, 2,
	}, []float32{
		-1, -2, -3,
		-2, -3, -1,
	}, []float32{8, 5}, 2)
}

func TestMSE(t *testing.T) {
	testCost(t, MSE{}, []float32{
		1, 0.5, 2,
		3, -1, 2,
	}, []float32{
		-1, -2, -3,
		-2, -3, -1,
	}, []float32{11 + 3.0/4, 12 + 2.0/3}, 2)
}

func TestSigmoidCE(t *testing.T) {
	t.Run("Sum", func(t *testing.T) {
		testCost(t, SigmoidCE{}, []float32{
			1, 0.6,
			0.2, 0,
		}, []float32{
			1, 0,
			2, -1,
		}, []float32{
			0.3132616875 + 0.6931471806,
			0.02538560221 + 1.7015424088 + 0.3132616875,
		}, 2)
	})
	t.Run("Average", func(t *testing.T) {
		testCost(t, SigmoidCE{Average: true}, []float32{
			1, 0.6,
			0.2, 0,
		}, []float32{
			1, 0,
			2, -1,
		}, []float32{
			0.5 * (0.3132616875 + 0.6931471806),
			0.5 * (0.02538560221 + 1.7015424088 + 0.3132616875),
		}, 2)
	})
}

func TestZeroOne(t *testing.T) {
	t.Run("ArgMax", func(t *testing.T) {
		testCost(t, ZeroOne{}, []float32{
			0, 1, 0,
			1, 0, 0,
			0, 0, 1,
		}, []float32{
			-3, -0.1, -2,
			-0.5, -0.2, -4,
			-1, -2, -0.5,
		}, []float32{0, 1, 0}, 3)
	})
	t.Run("Threshold", func(t *testing.T) {
		testCost(t, ZeroOne{Threshold: 0.5}, []float32{
			1, 0, 1, 0,
		}, []float32{
			0.9, 0.7, 0.2, 0.1,
		}, []float32{0, 1, 1, 0}, 4)
	})
	t.Run("DefaultThreshold", func(t *testing.T) {
		testCost(t, ZeroOne{}, []float32{
			0, 0, 1,
		}, []float32{
			0.2, 0.1, 0.9,
		}, []float32{0, 0, 0}, 3)
	})
	t.Run("NegativeThreshold", func(t *testing.T) {
		testCost(t, ZeroOne{Threshold: -1}, []float32{
			0, 1,
		}, []float32{
			-0.5, -2,
		}, []float32{1, 1}, 2)
	})
}

func TestL2RegProp(t *testing.T) {
	c := anyvec32.DefaultCreator{}
	param := anydiff.NewVar(anyvec32.MakeVectorData([]float32{0.5, -1, 2}))
	actual := anydiff.NewVar(c.MakeVector(4))
	anyvec.Rand(actual.Vector, anyvec.Normal, nil)
	desired := anydiff.NewConst(anyvec32.MakeVectorData([]float32{1, 0, 0, 1}))
	cost := &L2Reg{
		Penalty: 0.1,
		Params:  []*anydiff.Var{param},
		Wrapped: MSE{},
	}
	checker := &anydifftest.ResChecker{
		F: func() anydiff.Res {
			return cost.Cost(desired, actual, 2)
		},
		V: []*anydiff.Var{param, actual},
	}
	checker.FullCheck(t)
}

func testCost(t *testing.T, c Cost, desired, output, expected []float32, n int) {
	desiredRes := anydiff.NewConst(anyvec32.MakeVectorData(desired))
	outputRes := anydiff.NewConst(anyvec32.MakeVectorData(output))

	actual := c.Cost(desiredRes, outputRes, n).Output().Data().([]float32)
	if len(actual) != len(expected) {
		t.Fatalf("expected %d costs but got %d", len(expected), len(actual))
	}
	for i, x := range expected {
		a := actual[i]
		if math.IsNaN(float64(a)) || math.Abs(float64(x-a)) > 1e-3 {
			t.Errorf("component %d: expected %f but got %f", i, x, a)
		}
	}
}
