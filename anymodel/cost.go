package anymodel

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// A Cost measures the error of a batch of model outputs.
//
// Given n packed rows of desired and actual outputs, it
// produces a vector of n costs.
type Cost interface {
	Cost(desired, actual anydiff.Res, n int) anydiff.Res
}

// DotCost negates the dot product of each desired row with
// each actual row.
//
// Paired with a LogSoftmax output layer and one-hot
// targets, this is the cross-entropy loss.
type DotCost struct{}

// Cost computes the negated dot products.
func (d DotCost) Cost(desired, actual anydiff.Res, n int) anydiff.Res {
	prod := anydiff.Mul(desired, actual)
	dots := anydiff.SumCols(&anydiff.Matrix{
		Data: prod,
		Rows: n,
		Cols: prod.Output().Len() / n,
	})
	return anydiff.Scale(dots, dots.Output().Creator().MakeNumeric(-1))
}

// MSE is the mean squared error of each row.
type MSE struct{}

// Cost computes, for each row, the mean of the squared
// differences between the actual and desired values.
func (m MSE) Cost(desired, actual anydiff.Res, n int) anydiff.Res {
	c := actual.Output().Creator()
	diff := anydiff.Add(desired, anydiff.Scale(actual, c.MakeNumeric(-1)))
	sq := anydiff.Square(diff)
	cols := sq.Output().Len() / n
	sum := anydiff.SumCols(&anydiff.Matrix{
		Data: sq,
		Rows: n,
		Cols: cols,
	})
	return anydiff.Scale(sum, c.MakeNumeric(1/float64(cols)))
}

// SigmoidCE applies a sigmoid to the actual outputs and
// measures the cross-entropy with the desired outputs.
type SigmoidCE struct {
	// Average divides each row's cost by the number of
	// columns.
	Average bool
}

// Cost computes the sigmoid cross-entropy in a numerically
// stable way.
func (s SigmoidCE) Cost(desired, actual anydiff.Res, n int) anydiff.Res {
	minusOne := actual.Output().Creator().MakeNumeric(-1)
	terms := anydiff.Pool(desired, func(desired anydiff.Res) anydiff.Res {
		return anydiff.Pool(actual, func(actual anydiff.Res) anydiff.Res {
			logPos := anydiff.LogSigmoid(actual)
			logNeg := anydiff.LogSigmoid(anydiff.Scale(actual, minusOne))
			return anydiff.Add(
				anydiff.Mul(desired, logPos),
				anydiff.Mul(anydiff.Complement(desired), logNeg),
			)
		})
	})
	cols := actual.Output().Len() / n
	res := anydiff.SumCols(&anydiff.Matrix{
		Data: terms,
		Rows: n,
		Cols: cols,
	})
	scale := -1.0
	if s.Average {
		scale /= float64(cols)
	}
	return anydiff.Scale(res, res.Output().Creator().MakeNumeric(scale))
}

// L2Reg adds Penalty/2 times the sum of the squared
// parameters to every row's cost.
type L2Reg struct {
	Penalty float64
	Params  []*anydiff.Var
	Wrapped Cost
}

// Cost computes the wrapped cost plus the penalty.
func (l *L2Reg) Cost(desired, actual anydiff.Res, n int) anydiff.Res {
	c := actual.Output().Creator()
	var sum anydiff.Res = anydiff.NewConst(c.MakeVector(1))
	for _, p := range l.Params {
		sum = anydiff.Add(sum, anydiff.Sum(anydiff.Square(p)))
	}
	sum = anydiff.Scale(sum, c.MakeNumeric(l.Penalty/2))
	return anydiff.AddRepeated(l.Wrapped.Cost(desired, actual, n), sum)
}

// ZeroOne is the classification error: 1 for every row
// that is classified wrongly and 0 otherwise.
//
// Rows with several columns are classified by their
// largest component.
// Single-column rows are positive when the actual value
// exceeds Threshold and the desired value exceeds 0.5.
//
// ZeroOne is not differentiable; its output is a constant.
type ZeroOne struct {
	// Threshold is the decision boundary for single-column
	// rows.
	// If it is 0, 0.5 is used.
	Threshold float64
}

// Cost computes the per-row classification error.
func (z ZeroOne) Cost(desired, actual anydiff.Res, n int) anydiff.Res {
	out := actual.Output()
	target := desired.Output()
	cols := out.Len() / n
	threshold := z.Threshold
	if threshold == 0 {
		threshold = 0.5
	}
	errs := make([]float64, n)
	for i := 0; i < n; i++ {
		a := out.Slice(i*cols, (i+1)*cols)
		d := target.Slice(i*cols, (i+1)*cols)
		if cols == 1 {
			if (firstComponent(a) > threshold) != (firstComponent(d) > 0.5) {
				errs[i] = 1
			}
		} else if anyvec.MaxIndex(a) != anyvec.MaxIndex(d) {
			errs[i] = 1
		}
	}
	c := out.Creator()
	return anydiff.NewConst(c.MakeVectorData(c.MakeNumericList(errs)))
}

func firstComponent(v anyvec.Vector) float64 {
	switch data := v.Data().(type) {
	case []float32:
		return float64(data[0])
	case []float64:
		return data[0]
	default:
		panic("unsupported numeric type")
	}
}
