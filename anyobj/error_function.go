// Package anyobj implements objective functions which
// measure the error of a model on a data set.
package anyobj

import (
	"runtime"
	"sync"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anystop/anydata"
	"github.com/unixpickle/anystop/anymodel"
	"github.com/unixpickle/anyvec"
)

// An ErrorFunction is the mean cost of a model over a
// fixed data set.
//
// It implements anystop.Objective, and can therefore be
// used both for training and as a validation Evaluator.
//
// The samples are packed into batches the first time the
// function is evaluated, so Samples should not be changed
// afterwards.
type ErrorFunction struct {
	Model   anymodel.Layer
	Cost    anymodel.Cost
	Samples anydata.Set

	// Params are the parameters to differentiate with
	// respect to.
	// If nil and Model is an anymodel.Parameterizer, the
	// model's parameters are used.
	Params []*anydiff.Var

	// MaxGos is the number of chunks the samples are split
	// into, each of which is evaluated on its own goroutine.
	// If it is 0 or negative, GOMAXPROCS is used.
	MaxGos int

	packOnce sync.Once
	batches  []*batch
}

type batch struct {
	Inputs  *anydiff.Const
	Outputs *anydiff.Const
	Num     int
}

// Parameters returns the parameters of the objective.
func (e *ErrorFunction) Parameters() []*anydiff.Var {
	if e.Params == nil {
		if p, ok := e.Model.(anymodel.Parameterizer); ok {
			return p.Parameters()
		}
	}
	return e.Params
}

// Value computes the mean cost over all the samples.
// An empty sample set has a value of 0.
func (e *ErrorFunction) Value() float64 {
	batches := e.packed()
	if len(batches) == 0 {
		return 0
	}
	sums := make([]float64, len(batches))
	e.forEach(batches, func(i int, b *batch) {
		sums[i] = floatSum(e.batchCost(b).Output())
	})
	return sumAll(sums) / float64(len(e.Samples))
}

// Gradient computes the mean cost and its gradient.
func (e *ErrorFunction) Gradient() (anydiff.Grad, float64) {
	params := e.Parameters()
	res := zeroGrad(params)
	batches := e.packed()
	if len(batches) == 0 {
		return res, 0
	}

	scale := 1 / float64(len(e.Samples))
	sums := make([]float64, len(batches))
	grads := make([]anydiff.Grad, len(batches))
	e.forEach(batches, func(i int, b *batch) {
		cost := e.batchCost(b)
		c := cost.Output().Creator()
		upstream := c.MakeVector(cost.Output().Len())
		upstream.AddScalar(c.MakeNumeric(scale))
		grad := zeroGrad(params)
		cost.Propagate(upstream, grad)
		grads[i] = grad
		sums[i] = floatSum(cost.Output())
	})

	for _, g := range grads {
		for p, vec := range g {
			res[p].Add(vec)
		}
	}
	return res, sumAll(sums) * scale
}

func (e *ErrorFunction) batchCost(b *batch) anydiff.Res {
	out := e.Model.Apply(b.Inputs, b.Num)
	return e.Cost.Cost(b.Outputs, out, b.Num)
}

func (e *ErrorFunction) forEach(batches []*batch, f func(i int, b *batch)) {
	if len(batches) == 1 {
		f(0, batches[0])
		return
	}
	var wg sync.WaitGroup
	for i, b := range batches {
		wg.Add(1)
		go func(i int, b *batch) {
			defer wg.Done()
			f(i, b)
		}(i, b)
	}
	wg.Wait()
}

func (e *ErrorFunction) packed() []*batch {
	e.packOnce.Do(func() {
		if len(e.Samples) == 0 {
			return
		}
		numBatches := e.MaxGos
		if numBatches <= 0 {
			numBatches = runtime.GOMAXPROCS(0)
		}
		if numBatches > len(e.Samples) {
			numBatches = len(e.Samples)
		}
		for i := 0; i < numBatches; i++ {
			start := i * len(e.Samples) / numBatches
			end := (i + 1) * len(e.Samples) / numBatches
			e.batches = append(e.batches, packBatch(e.Samples[start:end]))
		}
	})
	return e.batches
}

func packBatch(samples anydata.Set) *batch {
	ins := make([]anyvec.Vector, len(samples))
	outs := make([]anyvec.Vector, len(samples))
	for i, s := range samples {
		ins[i] = s.Input
		outs[i] = s.Output
	}
	c := ins[0].Creator()
	return &batch{
		Inputs:  anydiff.NewConst(c.Concat(ins...)),
		Outputs: anydiff.NewConst(c.Concat(outs...)),
		Num:     len(samples),
	}
}

func zeroGrad(params []*anydiff.Var) anydiff.Grad {
	res := anydiff.Grad{}
	for _, p := range params {
		res[p] = p.Vector.Creator().MakeVector(p.Vector.Len())
	}
	return res
}

func sumAll(values []float64) float64 {
	var sum float64
	for _, x := range values {
		sum += x
	}
	return sum
}

func floatSum(vec anyvec.Vector) float64 {
	switch data := vec.Data().(type) {
	case []float32:
		var sum float64
		for _, x := range data {
			sum += float64(x)
		}
		return sum
	case []float64:
		var sum float64
		for _, x := range data {
			sum += x
		}
		return sum
	default:
		panic("unsupported numeric type")
	}
}
