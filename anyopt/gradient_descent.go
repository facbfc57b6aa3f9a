package anyopt

import "github.com/unixpickle/anystop"

// GradientDescent is plain (full-batch) gradient descent
// with an optional gradient Transformer.
type GradientDescent struct {
	// Transformer, if non-nil, transforms every gradient
	// before the step.
	Transformer Transformer

	// Rater determines the learning rate of each step.
	Rater Rater

	iteration int
}

// Init resets the iteration counter and the transformer.
func (g *GradientDescent) Init(o anystop.Objective) {
	g.iteration = 0
	if g.Transformer != nil {
		g.Transformer.Reset()
	}
}

// Step moves the parameters against the (transformed)
// gradient and returns the objective value at the point
// the gradient was computed at.
func (g *GradientDescent) Step(o anystop.Objective) float64 {
	grad, value := o.Gradient()
	if g.Transformer != nil {
		grad = g.Transformer.Transform(grad)
	}
	scaleGrad(grad, -g.Rater.Rate(g.iteration))
	grad.AddToVars()
	g.iteration++
	return value
}
