// Package anystop provides stopping criteria for iterative
// optimization, with an emphasis on early stopping when
// training neural networks.
//
// A training procedure is split into three pieces: an
// Objective which measures the error of the current
// parameters, an Optimizer which updates the parameters,
// and a Criterion which is queried after every step to
// decide whether to halt.
// The anytrain sub-package combines the three.
package anystop

import "github.com/unixpickle/anydiff"

// An Objective is a differentiable scalar function of a
// fixed set of parameters.
//
// The parameters are read directly from the variables
// returned by Parameters, so evaluating the objective at a
// different point means modifying those variables.
type Objective interface {
	// Parameters returns the variables which the objective
	// depends on.
	// The same variables must be returned in the same order
	// every time.
	Parameters() []*anydiff.Var

	// Value evaluates the objective at the current point.
	Value() float64

	// Gradient evaluates the objective and its gradient at
	// the current point.
	// The gradient contains an entry for every parameter.
	Gradient() (anydiff.Grad, float64)
}

// An Evaluator computes a scalar error without a
// gradient.
// Validation objectives are Evaluators.
type Evaluator interface {
	Value() float64
}

// An Optimizer iteratively minimizes an Objective.
type Optimizer interface {
	// Init prepares the optimizer to start from the current
	// point of o, discarding any state from previous runs.
	Init(o Objective)

	// Step performs a single update of the parameters of
	// o and returns the objective value observed during the
	// step.
	Step(o Objective) float64
}

// A Result is the information given to a Criterion after
// an optimization step.
type Result struct {
	// Iteration is the number of completed steps, starting
	// at 1.
	Iteration int

	// Value is the training objective reported by the
	// optimizer.
	Value float64

	// Validation is the validation error at the current
	// point.
	// It is only meaningful if Validated is true.
	Validation float64
	Validated  bool
}

// A Criterion decides when optimization should halt.
//
// Criteria may be stateful, in which case they expect to
// see every Result of a run in order.
type Criterion interface {
	// Stop observes the latest result and returns true if
	// optimization should stop.
	// A Criterion may fill in fields of r, as Validated does.
	Stop(r *Result) bool

	// Reset returns the criterion to its initial state so
	// that it can be used for a new run.
	Reset()
}

// A BestRestorer is a Criterion which tracks the best
// parameters seen so far and can write them back to the
// model.
type BestRestorer interface {
	// RestoreBest sets the parameters to the best point.
	// It returns false if no point has been recorded.
	RestoreBest() bool
}

func requireValidated(name string, r *Result) {
	if !r.Validated {
		panic(name + " requires validated results (wrap it in a Validated)")
	}
}
