package anystop

import "github.com/unixpickle/anydiff"

// Validated wraps a Criterion and supplies it with
// validation errors.
//
// Every time Stop is called, the Evaluator is run at the
// current point and the result is stored in the Result
// before it is handed to Base.
//
// Validated also remembers the lowest validation error.
// If Params is set, the parameters are copied whenever a
// new best is found so that RestoreBest can recover them.
type Validated struct {
	Evaluator Evaluator
	Base      Criterion

	// Params, if non-nil, are the parameters to snapshot
	// at the best validation error.
	Params []*anydiff.Var

	seen      bool
	best      float64
	bestIter  int
	bestPoint Snapshot
}

// Stop evaluates the validation error and defers to
// v.Base.
func (v *Validated) Stop(r *Result) bool {
	r.Validation = v.Evaluator.Value()
	r.Validated = true
	if !v.seen || r.Validation < v.best {
		v.seen = true
		v.best = r.Validation
		v.bestIter = r.Iteration
		if v.Params != nil {
			v.bestPoint = TakeSnapshot(v.Params)
		}
	}
	return v.Base.Stop(r)
}

// Reset resets v.Base and forgets the best point.
func (v *Validated) Reset() {
	v.Base.Reset()
	v.seen = false
	v.best = 0
	v.bestIter = 0
	v.bestPoint = nil
}

// Best returns the lowest validation error and the
// iteration at which it occurred.
// The ok flag is false if Stop has never been called.
func (v *Validated) Best() (validation float64, iteration int, ok bool) {
	return v.best, v.bestIter, v.seen
}

// BestPoint returns a snapshot of the parameters at the
// best validation error, or nil if none was taken.
func (v *Validated) BestPoint() Snapshot {
	return v.bestPoint
}

// RestoreBest writes the best parameters back into
// v.Params.
func (v *Validated) RestoreBest() bool {
	if v.bestPoint == nil {
		return false
	}
	if err := v.bestPoint.Restore(v.Params); err != nil {
		panic(err)
	}
	return true
}
