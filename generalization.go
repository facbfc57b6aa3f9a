package anystop

import "math"

// The criteria in this file follow L. Prechelt, "Early
// Stopping - But When?", 1998.
// Generalization losses are in percent and training
// progress is in parts per thousand.

// generalization tracks the lowest validation error and
// computes the generalization loss relative to it.
type generalization struct {
	seen bool
	min  float64
}

func (g *generalization) Loss(validation float64) float64 {
	if !g.seen || validation < g.min {
		g.min = validation
		g.seen = true
	}
	if g.min == 0 {
		if validation == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return 100 * (validation/g.min - 1)
}

// GeneralizationLoss stops when the validation error has
// risen too far above the lowest validation error seen so
// far.
//
// It requires validated results.
type GeneralizationLoss struct {
	// MaxLoss is the largest tolerated loss, in percent.
	MaxLoss float64

	gen  generalization
	last float64
}

// Stop returns true if the generalization loss exceeds
// g.MaxLoss.
func (g *GeneralizationLoss) Stop(r *Result) bool {
	requireValidated("GeneralizationLoss", r)
	g.last = g.gen.Loss(r.Validation)
	return g.last > g.MaxLoss
}

// Loss returns the most recently computed generalization
// loss.
func (g *GeneralizationLoss) Loss() float64 {
	return g.last
}

// Reset forgets the lowest validation error.
func (g *GeneralizationLoss) Reset() {
	g.gen = generalization{}
	g.last = 0
}

// GeneralizationQuotient stops when the generalization
// loss is large relative to the recent training progress.
//
// Training progress is measured over a strip of the last
// IntervalSize training values.
// No decision is made until the strip is full.
//
// It requires validated results.
type GeneralizationQuotient struct {
	IntervalSize int

	// MaxQuotient is the largest tolerated ratio between
	// generalization loss and training progress.
	MaxQuotient float64

	gen      generalization
	training *strip
	last     float64
}

// Stop records the result and compares the quotient to
// g.MaxQuotient.
func (g *GeneralizationQuotient) Stop(r *Result) bool {
	requireValidated("GeneralizationQuotient", r)
	if g.training == nil {
		g.training = newStrip(g.IntervalSize)
	}
	g.training.Push(r.Value)
	loss := g.gen.Loss(r.Validation)
	if !g.training.Full() {
		g.last = 0
		return false
	}
	progress := g.training.Progress()
	if progress == 0 {
		if loss > 0 {
			g.last = math.Inf(1)
		} else {
			g.last = 0
		}
	} else {
		g.last = loss / progress
	}
	return g.last > g.MaxQuotient
}

// Quotient returns the most recently computed quotient.
func (g *GeneralizationQuotient) Quotient() float64 {
	return g.last
}

// Reset clears all recorded values.
func (g *GeneralizationQuotient) Reset() {
	g.gen = generalization{}
	g.training = nil
	g.last = 0
}

// TrainingProgress stops when the training error has
// flattened out, i.e. when the progress over the last
// IntervalSize iterations falls below MinProgress.
type TrainingProgress struct {
	IntervalSize int

	// MinProgress is measured in parts per thousand.
	MinProgress float64

	training *strip
}

// Stop records the training value and checks the
// progress.
func (t *TrainingProgress) Stop(r *Result) bool {
	if t.training == nil {
		t.training = newStrip(t.IntervalSize)
	}
	t.training.Push(r.Value)
	if !t.training.Full() {
		return false
	}
	return t.training.Progress() < t.MinProgress
}

// Reset clears the strip.
func (t *TrainingProgress) Reset() {
	t.training = nil
}
