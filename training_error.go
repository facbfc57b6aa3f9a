package anystop

// TrainingError stops when the training error has not
// improved enough over a window of iterations.
//
// After IntervalSize values have been observed, the
// improvement is the difference between the oldest and
// the newest value in the window.
// Optimization stops as soon as this improvement drops
// below MinImprovement.
type TrainingError struct {
	// IntervalSize is the number of iterations to look
	// back over.
	// Values less than 1 are treated as 1.
	IntervalSize int

	MinImprovement float64

	window *strip
}

// Stop records the training value and checks the
// improvement over the window.
func (t *TrainingError) Stop(r *Result) bool {
	if t.window == nil {
		t.window = newStrip(t.IntervalSize)
	}
	t.window.Push(r.Value)
	if !t.window.Full() {
		return false
	}
	return t.Improvement() < t.MinImprovement
}

// Improvement returns the improvement over the current
// window, or 0 if nothing has been observed.
func (t *TrainingError) Improvement() float64 {
	if t.window == nil || t.window.Len() == 0 {
		return 0
	}
	return t.window.Oldest() - t.window.Newest()
}

// Reset clears the window.
func (t *TrainingError) Reset() {
	t.window = nil
}
