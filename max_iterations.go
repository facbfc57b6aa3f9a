package anystop

// MaxIterations is a Criterion which stops after a fixed
// number of iterations.
type MaxIterations int

// Stop returns true once int(m) iterations have completed.
func (m MaxIterations) Stop(r *Result) bool {
	return r.Iteration >= int(m)
}

// Reset does nothing, since MaxIterations is stateless.
func (m MaxIterations) Reset() {
}
