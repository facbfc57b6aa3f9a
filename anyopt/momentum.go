package anyopt

import "github.com/unixpickle/anydiff"

// Momentum accumulates gradients with exponential decay:
//
//     v := momentum * v + grad
type Momentum struct {
	Momentum float64

	rolling anydiff.Grad
}

// Transform replaces g with the rolling sum.
//
// This is not thread-safe.
func (m *Momentum) Transform(g anydiff.Grad) anydiff.Grad {
	if m.rolling == nil {
		m.rolling = copyGrad(g)
		return g
	}
	for v, x := range m.rolling {
		x.Scale(x.Creator().MakeNumeric(m.Momentum))
		x.Add(g[v])
		g[v].Set(x)
	}
	return g
}

// Reset forgets the rolling sum.
func (m *Momentum) Reset() {
	m.rolling = nil
}
