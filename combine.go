package anystop

// Any is a Criterion which stops as soon as any of its
// members want to stop.
//
// Every member sees every Result, even after an earlier
// member has requested a stop.
// Members are queried in order, so a Validated member
// fills in the validation error for the members after it.
type Any []Criterion

// Stop queries every member.
func (a Any) Stop(r *Result) bool {
	var stop bool
	for _, c := range a {
		if c.Stop(r) {
			stop = true
		}
	}
	return stop
}

// Reset resets every member.
func (a Any) Reset() {
	for _, c := range a {
		c.Reset()
	}
}

// RestoreBest restores the best point of the first member
// that has one.
func (a Any) RestoreBest() bool {
	return restoreFirst(a)
}

// All is a Criterion which stops once every member wants
// to stop at the same iteration.
type All []Criterion

// Stop queries every member.
func (a All) Stop(r *Result) bool {
	if len(a) == 0 {
		return false
	}
	stop := true
	for _, c := range a {
		if !c.Stop(r) {
			stop = false
		}
	}
	return stop
}

// Reset resets every member.
func (a All) Reset() {
	for _, c := range a {
		c.Reset()
	}
}

// RestoreBest restores the best point of the first member
// that has one.
func (a All) RestoreBest() bool {
	return restoreFirst(a)
}

func restoreFirst(cs []Criterion) bool {
	for _, c := range cs {
		if r, ok := c.(BestRestorer); ok && r.RestoreBest() {
			return true
		}
	}
	return false
}

// Interrupt is a Criterion which stops once a channel is
// closed or yields a value.
//
// A typical use is to stop training on a keyboard
// interrupt.
type Interrupt struct {
	Chan <-chan struct{}

	done bool
}

// Stop polls the channel without blocking.
func (i *Interrupt) Stop(r *Result) bool {
	if i.done {
		return true
	}
	select {
	case <-i.Chan:
		i.done = true
	default:
	}
	return i.done
}

// Reset forgets about previous interrupts.
// A closed channel will trigger again immediately.
func (i *Interrupt) Reset() {
	i.done = false
}
