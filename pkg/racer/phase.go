package racer

// Phase is one step of a racer tick.
type Phase interface {
	// Act returns false if the racer is to be removed.
	Act(dt float64) bool
}

type PhaseFunc func(dt float64) bool

func (f PhaseFunc) Act(dt float64) bool {
	return f(dt)
}

// runPhases runs the phases in order and stops at the first one reporting
// removal.
func runPhases(phases []Phase, dt float64) bool {
	for _, p := range phases {
		if !p.Act(dt) {
			return false
		}
	}
	return true
}
