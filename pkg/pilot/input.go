package pilot

import (
	"sync/atomic"
)

// InputSource provides the controls chosen by a human player.
type InputSource interface {
	Controls() Controls
}

// Input is the pilot of a human player.
type Input struct {
	vehicle    Controllable
	source     InputSource
	terminated bool
}

func NewInput(vehicle Controllable, source InputSource) *Input {
	return &Input{vehicle: vehicle, source: source}
}

// Terminate makes the next Act report removal.
func (p *Input) Terminate() {
	p.terminated = true
}

func (p *Input) Act(dt float64) bool {
	if p.terminated {
		return false
	}
	c := p.source.Controls()
	if c.Quit {
		return false
	}
	apply(p.vehicle, c)
	return true
}

// KeyState holds the controls set by a keyboard handler.
// It may be updated from the event loop while the simulation reads it.
type KeyState struct {
	state atomic.Pointer[Controls]
}

func NewKeyState() *KeyState {
	ret := &KeyState{}
	ret.state.Store(&Controls{})
	return ret
}

// Update applies f to a copy of the current controls and stores the result.
func (k *KeyState) Update(f func(c *Controls)) {
	for {
		old := k.state.Load()
		next := *old
		f(&next)
		if k.state.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (k *KeyState) Controls() Controls {
	return *k.state.Load()
}

// Step is a control state held for a number of ticks.
type Step struct {
	Controls Controls
	Ticks    int
}

// Scripted replays a fixed list of steps. After the last step it keeps
// the final controls.
type Scripted struct {
	steps []Step
	idx   int
	ticks int
}

func NewScripted(steps ...Step) *Scripted {
	return &Scripted{steps: steps}
}

func (s *Scripted) Controls() Controls {
	if len(s.steps) == 0 {
		return Controls{}
	}
	for s.idx < len(s.steps)-1 && s.ticks >= s.steps[s.idx].Ticks {
		s.idx++
		s.ticks = 0
	}
	s.ticks++
	return s.steps[s.idx].Controls
}
