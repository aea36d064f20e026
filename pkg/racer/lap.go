package racer

import "github.com/mpapenbr/racesim/pkg/model"

type LapEvent int

const (
	LapNone LapEvent = iota
	// LapCompleted: the racer crossed the start line forwards.
	LapCompleted
	// LapReverted: the racer crossed the start line backwards.
	LapReverted
	// RaceFinished: the racer completed the last lap.
	RaceFinished
)

func (e LapEvent) String() string {
	switch e {
	case LapCompleted:
		return "lap-completed"
	case LapReverted:
		return "lap-reverted"
	case RaceFinished:
		return "race-finished"
	default:
		return "none"
	}
}

// LapProgress is the lap state machine of a racer.
//
// Only crossings between section 0 and sections > 1 count. Section 1 acts as
// buffer, so jitter right at the start line does not count twice.
type LapProgress struct {
	LapCount int
	Finished bool
	Position model.LapPosition
}

// Advance records pos as current position and applies the lap rules.
// A fresh state counts as being in section 0, so a first position behind the
// start line (e.g. a grid slot) is a reverse crossing and opens lap -1.
// Once finished, the state does not change anymore.
func (p *LapProgress) Advance(pos model.LapPosition, totalLaps int) LapEvent {
	if p.Finished {
		return LapNone
	}
	old := p.Position.SectionID
	p.Position = pos
	switch {
	case pos.SectionID == 0 && old > 1:
		p.LapCount++
		if p.LapCount > totalLaps {
			p.LapCount--
			p.Finished = true
			return RaceFinished
		}
		return LapCompleted
	case pos.SectionID > 1 && old == 0:
		p.LapCount--
		return LapReverted
	}
	return LapNone
}
