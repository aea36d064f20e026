package world

import (
	"cmp"
	"slices"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/racesim/pkg/racer"
)

// Standing is the race position of a racer.
type Standing struct {
	Pos         int
	ID          uuid.UUID
	Name        string
	Laps        int
	LapDistance decimal.Decimal // world units, 2 decimals
	Score       int
	Health      decimal.Decimal // percent, 1 decimal
	Finished    bool
	Retired     bool
	finishOrder int
}

// Standings ranks all racers of the race. Finished racers come first in
// order of finishing, followed by the racers on track and the retired ones,
// each ranked by lap count and lap distance.
func (w *World) Standings() []Standing {
	toStanding := func(retired bool) func(r *racer.Racer, _ int) Standing {
		return func(r *racer.Racer, _ int) Standing {
			return Standing{
				ID:          r.ID(),
				Name:        r.Name(),
				Laps:        r.LapCount(),
				LapDistance: decimal.NewFromFloat(r.LapDistance()).Round(2),
				Score:       r.Score(),
				Health:      decimal.NewFromFloat(r.Health().Fraction() * 100).Round(1),
				Finished:    r.IsFinished(),
				Retired:     retired,
				finishOrder: w.finished[r.ID()],
			}
		}
	}
	ret := append(
		lo.Map(w.Racers(), toStanding(false)),
		lo.Map(w.retired, toStanding(true))...)

	sortStandings(ret)
	return ret
}

func sortStandings(s []Standing) {
	slices.SortStableFunc(s, compareStandings)
	for i := range s {
		s[i].Pos = i + 1
	}
}

func group(s *Standing) int {
	switch {
	case s.Finished:
		return 0
	case s.Retired:
		return 2
	default:
		return 1
	}
}

func compareStandings(a, b Standing) int {
	if c := cmp.Compare(group(&a), group(&b)); c != 0 {
		return c
	}
	if a.Finished {
		return cmp.Compare(a.finishOrder, b.finishOrder)
	}
	if c := cmp.Compare(b.Laps, a.Laps); c != 0 {
		return c
	}
	return b.LapDistance.Cmp(a.LapDistance)
}

// Leader returns the name of the leading racer.
func (w *World) Leader() (string, bool) {
	s := w.Standings()
	if len(s) == 0 {
		return "", false
	}
	return s[0].Name, true
}

// Summary counts the racers per state.
func Summary(standings []Standing) (finished, racing, retired int) {
	finished = lo.CountBy(standings, func(s Standing) bool { return s.Finished })
	retired = lo.CountBy(standings, func(s Standing) bool { return s.Retired && !s.Finished })
	return finished, len(standings) - finished - retired, retired
}
