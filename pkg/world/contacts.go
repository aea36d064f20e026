package world

import (
	"math"
	"strconv"

	"github.com/mpapenbr/racesim/pkg/racer"
)

const defaultRadius = 0.5

type contactKey struct {
	a, b string
}

// contacts holds the pairs touching each other in the previous frame
// together with the function ending the contact.
type contacts map[contactKey]func()

// forget drops all pairs containing id without calling their end hooks.
func (c contacts) forget(id string) {
	for k := range c {
		if k.a == id || k.b == id {
			delete(c, k)
		}
	}
}

type contact struct {
	key   contactKey
	begin func()
	solve func()
	end   func()
}

func radius(r *racer.Racer) float64 {
	if v, ok := r.Vehicle().(interface{ Radius() float64 }); ok {
		return v.Radius()
	}
	return defaultRadius
}

func touching(ax, ay, ar, bx, by, br float64) bool {
	return math.Hypot(ax-bx, ay-by) < ar+br
}

func pairKey(a, b string) contactKey {
	if a > b {
		a, b = b, a
	}
	return contactKey{a, b}
}

func racerContact(a, b *racer.Racer) contact {
	other := racer.KindContact(racer.ContactRacer)
	both := func(f func(r *racer.Racer)) func() {
		return func() {
			f(a)
			f(b)
		}
	}
	return contact{
		key:   pairKey(a.ID().String(), b.ID().String()),
		begin: both(func(r *racer.Racer) { r.OnCollisionBegin(other) }),
		solve: both(func(r *racer.Racer) {
			r.PreSolve(other)
			r.PostSolve(other)
		}),
		end: both(func(r *racer.Racer) { r.OnCollisionEnd(other) }),
	}
}

func spotContact(r *racer.Racer, idx int, s *BonusSpot) contact {
	other := racer.PickupContact(s)
	return contact{
		key:   contactKey{r.ID().String(), "spot-" + strconv.Itoa(idx)},
		begin: func() { r.OnCollisionBegin(other) },
		solve: func() {
			r.PreSolve(other)
			r.PostSolve(other)
		},
		end: func() { r.OnCollisionEnd(other) },
	}
}

// dispatchContacts detects touching racers and bonus spots and calls the
// collision hooks. Begin and end are called once per contact, the solve
// hooks every frame while the contact lasts.
func (w *World) dispatchContacts() {
	racers := w.Racers()
	current := []contact{}
	for i, a := range racers {
		for _, b := range racers[i+1:] {
			if touching(a.X(), a.Y(), radius(a), b.X(), b.Y(), radius(b)) {
				current = append(current, racerContact(a, b))
			}
		}
		for idx, s := range w.spots {
			if touching(a.X(), a.Y(), radius(a), s.X(), s.Y(), s.Radius()) {
				current = append(current, spotContact(a, idx, s))
			}
		}
	}

	next := contacts{}
	for _, c := range current {
		next[c.key] = c.end
		if _, ok := w.contacts[c.key]; !ok {
			c.begin()
		}
		c.solve()
	}
	for k, end := range w.contacts {
		if _, ok := next[k]; !ok {
			end()
		}
	}
	w.contacts = next
}
