package component

import "math"

// Health tracks the health of a racer.
// Health is bounded by [0, initial]; a racer is alive while health > 0.
type Health struct {
	health float64
	max    float64
	decay  float64 // health lost per second
}

type HealthOption func(h *Health)

// WithDecay makes the health deplete continuously.
func WithDecay(perSecond float64) HealthOption {
	return func(h *Health) {
		h.decay = perSecond
	}
}

func NewHealth(initial float64, opts ...HealthOption) *Health {
	ret := &Health{}
	ret.SetInitialHealth(initial)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// SetInitialHealth resets health and upper bound to value.
func (h *Health) SetInitialHealth(value float64) {
	h.max = math.Max(0, value)
	h.health = h.max
}

func (h *Health) Health() float64    { return h.health }
func (h *Health) MaxHealth() float64 { return h.max }
func (h *Health) IsDead() bool       { return h.health <= 0 }

// Fraction returns health relative to the initial value.
func (h *Health) Fraction() float64 {
	if h.max == 0 {
		return 0
	}
	return h.health / h.max
}

func (h *Health) Damage(amount float64) {
	if amount <= 0 {
		return
	}
	h.health = math.Max(0, h.health-amount)
}

func (h *Health) Heal(amount float64) {
	if amount <= 0 || h.IsDead() {
		return
	}
	h.health = math.Min(h.max, h.health+amount)
}

func (h *Health) Kill() {
	h.health = 0
}

// Act applies the decay and reports whether the owner stays alive.
func (h *Health) Act(dt float64) bool {
	if h.decay > 0 {
		h.Damage(h.decay * dt)
	}
	return !h.IsDead()
}
