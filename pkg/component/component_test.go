package component

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racesim/pkg/model"
)

func TestHealth(t *testing.T) {
	h := NewHealth(100)
	assert.True(t, h.Act(0.1))
	assert.Equal(t, 1.0, h.Fraction())

	h.Damage(30)
	assert.Equal(t, 70.0, h.Health())
	h.Heal(50)
	assert.Equal(t, 100.0, h.Health(), "heal is capped at initial health")
	h.Damage(-10)
	assert.Equal(t, 100.0, h.Health(), "negative damage is ignored")

	h.Damage(250)
	assert.Equal(t, 0.0, h.Health())
	assert.True(t, h.IsDead())
	h.Heal(10)
	assert.True(t, h.IsDead(), "dead racers cannot be healed")
	assert.False(t, h.Act(0.1))
}

func TestHealth_Decay(t *testing.T) {
	h := NewHealth(10, WithDecay(4))
	assert.True(t, h.Act(1))
	assert.Equal(t, 6.0, h.Health())
	assert.True(t, h.Act(1))
	assert.False(t, h.Act(1))
	assert.Equal(t, 0.0, h.Health())
}

func TestHealth_SetInitialHealth(t *testing.T) {
	h := NewHealth(10)
	h.Kill()
	assert.True(t, h.IsDead())
	h.SetInitialHealth(50)
	assert.Equal(t, 50.0, h.Health())
	assert.Equal(t, 50.0, h.MaxHealth())
	assert.False(t, h.IsDead())
}

type groundVehicle struct {
	material model.Material
	drag     float64
}

func (v *groundVehicle) Material() model.Material      { return v.material }
func (v *groundVehicle) SetGroundDrag(factor float64) { v.drag = factor }

func TestGroundCollisionHandler(t *testing.T) {
	tests := []struct {
		name       string
		material   model.Material
		wantKeep   bool
		wantDrag   float64
		wantHealth float64
	}{
		{"road", model.MaterialRoad, true, 1, 100},
		{"sand slows down", model.MaterialSand, true, SandDrag, 100},
		{"lava hurts", model.MaterialLava, true, 1, 100 - LavaDamagePerSecond*0.5},
		{"hole removes", model.MaterialHole, false, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &groundVehicle{material: tt.material}
			h := NewHealth(100)
			g := NewGroundCollisionHandler(v, h)
			assert.Equal(t, tt.wantKeep, g.Act(0.5))
			assert.Equal(t, tt.wantDrag, v.drag)
			assert.Equal(t, tt.wantHealth, h.Health())
		})
	}
}
