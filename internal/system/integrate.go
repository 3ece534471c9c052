package system

import (
	"math"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
)

// IntegratorSystem moves every active unit at its full speed along the
// horizontal part of its steering velocity and eases its height toward the
// sampled ground. Phase 9 (Integrate).
type IntegratorSystem struct {
	world *world.State
	pool  *job.Pool
}

func NewIntegratorSystem(ws *world.State, pool *job.Pool) *IntegratorSystem {
	return &IntegratorSystem{world: ws, pool: pool}
}

func (s *IntegratorSystem) Phase() coresys.Phase { return coresys.PhaseIntegrate }

func (s *IntegratorSystem) Update(t coresys.Tick) {
	units := s.world.Units()
	tags := s.world.Tags()
	rules := s.world.Rules()
	dt := t.Seconds()
	step := vmath.Clamp(dt, 0, rules.MaxStep)
	// frame-rate independent exponential approach
	k := 1 - math.Exp(-rules.HeightSmoothingRate*dt)

	s.pool.For(units.Cap(), func(i int) {
		id, u, ok := units.At(i)
		if !ok || tags.Any(id, component.TagDead|component.TagDisableFlocking) {
			return
		}
		u.Velocity = u.Velocity.Flat().Normalize().Scale(u.Speed)
		p := u.Position.Add(u.Velocity.Scale(step))
		p.Y += (u.YHeight - p.Y) * k
		u.Position = p
	})
}
