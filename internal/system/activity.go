package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
)

// ActivityGateSystem decides which units take part in flocking this tick.
// Phase 4 (Activity).
//
// A unit goes idle once it is within acceptance distance of its target and
// stays idle until pushed back out. Idle units get TagDisableFlocking through
// the command buffer; the tag lands at the end of the tick.
type ActivityGateSystem struct {
	world *world.State
	pool  *job.Pool
}

func NewActivityGateSystem(ws *world.State, pool *job.Pool) *ActivityGateSystem {
	return &ActivityGateSystem{world: ws, pool: pool}
}

func (s *ActivityGateSystem) Phase() coresys.Phase { return coresys.PhaseActivity }

func (s *ActivityGateSystem) Update(t coresys.Tick) {
	units := s.world.Units()
	tags := s.world.Tags()
	cmds := s.world.Commands()
	rules := s.world.Rules()
	dt := t.Seconds()

	s.pool.For(units.Cap(), func(i int) {
		id, u, ok := units.At(i)
		if !ok || tags.Has(id, component.TagDead) {
			return
		}
		if u.StopAnimation {
			u.StopAnimationTimer -= dt
			if u.StopAnimationTimer <= 0 {
				u.StopAnimation = false
				u.StopAnimationTimer = rules.StopAnimationTime
			}
		}
		u.ShouldFlock = !(u.BlockingUnit || u.BlockingBuilding)

		enabled := !tags.Has(u.Formation, component.TagFlockingOff)
		accept := u.Manager.AcceptanceDistance
		var active bool
		switch {
		case tags.Has(id, component.TagEngaged) && tags.Has(u.Formation, component.TagMelee):
			active = enabled && u.ShouldFlock
		case u.InFormation:
			active = enabled && u.ShouldFlock && u.Position.Distance(u.FormationTarget) > accept
		default:
			active = enabled && u.ShouldFlock && u.Position.Distance(u.Target) > accept*rules.InactiveAcceptanceRate
		}
		u.IsActive = active

		disabled := tags.Has(id, component.TagDisableFlocking)
		switch {
		case !active && !disabled:
			u.Velocity = vmath.Vec3{}
			cmds.AddTag(uint32(i), id, component.TagDisableFlocking)
		case active && disabled:
			cmds.RemoveTag(uint32(i), id, component.TagDisableFlocking)
		}
	})
}
