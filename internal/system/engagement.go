package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/core/event"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/world"
)

// EngagementSweepSystem drops attack assignments whose attacker or target has
// died or been removed, releasing the target's counter. Phase 1 (PreUpdate).
type EngagementSweepSystem struct {
	world *world.State
	bus   *event.Bus
}

func NewEngagementSweepSystem(ws *world.State, bus *event.Bus) *EngagementSweepSystem {
	return &EngagementSweepSystem{world: ws, bus: bus}
}

func (s *EngagementSweepSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EngagementSweepSystem) Update(t coresys.Tick) {
	tags := s.world.Tags()
	s.world.Units().Each(func(id ecs.EntityID, u *component.Unit) {
		if !tags.Has(id, component.TagMeleeAttack) {
			return
		}
		target := u.AttackTarget
		if !tags.Has(id, component.TagDead) && s.world.Units().Has(target) && !tags.Has(target, component.TagDead) {
			return
		}
		s.world.ReleaseTarget(u)
		tags.Clear(id, component.TagMeleeAttack)
		event.Emit(s.bus, event.EngagementCleared{Tick: t.N, Attacker: id, Target: target})
	})
}
