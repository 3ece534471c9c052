package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/core/event"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/world"
	"go.uber.org/zap"
)

// CommitSystem plays back the command buffer filled during the tick.
// Phase 11 (Cleanup), always last. Commands apply in producing-slot order, so
// the result does not depend on how work was spread across workers.
type CommitSystem struct {
	world *world.State
	bus   *event.Bus
	log   *zap.Logger
	tick  uint64
}

func NewCommitSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *CommitSystem {
	return &CommitSystem{world: ws, bus: bus, log: log}
}

func (s *CommitSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CommitSystem) Update(t coresys.Tick) {
	s.tick = t.N
	n := s.world.ECS().Flush(s.apply)
	if n > 0 {
		s.log.Debug("commit", zap.Uint64("tick", t.N), zap.Int("commands", n))
	}
}

func (s *CommitSystem) apply(c ecs.Command) {
	switch c.Op {
	case ecs.OpAddTag, ecs.OpRemoveTag:
		if c.Tag == component.TagDisableFlocking {
			event.Emit(s.bus, event.FlockingToggled{Tick: s.tick, Unit: c.Entity, Disabled: c.Op == ecs.OpAddTag})
		}
	case ecs.OpSetRef:
		u, ok := s.world.Unit(c.Entity)
		if !ok {
			return
		}
		u.AttackTarget = c.Ref
		event.Emit(s.bus, event.EngagementStarted{
			Tick:     s.tick,
			Attacker: c.Entity,
			Target:   c.Ref,
			Faction:  int32(u.Faction),
		})
	case ecs.OpAdjust:
		if u, ok := s.world.Unit(c.Entity); ok {
			u.TargetedAmount += c.Delta
		}
	}
}
