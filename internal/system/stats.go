package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/core/event"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/world"
	"go.uber.org/zap"
)

// StatsSystem counts the population after integration, emits TickCompleted
// and logs a summary every `every` ticks. Phase 10 (Output).
type StatsSystem struct {
	world *world.State
	bus   *event.Bus
	every uint64
	log   *zap.Logger
}

// NewStatsSystem logs every `every` ticks; 0 disables the log line but still
// emits the event.
func NewStatsSystem(ws *world.State, bus *event.Bus, every uint64, log *zap.Logger) *StatsSystem {
	return &StatsSystem{world: ws, bus: bus, every: every, log: log}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *StatsSystem) Update(t coresys.Tick) {
	tags := s.world.Tags()
	ev := event.TickCompleted{Tick: t.N, Commands: s.world.Commands().Len()}
	s.world.Units().Each(func(id ecs.EntityID, u *component.Unit) {
		if tags.Has(id, component.TagDead) {
			return
		}
		ev.Units++
		if u.IsActive {
			ev.Active++
		}
		if u.BlockingUnit {
			ev.Blocked++
		}
		if tags.Has(id, component.TagMeleeAttack) {
			ev.Attacking++
		}
	})
	ev.Digest = s.world.Digest()
	event.Emit(s.bus, ev)

	if s.every > 0 && t.N%s.every == 0 {
		s.log.Info("tick",
			zap.Uint64("tick", t.N),
			zap.Int("units", ev.Units),
			zap.Int("active", ev.Active),
			zap.Int("blocked", ev.Blocked),
			zap.Int("attacking", ev.Attacking),
			zap.Int("grid_cells", s.world.Grid().Cells()),
		)
	}
}
