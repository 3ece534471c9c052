package system

import (
	"sync"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/flock"
	"github.com/l1jgo/phalanx/internal/spatial"
	"github.com/l1jgo/phalanx/internal/world"
)

// FlockingSystem adds separation, alignment and cohesion to the velocity of
// every active unit. Phase 6 (Flocking). Neighbours come from the grid
// snapshot, so a unit never sees another unit's half-written velocity.
type FlockingSystem struct {
	world   *world.State
	pool    *job.Pool
	scratch sync.Pool
}

func NewFlockingSystem(ws *world.State, pool *job.Pool) *FlockingSystem {
	s := &FlockingSystem{world: ws, pool: pool}
	s.scratch.New = func() any {
		buf := make([]spatial.Entry, 0, 16)
		return &buf
	}
	return s
}

func (s *FlockingSystem) Phase() coresys.Phase { return coresys.PhaseFlocking }

func (s *FlockingSystem) Update(_ coresys.Tick) {
	units := s.world.Units()
	tags := s.world.Tags()
	grid := s.world.Grid()

	s.pool.For(units.Cap(), func(i int) {
		id, u, ok := units.At(i)
		if !ok || tags.Any(id, component.TagDead|component.TagDisableFlocking) {
			return
		}
		self, ok := grid.Lookup(i)
		if !ok {
			return
		}
		a := flock.Agent{
			Position:    u.Position,
			Velocity:    u.Velocity,
			Target:      u.Target,
			InFormation: u.InFormation,
		}
		if u.InFormation {
			a.Target = u.FormationTarget
		}

		buf := s.scratch.Get().(*[]spatial.Entry)
		near := flock.Perceived((*buf)[:0], a, self, grid.Near(u.Position, u.Manager.CellSize), u.Manager)
		f := flock.Solve(a, near, u.Manager)
		*buf = near
		s.scratch.Put(buf)

		u.Velocity = u.Velocity.Add(f.Sum())
	})
}
