package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/spatial"
	"github.com/l1jgo/phalanx/internal/world"
)

// SpatialIndexSystem rebuilds the neighbour grid from every live unit.
// Phase 2 (Spatial). Keys are computed in parallel, bucketing is serial.
type SpatialIndexSystem struct {
	world *world.State
	pool  *job.Pool
}

func NewSpatialIndexSystem(ws *world.State, pool *job.Pool) *SpatialIndexSystem {
	return &SpatialIndexSystem{world: ws, pool: pool}
}

func (s *SpatialIndexSystem) Phase() coresys.Phase { return coresys.PhaseSpatial }

func (s *SpatialIndexSystem) Update(_ coresys.Tick) {
	units := s.world.Units()
	tags := s.world.Tags()
	grid := s.world.Grid()
	n := units.Cap()
	grid.Reset(n)
	s.pool.For(n, func(i int) {
		id, u, ok := units.At(i)
		if !ok || tags.Has(id, component.TagDead) {
			return
		}
		grid.Put(i, spatial.Entry{
			ID:        id,
			Slot:      uint32(i),
			Position:  u.Position,
			Velocity:  u.Velocity,
			Formation: u.Formation,
			Faction:   u.Faction,
			Active:    u.IsActive,
		}, spatial.Key(u.Position, u.Manager.CellSize))
	})
	grid.Build()
}
