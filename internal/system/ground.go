package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/terrain"
	"github.com/l1jgo/phalanx/internal/world"
)

// GroundSamplerSystem refreshes each unit's ground height from the terrain
// at a randomised interval. Phase 5 (Ground).
type GroundSamplerSystem struct {
	world   *world.State
	pool    *job.Pool
	surface terrain.Surface
	height  float64
	depth   float64
	seed    uint64
}

// NewGroundSamplerSystem probes from height above each unit down to depth.
func NewGroundSamplerSystem(ws *world.State, pool *job.Pool, surface terrain.Surface, height, depth float64, seed uint64) *GroundSamplerSystem {
	return &GroundSamplerSystem{world: ws, pool: pool, surface: surface, height: height, depth: depth, seed: seed}
}

func (s *GroundSamplerSystem) Phase() coresys.Phase { return coresys.PhaseGround }

func (s *GroundSamplerSystem) Update(t coresys.Tick) {
	units := s.world.Units()
	tags := s.world.Tags()
	rules := s.world.Rules()
	dt := t.Seconds()

	s.pool.For(units.Cap(), func(i int) {
		id, u, ok := units.At(i)
		if !ok || tags.Any(id, component.TagDead|component.TagDisableFlocking) {
			return
		}
		u.YTimer -= dt
		if u.YTimer > 0 {
			return
		}
		hit, ok := terrain.ProbeBelow(s.surface, u.Position, s.height, s.depth)
		if !ok {
			return // retry next tick
		}
		u.YHeight = hit.Y
		u.YTimer = unitRand(s.seed, t, uint32(i), streamGround, rules.GroundIntervalMin, rules.GroundIntervalMax)
	})
}
