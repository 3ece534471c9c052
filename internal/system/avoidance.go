package system

import (
	"math"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/flock"
	"github.com/l1jgo/phalanx/internal/spatial"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
)

// AvoidanceSystem steers marching formation members around allies that drift
// into their path. Phase 8 (Avoidance). It never assigns targets.
//
// Each unit checks at a randomised cooldown. Allies are looked for in half the
// field of view; meeting NonCombatAllyLimit of them stops the unit outright.
type AvoidanceSystem struct {
	world *world.State
	pool  *job.Pool
	seed  uint64
}

func NewAvoidanceSystem(ws *world.State, pool *job.Pool, seed uint64) *AvoidanceSystem {
	return &AvoidanceSystem{world: ws, pool: pool, seed: seed}
}

func (s *AvoidanceSystem) Phase() coresys.Phase { return coresys.PhaseAvoidance }

func (s *AvoidanceSystem) Update(t coresys.Tick) {
	units := s.world.Units()
	tags := s.world.Tags()
	grid := s.world.Grid()
	rules := s.world.Rules()
	dt := t.Seconds()

	s.pool.For(units.Cap(), func(i int) {
		id, u, ok := units.At(i)
		if !ok || !u.InFormation {
			return
		}
		if !tags.Has(id, component.TagMoving) ||
			tags.Any(id, component.TagDead|component.TagDisableFlocking|component.TagMeleeAttack) ||
			tags.Has(u.Formation, component.TagInAttackRange) {
			return
		}
		u.CollisionTimer -= dt
		if u.CollisionTimer > 0 {
			return
		}
		u.CollisionTimer = unitRand(s.seed, t, uint32(i), streamCollision, rules.CollisionIntervalMin, rules.CollisionIntervalMax)

		fm := u.Manager
		var (
			closest  spatial.Entry
			dist     = math.MaxFloat64
			allySeen int
		)
		for _, n := range grid.Near(u.Position, fm.CellSize) {
			if n.ID == id || !n.Active || n.Faction != u.Faction {
				continue
			}
			d := u.Position.Distance(n.Position)
			if d > dist || d >= fm.CollisionRange {
				continue
			}
			if !flock.InView(u.Position, u.Velocity, n.Position, fm.FieldOfView*0.5) {
				continue
			}
			closest, dist = n, d
			allySeen++
			if allySeen >= rules.NonCombatAllyLimit {
				break
			}
		}

		switch {
		case allySeen >= rules.NonCombatAllyLimit:
			u.Velocity = vmath.Vec3{}
		case allySeen > 0:
			if f, ok := s.world.Formation(u.Formation); ok {
				u.Velocity = u.Velocity.Add(flock.Avoidance(u.Position, f.Centroid, closest.Position, dist, fm, rules))
			}
		}
	})
}
