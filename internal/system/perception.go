package system

import (
	"math"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/flock"
	"github.com/l1jgo/phalanx/internal/spatial"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
)

// CombatPerceptionSystem picks melee targets for units of melee formations
// that are in attack range. Phase 7 (Perception).
//
// Each unit scans its own grid cell. The nearest enemy inside attack distance
// wins over any ally; failing that, the nearest melee ally in view decides
// whether the unit steers around it or stops because the front is congested.
// Target assignment goes through the command buffer.
type CombatPerceptionSystem struct {
	world *world.State
	pool  *job.Pool
}

func NewCombatPerceptionSystem(ws *world.State, pool *job.Pool) *CombatPerceptionSystem {
	return &CombatPerceptionSystem{world: ws, pool: pool}
}

func (s *CombatPerceptionSystem) Phase() coresys.Phase { return coresys.PhasePerception }

// scanResult is the outcome of a cell scan.
type scanResult struct {
	closest  spatial.Entry
	dist     float64
	found    bool
	enemy    bool
	allySeen int
}

func (s *CombatPerceptionSystem) Update(_ coresys.Tick) {
	units := s.world.Units()
	tags := s.world.Tags()
	cmds := s.world.Commands()
	grid := s.world.Grid()
	rules := s.world.Rules()

	s.pool.For(units.Cap(), func(i int) {
		id, u, ok := units.At(i)
		if !ok || tags.Any(id, component.TagDead|component.TagMeleeAttack) {
			return
		}
		if !tags.Has(u.Formation, component.TagInAttackRange|component.TagMelee) {
			return
		}
		fm := u.Manager
		r := s.scan(id, u, grid.Near(u.Position, fm.CellSize))
		slot := uint32(i)

		switch {
		case r.enemy:
			cmds.AddTag(slot, id, component.TagMeleeAttack)
			cmds.SetRef(slot, id, r.closest.ID)
			cmds.Adjust(slot, r.closest.ID, 1)
			u.BlockingUnit = true
			u.Velocity = vmath.Vec3{}
		case r.found && r.allySeen >= fm.MaxToCollide &&
			u.Position.Distance(steerTarget(u)) <= fm.CollisionRange*rules.CongestionRangeFactor:
			u.BlockingUnit = true
			u.StopAnimation = true
			u.StopAnimationTimer = rules.StopAnimationTime
			u.Velocity = vmath.Vec3{}
		case r.found:
			u.BlockingUnit = false
			if f, ok := s.world.Formation(u.Formation); ok {
				u.Velocity = u.Velocity.Add(flock.Avoidance(u.Position, f.Centroid, r.closest.Position, r.dist, fm, rules))
			}
		default:
			u.BlockingUnit = false
		}
	})
}

func (s *CombatPerceptionSystem) scan(self ecs.EntityID, u *component.Unit, cell []spatial.Entry) scanResult {
	tags := s.world.Tags()
	rules := s.world.Rules()
	fm := u.Manager
	r := scanResult{dist: math.MaxFloat64}
	for _, n := range cell {
		if n.ID == self {
			continue
		}
		d := u.Position.Distance(n.Position)
		if n.Faction != u.Faction {
			if d < rules.AttackDistance && (!r.enemy || d < r.dist) {
				r.closest, r.dist, r.found, r.enemy = n, d, true, true
				if d < rules.AttackDistance*rules.ShortCircuitRatio {
					break
				}
			}
			continue
		}
		if r.enemy || d > r.dist || d >= fm.CollisionRange {
			continue
		}
		if !tags.Has(n.Formation, component.TagMelee) {
			continue
		}
		if !flock.InView(u.Position, u.Velocity, n.Position, fm.FieldOfView) {
			continue
		}
		r.closest, r.dist, r.found = n, d, true
		r.allySeen++
	}
	return r
}

// steerTarget is the point the unit is currently seeking.
func steerTarget(u *component.Unit) vmath.Vec3 {
	if u.InFormation {
		return u.FormationTarget
	}
	return u.Target
}
