package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
)

// FormationTargetSystem turns each unit's slot offset into a world-space
// target from its formation's current pose. Phase 3 (Formation).
type FormationTargetSystem struct {
	world *world.State
	pool  *job.Pool
}

func NewFormationTargetSystem(ws *world.State, pool *job.Pool) *FormationTargetSystem {
	return &FormationTargetSystem{world: ws, pool: pool}
}

func (s *FormationTargetSystem) Phase() coresys.Phase { return coresys.PhaseFormation }

func (s *FormationTargetSystem) Update(_ coresys.Tick) {
	units := s.world.Units()
	tags := s.world.Tags()
	s.pool.For(units.Cap(), func(i int) {
		id, u, ok := units.At(i)
		if !ok || !u.HasSlot || tags.Has(id, component.TagDead) {
			return
		}
		f, ok := s.world.Formation(u.Formation)
		if !ok {
			return
		}
		u.FormationTarget = FormationTarget(f, u.SlotOffset, u.YHeight)
	})
}

// FormationTarget maps a slot offset into world space: the slot rotation is
// applied first, then the formation rotation, then the formation position.
// The height is taken from y.
func FormationTarget(f *component.Formation, offset vmath.Vec2, y float64) vmath.Vec3 {
	local := vmath.Vec3{X: offset.X, Z: offset.Y}
	p := f.Position.Add(f.Rotation.Rotate(f.SlotRotation.Rotate(local)))
	return p.WithY(y)
}
