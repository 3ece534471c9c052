package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
)

// ReformSystem hands out slot offsets to the members of formations tagged for
// reform. Phase 1 (PreUpdate).
//
// A formation that is holding an attack range keeps its slots; the reform
// stays pending until the formation leaves the range, and leaving the range
// always triggers one.
type ReformSystem struct {
	world   *world.State
	inRange map[ecs.EntityID]bool
}

func NewReformSystem(ws *world.State) *ReformSystem {
	return &ReformSystem{world: ws, inRange: make(map[ecs.EntityID]bool)}
}

func (s *ReformSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *ReformSystem) Update(_ coresys.Tick) {
	tags := s.world.Tags()
	s.world.Formations().Each(func(fid ecs.EntityID, f *component.Formation) {
		engaged := tags.Has(fid, component.TagInAttackRange)
		if s.inRange[fid] && !engaged {
			tags.Add(fid, component.TagReform)
		}
		if engaged {
			s.inRange[fid] = true
		} else {
			delete(s.inRange, fid)
		}
		if engaged || !tags.Has(fid, component.TagReform) {
			return
		}
		s.layout(f)
		tags.Clear(fid, component.TagReform)
	})
}

func (s *ReformSystem) layout(f *component.Formation) {
	slot := 0
	for _, m := range f.Members {
		u, ok := s.world.Unit(m)
		if !ok || s.world.HasTag(m, component.TagDead) {
			continue
		}
		u.SlotOffset = SlotOffset(f.Cols, f.Rows, f.Spacing, slot)
		u.HasSlot = true
		slot++
	}
}

// SlotOffset returns the formation-local offset of the i-th live member. Slots
// fill row by row on a cols x rows grid centred on the formation origin,
// starting at (-cols/2, -rows/2). Members past cols*rows keep adding rows.
func SlotOffset(cols, rows int, spacing vmath.Vec2, i int) vmath.Vec2 {
	if cols <= 0 {
		cols = 1
	}
	x := i%cols - cols/2
	y := i/cols - rows/2
	return vmath.Vec2{X: float64(x) * spacing.X, Y: float64(y) * spacing.Y}
}
