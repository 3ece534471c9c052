package system

import (
	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
)

// CentroidSystem sets every formation's centroid to the mean position of its
// live members, or to the formation position when none are left.
// Phase 1 (PreUpdate).
type CentroidSystem struct {
	world *world.State
}

func NewCentroidSystem(ws *world.State) *CentroidSystem {
	return &CentroidSystem{world: ws}
}

func (s *CentroidSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *CentroidSystem) Update(_ coresys.Tick) {
	s.world.Formations().Each(func(_ ecs.EntityID, f *component.Formation) {
		var sum vmath.Vec3
		n := 0
		for _, m := range f.Members {
			u, ok := s.world.Unit(m)
			if !ok || s.world.HasTag(m, component.TagDead) {
				continue
			}
			sum = sum.Add(u.Position)
			n++
		}
		if n == 0 {
			f.Centroid = f.Position
			return
		}
		f.Centroid = sum.Div(float64(n))
	})
}
