package component

import (
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/vmath"
)

// Formation is a posed group of units with a fixed slot layout.
// Read-only during the movement phases.
type Formation struct {
	Name         string
	Faction      Faction
	Position     vmath.Vec3
	Rotation     vmath.Quat // world pose
	SlotRotation vmath.Quat // applied to slot offsets before the pose
	Cols, Rows   int
	Spacing      vmath.Vec2
	Centroid     vmath.Vec3
	Members      []ecs.EntityID
}
