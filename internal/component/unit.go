package component

import (
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/vmath"
)

// Faction identifies a side. Units of different factions are enemies.
type Faction int32

// Unit stores the movement state of one simulated agent.
// Pure data with no methods. Systems do all mutation.
// Each field group below is written by exactly one phase.
type Unit struct {
	Formation ecs.EntityID
	Manager   *FlockManager // shared, read-only
	Faction   Faction
	Speed     float64

	// integrate
	Position vmath.Vec3
	Velocity vmath.Vec3 // flocking, perception and activity also adjust it, in phase order

	// collaborator inputs
	Target      vmath.Vec3 // ad-hoc target used outside formation
	InFormation bool
	SlotOffset  vmath.Vec2
	HasSlot     bool

	// formation target
	FormationTarget vmath.Vec3

	// activity gate
	ShouldFlock        bool
	IsActive           bool
	StopAnimation      bool
	StopAnimationTimer float64

	// perception
	BlockingUnit     bool
	BlockingBuilding bool
	CollisionTimer   float64

	// ground
	YHeight float64
	YTimer  float64

	// commit (command buffer playback only)
	TargetedAmount int32
	AttackTarget   ecs.EntityID
}
