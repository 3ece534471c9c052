package event

import "github.com/l1jgo/phalanx/internal/core/ecs"

// EngagementStarted is emitted when an attacker locks onto a target.
type EngagementStarted struct {
	Tick     uint64
	Attacker ecs.EntityID
	Target   ecs.EntityID
	Faction  int32
}

// EngagementCleared is emitted when an attack assignment is dropped because a
// party died or the combat collaborator disengaged it.
type EngagementCleared struct {
	Tick     uint64
	Attacker ecs.EntityID
	Target   ecs.EntityID
}

// FlockingToggled is emitted when a unit gains or loses the flocking-disabled tag.
type FlockingToggled struct {
	Tick     uint64
	Unit     ecs.EntityID
	Disabled bool
}

// TickCompleted closes every tick with population counters.
type TickCompleted struct {
	Tick      uint64
	Units     int
	Active    int
	Blocked   int
	Attacking int
	Commands  int      // commands queued for this tick's commit
	Digest    [32]byte // state hash after integration
}
