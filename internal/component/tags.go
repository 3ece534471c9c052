package component

import "github.com/l1jgo/phalanx/internal/core/ecs"

// Unit tags.
const (
	TagDead            ecs.Tag = 1 << iota // excluded from every phase
	TagDisableFlocking                     // stationary; navigation and animation idle
	TagMeleeAttack                         // holding an attack target
	TagEngaged                             // combat collaborator engaged this unit
	TagMoving                              // navigation is driving the unit
)

// Formation tags.
const (
	TagInAttackRange ecs.Tag = 1 << (iota + 16)
	TagMelee
	TagFlockingOff
	TagReform
)
