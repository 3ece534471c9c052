package world

import (
	"errors"
	"fmt"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/spatial"
	"github.com/l1jgo/phalanx/internal/vmath"
)

var (
	ErrUnknownFormation = errors.New("unknown formation")
	ErrUnknownUnit      = errors.New("unknown unit")
)

// State is the in-memory simulation state: entities, component stores and the
// per-tick spatial grid. Collaborator methods (Spawn*, Set*, Kill, Disengage)
// mutate in place and must only be called between ticks, from the goroutine
// that drives the runner. Systems access the stores directly during a tick.
type State struct {
	ecs        *ecs.World
	units      *ecs.Store[component.Unit]
	formations *ecs.Store[component.Formation]
	grid       *spatial.Grid
	rules      component.Rules
}

func NewState(rules component.Rules) *State {
	w := ecs.NewWorld()
	s := &State{
		ecs:        w,
		units:      ecs.NewStore[component.Unit](1024),
		formations: ecs.NewStore[component.Formation](64),
		grid:       spatial.NewGrid(1024),
		rules:      rules,
	}
	w.Register(s.units)
	w.Register(s.formations)
	return s
}

func (s *State) ECS() *ecs.World                             { return s.ecs }
func (s *State) Tags() *ecs.TagStore                         { return s.ecs.Tags() }
func (s *State) Commands() *ecs.CommandBuffer                { return s.ecs.Commands() }
func (s *State) Units() *ecs.Store[component.Unit]           { return s.units }
func (s *State) Formations() *ecs.Store[component.Formation] { return s.formations }
func (s *State) Grid() *spatial.Grid                         { return s.grid }
func (s *State) Rules() *component.Rules                     { return &s.rules }

func (s *State) Unit(id ecs.EntityID) (*component.Unit, bool) {
	return s.units.Get(id)
}

func (s *State) Formation(id ecs.EntityID) (*component.Formation, bool) {
	return s.formations.Get(id)
}

// HasTag reports whether id carries every bit of t.
func (s *State) HasTag(id ecs.EntityID, t ecs.Tag) bool {
	return s.ecs.Tags().Has(id, t)
}

// FormationSpec describes a formation to spawn.
type FormationSpec struct {
	Name         string
	Faction      component.Faction
	Position     vmath.Vec3
	Rotation     vmath.Quat
	SlotRotation vmath.Quat
	Cols, Rows   int
	Spacing      vmath.Vec2
	Melee        bool
}

// UnitSpec describes a unit to spawn into a formation.
type UnitSpec struct {
	Position vmath.Vec3
	Speed    float64
	Manager  *component.FlockManager
}

// SpawnFormation creates an empty formation.
func (s *State) SpawnFormation(spec FormationSpec) ecs.EntityID {
	id := s.ecs.CreateEntity()
	rot, slotRot := spec.Rotation, spec.SlotRotation
	if rot == (vmath.Quat{}) {
		rot = vmath.Identity
	}
	if slotRot == (vmath.Quat{}) {
		slotRot = vmath.Identity
	}
	s.formations.Set(id, component.Formation{
		Name:         spec.Name,
		Faction:      spec.Faction,
		Position:     spec.Position,
		Rotation:     rot,
		SlotRotation: slotRot,
		Cols:         spec.Cols,
		Rows:         spec.Rows,
		Spacing:      spec.Spacing,
		Centroid:     spec.Position,
	})
	if spec.Melee {
		s.Tags().Add(id, component.TagMelee)
	}
	return id
}

// SpawnUnit creates a unit inside formation fid and schedules a reform so it
// receives a slot.
func (s *State) SpawnUnit(fid ecs.EntityID, spec UnitSpec) (ecs.EntityID, error) {
	f, ok := s.formations.Get(fid)
	if !ok {
		return 0, fmt.Errorf("spawn unit: %w", ErrUnknownFormation)
	}
	if spec.Manager == nil {
		return 0, fmt.Errorf("spawn unit in %q: nil flock manager", f.Name)
	}
	id := s.ecs.CreateEntity()
	s.units.Set(id, component.Unit{
		Formation:   fid,
		Manager:     spec.Manager,
		Faction:     f.Faction,
		Speed:       spec.Speed,
		Position:    spec.Position,
		Target:      spec.Position,
		InFormation: true,
		ShouldFlock: true,
		IsActive:    true,
		YHeight:     spec.Position.Y,
	})
	f.Members = append(f.Members, id)
	s.Tags().Add(id, component.TagMoving)
	s.Tags().Add(fid, component.TagReform)
	return id, nil
}

// Remove destroys a unit outright and drops it from its formation.
func (s *State) Remove(id ecs.EntityID) {
	u, ok := s.units.Get(id)
	if !ok {
		return
	}
	if f, ok := s.formations.Get(u.Formation); ok {
		for i, m := range f.Members {
			if m == id {
				f.Members = append(f.Members[:i], f.Members[i+1:]...)
				break
			}
		}
		s.Tags().Add(u.Formation, component.TagReform)
	}
	s.ecs.Destroy(id)
}

// SetPose moves and turns a formation.
func (s *State) SetPose(fid ecs.EntityID, pos vmath.Vec3, rot vmath.Quat) error {
	f, ok := s.formations.Get(fid)
	if !ok {
		return fmt.Errorf("set pose: %w", ErrUnknownFormation)
	}
	f.Position = pos
	f.Rotation = rot
	return nil
}

// SetAdHocTarget sets the point a unit seeks while out of formation.
func (s *State) SetAdHocTarget(id ecs.EntityID, p vmath.Vec3) error {
	u, ok := s.units.Get(id)
	if !ok {
		return fmt.Errorf("set target: %w", ErrUnknownUnit)
	}
	u.Target = p
	return nil
}

func (s *State) SetInFormation(id ecs.EntityID, on bool) error {
	u, ok := s.units.Get(id)
	if !ok {
		return fmt.Errorf("set in formation: %w", ErrUnknownUnit)
	}
	u.InFormation = on
	return nil
}

func (s *State) SetInAttackRange(fid ecs.EntityID, on bool) error {
	return s.formationTag(fid, component.TagInAttackRange, on)
}

func (s *State) SetMelee(fid ecs.EntityID, on bool) error {
	return s.formationTag(fid, component.TagMelee, on)
}

// SetFormationFlocking enables or disables flocking for every member.
func (s *State) SetFormationFlocking(fid ecs.EntityID, enabled bool) error {
	return s.formationTag(fid, component.TagFlockingOff, !enabled)
}

func (s *State) RequestReform(fid ecs.EntityID) error {
	return s.formationTag(fid, component.TagReform, true)
}

func (s *State) SetEngaged(id ecs.EntityID, on bool) error {
	return s.unitTag(id, component.TagEngaged, on)
}

func (s *State) SetMoving(id ecs.EntityID, on bool) error {
	return s.unitTag(id, component.TagMoving, on)
}

// Kill marks a unit dead. It stays in the stores but is skipped by every phase.
func (s *State) Kill(id ecs.EntityID) error {
	return s.unitTag(id, component.TagDead, true)
}

// Disengage drops an attack assignment and releases the target.
func (s *State) Disengage(id ecs.EntityID) error {
	u, ok := s.units.Get(id)
	if !ok {
		return fmt.Errorf("disengage: %w", ErrUnknownUnit)
	}
	s.ReleaseTarget(u)
	s.Tags().Clear(id, component.TagMeleeAttack)
	return nil
}

// ReleaseTarget clears u's attack target, decrements the target's counter and
// lets u move again.
func (s *State) ReleaseTarget(u *component.Unit) {
	if t, ok := s.units.Get(u.AttackTarget); ok && t.TargetedAmount > 0 {
		t.TargetedAmount--
	}
	u.AttackTarget = 0
	u.BlockingUnit = false
}

func (s *State) formationTag(fid ecs.EntityID, t ecs.Tag, on bool) error {
	if !s.formations.Has(fid) {
		return fmt.Errorf("formation tag: %w", ErrUnknownFormation)
	}
	s.toggle(fid, t, on)
	return nil
}

func (s *State) unitTag(id ecs.EntityID, t ecs.Tag, on bool) error {
	if !s.units.Has(id) {
		return fmt.Errorf("unit tag: %w", ErrUnknownUnit)
	}
	s.toggle(id, t, on)
	return nil
}

func (s *State) toggle(id ecs.EntityID, t ecs.Tag, on bool) {
	if on {
		s.Tags().Add(id, t)
	} else {
		s.Tags().Clear(id, t)
	}
}

// UnitCount is the number of units, dead or alive.
func (s *State) UnitCount() int { return s.units.Len() }
