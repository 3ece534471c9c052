package world

import (
	"errors"
	"testing"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/vmath"
)

func TestSpawnAndCollaboratorCalls(t *testing.T) {
	s := NewState(component.DefaultRules())
	fm := component.DefaultFlockManager()
	fid := s.SpawnFormation(FormationSpec{Name: "a", Faction: 3, Cols: 2, Rows: 2, Melee: true})

	f, ok := s.Formation(fid)
	if !ok || f.Rotation != vmath.Identity || f.SlotRotation != vmath.Identity {
		t.Fatalf("formation %+v", f)
	}
	if !s.HasTag(fid, component.TagMelee) {
		t.Fatal("melee tag missing")
	}

	id, err := s.SpawnUnit(fid, UnitSpec{Position: vmath.Vec3{Y: 2}, Speed: 1, Manager: &fm})
	if err != nil {
		t.Fatal(err)
	}
	u, _ := s.Unit(id)
	if u.Faction != 3 || u.YHeight != 2 || !u.InFormation || !u.IsActive {
		t.Fatalf("unit %+v", u)
	}
	if !s.HasTag(id, component.TagMoving) || !s.HasTag(fid, component.TagReform) {
		t.Fatal("spawn tags missing")
	}

	if err := s.SetFormationFlocking(fid, false); err != nil || !s.HasTag(fid, component.TagFlockingOff) {
		t.Fatalf("flocking off: %v", err)
	}
	if err := s.SetFormationFlocking(fid, true); err != nil || s.HasTag(fid, component.TagFlockingOff) {
		t.Fatalf("flocking on: %v", err)
	}
	if err := s.SetAdHocTarget(id, vmath.Vec3{X: 9}); err != nil || u.Target.X != 9 {
		t.Fatalf("target: %v", err)
	}
}

func TestUnknownIDs(t *testing.T) {
	s := NewState(component.DefaultRules())
	fm := component.DefaultFlockManager()
	if _, err := s.SpawnUnit(ecs.NewEntityID(5, 1), UnitSpec{Manager: &fm}); !errors.Is(err, ErrUnknownFormation) {
		t.Fatalf("err = %v", err)
	}
	if err := s.Kill(ecs.NewEntityID(5, 1)); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("err = %v", err)
	}
	fid := s.SpawnFormation(FormationSpec{Name: "a"})
	if _, err := s.SpawnUnit(fid, UnitSpec{}); err == nil {
		t.Fatal("nil manager accepted")
	}
}

func TestDisengageReleasesTarget(t *testing.T) {
	s := NewState(component.DefaultRules())
	fm := component.DefaultFlockManager()
	fid := s.SpawnFormation(FormationSpec{Name: "a"})
	a, _ := s.SpawnUnit(fid, UnitSpec{Manager: &fm})
	b, _ := s.SpawnUnit(fid, UnitSpec{Manager: &fm})

	ua, _ := s.Unit(a)
	ub, _ := s.Unit(b)
	ua.AttackTarget = b
	ua.BlockingUnit = true
	ub.TargetedAmount = 1
	s.Tags().Add(a, component.TagMeleeAttack)

	if err := s.Disengage(a); err != nil {
		t.Fatal(err)
	}
	if ub.TargetedAmount != 0 || !ua.AttackTarget.IsZero() || ua.BlockingUnit || s.HasTag(a, component.TagMeleeAttack) {
		t.Fatalf("attacker %+v target %+v", ua, ub)
	}
}

func TestRemoveDropsMember(t *testing.T) {
	s := NewState(component.DefaultRules())
	fm := component.DefaultFlockManager()
	fid := s.SpawnFormation(FormationSpec{Name: "a"})
	a, _ := s.SpawnUnit(fid, UnitSpec{Manager: &fm})
	b, _ := s.SpawnUnit(fid, UnitSpec{Manager: &fm})

	s.Remove(a)
	f, _ := s.Formation(fid)
	if len(f.Members) != 1 || f.Members[0] != b {
		t.Fatalf("members %v", f.Members)
	}
	if _, ok := s.Unit(a); ok || s.UnitCount() != 1 {
		t.Fatal("removed unit still resolvable")
	}
}

func TestDigestTracksMovement(t *testing.T) {
	s := NewState(component.DefaultRules())
	fm := component.DefaultFlockManager()
	fid := s.SpawnFormation(FormationSpec{Name: "a"})
	id, _ := s.SpawnUnit(fid, UnitSpec{Manager: &fm})

	d1 := s.Digest()
	if d1 != s.Digest() {
		t.Fatal("digest not stable")
	}
	u, _ := s.Unit(id)
	u.Position.X += 1e-9
	if s.Digest() == d1 {
		t.Fatal("digest ignored a position change")
	}
}
