package system

import (
	"math"
	"testing"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/vmath"
)

func TestFormationTargetRotation(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, true)
	if err := f.ws.SetPose(fid, vmath.Vec3{X: 10, Z: 5}, vmath.YawDeg(90)); err != nil {
		t.Fatal(err)
	}
	id, _ := f.unit(fid, vmath.Vec3{})
	u := f.get(id)
	u.SlotOffset = vmath.Vec2{X: 2, Y: 0}
	u.HasSlot = true
	u.YHeight = 3

	NewFormationTargetSystem(f.ws, f.pool).Update(tick)

	want := vmath.Vec3{X: 10, Y: 3, Z: 7}
	if got := f.get(id).FormationTarget; got.Distance(want) > 1e-9 {
		t.Fatalf("target = %v, want %v", got, want)
	}
}

func TestFormationTargetAppliesSlotRotationFirst(t *testing.T) {
	form := &component.Formation{
		Position:     vmath.Vec3{X: 1},
		Rotation:     vmath.YawDeg(90),
		SlotRotation: vmath.YawDeg(90),
	}
	// two quarter turns: (2,0) ends up at (-2,0)
	got := FormationTarget(form, vmath.Vec2{X: 2}, 0)
	if got.Distance(vmath.Vec3{X: -1}) > 1e-9 {
		t.Fatalf("target = %v", got)
	}
}

func TestFormationTargetSkipsUnslotted(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, true)
	id, _ := f.unit(fid, vmath.Vec3{X: 4})
	f.get(id).FormationTarget = vmath.Vec3{X: math.Pi}

	NewFormationTargetSystem(f.ws, f.pool).Update(tick)

	if got := f.get(id).FormationTarget; got.X != math.Pi {
		t.Fatalf("unslotted unit got a target: %v", got)
	}
}
