package system

import (
	"testing"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/vmath"
)

func TestActivityHysteresis(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})
	gate := NewActivityGateSystem(f.ws, f.pool)

	// inside acceptance distance: goes idle, tag lands at commit
	u := f.get(id)
	u.Velocity = vmath.Vec3{X: 1}
	u.FormationTarget = vmath.Vec3{X: 0.3}
	gate.Update(tick)
	if u.IsActive || !u.Velocity.IsZero() {
		t.Fatalf("unit still active: %+v", u)
	}
	if f.ws.HasTag(id, component.TagDisableFlocking) {
		t.Fatal("tag applied before commit")
	}
	f.commit()
	if !f.ws.HasTag(id, component.TagDisableFlocking) {
		t.Fatal("flocking-disabled tag not applied")
	}

	// running again on the idle unit changes nothing
	before := *u
	gate.Update(tick)
	if *u != before {
		t.Fatalf("idle unit changed:\n%+v\n%+v", before, *u)
	}
	if n := f.ws.Commands().Len(); n != 0 {
		t.Fatalf("idle unit queued %d commands", n)
	}

	// target drifts but stays within acceptance
	u.FormationTarget = vmath.Vec3{X: 0.45}
	gate.Update(tick)
	if u.IsActive {
		t.Fatal("woke up inside acceptance distance")
	}

	// pushed out: active again, tag removed at commit
	u.FormationTarget = vmath.Vec3{X: 0.6}
	gate.Update(tick)
	if !u.IsActive {
		t.Fatal("did not wake up outside acceptance distance")
	}
	f.commit()
	if f.ws.HasTag(id, component.TagDisableFlocking) {
		t.Fatal("flocking-disabled tag not removed")
	}
}

func TestActivityOutOfFormationUsesTighterRadius(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})
	u := f.get(id)
	u.InFormation = false
	u.Target = vmath.Vec3{X: 0.45} // within 0.5 but outside 0.8*0.5

	NewActivityGateSystem(f.ws, f.pool).Update(tick)
	if !u.IsActive {
		t.Fatal("loose unit idle at 0.45")
	}
}

func TestActivityBlockedAndFlockingOff(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, true)
	id, _ := f.unit(fid, vmath.Vec3{})
	u := f.get(id)
	u.FormationTarget = vmath.Vec3{X: 5}
	gate := NewActivityGateSystem(f.ws, f.pool)

	u.BlockingBuilding = true
	gate.Update(tick)
	if u.ShouldFlock || u.IsActive {
		t.Fatal("blocked unit active")
	}

	u.BlockingBuilding = false
	_ = f.ws.SetFormationFlocking(fid, false)
	gate.Update(tick)
	if !u.ShouldFlock || u.IsActive {
		t.Fatal("formation flocking off but unit active")
	}

	// engaged melee units ignore the distance test
	_ = f.ws.SetFormationFlocking(fid, true)
	_ = f.ws.SetEngaged(id, true)
	u.FormationTarget = vmath.Vec3{}
	gate.Update(tick)
	if !u.IsActive {
		t.Fatal("engaged unit idle on its slot")
	}
}

func TestStopAnimationCountdown(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})
	u := f.get(id)
	u.StopAnimation = true
	u.StopAnimationTimer = 0.08

	gate := NewActivityGateSystem(f.ws, f.pool)
	gate.Update(tick)
	if !u.StopAnimation {
		t.Fatal("cleared too early")
	}
	gate.Update(tick)
	if u.StopAnimation || u.StopAnimationTimer != f.ws.Rules().StopAnimationTime {
		t.Fatalf("flag=%v timer=%v", u.StopAnimation, u.StopAnimationTimer)
	}
}
