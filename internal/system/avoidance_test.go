package system

import (
	"testing"

	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/vmath"
)

func marching(t *testing.T, allies []float64) (*fixture, ecs.EntityID) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})
	for _, x := range allies {
		f.unit(fid, vmath.Vec3{X: x})
	}
	f.get(id).Velocity = vmath.Vec3{X: 1}
	f.index()
	return f, id
}

func TestThreeAlliesStopUnit(t *testing.T) {
	f, id := marching(t, []float64{1.0, 0.8, 0.6})
	NewAvoidanceSystem(f.ws, f.pool, 1).Update(tick)

	u := f.get(id)
	if !u.Velocity.IsZero() {
		t.Fatalf("velocity = %v, want zero", u.Velocity)
	}
	r := f.ws.Rules()
	if u.CollisionTimer < r.CollisionIntervalMin || u.CollisionTimer >= r.CollisionIntervalMax {
		t.Fatalf("CollisionTimer = %v", u.CollisionTimer)
	}
	if f.ws.Commands().Len() != 0 {
		t.Fatal("avoidance queued commands")
	}
}

func TestTwoAlliesSteerAround(t *testing.T) {
	f, id := marching(t, []float64{1.0, 0.8})
	NewAvoidanceSystem(f.ws, f.pool, 1).Update(tick)

	u := f.get(id)
	if u.Velocity.IsZero() || u.Velocity.X >= 1 {
		t.Fatalf("velocity = %v, want a push back from the allies", u.Velocity)
	}
}

func TestAvoidanceCooldown(t *testing.T) {
	f, id := marching(t, []float64{1.0, 0.8, 0.6})
	u := f.get(id)
	u.CollisionTimer = 0.2
	NewAvoidanceSystem(f.ws, f.pool, 1).Update(tick)
	if u.Velocity != (vmath.Vec3{X: 1}) {
		t.Fatalf("checked during cooldown: %v", u.Velocity)
	}
}

func TestAvoidanceSkipsAttackRangeAndIdle(t *testing.T) {
	f, id := marching(t, []float64{1.0, 0.8, 0.6})
	u := f.get(id)
	_ = f.ws.SetInAttackRange(u.Formation, true)
	NewAvoidanceSystem(f.ws, f.pool, 1).Update(tick)
	if u.Velocity.IsZero() {
		t.Fatal("non-combat pass ran for a formation in attack range")
	}

	_ = f.ws.SetInAttackRange(u.Formation, false)
	_ = f.ws.SetMoving(id, false)
	NewAvoidanceSystem(f.ws, f.pool, 1).Update(tick)
	if u.Velocity.IsZero() {
		t.Fatal("non-combat pass ran for a unit that is not moving")
	}
}
