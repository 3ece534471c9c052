package system

import (
	"math"
	"testing"
	"time"

	"github.com/l1jgo/phalanx/internal/component"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/vmath"
)

func TestIntegratorCapsSpeed(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})
	u := f.get(id)
	u.Velocity = vmath.Vec3{X: 3, Y: 4, Z: 4}

	NewIntegratorSystem(f.ws, f.pool).Update(tick)

	if u.Velocity.Y != 0 {
		t.Fatalf("vertical velocity %v", u.Velocity.Y)
	}
	if math.Abs(u.Velocity.Len()-u.Speed) > 1e-12 {
		t.Fatalf("|v| = %v, speed %v", u.Velocity.Len(), u.Speed)
	}
	want := vmath.Vec3{X: 1.2, Z: 1.6}.Scale(tick.Seconds())
	if u.Position.Distance(want) > 1e-12 {
		t.Fatalf("position = %v, want %v", u.Position, want)
	}
}

func TestIntegratorClampsLongTicks(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})
	u := f.get(id)
	u.Velocity = vmath.Vec3{X: 1}

	NewIntegratorSystem(f.ws, f.pool).Update(coresys.Tick{N: 1, DT: 3 * time.Second})
	if want := u.Speed * f.ws.Rules().MaxStep; math.Abs(u.Position.X-want) > 1e-12 {
		t.Fatalf("x = %v, want %v", u.Position.X, want)
	}
}

func TestIntegratorSkipsIdleAndDead(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	idle, _ := f.unit(fid, vmath.Vec3{})
	dead, _ := f.unit(fid, vmath.Vec3{})
	f.ws.Tags().Add(idle, component.TagDisableFlocking)
	_ = f.ws.Kill(dead)
	f.get(idle).Velocity = vmath.Vec3{X: 1}
	f.get(dead).Velocity = vmath.Vec3{X: 1}

	NewIntegratorSystem(f.ws, f.pool).Update(tick)

	if !f.get(idle).Position.IsZero() || !f.get(dead).Position.IsZero() {
		t.Fatal("skipped units moved")
	}
}
