package system

import (
	"math"
	"testing"

	"github.com/l1jgo/phalanx/internal/terrain"
	"github.com/l1jgo/phalanx/internal/vmath"
)

func TestGroundHeightIsSmoothed(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})

	NewGroundSamplerSystem(f.ws, f.pool, terrain.Flat(12.5), 50, 100, 1).Update(tick)
	u := f.get(id)
	if u.YHeight != 12.5 {
		t.Fatalf("YHeight = %v", u.YHeight)
	}
	r := f.ws.Rules()
	if u.YTimer < r.GroundIntervalMin || u.YTimer >= r.GroundIntervalMax {
		t.Fatalf("YTimer = %v", u.YTimer)
	}

	NewIntegratorSystem(f.ws, f.pool).Update(tick)
	want := 12.5 * (1 - math.Exp(-r.HeightSmoothingRate*tick.Seconds()))
	if y := f.get(id).Position.Y; math.Abs(y-want) > 1e-9 || y >= 12.5 {
		t.Fatalf("y = %v, want %v", y, want)
	}
}

func TestGroundMissRetriesNextTick(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})
	u := f.get(id)
	u.YHeight = 1

	// ground far below the probe reaches
	NewGroundSamplerSystem(f.ws, f.pool, terrain.Flat(-500), 50, 100, 1).Update(tick)
	if u.YHeight != 1 || u.YTimer > 0 {
		t.Fatalf("miss changed state: y=%v timer=%v", u.YHeight, u.YTimer)
	}
}

func TestGroundWaitsForTimer(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	id, _ := f.unit(fid, vmath.Vec3{})
	u := f.get(id)
	u.YTimer = 0.5

	NewGroundSamplerSystem(f.ws, f.pool, terrain.Flat(3), 50, 100, 1).Update(tick)
	if u.YHeight != 0 || math.Abs(u.YTimer-0.45) > 1e-12 {
		t.Fatalf("y=%v timer=%v", u.YHeight, u.YTimer)
	}
}

func TestUnitRandDeterministic(t *testing.T) {
	a := unitRand(7, tick, 3, streamGround, 0.3, 1.0)
	if b := unitRand(7, tick, 3, streamGround, 0.3, 1.0); a != b {
		t.Fatalf("same inputs, different values: %v %v", a, b)
	}
	if a < 0.3 || a >= 1.0 {
		t.Fatalf("out of range: %v", a)
	}
	if c := unitRand(7, tick, 4, streamGround, 0.3, 1.0); c == a {
		t.Fatal("neighbouring slots drew the same value")
	}
}
