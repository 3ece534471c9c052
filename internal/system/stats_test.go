package system

import (
	"testing"

	"github.com/l1jgo/phalanx/internal/core/event"
	"github.com/l1jgo/phalanx/internal/vmath"
	"go.uber.org/zap/zaptest"
)

func TestStatsAndCommitEvents(t *testing.T) {
	f := newFixture(t)
	fid := f.formation(1, false)
	idle, _ := f.unit(fid, vmath.Vec3{})
	busy, _ := f.unit(fid, vmath.Vec3{})
	dead, _ := f.unit(fid, vmath.Vec3{})
	_ = f.ws.Kill(dead)
	f.get(idle).FormationTarget = vmath.Vec3{}
	f.get(busy).FormationTarget = vmath.Vec3{X: 5}

	var done []event.TickCompleted
	var toggled []event.FlockingToggled
	event.Subscribe(f.bus, func(e event.TickCompleted) { done = append(done, e) })
	event.Subscribe(f.bus, func(e event.FlockingToggled) { toggled = append(toggled, e) })

	NewActivityGateSystem(f.ws, f.pool).Update(tick)
	NewStatsSystem(f.ws, f.bus, 1, zaptest.NewLogger(t)).Update(tick)
	digest := f.ws.Digest()
	f.commit()
	f.bus.SwapBuffers()
	f.bus.DispatchAll()

	if len(done) != 1 {
		t.Fatalf("TickCompleted x%d", len(done))
	}
	e := done[0]
	if e.Units != 2 || e.Active != 1 || e.Commands != 1 {
		t.Fatalf("stats %+v", e)
	}
	if e.Digest != digest {
		t.Fatal("digest does not match state")
	}
	if digest == f.ws.Digest() {
		t.Fatal("digest ignores tags")
	}
	if len(toggled) != 1 || toggled[0].Unit != idle || !toggled[0].Disabled {
		t.Fatalf("toggles %+v", toggled)
	}
}
