package system

import (
	"testing"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/event"
	"github.com/l1jgo/phalanx/internal/vmath"
)

func TestEnemyBeatsCloserAlly(t *testing.T) {
	f := newFixture(t)
	ad := f.ws.Rules().AttackDistance

	front := f.formation(1, true)
	_ = f.ws.SetInAttackRange(front, true)
	support := f.formation(1, true) // melee ally, not attacking itself
	foe := f.formation(2, true)

	id, _ := f.unit(front, vmath.Vec3{})
	f.unit(support, vmath.Vec3{X: 0.1 * ad})
	enemy, _ := f.unit(foe, vmath.Vec3{X: 0.4 * ad})
	f.get(id).Velocity = vmath.Vec3{X: 1}

	var started []event.EngagementStarted
	event.Subscribe(f.bus, func(e event.EngagementStarted) { started = append(started, e) })

	f.index()
	NewCombatPerceptionSystem(f.ws, f.pool).Update(tick)

	u := f.get(id)
	if !u.BlockingUnit || !u.Velocity.IsZero() {
		t.Fatalf("attacker not stopped: %+v", u)
	}
	if !u.AttackTarget.IsZero() {
		t.Fatal("target assigned before commit")
	}

	f.commit()
	if u.AttackTarget != enemy {
		t.Fatalf("AttackTarget = %x, want enemy %x", u.AttackTarget, enemy)
	}
	if n := f.get(enemy).TargetedAmount; n != 1 {
		t.Fatalf("TargetedAmount = %d", n)
	}
	if !f.ws.HasTag(id, component.TagMeleeAttack) {
		t.Fatal("attacker not tagged")
	}

	f.bus.SwapBuffers()
	f.bus.DispatchAll()
	if len(started) != 1 || started[0].Attacker != id || started[0].Target != enemy {
		t.Fatalf("events %+v", started)
	}
}

func TestCombatPassNeedsMeleeInRange(t *testing.T) {
	f := newFixture(t)
	front := f.formation(1, false) // in range but not melee
	_ = f.ws.SetInAttackRange(front, true)
	foe := f.formation(2, true)
	id, _ := f.unit(front, vmath.Vec3{})
	f.unit(foe, vmath.Vec3{X: 0.5})

	f.index()
	NewCombatPerceptionSystem(f.ws, f.pool).Update(tick)
	if f.ws.Commands().Len() != 0 || f.get(id).BlockingUnit {
		t.Fatal("ranged formation acquired a melee target")
	}
}

func TestCongestedFrontStops(t *testing.T) {
	f := newFixture(t)
	front := f.formation(1, true)
	_ = f.ws.SetInAttackRange(front, true)
	support := f.formation(1, true)

	id, _ := f.unit(front, vmath.Vec3{})
	// slot order matches decreasing distance, so each ally becomes the new closest
	for _, x := range []float64{1.0, 0.8, 0.6} {
		f.unit(support, vmath.Vec3{X: x})
	}
	u := f.get(id)
	u.Velocity = vmath.Vec3{X: 1}
	u.FormationTarget = vmath.Vec3{X: 1}

	f.index()
	NewCombatPerceptionSystem(f.ws, f.pool).Update(tick)

	if !u.BlockingUnit || !u.StopAnimation || !u.Velocity.IsZero() {
		t.Fatalf("congested unit kept moving: %+v", u)
	}
	if u.StopAnimationTimer != f.ws.Rules().StopAnimationTime {
		t.Fatalf("StopAnimationTimer = %v", u.StopAnimationTimer)
	}
	if f.ws.Commands().Len() != 0 {
		t.Fatal("ally congestion queued commands")
	}
}

func TestSingleAllyAddsAvoidance(t *testing.T) {
	f := newFixture(t)
	front := f.formation(1, true)
	_ = f.ws.SetInAttackRange(front, true)
	support := f.formation(1, true)

	id, _ := f.unit(front, vmath.Vec3{})
	f.unit(support, vmath.Vec3{X: 0.5})
	u := f.get(id)
	u.Velocity = vmath.Vec3{X: 1}
	u.BlockingUnit = true
	form, _ := f.ws.Formation(front)
	form.Centroid = vmath.Vec3{X: -1}

	f.index()
	NewCombatPerceptionSystem(f.ws, f.pool).Update(tick)

	if u.BlockingUnit {
		t.Fatal("blocking not cleared")
	}
	if u.Velocity.X >= 1 {
		t.Fatalf("no push away from ally: %v", u.Velocity)
	}
}
