package system

import (
	"testing"
	"time"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/core/event"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
	"go.uber.org/zap/zaptest"
)

var tick = coresys.Tick{N: 1, DT: 50 * time.Millisecond}

type fixture struct {
	t    *testing.T
	ws   *world.State
	pool *job.Pool
	bus  *event.Bus
	fm   *component.FlockManager
}

func newFixture(t *testing.T) *fixture {
	fm := component.DefaultFlockManager()
	return &fixture{
		t:    t,
		ws:   world.NewState(component.DefaultRules()),
		pool: job.NewPool(4, 1),
		bus:  event.NewBus(),
		fm:   &fm,
	}
}

func (f *fixture) formation(faction component.Faction, melee bool) ecs.EntityID {
	return f.ws.SpawnFormation(world.FormationSpec{
		Faction: faction,
		Cols:    4,
		Rows:    2,
		Spacing: vmath.Vec2{X: 1, Y: 1},
		Melee:   melee,
	})
}

func (f *fixture) unit(fid ecs.EntityID, pos vmath.Vec3) (ecs.EntityID, *component.Unit) {
	f.t.Helper()
	id, err := f.ws.SpawnUnit(fid, world.UnitSpec{Position: pos, Speed: 2, Manager: f.fm})
	if err != nil {
		f.t.Fatalf("spawn unit: %v", err)
	}
	u, _ := f.ws.Unit(id)
	return id, u
}

// get re-resolves a unit pointer; stores may have grown since spawn.
func (f *fixture) get(id ecs.EntityID) *component.Unit {
	f.t.Helper()
	u, ok := f.ws.Unit(id)
	if !ok {
		f.t.Fatalf("unit %x missing", id)
	}
	return u
}

func (f *fixture) index() {
	NewSpatialIndexSystem(f.ws, f.pool).Update(tick)
}

func (f *fixture) commit() {
	NewCommitSystem(f.ws, f.bus, zaptest.NewLogger(f.t)).Update(tick)
}
