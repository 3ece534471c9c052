package sim

import (
	"fmt"
	"slices"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/data"
	"github.com/l1jgo/phalanx/internal/system"
	"github.com/l1jgo/phalanx/internal/vmath"
	"github.com/l1jgo/phalanx/internal/world"
	"go.uber.org/zap"
)

// Load spawns every formation of sc. Units start on their slots.
func (s *Simulation) Load(sc *data.Scenario) error {
	for i := range sc.Formations {
		fe := &sc.Formations[i]
		fid := s.state.SpawnFormation(world.FormationSpec{
			Name:         fe.Name,
			Faction:      component.Faction(fe.Faction),
			Position:     vmath.Vec3{X: fe.X, Y: fe.Y, Z: fe.Z},
			Rotation:     vmath.YawDeg(fe.HeadingDeg),
			SlotRotation: vmath.YawDeg(fe.SlotYawDeg),
			Cols:         fe.Cols,
			Rows:         fe.Rows,
			Spacing:      vmath.Vec2{X: fe.SpacingX, Y: fe.SpacingZ},
			Melee:        fe.Melee,
		})
		f, _ := s.state.Formation(fid)
		for n := 0; n < fe.UnitTotal(); n++ {
			off := system.SlotOffset(fe.Cols, fe.Rows, f.Spacing, n)
			pos := system.FormationTarget(f, off, fe.Y)
			if _, err := s.state.SpawnUnit(fid, world.UnitSpec{Position: pos, Speed: fe.Speed, Manager: s.manager}); err != nil {
				return fmt.Errorf("load scenario %q: %w", sc.Name, err)
			}
		}
		s.driver.Plan(fid, fe.Y, fe.Waypoints)
	}
	s.log.Info("scenario loaded",
		zap.String("scenario", sc.Name),
		zap.Int("formations", len(sc.Formations)),
		zap.Int("units", s.state.UnitCount()),
	)
	return nil
}

type plan struct {
	formation ecs.EntityID
	y         float64
	waypoints []data.Waypoint
	next      int
}

// ScenarioDriver replays scripted waypoints: it moves formations and toggles
// their attack range the way navigation and combat would. Phase 1 (PreUpdate),
// ahead of the reform and centroid bookkeeping.
type ScenarioDriver struct {
	world *world.State
	plans []*plan
}

func NewScenarioDriver(ws *world.State) *ScenarioDriver {
	return &ScenarioDriver{world: ws}
}

func (d *ScenarioDriver) Phase() coresys.Phase { return coresys.PhasePreUpdate }

// Plan schedules waypoints for formation fid. y is the anchor height.
func (d *ScenarioDriver) Plan(fid ecs.EntityID, y float64, wps []data.Waypoint) {
	if len(wps) == 0 {
		return
	}
	wps = slices.Clone(wps)
	slices.SortStableFunc(wps, func(a, b data.Waypoint) int {
		switch {
		case a.Tick < b.Tick:
			return -1
		case a.Tick > b.Tick:
			return 1
		}
		return 0
	})
	d.plans = append(d.plans, &plan{formation: fid, y: y, waypoints: wps})
}

func (d *ScenarioDriver) Update(t coresys.Tick) {
	for _, p := range d.plans {
		for p.next < len(p.waypoints) && p.waypoints[p.next].Tick <= t.N {
			wp := p.waypoints[p.next]
			p.next++
			d.apply(p, wp)
		}
	}
}

func (d *ScenarioDriver) apply(p *plan, wp data.Waypoint) {
	f, ok := d.world.Formation(p.formation)
	if !ok {
		return
	}
	_ = d.world.SetPose(p.formation, vmath.Vec3{X: wp.X, Y: p.y, Z: wp.Z}, vmath.YawDeg(wp.HeadingDeg))
	_ = d.world.SetInAttackRange(p.formation, wp.AttackMode)
	for _, m := range f.Members {
		_ = d.world.SetEngaged(m, wp.AttackMode)
	}
}
