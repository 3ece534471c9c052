// Package sim wires the world state, the phase systems and the event bus into
// a steppable simulation.
package sim

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/config"
	"github.com/l1jgo/phalanx/internal/core/event"
	"github.com/l1jgo/phalanx/internal/core/job"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
	"github.com/l1jgo/phalanx/internal/system"
	"github.com/l1jgo/phalanx/internal/terrain"
	"github.com/l1jgo/phalanx/internal/world"
)

// Options configure a Simulation. Manager and Rules default to the values in
// Config when left zero.
type Options struct {
	Config  *config.Config
	Manager *component.FlockManager
	Rules   *component.Rules
	Surface terrain.Surface
	Log     *zap.Logger
}

// Simulation owns one world and runs it tick by tick. It is not safe for
// concurrent use; the goroutine calling Step is the tick goroutine.
type Simulation struct {
	id      uuid.UUID
	state   *world.State
	bus     *event.Bus
	runner  *coresys.Runner
	pool    *job.Pool
	driver  *ScenarioDriver
	manager *component.FlockManager
	dt      time.Duration
	log     *zap.Logger
}

func New(opts Options) *Simulation {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	surface := opts.Surface
	if surface == nil {
		surface = terrain.Flat(cfg.Terrain.FlatHeight)
	}
	fm := opts.Manager
	if fm == nil {
		m := cfg.FlockManager()
		fm = &m
	}
	rules := cfg.CombatRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}

	s := &Simulation{
		id:      uuid.New(),
		state:   world.NewState(rules),
		bus:     event.NewBus(),
		runner:  coresys.NewRunner(),
		pool:    job.NewPool(cfg.Simulation.Workers, cfg.Simulation.BatchSize),
		manager: fm,
		dt:      cfg.Simulation.TickRate,
		log:     log,
	}
	s.driver = NewScenarioDriver(s.state)

	seed := cfg.Simulation.Seed
	ws, pool, bus := s.state, s.pool, s.bus

	// Phase 0: Input
	s.runner.Register(system.NewEventDispatchSystem(bus))

	// Phase 1: PreUpdate
	s.runner.Register(s.driver)
	s.runner.Register(system.NewEngagementSweepSystem(ws, bus))
	s.runner.Register(system.NewReformSystem(ws))
	s.runner.Register(system.NewCentroidSystem(ws))

	// Phases 2-9: movement core
	s.runner.Register(system.NewSpatialIndexSystem(ws, pool))
	s.runner.Register(system.NewFormationTargetSystem(ws, pool))
	s.runner.Register(system.NewActivityGateSystem(ws, pool))
	s.runner.Register(system.NewGroundSamplerSystem(ws, pool, surface, cfg.Terrain.ProbeHeight, cfg.Terrain.ProbeDepth, seed))
	s.runner.Register(system.NewFlockingSystem(ws, pool))
	s.runner.Register(system.NewCombatPerceptionSystem(ws, pool))
	s.runner.Register(system.NewAvoidanceSystem(ws, pool, seed))
	s.runner.Register(system.NewIntegratorSystem(ws, pool))

	// Phase 10: Output
	s.runner.Register(system.NewStatsSystem(ws, bus, cfg.Logging.StatsEvery, log))

	// Phase 11: Cleanup
	s.runner.Register(system.NewCommitSystem(ws, bus, log))

	return s
}

// Step runs one tick.
func (s *Simulation) Step() coresys.Tick {
	return s.runner.Tick(s.dt)
}

// Drain delivers the events of the last tick without running another one.
// Call it once after the final Step.
func (s *Simulation) Drain() int {
	s.bus.SwapBuffers()
	return s.bus.DispatchAll()
}

func (s *Simulation) ID() uuid.UUID                    { return s.id }
func (s *Simulation) State() *world.State              { return s.state }
func (s *Simulation) Bus() *event.Bus                  { return s.bus }
func (s *Simulation) Runner() *coresys.Runner          { return s.runner }
func (s *Simulation) Pool() *job.Pool                  { return s.pool }
func (s *Simulation) Manager() *component.FlockManager { return s.manager }
func (s *Simulation) TickRate() time.Duration          { return s.dt }
func (s *Simulation) Digest() [32]byte                 { return s.state.Digest() }
