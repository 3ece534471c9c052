package system

import "time"

// Phase defines execution ordering within a single tick. Every system of a
// phase finishes before the next phase starts, which is the only
// synchronisation between movement phases.
type Phase int

const (
	PhaseInput      Phase = iota // deliver last tick's events
	PhasePreUpdate               // collaborator bookkeeping: reform, centroid, engagement sweep
	PhaseSpatial                 // rebuild the spatial grid
	PhaseFormation               // formation slot -> world target
	PhaseActivity                // activity gate
	PhaseGround                  // terrain height sampling
	PhaseFlocking                // separation / alignment / cohesion
	PhasePerception              // combat targeting pass
	PhaseAvoidance               // out-of-combat collision avoidance
	PhaseIntegrate               // velocity -> position
	PhaseOutput                  // stats, trace
	PhaseCleanup                 // apply deferred commands
)

var phaseNames = [...]string{
	"input", "pre_update", "spatial", "formation", "activity", "ground",
	"flocking", "perception", "avoidance", "integrate", "output", "cleanup",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Tick describes the step being simulated.
type Tick struct {
	N  uint64        // 1-based tick counter
	DT time.Duration // simulated step length
}

// Seconds returns DT in seconds.
func (t Tick) Seconds() float64 { return t.DT.Seconds() }

// Elapsed is the simulated time at the end of this tick.
func (t Tick) Elapsed() time.Duration { return time.Duration(t.N) * t.DT }

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(t Tick)
}
