package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// keep their registration order.
type Runner struct {
	systems []System
	sorted  bool
	tick    uint64
	timings []time.Duration
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick advances the simulation by one step of dt and returns the tick run.
func (r *Runner) Tick(dt time.Duration) Tick {
	r.ensureSorted()
	r.tick++
	t := Tick{N: r.tick, DT: dt}
	for i, s := range r.systems {
		start := time.Now()
		s.Update(t)
		r.timings[i] = time.Since(start)
	}
	return t
}

// TickPhase runs only the systems of one phase, without advancing the counter.
// Tests use it to drive a single phase in isolation.
func (r *Runner) TickPhase(phase Phase, t Tick) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(t)
		}
	}
}

// Current is the number of ticks run so far.
func (r *Runner) Current() uint64 { return r.tick }

// PhaseTimings sums the wall time each phase took on the last tick.
func (r *Runner) PhaseTimings() map[Phase]time.Duration {
	out := make(map[Phase]time.Duration, len(phaseNames))
	for i, s := range r.systems {
		if i < len(r.timings) {
			out[s.Phase()] += r.timings[i]
		}
	}
	return out
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.timings = make([]time.Duration, len(r.systems))
		r.sorted = true
	}
}
