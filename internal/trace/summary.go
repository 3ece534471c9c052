package trace

// Summary folds a trace into totals.
type Summary struct {
	Run           string
	Scenario      string
	Units         int
	Ticks         uint64
	Engagements   int
	Cleared       int
	PeakAttacking int
	FlockingOff   int
	FlockingOn    int
	Digest        string // digest of the last tick seen
}

func (s *Summary) Add(r Record) {
	switch r.Kind {
	case KindRun:
		s.Run, s.Scenario, s.Units = r.Run, r.Scenario, r.Units
	case KindTick:
		s.Ticks = max(s.Ticks, r.Tick)
		s.PeakAttacking = max(s.PeakAttacking, r.Attacking)
		s.Digest = r.Digest
	case KindEngage:
		s.Engagements++
	case KindClear:
		s.Cleared++
	case KindFlocking:
		if r.Disabled {
			s.FlockingOff++
		} else {
			s.FlockingOn++
		}
	}
}
