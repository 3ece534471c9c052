package system

import (
	"github.com/l1jgo/phalanx/internal/core/event"
	coresys "github.com/l1jgo/phalanx/internal/core/system"
)

// EventDispatchSystem delivers the events emitted during the previous tick.
// Phase 0 (Input). Subscribers run on the tick goroutine before any movement
// phase, so they may call the world collaborator API.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *EventDispatchSystem) Update(_ coresys.Tick) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
