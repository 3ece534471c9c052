package trace

import (
	"errors"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/core/event"
)

func TestRecorderRoundTrip(t *testing.T) {
	w, err := Create(t.TempDir(), "run")
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecorder(w, 64, zaptest.NewLogger(t))
	rec.Record(Record{Kind: KindRun, Run: "abc", Scenario: "test", Units: 4})

	bus := event.NewBus()
	rec.Subscribe(bus)
	a, b := ecs.NewEntityID(1, 1), ecs.NewEntityID(2, 1)
	event.Emit(bus, event.EngagementStarted{Tick: 1, Attacker: a, Target: b, Faction: 2})
	event.Emit(bus, event.FlockingToggled{Tick: 1, Unit: b, Disabled: true})
	event.Emit(bus, event.TickCompleted{Tick: 1, Units: 4, Attacking: 1, Digest: [32]byte{0xab}})
	event.Emit(bus, event.EngagementCleared{Tick: 2, Attacker: a, Target: b})
	event.Emit(bus, event.TickCompleted{Tick: 2, Units: 4})
	bus.SwapBuffers()
	bus.DispatchAll()

	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if rec.Dropped() != 0 {
		t.Fatalf("dropped %d", rec.Dropped())
	}

	var s Summary
	var kinds []string
	err = Read(w.Path(), func(r Record) error {
		kinds = append(kinds, r.Kind)
		s.Add(r)
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(kinds) != 6 || kinds[0] != KindRun {
		t.Fatalf("kinds %v", kinds)
	}
	if s.Run != "abc" || s.Ticks != 2 || s.Engagements != 1 || s.Cleared != 1 ||
		s.PeakAttacking != 1 || s.FlockingOff != 1 {
		t.Fatalf("summary %+v", s)
	}
	if s.Digest != DigestString([32]byte{}) {
		t.Fatalf("last digest %q", s.Digest)
	}
}

func TestRecordAfterCloseIgnored(t *testing.T) {
	w, err := Create(t.TempDir(), "run")
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecorder(w, 1, zaptest.NewLogger(t))
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	rec.Record(Record{Kind: KindTick}) // must not panic
	if err := w.Write(Record{}); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("write after close: %v", err)
	}
}

func TestReadStopsOnCallbackError(t *testing.T) {
	w, err := Create(t.TempDir(), "run")
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		if err := w.Write(Record{Kind: KindTick, Tick: uint64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	stop := errors.New("stop")
	seen := 0
	err = Read(w.Path(), func(r Record) error {
		seen++
		if r.Tick == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || seen != 2 {
		t.Fatalf("err=%v seen=%d", err, seen)
	}
}
