package trace

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/l1jgo/phalanx/internal/core/event"
)

// Recorder turns bus events into trace records and writes them from its own
// goroutine, so file I/O never runs on the tick goroutine. When the queue is
// full records are dropped and counted.
type Recorder struct {
	w       *Writer
	in      chan Record
	wg      sync.WaitGroup
	dropped atomic.Uint64
	closed  atomic.Bool
	log     *zap.Logger
}

// NewRecorder starts the writer goroutine with a queue of the given size.
func NewRecorder(w *Writer, queue int, log *zap.Logger) *Recorder {
	if queue <= 0 {
		queue = 1024
	}
	r := &Recorder{w: w, in: make(chan Record, queue), log: log}
	r.wg.Add(1)
	go r.loop()
	return r
}

func (r *Recorder) loop() {
	defer r.wg.Done()
	failed := false
	for rec := range r.in {
		if failed {
			continue
		}
		if err := r.w.Write(rec); err != nil {
			r.log.Error("trace write failed, dropping rest of trace", zap.String("path", r.w.Path()), zap.Error(err))
			failed = true
		}
	}
}

// Subscribe routes the simulation events into the trace.
func (r *Recorder) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(e event.TickCompleted) {
		r.Record(Record{
			Kind:      KindTick,
			Tick:      e.Tick,
			Units:     e.Units,
			Active:    e.Active,
			Blocked:   e.Blocked,
			Attacking: e.Attacking,
			Digest:    DigestString(e.Digest),
		})
	})
	event.Subscribe(bus, func(e event.EngagementStarted) {
		r.Record(Record{Kind: KindEngage, Tick: e.Tick, Attacker: uint64(e.Attacker), Target: uint64(e.Target), Faction: e.Faction})
	})
	event.Subscribe(bus, func(e event.EngagementCleared) {
		r.Record(Record{Kind: KindClear, Tick: e.Tick, Attacker: uint64(e.Attacker), Target: uint64(e.Target)})
	})
	event.Subscribe(bus, func(e event.FlockingToggled) {
		r.Record(Record{Kind: KindFlocking, Tick: e.Tick, Unit: uint64(e.Unit), Disabled: e.Disabled})
	})
}

// Record queues rec without blocking. Records after Close are ignored.
func (r *Recorder) Record(rec Record) {
	if r.closed.Load() {
		return
	}
	select {
	case r.in <- rec:
	default:
		r.dropped.Add(1)
	}
}

// Dropped is the number of records lost to a full queue.
func (r *Recorder) Dropped() uint64 { return r.dropped.Load() }

// Close drains the queue and closes the file.
func (r *Recorder) Close() error {
	if r.closed.CompareAndSwap(false, true) {
		close(r.in)
	}
	r.wg.Wait()
	return r.w.Close()
}
