package persist

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/l1jgo/phalanx/internal/core/event"
)

// BatchWriter is the storage side of a Journal. JournalRepo implements it.
type BatchWriter interface {
	WriteBatch(ctx context.Context, run uuid.UUID, eng []EngagementRow, ticks []TickRow) error
}

type entry struct {
	eng  *EngagementRow
	tick *TickRow
}

// Journal collects engagement and tick events off the bus and writes them in
// batches from a background goroutine. The tick goroutine never waits on the
// database: when the queue is full entries are dropped and counted.
type Journal struct {
	w      BatchWriter
	run    uuid.UUID
	batch  int
	sample uint64
	log    *zap.Logger

	in      chan entry
	wg      sync.WaitGroup
	dropped atomic.Uint64
	failed  atomic.Uint64
	closed  atomic.Bool
}

// JournalOptions tune a Journal. Zero values pick defaults.
type JournalOptions struct {
	BatchSize   int
	QueueSize   int
	SampleEvery uint64 // keep every Nth tick summary, 0 = none
	FlushEvery  time.Duration
}

func NewJournal(ctx context.Context, w BatchWriter, run uuid.UUID, opts JournalOptions, log *zap.Logger) *Journal {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 256
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 4096
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = time.Second
	}
	j := &Journal{
		w:      w,
		run:    run,
		batch:  opts.BatchSize,
		sample: opts.SampleEvery,
		log:    log,
		in:     make(chan entry, opts.QueueSize),
	}
	j.wg.Add(1)
	go j.loop(ctx, opts.FlushEvery)
	return j
}

// Subscribe routes the simulation events into the journal.
func (j *Journal) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(e event.EngagementStarted) {
		j.push(entry{eng: &EngagementRow{Tick: e.Tick, Attacker: uint64(e.Attacker), Target: uint64(e.Target), Faction: e.Faction}})
	})
	event.Subscribe(bus, func(e event.EngagementCleared) {
		j.push(entry{eng: &EngagementRow{Tick: e.Tick, Attacker: uint64(e.Attacker), Target: uint64(e.Target), Cleared: true}})
	})
	event.Subscribe(bus, func(e event.TickCompleted) {
		if j.sample == 0 || e.Tick%j.sample != 0 {
			return
		}
		j.push(entry{tick: &TickRow{
			Tick:      e.Tick,
			Units:     e.Units,
			Active:    e.Active,
			Blocked:   e.Blocked,
			Attacking: e.Attacking,
			Digest:    e.Digest,
		}})
	})
}

func (j *Journal) push(e entry) {
	if j.closed.Load() {
		return
	}
	select {
	case j.in <- e:
	default:
		j.dropped.Add(1)
	}
}

func (j *Journal) loop(ctx context.Context, every time.Duration) {
	defer j.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var eng []EngagementRow
	var ticks []TickRow
	flush := func() {
		if len(eng) == 0 && len(ticks) == 0 {
			return
		}
		// a cancelled run context must not lose the tail of the journal
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := j.w.WriteBatch(wctx, j.run, eng, ticks); err != nil {
			j.failed.Add(uint64(len(eng) + len(ticks)))
			j.log.Error("journal write failed",
				zap.Int("engagements", len(eng)),
				zap.Int("ticks", len(ticks)),
				zap.Error(err),
			)
		}
		eng, ticks = eng[:0], ticks[:0]
	}

	for {
		select {
		case e, ok := <-j.in:
			if !ok {
				flush()
				return
			}
			if e.eng != nil {
				eng = append(eng, *e.eng)
			}
			if e.tick != nil {
				ticks = append(ticks, *e.tick)
			}
			if len(eng)+len(ticks) >= j.batch {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Dropped is the number of entries lost to a full queue.
func (j *Journal) Dropped() uint64 { return j.dropped.Load() }

// Failed is the number of entries whose batch could not be written.
func (j *Journal) Failed() uint64 { return j.failed.Load() }

// Close writes everything still queued and stops the background goroutine.
func (j *Journal) Close() {
	if j.closed.CompareAndSwap(false, true) {
		close(j.in)
	}
	j.wg.Wait()
}
