// Package job runs data-parallel sweeps over the entity slot range.
package job

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool partitions a slot range into contiguous batches and runs them on at
// most Workers goroutines. A Pool holds no per-sweep state and may be shared
// by every system.
type Pool struct {
	workers int
	batch   int
}

// NewPool returns a pool. workers <= 0 means GOMAXPROCS; batch <= 0 means 256.
func NewPool(workers, batch int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if batch <= 0 {
		batch = 256
	}
	return &Pool{workers: workers, batch: batch}
}

func (p *Pool) Workers() int { return p.workers }

// For calls fn(i) for every i in [0, n). Calls for different i may run
// concurrently; fn must only write state owned by slot i. For returns after
// every call has finished.
func (p *Pool) For(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if p.workers == 1 || n <= p.batch {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(p.workers)
	for lo := 0; lo < n; lo += p.batch {
		lo, hi := lo, min(lo+p.batch, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}
