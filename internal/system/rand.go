package system

import (
	"math/rand/v2"

	coresys "github.com/l1jgo/phalanx/internal/core/system"
)

// Random streams. Each consumer draws from its own stream so adding a draw in
// one system never shifts the sequence seen by another.
const (
	streamGround uint64 = iota + 1
	streamCollision
)

// unitRand returns a uniform value in [lo, hi) that depends only on the run
// seed, the tick, the unit's slot and the stream. Replaying the same inputs
// gives the same value regardless of which worker draws it.
func unitRand(seed uint64, t coresys.Tick, slot uint32, stream uint64, lo, hi float64) float64 {
	var p rand.PCG
	p.Seed(seed+t.N*0x9e3779b97f4a7c15, uint64(slot)<<8|stream)
	f := float64(p.Uint64()>>11) / (1 << 53)
	return lo + f*(hi-lo)
}
