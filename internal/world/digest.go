package world

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Digest hashes the movement state of every unit in slot order: entity,
// tags, position, velocity and attack bookkeeping. Two runs that replay the
// same inputs produce the same digest tick for tick.
func (s *State) Digest() [32]byte {
	h, _ := blake2b.New256(nil) // only fails for oversized keys
	var buf [8]byte
	putU := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	putF := func(f float64) { putU(math.Float64bits(f)) }

	tags := s.Tags()
	for i := 0; i < s.units.Cap(); i++ {
		id, u, ok := s.units.At(i)
		if !ok {
			continue
		}
		putU(uint64(id))
		putU(uint64(tags.Get(id)))
		putF(u.Position.X)
		putF(u.Position.Y)
		putF(u.Position.Z)
		putF(u.Velocity.X)
		putF(u.Velocity.Z)
		putU(uint64(u.AttackTarget))
		putU(uint64(u.TargetedAmount))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
