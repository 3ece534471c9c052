// Package terrain defines the height query the ground sampler depends on and
// a few simple surfaces. The real raycast belongs to the host engine.
package terrain

import (
	"math"

	"github.com/l1jgo/phalanx/internal/vmath"
)

// Surface answers a probe from origin along dir (dir's length is the probe
// range) with the closest surface point, or ok=false for no hit.
// Implementations must be safe for concurrent use.
type Surface interface {
	Probe(origin, dir vmath.Vec3) (hit vmath.Vec3, ok bool)
}

// HeightFunc is a heightfield y = f(x, z). ok=false means no ground there.
type HeightFunc func(x, z float64) (y float64, ok bool)

// Func adapts a heightfield to Surface. Only vertical probes are meaningful;
// the hit is reported when the field height lies within the probe segment.
type Func HeightFunc

func (f Func) Probe(origin, dir vmath.Vec3) (vmath.Vec3, bool) {
	y, ok := f(origin.X, origin.Z)
	if !ok || math.IsNaN(y) {
		return vmath.Vec3{}, false
	}
	lo, hi := origin.Y, origin.Y+dir.Y
	if lo > hi {
		lo, hi = hi, lo
	}
	if y < lo || y > hi {
		return vmath.Vec3{}, false
	}
	return vmath.Vec3{X: origin.X, Y: y, Z: origin.Z}, true
}

// Flat is an infinite plane at the given height.
func Flat(height float64) Surface {
	return Func(func(float64, float64) (float64, bool) { return height, true })
}

// ProbeBelow builds the downward probe used for grounding: it starts height
// above p and reaches depth below it.
func ProbeBelow(s Surface, p vmath.Vec3, height, depth float64) (vmath.Vec3, bool) {
	origin := p.Add(vmath.Vec3{Y: height})
	return s.Probe(origin, vmath.Vec3{Y: -(height + depth)})
}
