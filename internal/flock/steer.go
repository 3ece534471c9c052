// Package flock holds the pure steering math of the movement core: bearing
// tests, flocking forces and the ally avoidance vector. Nothing here touches
// the world; systems feed it snapshots and apply what it returns.
package flock

import (
	"math"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/spatial"
	"github.com/l1jgo/phalanx/internal/vmath"
)

// Bearing is the angle between the heading vel and the direction from pos to
// other. ok is false when either vector is degenerate.
func Bearing(pos, vel, other vmath.Vec3) (float64, bool) {
	return vmath.Angle(vel, other.Sub(pos))
}

// InView reports whether other lies inside the view cone of half-angle fov.
// Degenerate bearings are never in view.
func InView(pos, vel, other vmath.Vec3, fov float64) bool {
	a, ok := Bearing(pos, vel, other)
	return ok && math.Abs(a) <= fov
}

// Agent is the steering input of the unit being solved.
type Agent struct {
	Position    vmath.Vec3
	Velocity    vmath.Vec3
	Target      vmath.Vec3
	InFormation bool
}

// Forces are the three flocking contributions.
type Forces struct {
	Separation vmath.Vec3
	Alignment  vmath.Vec3
	Cohesion   vmath.Vec3
	Neighbors  int
}

// Sum is the total steering force.
func (f Forces) Sum() vmath.Vec3 {
	return f.Cohesion.Add(f.Separation).Add(f.Alignment)
}

// Perceived filters cell entries down to the neighbours the agent reacts to:
// same formation, inside the perception radius, inside the view cone, at most
// MaxPerceived of them. self is excluded by entity.
func Perceived(dst []spatial.Entry, a Agent, self spatial.Entry, cell []spatial.Entry, fm *component.FlockManager) []spatial.Entry {
	for _, n := range cell {
		if n.ID == self.ID || n.Formation != self.Formation {
			continue
		}
		if a.Position.Distance(n.Position) >= fm.PerceptionRadius {
			continue
		}
		if !InView(a.Position, a.Velocity, n.Position, fm.FieldOfView) {
			continue
		}
		if fm.MaxPerceived > 0 && len(dst) >= fm.MaxPerceived {
			break
		}
		dst = append(dst, n)
	}
	return dst
}

// Solve computes the flocking forces for a against an already filtered
// neighbour set.
func Solve(a Agent, neighbors []spatial.Entry, fm *component.FlockManager) Forces {
	var f Forces
	var sep, ali vmath.Vec3
	for _, n := range neighbors {
		away := a.Position.Sub(n.Position)
		d := away.Len()
		if d == 0 {
			continue
		}
		// unit vector away, weighted by 1/d
		sep = sep.Add(away.Div(d * d))
		ali = ali.Add(n.Velocity)
		f.Neighbors++
	}
	if f.Neighbors > 0 {
		cnt := float64(f.Neighbors)
		f.Separation = sep.Div(cnt).Sub(a.Velocity).Normalize().Scale(fm.SeparationBias)
		f.Alignment = ali.Div(cnt).Sub(a.Velocity).Normalize().Scale(fm.AlignmentBias)
	}
	f.Cohesion = Cohesion(a, fm)
	return f
}

// Cohesion is the seek-to-target term. Formation members pull harder, up to
// a distance of 10, loose units up to 1.
func Cohesion(a Agent, fm *component.FlockManager) vmath.Vec3 {
	to := a.Target.Sub(a.Position)
	limit := 1.0
	if a.InFormation {
		limit = 10
	}
	return to.Normalize().Scale(vmath.Clamp(to.Len(), 0, limit) * fm.CohesionBias)
}

// Avoidance pushes a unit away from its formation centroid and from the
// closest ally. Both terms fall off with distance.
func Avoidance(pos, centroid, closest vmath.Vec3, closestDist float64, fm *component.FlockManager, r *component.Rules) vmath.Vec3 {
	fromCentroid := pos.Sub(centroid)
	cd := vmath.Clamp(fromCentroid.Len(), r.CentroidDistanceMin, r.CentroidDistanceMax)
	away := fromCentroid.Normalize().Div(cd).Scale(r.CentroidWeight)

	fromAlly := pos.Sub(closest).Normalize()
	if closestDist > 0 {
		fromAlly = fromAlly.Div(closestDist)
	}
	return fromAlly.Add(away).Scale(fm.CollisionForce)
}
