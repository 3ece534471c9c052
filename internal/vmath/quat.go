package vmath

import "math"

// Quat is a unit rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// Identity is the no-op rotation.
var Identity = Quat{W: 1}

// AxisAngle builds a right-handed rotation of rad around axis.
func AxisAngle(axis Vec3, rad float64) Quat {
	n := axis.Normalize()
	if n.IsZero() {
		return Identity
	}
	s, c := math.Sincos(rad / 2)
	return Quat{n.X * s, n.Y * s, n.Z * s, c}
}

// Yaw rotates in the horizontal plane, turning +X toward +Z by rad.
func Yaw(rad float64) Quat {
	return AxisAngle(Vec3{0, -1, 0}, rad)
}

// YawDeg is Yaw in degrees.
func YawDeg(deg float64) Quat {
	return Yaw(deg * math.Pi / 180)
}

// Mul composes q then r applied after it: (q.Mul(r)).Rotate(v) == q.Rotate(r.Rotate(v)).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	if q == (Quat{}) {
		return v
	}
	// t = 2 * cross(q.xyz, v); v' = v + w*t + cross(q.xyz, t)
	u := Vec3{q.X, q.Y, q.Z}
	t := cross(u, v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(cross(u, t))
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}
