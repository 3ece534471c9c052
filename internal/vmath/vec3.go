package vmath

import "math"

// Vec3 is a float64 world-space vector. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a planar offset. Y maps to world Z.
type Vec2 struct {
	X, Y float64
}

func (a Vec3) Add(b Vec3) Vec3         { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3         { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3    { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64      { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) LenSq() float64          { return a.Dot(a) }
func (a Vec3) Len() float64            { return math.Sqrt(a.LenSq()) }
func (a Vec3) IsZero() bool            { return a.X == 0 && a.Y == 0 && a.Z == 0 }
func (a Vec3) Flat() Vec3              { return Vec3{a.X, 0, a.Z} }
func (a Vec3) WithY(y float64) Vec3    { return Vec3{a.X, y, a.Z} }
func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

// Div divides by s. A zero divisor yields the zero vector.
func (a Vec3) Div(s float64) Vec3 {
	if s == 0 {
		return Vec3{}
	}
	return Vec3{a.X / s, a.Y / s, a.Z / s}
}

// Normalize returns the unit vector of a, or zero when a has no length.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}
	}
	inv := 1 / l
	return Vec3{a.X * inv, a.Y * inv, a.Z * inv}
}

// Finite reports whether every component is a real number.
func (a Vec3) Finite() bool {
	return finite(a.X) && finite(a.Y) && finite(a.Z)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Lerp interpolates from a to b by t without clamping.
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Angle returns the angle in radians between a and b. ok is false when either
// vector has zero length, because the angle is undefined there.
func Angle(a, b Vec3) (float64, bool) {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0, false
	}
	c := Clamp(a.Dot(b)/(la*lb), -1, 1)
	ang := math.Acos(c)
	if math.IsNaN(ang) {
		return 0, false
	}
	return ang, true
}

// Floor returns the floored cell coordinates of p at the given cell size.
func Floor(p Vec3, cell float64) (int64, int64, int64) {
	return int64(math.Floor(p.X / cell)), int64(math.Floor(p.Y / cell)), int64(math.Floor(p.Z / cell))
}
