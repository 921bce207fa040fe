package gallery

import "math"

// Vec2 is a 2D vector. World vectors have y pointing up, screen vectors have
// y pointing down.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Lerp moves v toward to by fraction t.
func (v Vec2) Lerp(to Vec2, t float64) Vec2 {
	return Vec2{X: lerp(v.X, to.X, t), Y: lerp(v.Y, to.Y, t)}
}

// Vec3 is used only for picking rays.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
