// Package geom provides the 2D geometry primitives shared by every layer of
// the render-command engine: a displacement vector, an affine matrix with
// composition/inverse, and the quantization helpers the caches use to turn
// continuous values into stable hash keys.
package geom

import "math"

// Vec2 represents a 2D displacement vector or position, matching the
// animation-space convention of Y-axis down, origin at top-left.
type Vec2 struct {
	X, Y float64
}

// Pt constructs a Vec2 from components.
func Pt(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by s.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Lerp linearly interpolates between v and w at t in [0,1].
func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
	}
}

// Length returns the Euclidean length of the vector.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Min returns the componentwise minimum of two vectors.
func Min(a, b Vec2) Vec2 {
	return Vec2{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// Max returns the componentwise maximum of two vectors.
func Max(a, b Vec2) Vec2 {
	return Vec2{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}
