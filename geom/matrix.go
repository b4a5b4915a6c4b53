package geom

import "math"

// Matrix2D is a 2x3 affine transformation matrix:
//
//	x' = a*x + c*y + tx
//	y' = b*x + d*y + ty
//
// Matrix composition follows function-composition order: for A.Compose(B),
// B is applied first and then A ("apply B first, then A").
type Matrix2D struct {
	A, B, C, D, Tx, Ty float64
}

// Identity returns the identity transform.
func Identity() Matrix2D {
	return Matrix2D{A: 1, D: 1}
}

// Translate returns a pure translation matrix.
func Translate(x, y float64) Matrix2D {
	return Matrix2D{A: 1, D: 1, Tx: x, Ty: y}
}

// Scale returns a pure scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{A: sx, D: sy}
}

// Rotate returns a pure rotation matrix (radians).
func Rotate(theta float64) Matrix2D {
	s, c := math.Sin(theta), math.Cos(theta)
	return Matrix2D{A: c, B: s, C: -s, D: c}
}

// Compose returns a.Compose(b): b is applied first, then a.
func (a Matrix2D) Compose(b Matrix2D) Matrix2D {
	return Matrix2D{
		A:  a.A*b.A + a.C*b.B,
		B:  a.B*b.A + a.D*b.B,
		C:  a.A*b.C + a.C*b.D,
		D:  a.B*b.C + a.D*b.D,
		Tx: a.A*b.Tx + a.C*b.Ty + a.Tx,
		Ty: a.B*b.Tx + a.D*b.Ty + a.Ty,
	}
}

// Apply transforms a point by the matrix.
func (m Matrix2D) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.Tx,
		Y: m.B*p.X + m.D*p.Y + m.Ty,
	}
}

// ApplyVector transforms a direction (no translation).
func (m Matrix2D) ApplyVector(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y,
		Y: m.B*p.X + m.D*p.Y,
	}
}

// Determinant returns the matrix determinant.
func (m Matrix2D) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse matrix, or (zero, false) if the determinant is
// approximately zero (non-invertible within 1e-10).
func (m Matrix2D) Invert() (Matrix2D, bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-10 {
		return Matrix2D{}, false
	}
	inv := 1.0 / det
	return Matrix2D{
		A:  m.D * inv,
		B:  -m.B * inv,
		C:  -m.C * inv,
		D:  m.A * inv,
		Tx: (m.C*m.Ty - m.D*m.Tx) * inv,
		Ty: (m.B*m.Tx - m.A*m.Ty) * inv,
	}, true
}

// XBasisLength returns hypot(a,b), the length of the transform's X basis
// vector. Used to scale path-local stroke widths into viewport units.
func (m Matrix2D) XBasisLength() float64 {
	return math.Hypot(m.A, m.B)
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Matrix2D) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 && m.Tx == 0 && m.Ty == 0
}

// QuantizedMatrix is a grid-snapped matrix suitable for use as a map key:
// components are rounded to a fixed step so bitwise-near-equal matrices
// hash equal.
type QuantizedMatrix struct {
	A, B, C, D, Tx, Ty int64
}

// Quantize snaps m onto a grid with the given step, for use as a cache key.
func (m Matrix2D) Quantize(step float64) QuantizedMatrix {
	return QuantizedMatrix{
		A:  quantize(m.A, step),
		B:  quantize(m.B, step),
		C:  quantize(m.C, step),
		D:  quantize(m.D, step),
		Tx: quantize(m.Tx, step),
		Ty: quantize(m.Ty, step),
	}
}

// quantize rounds v to the nearest multiple of step and returns it as a
// fixed-point integer (so the result is a comparable map key).
func quantize(v, step float64) int64 {
	if step <= 0 {
		step = 1
	}
	return int64(math.Round(v / step))
}

// QuantizeFloat snaps an arbitrary scalar (opacity, stroke width, miter
// limit, ...) onto a grid with the given step.
func QuantizeFloat(v, step float64) int64 {
	return quantize(v, step)
}

// QuantizeFrame snaps a continuous frame value onto a grid of frameStep,
// as used by the path sampling cache key.
func QuantizeFrame(frame float64, frameStep float64) int64 {
	return quantize(frame, frameStep)
}
