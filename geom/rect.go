package geom

import "math"

// Rect is an axis-aligned rectangle, min-inclusive/max-exclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectFromPoints builds the bounding rectangle of the given points.
// Returns false if pts is empty.
func RectFromPoints(pts []Vec2) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	r := Rect{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r, true
}

// Width returns the rectangle width.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the rectangle height.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// IsDegenerate reports whether the rectangle has non-positive area.
func (r Rect) IsDegenerate() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		MinX: r.MinX - margin,
		MinY: r.MinY - margin,
		MaxX: r.MaxX + margin,
		MaxY: r.MaxY + margin,
	}
}

// Corners returns the four corners of the rectangle in order
// top-left, top-right, bottom-right, bottom-left.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
	}
}

// IntRect is an integer, pixel-space rectangle (used for scissors/bboxes
// once the floating-point bounds have been rounded outward).
type IntRect struct {
	MinX, MinY, MaxX, MaxY int
}

// RoundOut rounds r outward to integer pixel boundaries (floor on min,
// ceil on max), as the spec requires for clip-rect and mask-bbox rounding.
func (r Rect) RoundOut() IntRect {
	return IntRect{
		MinX: int(math.Floor(r.MinX)),
		MinY: int(math.Floor(r.MinY)),
		MaxX: int(math.Ceil(r.MaxX)),
		MaxY: int(math.Ceil(r.MaxY)),
	}
}

// Clamp restricts ir to lie within bounds.
func (ir IntRect) Clamp(bounds IntRect) IntRect {
	out := ir
	if out.MinX < bounds.MinX {
		out.MinX = bounds.MinX
	}
	if out.MinY < bounds.MinY {
		out.MinY = bounds.MinY
	}
	if out.MaxX > bounds.MaxX {
		out.MaxX = bounds.MaxX
	}
	if out.MaxY > bounds.MaxY {
		out.MaxY = bounds.MaxY
	}
	return out
}

// Intersect returns the intersection of two integer rectangles. The result
// may be degenerate (Width()/Height() <= 0) if they do not overlap.
func (ir IntRect) Intersect(other IntRect) IntRect {
	return IntRect{
		MinX: maxInt(ir.MinX, other.MinX),
		MinY: maxInt(ir.MinY, other.MinY),
		MaxX: minInt(ir.MaxX, other.MaxX),
		MaxY: minInt(ir.MaxY, other.MaxY),
	}
}

// Width returns the integer rectangle's width.
func (ir IntRect) Width() int { return ir.MaxX - ir.MinX }

// Height returns the integer rectangle's height.
func (ir IntRect) Height() int { return ir.MaxY - ir.MinY }

// IsDegenerate reports whether the rectangle has non-positive area.
func (ir IntRect) IsDegenerate() bool {
	return ir.Width() <= 0 || ir.Height() <= 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
